package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds every tunable of the extraction engine and the CLI around it
type Config struct {
	Vocabulary  Vocabulary          `yaml:"vocabulary" mapstructure:"vocabulary"`
	Aliases     map[string][]string `yaml:"aliases" mapstructure:"aliases"` // field name -> label aliases
	Selectors   Selectors           `yaml:"selectors" mapstructure:"selectors"`
	Page        PageConfig          `yaml:"page" mapstructure:"page"`
	Cache       CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig   `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig        `yaml:"output" mapstructure:"output"`
}

// Vocabulary holds the controlled vocabularies used by color and fuel fields
type Vocabulary struct {
	Colors []string      `yaml:"colors" mapstructure:"colors"` // Lower-case, matched in order
	Fuels  []FuelKeyword `yaml:"fuels" mapstructure:"fuels"`   // Matched in order, first wins
}

// FuelKeyword maps a keyword found in page text to its canonical label
type FuelKeyword struct {
	Keyword string `yaml:"keyword" mapstructure:"keyword"`
	Label   string `yaml:"label" mapstructure:"label"`
}

// Selectors are the CSS selectors used to locate page regions
type Selectors struct {
	InfoContainer string   `yaml:"info_container" mapstructure:"info_container"`
	InfoLabel     string   `yaml:"info_label" mapstructure:"info_label"`
	InfoValue     string   `yaml:"info_value" mapstructure:"info_value"`
	OptionItems   string   `yaml:"option_items" mapstructure:"option_items"`
	Description   []string `yaml:"description" mapstructure:"description"` // Tried in order
	Photos        string   `yaml:"photos" mapstructure:"photos"`

	ListingCard string   `yaml:"listing_card" mapstructure:"listing_card"`
	CardTitle   string   `yaml:"card_title" mapstructure:"card_title"`
	CardPrice   []string `yaml:"card_price" mapstructure:"card_price"` // Tried in order
	CardInfo    string   `yaml:"card_info" mapstructure:"card_info"`
	CardImage   string   `yaml:"card_image" mapstructure:"card_image"`
}

// PageConfig controls how saved pages are read
type PageConfig struct {
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`   // Used to resolve relative links
	MaxBytes int64  `yaml:"max_bytes" mapstructure:"max_bytes"` // Max bytes read per page
}

// CacheConfig controls the extraction result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Indent  int  `yaml:"indent" mapstructure:"indent"`
}

// DefaultVocabulary returns the built-in color and fuel tables
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Colors: []string{
			"branco", "preto", "prata", "cinza", "vermelho", "azul", "verde",
			"bege", "marrom", "amarelo", "vinho", "bordô", "grafite",
		},
		Fuels: []FuelKeyword{
			{Keyword: "flex", Label: "FLEX"},
			{Keyword: "diesel", Label: "DIESEL"},
			{Keyword: "gasolina", Label: "GASOLINA"},
			{Keyword: "etanol", Label: "ETANOL"},
			{Keyword: "álcool", Label: "ETANOL"},
			{Keyword: "alcool", Label: "ETANOL"},
		},
	}
}

// DefaultAliases returns the label aliases for each field, in match order
func DefaultAliases() map[string][]string {
	return map[string][]string{
		"price":        {"preço", "preco", "valor"},
		"year":         {"ano"},
		"mileage":      {"quilometragem", "km", "quilômetros", "quilometros"},
		"color":        {"cor"},
		"transmission": {"câmbio", "cambio", "transmissão", "transmissao"},
		"fuel":         {"combustível", "combustivel"},
		"doorCount":    {"portas"},
	}
}

// DefaultSelectors returns selectors covering the known page revisions
func DefaultSelectors() Selectors {
	return Selectors{
		InfoContainer: "div.col-md-3, div.col-sm-3, div.col-lg-3, .ficha-tecnica li, .detalhes-veiculo li",
		InfoLabel:     "strong, b, h4, h5, dt, .label",
		InfoValue:     "span, p, dd, .valor",
		OptionItems:   "div.opcionais li, ul.lista-opcionais li, ul.coluna-opcionais li",
		Description:   []string{"div.descricao-veiculo", "div#descricao"},
		Photos:        "div.carousel-inner div.item img, ul.fotos-veiculo-miniaturas img, #fotoVeiculo img",

		ListingCard: "div.carro.col-md-4.col-result-pact",
		CardTitle:   "h2.tit-marca a.big-inf2",
		CardPrice:   []string{"h3.preco span#valor_promo_veic", "h3.preco-antigo span#valor_veic, h3.preco span"},
		CardInfo:    "div.white-inf-rs.info-pact span.text-none.grey-text10",
		CardImage:   "div.carro-img img.img-responsive.lazy",
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	cacheDir := ".vehiclex-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".vehiclex", "cache")
	}

	return &Config{
		Vocabulary: DefaultVocabulary(),
		Aliases:    DefaultAliases(),
		Selectors:  DefaultSelectors(),
		Page: PageConfig{
			MaxBytes: 5_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Indent: 4,
		},
	}
}
