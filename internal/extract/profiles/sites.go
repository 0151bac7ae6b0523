package profiles

import "github.com/ppiankov/vehiclex/internal/model"

// GenericProfile is the fallback profile for unknown sites
type GenericProfile struct {
	selectors model.Selectors
}

// NewGenericProfile creates a fallback profile over the given selectors
func NewGenericProfile(selectors model.Selectors) *GenericProfile {
	return &GenericProfile{selectors: selectors}
}

// Name returns the profile name
func (p *GenericProfile) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback profile)
func (p *GenericProfile) CanHandle(pageURL string) bool {
	return true
}

// Selectors returns the configured selectors
func (p *GenericProfile) Selectors() model.Selectors {
	return p.selectors
}

// EurocarProfile matches the eurocarveiculos.com stock pages
type EurocarProfile struct{}

// NewEurocarProfile creates the eurocarveiculos.com profile
func NewEurocarProfile() *EurocarProfile {
	return &EurocarProfile{}
}

// Name returns the profile name
func (p *EurocarProfile) Name() string {
	return "eurocar"
}

// CanHandle checks the page host
func (p *EurocarProfile) CanHandle(pageURL string) bool {
	return hostMatches(pageURL, "eurocarveiculos.com")
}

// Selectors returns the layout used by the site's detail and stock pages
func (p *EurocarProfile) Selectors() model.Selectors {
	return model.Selectors{
		InfoContainer: "div.col-md-3, div.col-sm-3, .detalhes-veiculo li",
		InfoLabel:     "strong, b, h4, h5",
		InfoValue:     "span, p",
		OptionItems:   "div.opcionais li, ul.list-unstyled.lista-opcionais li",
		Description:   []string{"div.descricao-veiculo", "div#descricao"},
		Photos:        "div.carousel-inner div.item img, ul.fotos-veiculo-miniaturas img, #fotoVeiculo img",

		ListingCard: "div.carro.col-md-4.col-result-pact",
		CardTitle:   "h2.tit-marca a.big-inf2",
		CardPrice:   []string{"h3.preco span#valor_promo_veic", "h3.preco-antigo span#valor_veic, h3.preco span"},
		CardInfo:    "div.white-inf-rs.info-pact span.text-none.grey-text10",
		CardImage:   "div.carro-img img.img-responsive.lazy",
	}
}
