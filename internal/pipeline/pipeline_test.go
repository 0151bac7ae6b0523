package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/vehiclex/internal/cache"
	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/model"
)

const onixPage = `
<html><body>
	<div class="col-md-3"><strong>Preço</strong><span>R$ 68.500,00</span></div>
	<div class="col-md-3"><strong>Ano</strong><span>2020/2021</span></div>
	<div class="col-md-3"><strong>Km</strong><span>45.230 km</span></div>
	<div class="col-md-3"><strong>Cor</strong><span>Branco</span></div>
	<div class="col-md-3"><strong>Câmbio</strong><span>Automático</span></div>
	<div class="col-md-3"><strong>Combustível</strong><span>Flex</span></div>
	<div class="col-md-3"><strong>Portas</strong><span>4</span></div>
	<div class="opcionais"><ul><li>Airbag</li><li>Freios ABS</li></ul></div>
	<div class="descricao-veiculo"><p>Único dono & revisado.</p></div>
	<div class="carousel-inner"><div class="item"><img src="/fotos/onix-1.jpg"></div></div>
</body></html>`

const golPage = `<html><body><p>Ano: 2015</p><p>Combustível: Gasolina</p></body></html>`

const listingPage = `
<html><body>
<div class="carro col-md-4 col-result-pact">
	<h2 class="tit-marca"><a class="big-inf2" href="/carro/onix-lt-2020">Chevrolet Onix LT</a></h2>
	<h3 class="preco"><span id="valor_promo_veic">R$ 69.900,00</span></h3>
	<div class="white-inf-rs info-pact">
		<span class="text-none grey-text10">2020/2021</span>
		<span class="text-none grey-text10">45.230 km</span>
	</div>
</div>
<div class="carro col-md-4 col-result-pact">
	<h2 class="tit-marca"><a class="big-inf2" href="/carro/gol-1-0">VW Gol</a></h2>
	<h3 class="preco"><span>R$ 39.900,00</span></h3>
	<div class="white-inf-rs info-pact"><span class="text-none grey-text10">2015 - 98.000 km</span></div>
</div>
<div class="carro col-md-4 col-result-pact">
	<h2 class="tit-marca"><a class="big-inf2" href="/carro/hb20">Hyundai HB20</a></h2>
	<h3 class="preco"><span>R$ 55.000,00</span></h3>
</div>
</body></html>`

func writePage(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Concurrency.Workers = 2
	return cfg
}

func TestExtractListing(t *testing.T) {
	path := writePage(t, t.TempDir(), "onix.html", onixPage)
	p := NewPipeline(testConfig())

	listing, err := p.ExtractListing(context.Background(), path, "https://eurocarveiculos.com/carro/onix-lt-2020")
	require.NoError(t, err)

	want := model.Listing{
		LinkDetails: "https://eurocarveiculos.com/carro/onix-lt-2020",
		VehicleDetails: model.VehicleDetails{
			Price:        "68500.00",
			Year:         "2020/2021",
			Mileage:      "45230",
			Color:        "Branco",
			Transmission: "Automático",
			Fuel:         "FLEX",
			DoorCount:    "4",
			Options:      []string{"Airbag", "Freios ABS"},
		},
		Description: "Único dono & revisado.",
		Photos:      []string{"https://eurocarveiculos.com/fotos/onix-1.jpg"},
	}
	if diff := cmp.Diff(want, *listing); diff != "" {
		t.Errorf("ExtractListing() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPage_ProfileSelection(t *testing.T) {
	path := writePage(t, t.TempDir(), "onix.html", onixPage)
	p := NewPipeline(testConfig())

	result, err := p.ExtractPage(context.Background(), path, "https://www.eurocarveiculos.com/carro/onix")
	require.NoError(t, err)
	assert.Equal(t, "eurocar", result.Profile)

	result, err = p.ExtractPage(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "generic", result.Profile)
	assert.Equal(t, []string{"/fotos/onix-1.jpg"}, result.Photos, "no base URL leaves links relative")
}

func TestExtractPage_BaseURLFromConfig(t *testing.T) {
	path := writePage(t, t.TempDir(), "onix.html", onixPage)
	cfg := testConfig()
	cfg.Page.BaseURL = "https://eurocarveiculos.com/"

	result, err := NewPipeline(cfg).ExtractPage(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "eurocar", result.Profile)
	assert.Equal(t, []string{"https://eurocarveiculos.com/fotos/onix-1.jpg"}, result.Photos)
}

func TestExtractPage_Unavailable(t *testing.T) {
	p := NewPipeline(testConfig())

	_, err := p.ExtractPage(context.Background(), filepath.Join(t.TempDir(), "missing.html"), "")
	require.ErrorIs(t, err, document.ErrUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writePage(t, t.TempDir(), "onix.html", onixPage)
	_, err = p.ExtractPage(ctx, path, "")
	require.ErrorIs(t, err, document.ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractPage_Cache(t *testing.T) {
	path := writePage(t, t.TempDir(), "onix.html", onixPage)
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	p := NewPipelineWithCache(testConfig(), c)

	first, err := p.ExtractPage(context.Background(), path, "")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, c.Len())

	second, err := p.ExtractPage(context.Background(), path, "")
	require.NoError(t, err)
	assert.True(t, second.Cached)

	first.Cached = second.Cached
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached result differs (-fresh +cached):\n%s", diff)
	}

	// A different URL selects a different key
	_, err = p.ExtractPage(context.Background(), path, "https://eurocarveiculos.com/carro/onix")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestExtractHTML_IgnoresCorruptCacheEntry(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	p := NewPipelineWithCache(testConfig(), c)
	html := []byte(golPage)

	require.NoError(t, c.Set(cache.Key("generic", "", html), []byte("{"), 0))

	result, err := p.ExtractHTML(html, "")
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, "2015", result.Details.Year)
	assert.Equal(t, "GASOLINA", result.Details.Fuel)
}

func TestLoader_MaxBytes(t *testing.T) {
	path := writePage(t, t.TempDir(), "big.html", strings.Repeat("a", 100))

	_, err := NewLoader(10).Load(context.Background(), path, "")
	require.ErrorIs(t, err, document.ErrUnavailable)

	loaded, err := NewLoader(100).Load(context.Background(), path, "")
	require.NoError(t, err)
	assert.Len(t, loaded.HTML, 100)
	assert.Equal(t, "big", loaded.Subject)

	loaded, err = NewLoader(0).Load(context.Background(), path, "https://eurocarveiculos.com/carro/onix-lt_2020")
	require.NoError(t, err)
	assert.Equal(t, "onix lt 2020", loaded.Subject)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://eurocarveiculos.com/carro/onix-lt-2020", "onix-lt-2020"},
		{"https://eurocarveiculos.com/carro/onix-lt-2020/", "onix-lt-2020"},
		{"https://eurocarveiculos.com/carro/onix.html?ref=home", "onix"},
		{"/carro/gol", "gol"},
		{"https://eurocarveiculos.com/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestStock(t *testing.T) {
	dir := t.TempDir()
	listingPath := writePage(t, dir, "multipla.html", listingPage)
	detailsDir := filepath.Join(dir, "detalhes")
	require.NoError(t, os.Mkdir(detailsDir, 0755))
	writePage(t, detailsDir, "onix-lt-2020.html", onixPage)
	writePage(t, detailsDir, "gol-1-0", golPage)

	p := NewPipeline(testConfig())
	results, err := p.Stock(context.Background(), listingPath, "https://eurocarveiculos.com/multipla", detailsDir)
	require.NoError(t, err)
	require.Len(t, results, 3)

	onix := results[0].Listing
	require.NoError(t, results[0].Error)
	assert.Equal(t, "Chevrolet Onix LT", onix.Name)
	assert.Equal(t, "68500.00", onix.Price, "detail price wins over card price")
	assert.Equal(t, "Branco", onix.Color)
	assert.Equal(t, []string{"https://eurocarveiculos.com/fotos/onix-1.jpg"}, onix.Photos)

	gol := results[1].Listing
	require.NoError(t, results[1].Error)
	assert.Equal(t, "VW Gol", gol.Name)
	assert.Equal(t, "39900.00", gol.Price, "card price fills the missing detail price")
	assert.Equal(t, "2015", gol.Year)
	assert.Equal(t, "98000", gol.Mileage)
	assert.Equal(t, "GASOLINA", gol.Fuel)

	hb20 := results[2]
	assert.True(t, errors.Is(hb20.Error, ErrDetailMissing))
	assert.Equal(t, "Hyundai HB20", hb20.Listing.Name)
	assert.Equal(t, "55000.00", hb20.Listing.Price)
	assert.Equal(t, []string{}, hb20.Listing.Options)
	assert.Equal(t, []string{}, hb20.Listing.Photos)
}

func TestStock_MissingListing(t *testing.T) {
	_, err := NewPipeline(testConfig()).Stock(context.Background(), filepath.Join(t.TempDir(), "none.html"), "", "")
	require.ErrorIs(t, err, document.ErrUnavailable)
}

func TestRenderer(t *testing.T) {
	listing := model.NewListing(model.ListingCard{Name: "Onix <LT>"}, model.DefaultDetails(), "Único dono", nil)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(4).Write(&buf, []model.Listing{listing}))

	out := buf.String()
	assert.Contains(t, out, `"name": "Onix <LT>"`)
	assert.Contains(t, out, `"description": "Único dono"`)
	assert.Contains(t, out, "\n        \"price\": \"0.00\"")
	assert.Contains(t, out, `"photos": []`)

	buf.Reset()
	require.NoError(t, NewRenderer(0).Write(&buf, map[string]string{"a": "b"}))
	assert.Equal(t, "{\"a\":\"b\"}\n", buf.String())
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, NewRenderer(2).RenderJSON([]string{"x"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"x\"\n]\n", string(data))

	assert.Error(t, NewRenderer(2).RenderJSON([]string{"x"}, filepath.Join(t.TempDir(), "no", "dir.json")))
}

func TestReport(t *testing.T) {
	path := writePage(t, t.TempDir(), "onix.html", onixPage)

	report, err := NewPipeline(testConfig()).Report(context.Background(), path, "https://eurocarveiculos.com/carro/onix")
	require.NoError(t, err)

	assert.Equal(t, path, report.Path)
	assert.Equal(t, "eurocar", report.Profile)
	assert.Equal(t, 2, report.Options)
	require.Len(t, report.Fields, 7)
	for _, f := range report.Fields {
		assert.True(t, f.Resolved, f.Field)
		assert.Equal(t, "structural", f.Strategy, f.Field)
	}
	assert.Equal(t, 100, report.Score.Index)
	assert.Equal(t, "high", report.Score.Confidence)
}
