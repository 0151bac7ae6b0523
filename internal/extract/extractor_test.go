package extract

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, htmlContent string) *document.Document {
	t.Helper()
	doc, err := document.ParseString(htmlContent, "https://eurocarveiculos.com/carro/onix-lt")
	require.NoError(t, err)
	return doc
}

const detailPage = `
<html>
<body>
	<div class="row">
		<div class="col-md-3"><strong>Preço</strong><span>R$ 72.900,00</span></div>
		<div class="col-md-3"><strong>Ano/Modelo</strong><span>2019/2020</span></div>
		<div class="col-md-3"><strong>Quilometragem</strong><span>38.000 km</span></div>
		<div class="col-md-3"><strong>Cor</strong><span>Prata metálico</span></div>
		<div class="col-md-3"><strong>Câmbio</strong><span>Manual</span></div>
		<div class="col-md-3"><strong>Combustível</strong><span>Gasolina</span></div>
		<div class="col-md-3"><strong>Portas</strong> 4</div>
	</div>
	<div class="descricao-veiculo"><p>Único dono.</p><p>Revisões em dia.</p></div>
	<div class="opcionais">
		<ul>
			<li>Ar condicionado</li>
			<li>  </li>
			<li>Direção   hidráulica</li>
			<li>Ar condicionado</li>
		</ul>
	</div>
	<p>Motor flex disponível em outras versões, cor branco sob encomenda.</p>
</body>
</html>`

func TestExtract_StructuralPage(t *testing.T) {
	e := New(model.DefaultConfig())
	got := e.Extract(parse(t, detailPage))

	want := model.VehicleDetails{
		Price:        "72900.00",
		Year:         "2019/2020",
		Mileage:      "38000",
		Color:        "Prata",
		Transmission: "Manual",
		Fuel:         "GASOLINA",
		DoorCount:    "4",
		Options:      []string{"Ar condicionado", "Direção hidráulica", "Ar condicionado"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_LabeledTextScenario(t *testing.T) {
	page := `
	<html><body>
		<div class="valor-destaque"><h3>R$ 68.500,00</h3></div>
		<p>Ano: 2020/2021 ... KM: 45.230 ... Câmbio: Automático ... Combustível: Flex ... Cor: Branco ... Portas: 4</p>
	</body></html>`

	got := New(model.DefaultConfig()).Extract(parse(t, page))

	want := model.VehicleDetails{
		Price:        "68500.00",
		Year:         "2020/2021",
		Mileage:      "45230",
		Color:        "Branco",
		Transmission: "Automático",
		Fuel:         "FLEX",
		DoorCount:    "4",
		Options:      []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Degenerate(t *testing.T) {
	e := New(model.DefaultConfig())
	want := model.DefaultDetails()

	for name, doc := range map[string]*document.Document{
		"empty html": parse(t, ""),
		"empty tree": document.FromNode(nil),
	} {
		t.Run(name, func(t *testing.T) {
			got := e.Extract(doc)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, "0.00", got.Price)
			assert.NotNil(t, got.Options)
		})
	}
}

func TestExtractDocument_Unavailable(t *testing.T) {
	details, err := New(nil).ExtractDocument(nil)
	require.ErrorIs(t, err, document.ErrUnavailable)
	assert.Equal(t, model.DefaultDetails(), details)
}

func TestExtract_StructuralWinsOverFullText(t *testing.T) {
	page := `
	<div class="col-md-3"><strong>Cor</strong><span>Preto</span></div>
	<p>Veja também nosso sedã branco.</p>`
	doc := parse(t, page)
	e := New(model.DefaultConfig())

	color := fieldByName(t, e, FieldColor)
	fullText := NewFullTextStrategy(e.Normalizer()).Attempt(doc, color)
	require.True(t, fullText.OK())
	require.Equal(t, "Branco", fullText.Value)

	attempt := e.Resolve(doc, color)
	assert.Equal(t, StrategyStructural, attempt.Strategy)
	assert.Equal(t, "Preto", attempt.Value)
	assert.Equal(t, "Preto", e.Extract(doc).Color)
}

func TestExtract_FieldIndependence(t *testing.T) {
	e := New(model.DefaultConfig())
	full := e.Extract(parse(t, detailPage))

	withoutYear := strings.Replace(detailPage,
		`<div class="col-md-3"><strong>Ano/Modelo</strong><span>2019/2020</span></div>`, "", 1)
	partial := e.Extract(parse(t, withoutYear))

	assert.NotEqual(t, full.Year, partial.Year)
	full.Year, partial.Year = "", ""
	if diff := cmp.Diff(full, partial); diff != "" {
		t.Errorf("removing the year block changed other fields (-full +partial):\n%s", diff)
	}
}

func TestExtract_CustomVocabulary(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Vocabulary.Colors = []string{"laranja"}
	cfg.Vocabulary.Fuels = []model.FuelKeyword{{Keyword: "elétrico", Label: "ELETRICO"}}

	doc := parse(t, `<p>Cor: Laranja</p><p>Combustível: Elétrico</p>`)
	got := New(cfg).Extract(doc)

	assert.Equal(t, "Laranja", got.Color)
	assert.Equal(t, "ELETRICO", got.Fuel)
}

func TestExtract_CustomAliases(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Aliases = map[string][]string{"mileage": {"rodagem"}}

	got := New(cfg).Extract(parse(t, `<p>Rodagem - 12.500</p><p>Ano 2018</p>`))
	assert.Equal(t, "12500", got.Mileage)
	assert.Equal(t, "2018", got.Year, "fields without overrides keep default aliases")
}

func TestExtract_ConcurrentUse(t *testing.T) {
	e := New(model.DefaultConfig())
	doc := parse(t, detailPage)
	want := e.Extract(doc)

	done := make(chan model.VehicleDetails, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- e.Extract(doc) }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}

func TestResolve_ReportsLastAttemptWhenUnresolved(t *testing.T) {
	e := New(model.DefaultConfig())
	attempt := e.Resolve(parse(t, `<p>Nada aqui</p>`), fieldByName(t, e, FieldDoorCount))
	assert.False(t, attempt.OK())
	assert.Equal(t, StrategyFullText, attempt.Strategy)
}

func TestOptions(t *testing.T) {
	e := New(model.DefaultConfig())

	got := e.Options(parse(t, `
		<ul class="list-unstyled lista-opcionais">
			<li>Airbag</li><li>Freios ABS</li><li></li><li>Airbag</li>
		</ul>`))
	assert.Equal(t, []string{"Airbag", "Freios ABS", "Airbag"}, got)

	assert.Equal(t, []string{}, e.Options(parse(t, `<ul><li>Menu</li></ul>`)))
}

func TestDescription(t *testing.T) {
	e := New(model.DefaultConfig())

	assert.Equal(t, "Único dono.\nRevisões em dia.", e.Description(parse(t, detailPage)))
	assert.Equal(t, "Carro de garagem.", e.Description(parse(t, `<div id="descricao"> Carro de   garagem. </div>`)))
	assert.Equal(t, "", e.Description(parse(t, `<p>sem descrição</p>`)))
}

func TestPhotos(t *testing.T) {
	e := New(model.DefaultConfig())
	page := `
	<div class="carousel-inner">
		<div class="item"><img src="/fotos/1.jpg"></div>
		<div class="item"><img src="data:image/gif;base64,R0lGOD" data-src="//cdn.example.com/2.jpg"></div>
		<div class="item"><img src="/fotos/1.jpg"></div>
	</div>
	<ul class="fotos-veiculo-miniaturas"><li><img src="data:image/png;base64,AAAA"></li></ul>
	<div id="fotoVeiculo"><img data-src="https://img.example.com/3.jpg"></div>`

	got := e.Photos(parse(t, page))
	assert.Equal(t, []string{
		"https://eurocarveiculos.com/fotos/1.jpg",
		"https://cdn.example.com/2.jpg",
		"https://img.example.com/3.jpg",
	}, got)
}

func TestListingCards(t *testing.T) {
	page := `
	<div class="carro col-md-4 col-result-pact">
		<div class="carro-img"><img class="img-responsive lazy" src="data:image/gif;base64,R0l" data-src="/img/onix.jpg"></div>
		<h2 class="tit-marca"><a class="big-inf2" href="/carro/onix-lt-2020">Chevrolet Onix LT</a></h2>
		<h3 class="preco"><span id="valor_promo_veic">R$ 68.500,00</span></h3>
		<div class="white-inf-rs info-pact">
			<span class="text-none grey-text10">2020/2021</span>
			<span class="text-none grey-text10">45.230 km</span>
		</div>
	</div>
	<div class="carro col-md-4 col-result-pact">
		<h2 class="tit-marca"><a class="big-inf2" href="https://eurocarveiculos.com/carro/gol">VW Gol</a></h2>
		<h3 class="preco"><span>39.900,00</span></h3>
		<div class="white-inf-rs info-pact"><span class="text-none grey-text10">2015 - 98.000 km</span></div>
	</div>
	<div class="carro col-md-4 col-result-pact"><h3 class="preco"><span>R$ 1,00</span></h3></div>`

	doc, err := document.ParseString(page, "https://eurocarveiculos.com/multipla")
	require.NoError(t, err)

	cards := New(model.DefaultConfig()).ListingCards(doc)
	want := []model.ListingCard{
		{
			Name:         "Chevrolet Onix LT",
			LinkDetails:  "https://eurocarveiculos.com/carro/onix-lt-2020",
			MainImageURL: "https://eurocarveiculos.com/img/onix.jpg",
			Price:        "68500.00",
			Year:         "2020/2021",
			Mileage:      "45230",
		},
		{
			Name:        "VW Gol",
			LinkDetails: "https://eurocarveiculos.com/carro/gol",
			Price:       "39900.00",
			Year:        "2015",
			Mileage:     "98000",
		},
	}
	if diff := cmp.Diff(want, cards); diff != "" {
		t.Errorf("ListingCards() mismatch (-want +got):\n%s", diff)
	}
}

func TestCardPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R$ 68.500,00", "68500.00"},
		{"39.900,00", "39900.00"},
		{"39.900", "39900.00"},
		{"R$ 72.900", "72900.00"},
		{"R$ 0,50", "0.50"},
		{"Consulte", "0.00"},
		{"", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cardPrice(tt.in))
		})
	}
}

func TestTrace_TrailingUnitsFallThroughToFullText(t *testing.T) {
	details, traces := New(nil).Trace(parse(t, `<ul><li>45.230 km</li><li>4 portas</li><li>Ano 2020</li></ul>`))

	assert.Equal(t, "45230", details.Mileage)
	assert.Equal(t, "4", details.DoorCount)
	assert.Equal(t, "2020", details.Year)

	mileage := traces[2]
	assert.Equal(t, FieldMileage, mileage.Field)
	assert.Equal(t, StrategyFullText, mileage.Strategy)
	doors := traces[6]
	assert.Equal(t, FieldDoorCount, doors.Field)
	assert.Equal(t, StrategyFullText, doors.Strategy)
}

func TestExtract_InlineMarkupInsideTokens(t *testing.T) {
	page := `
	<p>Preço: <span>R$</span><b>68.500</b>,00</p>
	<p>Cor: <b>Pra</b>ta</p>`

	got := New(model.DefaultConfig()).Extract(parse(t, page))
	assert.Equal(t, "68500.00", got.Price)
	assert.Equal(t, "Prata", got.Color)
}

func fieldByName(t *testing.T, e *Extractor, name string) FieldSpec {
	t.Helper()
	for _, f := range e.Fields() {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("unknown field %q", name)
	return FieldSpec{}
}

func TestTrace(t *testing.T) {
	page := `
	<div class="col-md-3"><strong>Cor</strong><span>Preto</span></div>
	<p>Ano: 2018</p>
	<p>Oferta R$ 45.000,00</p>`

	details, traces := New(model.DefaultConfig()).Trace(parse(t, page))

	want := []model.FieldTrace{
		{Field: FieldPrice, Resolved: true, Strategy: StrategyFullText, Raw: "R$ 45.000,00", Value: "45000.00"},
		{Field: FieldYear, Resolved: true, Strategy: StrategyLabeled, Raw: "2018", Value: "2018"},
		{Field: FieldMileage},
		{Field: FieldColor, Resolved: true, Strategy: StrategyStructural, Raw: "Preto", Value: "Preto"},
		{Field: FieldTransmission},
		{Field: FieldFuel},
		{Field: FieldDoorCount},
	}
	if diff := cmp.Diff(want, traces); diff != "" {
		t.Errorf("Trace() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "45000.00", details.Price)

	_, traces = New(nil).Trace(nil)
	assert.Empty(t, traces)
}
