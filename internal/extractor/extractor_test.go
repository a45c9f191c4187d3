package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "listapresentes/productworker/pkg/errors"
)

func assertPrice(t *testing.T, expected string, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got, "Expected price %s", expected)
	assert.True(t, decimal.RequireFromString(expected).Equal(*got), "Expected %s, got %s", expected, got.String())
}

func TestAmazonExtractor(t *testing.T) {
	html := `
		<html><body>
			<span id="productTitle">
				Fone de Ouvido   Bluetooth
			</span>
			<span class="a-price-whole">1.299,</span>
			<img id="landingImage"
				src="https://m.media-amazon.com/images/small.jpg"
				data-old-hires="https://m.media-amazon.com/images/large.jpg">
		</body></html>`
	fetcher := newStaticFetcher(html)

	product, err := NewAmazonExtractor(fetcher).Extract(context.Background(), "https://www.amazon.com.br/dp/B0TEST")
	require.NoError(t, err)

	assert.Equal(t, "Fone de Ouvido Bluetooth", product.Title)
	assertPrice(t, "1299", product.Price)
	assert.Equal(t, "https://m.media-amazon.com/images/large.jpg", product.ImageURL)
	assert.Equal(t, "https://www.amazon.com.br/", fetcher.headers["Referer"], "Amazon headers should be sent")
}

func TestAmazonExtractor_Fallbacks(t *testing.T) {
	html := `
		<html><body>
			<h1 id="title">Cafeteira</h1>
			<span class="a-offscreen">R$ 49,90</span>
			<img class="a-dynamic-image"
				src="data:image/gif;base64,R0lGOD"
				data-a-dynamic-image='{"https://m.media-amazon.com/a.jpg":[300,300],"https://m.media-amazon.com/b.jpg":[800,800]}'>
		</body></html>`

	product, err := NewAmazonExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://www.amazon.com.br/dp/B0TEST")
	require.NoError(t, err)

	assert.Equal(t, "Cafeteira", product.Title)
	assertPrice(t, "49.90", product.Price)
	assert.Equal(t, "https://m.media-amazon.com/b.jpg", product.ImageURL, "Widest dynamic image should win")
}

func TestAmazonExtractor_MalformedDynamicImageFallsBackToSrc(t *testing.T) {
	html := `
		<html><body>
			<span id="productTitle">Chaleira</span>
			<img id="landingImage" data-a-dynamic-image="{bad json" src="https://img.example/a.jpg">
			<div id="imageBlock"><img src="https://img.example/other.jpg"></div>
		</body></html>`

	product, err := NewAmazonExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://www.amazon.com.br/dp/B0TEST")
	require.NoError(t, err)

	assert.Equal(t, "https://img.example/a.jpg", product.ImageURL, "The same element's src should be tried")
}

func TestMercadoLivreExtractor(t *testing.T) {
	html := `
		<html><body>
			<h1 class="ui-pdp-title">Cafeteira Expresso</h1>
			<span class="andes-money-amount__fraction">459</span>
			<figure class="ui-pdp-gallery__figure">
				<img data-zoom="https://http2.mlstatic.com/zoom.jpg" src="https://http2.mlstatic.com/small.jpg">
			</figure>
		</body></html>`

	product, err := NewMercadoLivreExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://produto.mercadolivre.com.br/MLB-1")
	require.NoError(t, err)

	assert.Equal(t, "Cafeteira Expresso", product.Title)
	assertPrice(t, "459", product.Price)
	assert.Equal(t, "https://http2.mlstatic.com/zoom.jpg", product.ImageURL)
}

func TestKabumExtractor(t *testing.T) {
	html := `
		<html><head>
			<meta property="og:image" content="/img/teclado.jpg">
		</head><body>
			<h1 class="sc-product-title">Teclado Mecânico</h1>
			<span class="price-final">R$ 199,90</span>
		</body></html>`

	product, err := NewKabumExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://www.kabum.com.br/produto/1")
	require.NoError(t, err)

	assert.Equal(t, "Teclado Mecânico", product.Title)
	assertPrice(t, "199.90", product.Price)
	assert.Equal(t, "https://www.kabum.com.br/img/teclado.jpg", product.ImageURL, "Relative image should be resolved")
}

func TestGenericExtractor_OpenGraphOnly(t *testing.T) {
	html := `
		<html><head>
			<meta property="og:title" content="Blue Mug">
			<meta property="og:image" content="https://cdn.example/mug.jpg">
		</head><body></body></html>`

	product, err := NewGenericExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://www.unknownstore.example/item/123")
	require.NoError(t, err)

	assert.Equal(t, "Blue Mug", product.Title)
	assert.Nil(t, product.Price)
	assert.Equal(t, "https://cdn.example/mug.jpg", product.ImageURL)
}

func TestGenericExtractor_Fallbacks(t *testing.T) {
	html := `
		<html><head>
			<title>Caneca Azul | Loja Exemplo</title>
			<meta property="og:image" content="data:image/png;base64,iVBORw0KGgo">
			<meta name="twitter:image" content="/static/caneca.png">
		</head><body>
			<div class="product-price">Por apenas R$ 89,90 à vista</div>
		</body></html>`

	product, err := NewGenericExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://loja.example/caneca")
	require.NoError(t, err)

	assert.Equal(t, "Caneca Azul", product.Title, "Store suffix should be stripped")
	assertPrice(t, "89.90", product.Price)
	assert.Equal(t, "https://loja.example/static/caneca.png", product.ImageURL)
}

func TestGenericExtractor_PriceSources(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"Product meta", `<meta property="product:price:amount" content="129,90">`, "129.90"},
		{"Microdata", `<meta itemprop="price" content="75,00">`, "75"},
		{"Reais suffix", `<span class="valor">1.500,00 reais</span>`, "1500"},
		{"Strong element", `<strong class="PRECO">R$1.049,99</strong>`, "1049.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><head><title>Produto</title></head><body>` + tt.body + `</body></html>`
			product, err := NewGenericExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://loja.example/p")
			require.NoError(t, err)
			assertPrice(t, tt.expected, product.Price)
		})
	}
}

func TestGenericExtractor_IgnoresUnmarkedPrices(t *testing.T) {
	html := `<html><body><h1>Produto</h1><span class="info">R$ 10,00</span></body></html>`

	product, err := NewGenericExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://loja.example/p")
	require.NoError(t, err)
	assert.Nil(t, product.Price)
}

func TestCleanGenericTitle(t *testing.T) {
	assert.Equal(t, "Produto X", cleanGenericTitle("Produto X - Loja"))
	assert.Equal(t, "Blue Mug", cleanGenericTitle("  Blue Mug  "))

	long := strings.Repeat("é", 250)
	assert.Equal(t, 200, len([]rune(cleanGenericTitle(long))))
}

func TestSiteExtractor_ParsingFailureKeepsPartialData(t *testing.T) {
	html := `<html><body><span class="a-price-whole">59,90</span></body></html>`

	product, err := NewAmazonExtractor(newStaticFetcher(html)).Extract(context.Background(), "https://www.amazon.com.br/dp/B0TEST")
	require.Error(t, err)

	assert.Equal(t, apperrors.ErrorTypeParsing, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "could not extract title from Amazon")
	assert.Contains(t, err.Error(), "price=59.90")
	assert.Empty(t, product.Title)
	assertPrice(t, "59.90", product.Price)
}

func TestSiteExtractor_FetchFailureIsNetwork(t *testing.T) {
	fetcher := newStaticFetcher("")
	fetcher.err = errors.New("connection refused")

	_, err := NewKabumExtractor(fetcher).Extract(context.Background(), "https://www.kabum.com.br/produto/1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNetwork, apperrors.TypeOf(err))
	assert.ErrorIs(t, err, fetcher.err)
}

func TestWidestDynamicImage(t *testing.T) {
	assert.Equal(t, "https://a/2.jpg", widestDynamicImage(`{"https://a/1.jpg":[100,100],"https://a/2.jpg":[500,400]}`))
	assert.Equal(t, "https://a/1.jpg", widestDynamicImage(`{"https://a/2.jpg":[100,100],"https://a/1.jpg":[100,100]}`))
	assert.Equal(t, "", widestDynamicImage(`{not json`))
}
