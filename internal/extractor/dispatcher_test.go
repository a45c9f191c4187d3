package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_Select(t *testing.T) {
	d := NewDispatcher(newStaticFetcher(""))

	tests := []struct {
		url       string
		expected  string
		isGeneric bool
	}{
		{"https://www.amazon.com.br/dp/B0TEST", "Amazon", false},
		{"https://AMAZON.COM/gp/product/1", "Amazon", false},
		{"https://produto.mercadolivre.com.br/MLB-123", "MercadoLivre", false},
		{"https://articulo.mercadolibre.com.ar/MLA-1", "MercadoLivre", false},
		{"https://www.kabum.com.br/produto/1", "Kabum", false},
		{"https://www.unknownstore.example/item/123", "Generic", true},
		{"https://amazon.example/item", "Generic", true},
		{"::not a url", "Generic", true},
		{"", "Generic", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			ext, isGeneric := d.Select(tt.url)
			assert.Equal(t, tt.expected, ext.Name())
			assert.Equal(t, tt.isGeneric, isGeneric)

			// Deterministic
			again, againGeneric := d.Select(tt.url)
			assert.Equal(t, ext.Name(), again.Name())
			assert.Equal(t, isGeneric, againGeneric)
		})
	}
}

func TestDispatcher_SelectReturnsFreshExtractor(t *testing.T) {
	d := NewDispatcher(newStaticFetcher(""))

	first, _ := d.Select("https://www.kabum.com.br/produto/1")
	second, _ := d.Select("https://www.kabum.com.br/produto/2")
	assert.NotSame(t, first, second)
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "www.unknownstore.example", Domain("https://www.UnknownStore.example/item/123"))
	assert.Equal(t, "", Domain("::not a url"))
}
