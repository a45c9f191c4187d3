package extractor

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	apperrors "listapresentes/productworker/pkg/errors"
)

// Outcome is the classified result of ExtractProductInfo
type Outcome struct {
	Success     bool
	Product     Product
	UsedGeneric bool

	ErrorType apperrors.ErrorType
	Message   string
	// Partial holds what was recovered before a parsing failure
	Partial Product
}

// SuccessEnvelope is the JSON shape of a successful extraction
type SuccessEnvelope struct {
	Success            bool     `json:"success"`
	Title              string   `json:"title"`
	Price              *float64 `json:"price"`
	ImageURL           *string  `json:"image_url"`
	UsedGenericScraper bool     `json:"used_generic_scraper"`
}

// PartialData is the product data recovered before a parsing failure
type PartialData struct {
	Title    *string  `json:"title"`
	Price    *float64 `json:"price"`
	ImageURL *string  `json:"image_url"`
}

// FailureEnvelope is the JSON shape of a failed extraction
type FailureEnvelope struct {
	Success      bool         `json:"success"`
	ErrorType    string       `json:"error_type"`
	ErrorMessage string       `json:"error_message"`
	PartialData  *PartialData `json:"partial_data,omitempty"`
}

// Envelope returns a *SuccessEnvelope or a *FailureEnvelope
func (o Outcome) Envelope() interface{} {
	if o.Success {
		return &SuccessEnvelope{
			Success:            true,
			Title:              o.Product.Title,
			Price:              priceValue(o.Product.Price),
			ImageURL:           optional(o.Product.ImageURL),
			UsedGenericScraper: o.UsedGeneric,
		}
	}

	env := &FailureEnvelope{
		Success:      false,
		ErrorType:    string(o.ErrorType),
		ErrorMessage: o.Message,
	}
	if o.ErrorType == apperrors.ErrorTypeParsing {
		env.PartialData = &PartialData{
			Title:    optional(o.Partial.Title),
			Price:    priceValue(o.Partial.Price),
			ImageURL: optional(o.Partial.ImageURL),
		}
	}
	return env
}

// MarshalJSON encodes the outcome as its envelope
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Envelope())
}

func priceValue(price *decimal.Decimal) *float64 {
	if price == nil {
		return nil
	}
	v := price.InexactFloat64()
	return &v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
