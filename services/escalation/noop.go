package escalation

import (
	"context"

	"listapresentes/productworker/internal/extractor"
)

// NoopReporter discards every report
type NoopReporter struct{}

// ReportParsingFailure implements Reporter
func (NoopReporter) ReportParsingFailure(context.Context, string, extractor.Product) (*TicketRef, error) {
	return nil, nil
}

// ReportGenericExtractorUsed implements Reporter
func (NoopReporter) ReportGenericExtractorUsed(context.Context, string, string, extractor.Product) (*TicketRef, error) {
	return nil, nil
}
