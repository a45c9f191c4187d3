package extractor

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"

	"listapresentes/productworker/helpers"
	"listapresentes/productworker/logger"
	apperrors "listapresentes/productworker/pkg/errors"
)

// Orchestrator runs one extraction end to end and classifies the result
type Orchestrator struct {
	dispatcher *Dispatcher
	notifier   Notifier
}

// NewOrchestrator creates an orchestrator. A nil notifier disables escalation.
func NewOrchestrator(dispatcher *Dispatcher, notifier Notifier) *Orchestrator {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Orchestrator{
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

// ExtractProductInfo extracts the product behind rawURL. It never returns an
// error: every failure is folded into the Outcome.
func (o *Orchestrator) ExtractProductInfo(ctx context.Context, rawURL string) Outcome {
	url := helpers.NormalizeURL(rawURL)
	ext, isGeneric := o.dispatcher.Select(url)
	log := logger.ForExtractor(ext.Name())

	log.Debug().Str("url", url).Bool("generic", isGeneric).Msg("Starting extraction")

	product, err := o.run(ctx, ext, url)
	if err == nil {
		if isGeneric {
			o.notify(func() { o.notifier.NotifyGenericExtractor(url, Domain(url), product) })
		}
		return Outcome{Success: true, Product: product, UsedGeneric: isGeneric}
	}

	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNetwork:
		log.Warn().Err(err).Str("url", url).Msg("Network failure")
		return Outcome{ErrorType: apperrors.ErrorTypeNetwork, Message: detail(err)}

	case apperrors.ErrorTypeParsing:
		log.Warn().Err(err).Str("url", url).Msg("Parsing failure")
		o.notify(func() { o.notifier.NotifyParsingFailure(url, product) })
		return Outcome{ErrorType: apperrors.ErrorTypeParsing, Message: detail(err), Partial: product}

	default:
		log.Error().Err(err).Str("url", url).Msg("Unexpected extraction failure")
		return Outcome{ErrorType: apperrors.ErrorTypeUnknown, Message: detail(err)}
	}
}

// run calls the extractor and turns a panic into an unknown error. A product
// returned without error but lacking a title is a parsing failure.
func (o *Orchestrator) run(ctx context.Context, ext Extractor, url string) (product Product, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ForExtractor(ext.Name()).Error().
				Str("url", url).
				Str("stack", string(debug.Stack())).
				Msgf("Extractor panicked: %v", r)
			product = Product{}
			err = apperrors.NewUnknown(ext.Name(), "extractor panicked", fmt.Errorf("%v", r))
		}
	}()

	product, err = ext.Extract(ctx, url)
	if err == nil && !product.Valid() {
		err = apperrors.NewParsing(ext.Name(), fmt.Sprintf("could not extract title from %s", ext.Name()))
	}
	return product, err
}

// notify submits an escalation without letting a misbehaving notifier reach
// the caller
func (o *Orchestrator) notify(submit func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.ForReporter().Error().Msgf("Notifier panicked: %v", r)
		}
	}()
	submit()
}

// detail returns the message reported to callers for err
func detail(err error) string {
	var extractionErr *apperrors.ExtractionError
	if stderrors.As(err, &extractionErr) {
		return extractionErr.Detail()
	}
	return err.Error()
}

type noopNotifier struct{}

func (noopNotifier) NotifyParsingFailure(string, Product)           {}
func (noopNotifier) NotifyGenericExtractor(string, string, Product) {}
