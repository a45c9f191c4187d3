package escalation

import (
	"context"

	"listapresentes/productworker/config"
	"listapresentes/productworker/internal/extractor"
	"listapresentes/productworker/services/cache"
)

// TicketRef identifies a ticket filed with the issue tracker
type TicketRef struct {
	Number int
	URL    string
}

// Reporter files tickets about extraction gaps
type Reporter interface {
	// ReportParsingFailure files a ticket for a page that was fetched but whose
	// title could not be extracted
	ReportParsingFailure(ctx context.Context, url string, partial extractor.Product) (*TicketRef, error)

	// ReportGenericExtractorUsed files a ticket suggesting a dedicated extractor
	// for domain
	ReportGenericExtractorUsed(ctx context.Context, url, domain string, extracted extractor.Product) (*TicketRef, error)
}

// NewReporter returns a GitHub reporter when escalation is enabled and a
// NoopReporter otherwise. cacheSvc may be nil, which disables de-duplication.
func NewReporter(cfg *config.Config, cacheSvc cache.CacheService) Reporter {
	if !cfg.EscalationEnabled() {
		return NoopReporter{}
	}

	return NewGitHubReporter(GitHubConfig{
		BaseURL:    cfg.GitHubAPIBaseURL,
		Owner:      cfg.GitHubRepoOwner,
		Repo:       cfg.GitHubRepoName,
		Token:      cfg.GitHubToken,
		AppVersion: cfg.AppVersion,
		DedupeTTL:  cfg.EscalationDedupeTTL,
	}, cacheSvc)
}
