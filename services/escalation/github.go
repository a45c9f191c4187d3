package escalation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"listapresentes/productworker/internal/extractor"
	"listapresentes/productworker/logger"
	apperrors "listapresentes/productworker/pkg/errors"
	"listapresentes/productworker/services/cache"
)

const (
	parsingTitlePrefix = "[AUTO] Scraping failure: "
	genericTitlePrefix = "[AUTO] Unmapped site: "

	parsingDedupePrefix = "escalation:parsing"
	genericDedupePrefix = "escalation:generic"

	pendingClaim     = "pending"
	maxErrorBodySize = 4 << 10
)

var (
	parsingLabels = []string{"auto-generated", "bug", "scraping", "needs-triage"}
	genericLabels = []string{"auto-generated", "enhancement", "new-site-support", "low-priority"}
)

// GitHubConfig configures a GitHubReporter
type GitHubConfig struct {
	BaseURL    string
	Owner      string
	Repo       string
	Token      string
	AppVersion string
	// DedupeTTL is how long a filed ticket suppresses new ones for the same key
	DedupeTTL time.Duration
	Timeout   time.Duration
}

// GitHubReporter files tickets as GitHub issues
type GitHubReporter struct {
	baseURL    string
	owner      string
	repo       string
	token      string
	appVersion string
	dedupeTTL  time.Duration
	httpClient *http.Client
	cache      cache.CacheService
	now        func() time.Time
}

type issueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

type issueResponse struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
}

// NewGitHubReporter creates a new GitHub reporter. cacheSvc may be nil.
func NewGitHubReporter(cfg GitHubConfig, cacheSvc cache.CacheService) *GitHubReporter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GitHubReporter{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		token:      cfg.Token,
		appVersion: cfg.AppVersion,
		dedupeTTL:  cfg.DedupeTTL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cacheSvc,
		now:        time.Now,
	}
}

// ReportParsingFailure implements Reporter
func (r *GitHubReporter) ReportParsingFailure(ctx context.Context, url string, partial extractor.Product) (*TicketRef, error) {
	domain := extractor.Domain(url)
	return r.file(ctx, cache.Key(parsingDedupePrefix, url), issueRequest{
		Title:  parsingTitlePrefix + domain,
		Body:   parsingFailureBody(url, domain, partial, r.now(), r.appVersion),
		Labels: parsingLabels,
	})
}

// ReportGenericExtractorUsed implements Reporter
func (r *GitHubReporter) ReportGenericExtractorUsed(ctx context.Context, url, domain string, extracted extractor.Product) (*TicketRef, error) {
	return r.file(ctx, cache.Key(genericDedupePrefix, domain), issueRequest{
		Title:  genericTitlePrefix + domain,
		Body:   genericExtractorBody(url, domain, extracted, r.now(), r.appVersion),
		Labels: genericLabels,
	})
}

// file creates the issue unless one was filed for dedupeKey within the TTL.
// The key is claimed before filing so concurrent reports for the same key
// file a single ticket. A suppressed report returns nil, nil.
func (r *GitHubReporter) file(ctx context.Context, dedupeKey string, issue issueRequest) (*TicketRef, error) {
	log := logger.ForReporter()

	claimed, tracked := r.claim(dedupeKey)
	if !claimed {
		log.Debug().Str("title", issue.Title).Msg("Ticket already filed recently, skipping")
		return nil, nil
	}

	ref, err := r.createIssue(ctx, issue)
	if err != nil {
		if tracked {
			r.release(dedupeKey)
		}
		return nil, err
	}

	if tracked {
		if err := r.cache.Set(dedupeKey, []byte(ref.URL), r.dedupeTTL); err != nil {
			logger.LogError("escalation", apperrors.NewCache("failed to remember filed ticket", err), "dedupe key %s", dedupeKey)
		}
	}

	log.Info().Int("number", ref.Number).Str("url", ref.URL).Msg("Ticket filed")
	return ref, nil
}

// claim reserves dedupeKey. claimed is false when another report holds it;
// tracked is false when de-duplication is off or the cache failed.
func (r *GitHubReporter) claim(key string) (claimed, tracked bool) {
	if r.cache == nil || r.dedupeTTL <= 0 {
		return true, false
	}

	err := r.cache.Add(key, []byte(pendingClaim), r.dedupeTTL)
	switch {
	case err == nil:
		return true, true
	case errors.Is(err, cache.ErrExists):
		return false, false
	default:
		// Lookup failures fall through to filing
		logger.LogError("escalation", apperrors.NewCache("dedupe claim failed", err), "dedupe key %s", key)
		return true, false
	}
}

// release drops a claim whose ticket could not be filed
func (r *GitHubReporter) release(key string) {
	if err := r.cache.Delete(key); err != nil {
		logger.LogError("escalation", apperrors.NewCache("failed to release dedupe claim", err), "dedupe key %s", key)
	}
}

// createIssue posts the issue and expects 201 Created
func (r *GitHubReporter) createIssue(ctx context.Context, issue issueRequest) (*TicketRef, error) {
	payload, err := json.Marshal(issue)
	if err != nil {
		return nil, apperrors.NewReport("failed to encode issue", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues", r.baseURL, r.owner, r.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewReport("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewReport("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, apperrors.NewReport(
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var created issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, apperrors.NewReport("failed to decode response", err)
	}

	return &TicketRef{Number: created.Number, URL: created.HTMLURL}, nil
}
