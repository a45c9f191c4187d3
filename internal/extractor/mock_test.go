package extractor

import (
	"context"
	"io"
	"strings"
	"sync"
)

// staticFetcher serves the same page for every URL and records the last request
type staticFetcher struct {
	mu      sync.Mutex
	html    string
	err     error
	urls    []string
	headers map[string]string
}

func newStaticFetcher(html string) *staticFetcher {
	return &staticFetcher{html: html}
}

func (f *staticFetcher) Fetch(_ context.Context, url string, headers map[string]string) (io.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	f.headers = headers
	if f.err != nil {
		return nil, f.err
	}
	return strings.NewReader(f.html), nil
}

type parsingNotice struct {
	url     string
	partial Product
}

type genericNotice struct {
	url       string
	domain    string
	extracted Product
}

// recordingNotifier captures escalation submissions
type recordingNotifier struct {
	mu       sync.Mutex
	parsing  []parsingNotice
	generic  []genericNotice
	panicked bool
}

var _ Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) NotifyParsingFailure(url string, partial Product) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.parsing = append(n.parsing, parsingNotice{url: url, partial: partial})
	if n.panicked {
		panic("notifier exploded")
	}
}

func (n *recordingNotifier) NotifyGenericExtractor(url, domain string, extracted Product) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.generic = append(n.generic, genericNotice{url: url, domain: domain, extracted: extracted})
	if n.panicked {
		panic("notifier exploded")
	}
}
