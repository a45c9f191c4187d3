package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"listapresentes/productworker/helpers"
)

// URLSource provides the product URLs to refresh on each sweep
type URLSource interface {
	URLs(ctx context.Context) ([]string, error)
}

// FileSource reads one URL per line. Blank lines and lines starting with '#'
// are ignored and duplicates are dropped. The file is re-read on every sweep.
type FileSource struct {
	Path string
}

// URLs implements URLSource
func (s FileSource) URLs(_ context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var urls []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		url := helpers.NormalizeURL(line)
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}

// StaticSource is a fixed list of URLs
type StaticSource []string

// URLs implements URLSource
func (s StaticSource) URLs(context.Context) ([]string, error) {
	return s, nil
}
