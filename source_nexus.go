package repojanitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxPages bounds component listing pagination. A continuation token that
// never terminates indicates an upstream protocol bug, not a large
// repository; 30 pages is far beyond any expected listing.
const maxPages = 30

// ErrPageCeiling reports a component listing that exceeded maxPages.
var ErrPageCeiling = errors.New("component listing exceeded page ceiling")

// NexusSource implements Source against a Sonatype Nexus-style REST API.
type NexusSource struct {
	client     *http.Client
	baseURL    string
	username   string
	password   string
	repository string
}

// NewNexusSource creates a new repository-manager source instance.
func NewNexusSource(baseURL, username, password, repository string) (*NexusSource, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if repository == "" {
		return nil, fmt.Errorf("repository name is required")
	}

	return &NexusSource{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		username:   username,
		password:   password,
		repository: repository,
	}, nil
}

type listPage struct {
	Items             []Entry `json:"items"`
	ContinuationToken *string `json:"continuationToken"`
}

// List fetches all listing pages, following the continuation token until
// the upstream stops returning one. A failed page request ends pagination
// with the entries collected so far; no retry is attempted.
func (s *NexusSource) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	token := ""

	for page := 1; ; page++ {
		if page > maxPages {
			return nil, fmt.Errorf("%w: repository %s returned more than %d pages",
				ErrPageCeiling, s.repository, maxPages)
		}

		items, next, err := s.listPage(ctx, token)
		if err != nil {
			slog.Warn("component listing request failed, proceeding with partial results",
				"repository", s.repository, "page", page, "error", err)
			break
		}
		entries = append(entries, items...)

		if next == "" {
			break
		}
		token = next
	}

	return entries, nil
}

func (s *NexusSource) listPage(ctx context.Context, token string) ([]Entry, string, error) {
	endpoint := fmt.Sprintf("%s/service/rest/v1/components?repository=%s",
		s.baseURL, url.QueryEscape(s.repository))
	if token != "" {
		endpoint += "&continuationToken=" + url.QueryEscape(token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build list request: %w", err)
	}
	req.SetBasicAuth(s.username, s.password)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("list request returned %s", resp.Status)
	}

	var page listPage
	if err = json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("failed to decode listing page: %w", err)
	}

	next := ""
	if page.ContinuationToken != nil {
		next = *page.ContinuationToken
	}
	return page.Items, next, nil
}

// Delete removes a component by its identifier.
func (s *NexusSource) Delete(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/service/rest/v1/components/%s", s.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.SetBasicAuth(s.username, s.password)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete request returned %s", resp.Status)
	}
	return nil
}

// Type returns the source type name.
func (s *NexusSource) Type() string {
	return "nexus"
}
