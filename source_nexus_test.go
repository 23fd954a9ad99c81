package repojanitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestNexusSource(t *testing.T, handler http.HandlerFunc) *NexusSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source, err := NewNexusSource(server.URL, "admin", "secret", "maven-releases")
	require.NoError(t, err)
	return source
}

func writePage(t *testing.T, w http.ResponseWriter, ids []string, token *string) {
	t.Helper()
	items := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]any{
			"id":      id,
			"version": "1.0",
			"assets": []map[string]any{
				{"path": "a/b/" + id, "lastModified": "2026-03-01T10:00:00.000+00:00"},
			},
		})
	}
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"items":             items,
		"continuationToken": token,
	}))
}

func TestNexusListFollowsContinuationTokens(t *testing.T) {
	var tokens []string
	source := newTestNexusSource(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "admin", user)
		require.Equal(t, "secret", pass)
		require.Equal(t, "maven-releases", r.URL.Query().Get("repository"))

		token := r.URL.Query().Get("continuationToken")
		tokens = append(tokens, token)
		switch token {
		case "":
			next := "t1"
			writePage(t, w, []string{"a", "b"}, &next)
		case "t1":
			next := "t2"
			writePage(t, w, []string{"c"}, &next)
		case "t2":
			writePage(t, w, []string{"d"}, nil)
		default:
			t.Fatalf("unexpected continuation token %q", token)
		}
	})

	entries, err := source.List(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"", "t1", "t2"}, tokens)
	require.Len(t, entries, 4)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.Equal(t, id, entries[i].ID)
	}
}

func TestNexusListAbortsOnPageCeiling(t *testing.T) {
	requests := 0
	source := newTestNexusSource(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		next := "again"
		writePage(t, w, []string{"x"}, &next)
	})

	entries, err := source.List(context.Background())

	require.ErrorIs(t, err, ErrPageCeiling)
	require.Nil(t, entries)
	require.Equal(t, maxPages, requests)
}

func TestNexusListToleratesMidPaginationFailure(t *testing.T) {
	source := newTestNexusSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("continuationToken") == "" {
			next := "t1"
			writePage(t, w, []string{"a", "b"}, &next)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	entries, err := source.List(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestNexusDelete(t *testing.T) {
	var method, path string
	source := newTestNexusSource(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, source.Delete(context.Background(), "abc123"))
	require.Equal(t, http.MethodDelete, method)
	require.Equal(t, "/service/rest/v1/components/abc123", path)
}

func TestNexusDeleteReportsUpstreamFailure(t *testing.T) {
	source := newTestNexusSource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	err := source.Delete(context.Background(), "abc123")

	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}
