package repojanitor

import (
	"strings"
	"time"
)

// Asset is a single file belonging to a component in the upstream store.
type Asset struct {
	Path         string    `json:"path"`
	LastModified time.Time `json:"lastModified"`
}

// Entry is one raw item from a listing page, before extraction.
type Entry struct {
	ID      string  `json:"id"`
	Version string  `json:"version"`
	Assets  []Asset `json:"assets"`
}

// Component is an artifact version that takes part in retention planning.
// Its group key and recency both come from the primary (first) asset.
type Component struct {
	ID           string
	Version      string
	Group        string
	LastModified time.Time
}

// Extract normalizes raw listing entries into components and collects the
// distinct group keys in first-seen order. Entries whose primary asset has
// no storage path are skipped; their remaining assets are never examined.
func Extract(entries []Entry, pathDepth int) ([]Component, []string) {
	components := make([]Component, 0, len(entries))
	var groups []string
	seen := make(map[string]bool)

	for _, e := range entries {
		if len(e.Assets) == 0 || e.Assets[0].Path == "" {
			continue
		}
		primary := e.Assets[0]
		key := groupKey(primary.Path, pathDepth)
		components = append(components, Component{
			ID:           e.ID,
			Version:      e.Version,
			Group:        key,
			LastModified: primary.LastModified,
		})
		if !seen[key] {
			seen[key] = true
			groups = append(groups, key)
		}
	}

	return components, groups
}

// groupKey truncates a storage path to its first depth segments. Paths
// shorter than depth are returned whole.
func groupKey(path string, depth int) string {
	parts := strings.Split(path, "/")
	if len(parts) <= depth {
		return path
	}
	return strings.Join(parts[:depth], "/")
}
