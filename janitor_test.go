package repojanitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	entries []Entry
	failIDs map[string]bool
	deleted []string
}

func (f *fakeSource) Type() string { return "fake" }

func (f *fakeSource) List(ctx context.Context) ([]Entry, error) {
	return f.entries, nil
}

func (f *fakeSource) Delete(ctx context.Context, id string) error {
	if f.failIDs[id] {
		return errors.New("delete refused")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func versionedEntries() []Entry {
	return []Entry{
		{ID: "b-1.0", Version: "1.0", Assets: []Asset{{Path: "a/b/1.0", LastModified: ts(5)}}},
		{ID: "b-1.1", Version: "1.1", Assets: []Asset{{Path: "a/b/1.1", LastModified: ts(10)}}},
		{ID: "b-1.2", Version: "1.2", Assets: []Asset{{Path: "a/b/1.2", LastModified: ts(8)}}},
		{ID: "c-2.0", Version: "2.0", Assets: []Asset{{Path: "a/c/2.0", LastModified: ts(1)}}},
	}
}

func TestCleanupDryRunIssuesNoDeletes(t *testing.T) {
	source := &fakeSource{entries: versionedEntries()}
	janitor := NewJanitor(&Config{RetentionCount: 2, PathDepth: 2, DryRun: true}, source)

	report, err := janitor.Cleanup(context.Background())

	require.NoError(t, err)
	require.Empty(t, source.deleted)
	require.Equal(t, 3, report.Kept)
	require.Equal(t, 1, report.WouldDelete)
	require.Equal(t, 0, report.Deleted)
	require.Empty(t, report.Failures)
}

func TestCleanupDeletesOutrankedComponents(t *testing.T) {
	source := &fakeSource{entries: versionedEntries()}
	janitor := NewJanitor(&Config{RetentionCount: 2, PathDepth: 2}, source)

	report, err := janitor.Cleanup(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"b-1.0"}, source.deleted)
	require.Equal(t, 3, report.Kept)
	require.Equal(t, 1, report.Deleted)
	require.Equal(t, 0, report.WouldDelete)
}

func TestCleanupContinuesAfterDeleteFailure(t *testing.T) {
	source := &fakeSource{
		entries: []Entry{
			{ID: "v1", Version: "1", Assets: []Asset{{Path: "a/b/1", LastModified: ts(1)}}},
			{ID: "v2", Version: "2", Assets: []Asset{{Path: "a/b/2", LastModified: ts(2)}}},
			{ID: "v3", Version: "3", Assets: []Asset{{Path: "a/b/3", LastModified: ts(3)}}},
		},
		failIDs: map[string]bool{"v2": true},
	}
	janitor := NewJanitor(&Config{RetentionCount: 1, PathDepth: 2}, source)

	report, err := janitor.Cleanup(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"v1"}, source.deleted)
	require.Equal(t, []string{"v2"}, report.Failures)
	require.Equal(t, 1, report.Deleted)
	require.Equal(t, 1, report.Kept)
}

func TestCleanupSkipsEntriesWithoutStoragePath(t *testing.T) {
	source := &fakeSource{
		entries: []Entry{
			{ID: "good", Version: "1", Assets: []Asset{{Path: "a/b/1", LastModified: ts(1)}}},
			{ID: "pathless", Version: "2"},
		},
	}
	janitor := NewJanitor(&Config{RetentionCount: 1, PathDepth: 2}, source)

	report, err := janitor.Cleanup(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, report.Kept)
	require.Equal(t, 0, report.Deleted)
	require.Empty(t, source.deleted)
}
