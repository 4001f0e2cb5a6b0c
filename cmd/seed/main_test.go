package main

import (
	"context"
	"os"
	"testing"

	"tennis-analyzer/internal/analyzer"
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/filestore"
	"tennis-analyzer/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAnalyses(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewMemStorage()
	require.NoError(t, repository.SeedDemoUser(ctx, storage))
	files, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	count, concurrency, days = 9, 3, 5
	created, err := seedAnalyses(ctx, storage, files, analyzer.New())
	require.NoError(t, err)
	assert.Equal(t, int64(9), created)

	demo, err := storage.GetUserByUsername(ctx, domain.DemoUsername)
	require.NoError(t, err)
	all, err := storage.GetAnalyses(ctx, domain.AnalysisFilter{UserID: &demo.ID})
	require.NoError(t, err)
	assert.Len(t, all, 9)

	seen := map[string]bool{}
	for _, a := range all {
		assert.False(t, seen[a.FileName])
		seen[a.FileName] = true
	}
}

func TestSeedAnalyses_RequiresDemoUser(t *testing.T) {
	files, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	count, concurrency, days = 1, 1, 1
	_, err = seedAnalyses(context.Background(), repository.NewMemStorage(), files, analyzer.New())
	assert.Error(t, err)
}

func TestCheckFlags(t *testing.T) {
	defer func(c, n, d int) { count, concurrency, days = c, n, d }(count, concurrency, days)

	count, concurrency, days = 5, 2, 7
	assert.NoError(t, checkFlags())

	concurrency = 0
	err := checkFlags()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--concurrency")

	concurrency, days = 2, -1
	assert.ErrorContains(t, checkFlags(), "--days")
}

type generatorFunc func(ctx context.Context, meta domain.FileMeta) (*domain.GeneratedAnalysis, error)

func (f generatorFunc) Generate(ctx context.Context, meta domain.FileMeta) (*domain.GeneratedAnalysis, error) {
	return f(ctx, meta)
}

func TestSeedAnalyses_RejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewMemStorage()
	require.NoError(t, repository.SeedDemoUser(ctx, storage))
	dir := t.TempDir()
	files, err := filestore.NewLocalStore(dir)
	require.NoError(t, err)

	gen := generatorFunc(func(ctx context.Context, meta domain.FileMeta) (*domain.GeneratedAnalysis, error) {
		out, err := analyzer.New().Generate(ctx, meta)
		if err != nil {
			return nil, err
		}
		out.Scores.SwingPath = 150
		return out, nil
	})

	count, concurrency, days = 1, 1, 1
	created, err := seedAnalyses(ctx, storage, files, gen)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swingPathScore")
	assert.Zero(t, created)

	all, err := storage.GetAnalyses(ctx, domain.AnalysisFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
