package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tennis-analyzer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fileSeq int

func sampleAnalysis(action domain.ActionType, owner *int64) *domain.NewAnalysis {
	fileSeq++
	return &domain.NewAnalysis{
		UserID:           owner,
		FileName:         fmt.Sprintf("file-%d.mp4", fileSeq),
		OriginalFileName: "swing.mp4",
		FileType:         domain.MediaVideo,
		MimeType:         "video/mp4",
		FileSize:         2048,
		ActionType:       action,
		ActionStage:      domain.StageFollowThrough,
		Scores: domain.Scores{
			Preparation: 80, SwingPath: 81, BodyPosition: 90, FollowThrough: 75,
			Overall: domain.OverallScore(80, 81, 90, 75),
		},
		Feedback: "Very Good forehand technique",
		Keypoints: []domain.Keypoint{
			{X: 50, Y: 20, Part: "head", Score: 0.95},
			{X: 43.8, Y: 30, Part: "leftShoulder", Score: 0.81},
		},
		Connections:  []domain.Connection{{"head", "neck"}},
		Observations: []domain.Observation{{Text: "Stable base", Type: domain.ObservationPositive}},
		Suggestions:  []string{"Rotate your hips", "Finish higher"},
	}
}

func ids(records []*domain.Analysis) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func assertDomainCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

// runStorageContract exercises the behaviour every domain.Storage must share.
func runStorageContract(t *testing.T, newStorage func(t *testing.T) domain.Storage) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		s := newStorage(t)

		u, err := s.CreateUser(ctx, &domain.NewUser{Username: "alice", Password: "hash"})
		require.NoError(t, err)
		assert.Positive(t, u.ID)

		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, got)

		byName, err := s.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u, byName)

		_, err = s.CreateUser(ctx, &domain.NewUser{Username: "alice", Password: "other"})
		assertDomainCode(t, err, domain.CodeConflict)

		missing, err := s.GetUser(ctx, u.ID+1000)
		assert.NoError(t, err)
		assert.Nil(t, missing)

		missing, err = s.GetUserByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("create assigns increasing ids and round-trips", func(t *testing.T) {
		s := newStorage(t)
		actionDate := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)

		var prev int64
		for i := 0; i < 5; i++ {
			in := sampleAnalysis(domain.ActionForehand, nil)
			if i == 2 {
				in.ActionDate = &actionDate
			}
			created, err := s.CreateAnalysis(ctx, in)
			require.NoError(t, err)
			assert.Greater(t, created.ID, prev)
			prev = created.ID

			assert.Equal(t, time.UTC, created.CreatedAt.Location())
			if i == 2 {
				assert.True(t, actionDate.Equal(created.ActionDate))
			} else {
				assert.True(t, created.CreatedAt.Equal(created.ActionDate))
			}

			got, err := s.GetAnalysis(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, got)
		}
	})

	t.Run("list is newest first and filters", func(t *testing.T) {
		s := newStorage(t)
		owner, err := s.CreateUser(ctx, &domain.NewUser{Username: "bob", Password: "hash"})
		require.NoError(t, err)

		a1, err := s.CreateAnalysis(ctx, sampleAnalysis(domain.ActionServe, &owner.ID))
		require.NoError(t, err)
		a2, err := s.CreateAnalysis(ctx, sampleAnalysis(domain.ActionForehand, nil))
		require.NoError(t, err)
		a3, err := s.CreateAnalysis(ctx, sampleAnalysis(domain.ActionServe, &owner.ID))
		require.NoError(t, err)

		all, err := s.GetAnalyses(ctx, domain.AnalysisFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{a3.ID, a2.ID, a1.ID}, ids(all))
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
		}

		owned, err := s.GetAnalyses(ctx, domain.AnalysisFilter{UserID: &owner.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{a3.ID, a1.ID}, ids(owned))

		stranger := owner.ID + 100
		none, err := s.GetAnalyses(ctx, domain.AnalysisFilter{UserID: &stranger})
		require.NoError(t, err)
		assert.Empty(t, none)

		forehands, err := s.GetAnalyses(ctx, domain.AnalysisFilter{ActionType: domain.ActionForehand})
		require.NoError(t, err)
		assert.Equal(t, []int64{a2.ID}, ids(forehands))

		recent, err := s.GetAnalyses(ctx, domain.AnalysisFilter{Since: a1.CreatedAt.Add(-time.Hour)})
		require.NoError(t, err)
		assert.Len(t, recent, 3)

		future, err := s.GetAnalyses(ctx, domain.AnalysisFilter{Since: time.Now().Add(time.Hour)})
		require.NoError(t, err)
		assert.Empty(t, future)

		page, err := s.GetAnalyses(ctx, domain.AnalysisFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []int64{a2.ID, a1.ID}, ids(page))

		beyond, err := s.GetAnalyses(ctx, domain.AnalysisFilter{Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, beyond)
	})

	t.Run("delete is idempotent and ids are not reused", func(t *testing.T) {
		s := newStorage(t)
		created, err := s.CreateAnalysis(ctx, sampleAnalysis(domain.ActionVolley, nil))
		require.NoError(t, err)

		deleted, err := s.DeleteAnalysis(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.DeleteAnalysis(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		got, err := s.GetAnalysis(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		next, err := s.CreateAnalysis(ctx, sampleAnalysis(domain.ActionVolley, nil))
		require.NoError(t, err)
		assert.Greater(t, next.ID, created.ID)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		s := newStorage(t)
		in := sampleAnalysis(domain.ActionBackhand, nil)
		created, err := s.CreateAnalysis(ctx, in)
		require.NoError(t, err)

		in.Suggestions[0] = "mutated input"
		created.Keypoints[0].Part = "mutated output"

		got, err := s.GetAnalysis(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rotate your hips", got.Suggestions[0])
		assert.Equal(t, "head", got.Keypoints[0].Part)
	})

	t.Run("duplicate stored file name conflicts", func(t *testing.T) {
		s := newStorage(t)
		in := sampleAnalysis(domain.ActionServe, nil)
		_, err := s.CreateAnalysis(ctx, in)
		require.NoError(t, err)

		_, err = s.CreateAnalysis(ctx, in)
		assertDomainCode(t, err, domain.CodeConflict)
	})
}
