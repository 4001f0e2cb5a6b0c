package repository

import (
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/repository/models"
	"tennis-analyzer/internal/util"
)

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{ID: m.ID, Username: m.Username, Password: m.Password}
}

func toDomainAnalysis(m *models.Analysis) *domain.Analysis {
	if m == nil {
		return nil
	}
	a := &domain.Analysis{
		ID:               m.ID,
		UserID:           util.NullInt64ToPtr(m.UserID),
		FileName:         m.FileName,
		OriginalFileName: m.OriginalFileName,
		FileType:         domain.MediaKind(m.FileType),
		MimeType:         m.MimeType,
		FileSize:         m.FileSize,
		ActionType:       domain.ActionType(m.ActionType),
		ActionStage:      domain.ActionStage(m.ActionStage),
		Scores: domain.Scores{
			Preparation:   m.PreparationScore,
			SwingPath:     m.SwingPathScore,
			BodyPosition:  m.BodyPositionScore,
			FollowThrough: m.FollowThroughScore,
			Overall:       m.OverallScore,
		},
		Feedback:     m.Feedback,
		Keypoints:    m.Keypoints.Data,
		Connections:  m.Connections.Data,
		Observations: m.Observations.Data,
		Suggestions:  m.Suggestions.Data,
		ActionDate:   m.ActionDate.UTC(),
		CreatedAt:    m.CreatedAt.UTC(),
	}
	// Normalizes NULL and empty columns to empty lists.
	return a.Clone()
}

func fromDomainAnalysis(a *domain.Analysis) *models.Analysis {
	if a == nil {
		return nil
	}
	return &models.Analysis{
		ID:                 a.ID,
		UserID:             util.Int64PtrToNullInt64(a.UserID),
		FileName:           a.FileName,
		OriginalFileName:   a.OriginalFileName,
		FileType:           string(a.FileType),
		MimeType:           a.MimeType,
		FileSize:           a.FileSize,
		ActionType:         string(a.ActionType),
		ActionStage:        string(a.ActionStage),
		PreparationScore:   a.Scores.Preparation,
		SwingPathScore:     a.Scores.SwingPath,
		BodyPositionScore:  a.Scores.BodyPosition,
		FollowThroughScore: a.Scores.FollowThrough,
		OverallScore:       a.Scores.Overall,
		Feedback:           a.Feedback,
		Keypoints:          models.NewJSON(a.Keypoints),
		Connections:        models.NewJSON(a.Connections),
		Observations:       models.NewJSON(a.Observations),
		Suggestions:        models.NewJSON(a.Suggestions),
		ActionDate:         a.ActionDate,
		CreatedAt:          a.CreatedAt,
	}
}
