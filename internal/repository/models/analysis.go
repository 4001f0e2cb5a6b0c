package models

import (
	"database/sql"
	"time"

	"tennis-analyzer/internal/domain"
)

// User is a row of the users table.
type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
}

// Analysis is a row of the analyses table.
type Analysis struct {
	ID                 int64                      `db:"id"`
	UserID             sql.NullInt64              `db:"user_id"`
	FileName           string                     `db:"file_name"`
	OriginalFileName   string                     `db:"original_file_name"`
	FileType           string                     `db:"file_type"`
	MimeType           string                     `db:"mime_type"`
	FileSize           int64                      `db:"file_size"`
	ActionType         string                     `db:"action_type"`
	ActionStage        string                     `db:"action_stage"`
	PreparationScore   int                        `db:"preparation_score"`
	SwingPathScore     int                        `db:"swing_path_score"`
	BodyPositionScore  int                        `db:"body_position_score"`
	FollowThroughScore int                        `db:"follow_through_score"`
	OverallScore       int                        `db:"overall_score"`
	Feedback           string                     `db:"feedback"`
	Keypoints          JSON[[]domain.Keypoint]    `db:"keypoints"`
	Connections        JSON[[]domain.Connection]  `db:"connections"`
	Observations       JSON[[]domain.Observation] `db:"observations"`
	Suggestions        JSON[[]string]             `db:"suggestions"`
	ActionDate         time.Time                  `db:"action_date"`
	CreatedAt          time.Time                  `db:"created_at"`
}

// AnalysisColumns is the column list shared by SELECT and INSERT statements, without id.
var AnalysisColumns = []string{
	"user_id",
	"file_name",
	"original_file_name",
	"file_type",
	"mime_type",
	"file_size",
	"action_type",
	"action_stage",
	"preparation_score",
	"swing_path_score",
	"body_position_score",
	"follow_through_score",
	"overall_score",
	"feedback",
	"keypoints",
	"connections",
	"observations",
	"suggestions",
	"action_date",
	"created_at",
}

// InsertArgs returns the values for AnalysisColumns, in order.
func (a *Analysis) InsertArgs() []interface{} {
	return []interface{}{
		a.UserID,
		a.FileName,
		a.OriginalFileName,
		a.FileType,
		a.MimeType,
		a.FileSize,
		a.ActionType,
		a.ActionStage,
		a.PreparationScore,
		a.SwingPathScore,
		a.BodyPositionScore,
		a.FollowThroughScore,
		a.OverallScore,
		a.Feedback,
		a.Keypoints,
		a.Connections,
		a.Observations,
		a.Suggestions,
		a.ActionDate,
		a.CreatedAt,
	}
}

func (User) TableName() string {
	return "users"
}

func (Analysis) TableName() string {
	return "analyses"
}
