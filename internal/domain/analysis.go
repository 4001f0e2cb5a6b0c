package domain

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// MediaKind is the coarse kind of an uploaded file.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

func (k MediaKind) IsValid() bool {
	return k == MediaImage || k == MediaVideo
}

// AcceptedMimeTypes lists the upload types the service analyses.
var AcceptedMimeTypes = map[string]MediaKind{
	"image/jpeg":      MediaImage,
	"image/png":       MediaImage,
	"image/gif":       MediaImage,
	"video/mp4":       MediaVideo,
	"video/quicktime": MediaVideo,
	"video/x-msvideo": MediaVideo,
}

// MediaKindFor returns the kind of an accepted MIME type.
func MediaKindFor(mimeType string) (MediaKind, bool) {
	kind, ok := AcceptedMimeTypes[strings.ToLower(strings.TrimSpace(mimeType))]
	return kind, ok
}

var extensionMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
}

// MimeTypeForFileName guesses an accepted MIME type from the extension, or "".
func MimeTypeForFileName(name string) string {
	return extensionMimeTypes[strings.ToLower(filepath.Ext(name))]
}

// ActionType is the detected stroke.
type ActionType string

const (
	ActionForehand ActionType = "forehand"
	ActionBackhand ActionType = "backhand"
	ActionServe    ActionType = "serve"
	ActionVolley   ActionType = "volley"
)

var ActionTypes = []ActionType{ActionForehand, ActionBackhand, ActionServe, ActionVolley}

func (a ActionType) IsValid() bool {
	for _, v := range ActionTypes {
		if v == a {
			return true
		}
	}
	return false
}

// ActionStage is the phase of a stroke a record represents.
type ActionStage string

const (
	StagePreparation   ActionStage = "preparation"
	StageBackswing     ActionStage = "backswing"
	StageForwardSwing  ActionStage = "forward_swing"
	StageImpact        ActionStage = "impact"
	StageFollowThrough ActionStage = "follow_through"
)

// ActionStages is the closed stage enumeration, in stroke order.
var ActionStages = []ActionStage{
	StagePreparation,
	StageBackswing,
	StageForwardSwing,
	StageImpact,
	StageFollowThrough,
}

func (s ActionStage) IsValid() bool {
	for _, v := range ActionStages {
		if v == s {
			return true
		}
	}
	return false
}

// Label renders a stage for humans, e.g. "follow_through" -> "Follow Through".
func (s ActionStage) Label() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ObservationType tags an observation.
type ObservationType string

const (
	ObservationPositive ObservationType = "positive"
	ObservationWarning  ObservationType = "warning"
	ObservationNegative ObservationType = "negative"
)

func (t ObservationType) IsValid() bool {
	return t == ObservationPositive || t == ObservationWarning || t == ObservationNegative
}

// Keypoint is a body landmark in percent-of-frame coordinates (0-100).
type Keypoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Part  string  `json:"part"`
	Score float64 `json:"score"`
}

// Connection joins two keypoint parts, e.g. {"neck", "leftShoulder"}.
type Connection [2]string

type Observation struct {
	Text string          `json:"text"`
	Type ObservationType `json:"type"`
}

// Scores are integer percentages in [0,100].
type Scores struct {
	Preparation   int `json:"preparationScore"`
	SwingPath     int `json:"swingPathScore"`
	BodyPosition  int `json:"bodyPositionScore"`
	FollowThrough int `json:"followThroughScore"`
	Overall       int `json:"overallScore"`
}

// OverallScore is the integer average of the component scores, rounded down.
func OverallScore(preparation, swingPath, bodyPosition, followThrough int) int {
	return (preparation + swingPath + bodyPosition + followThrough) / 4
}

// Analysis is the persisted result of one upload.
type Analysis struct {
	ID               int64         `json:"id"`
	UserID           *int64        `json:"userId"`
	FileName         string        `json:"fileName"`
	OriginalFileName string        `json:"originalFileName"`
	FileType         MediaKind     `json:"fileType"`
	MimeType         string        `json:"mimeType"`
	FileSize         int64         `json:"fileSize"`
	ActionType       ActionType    `json:"actionType"`
	ActionStage      ActionStage   `json:"actionStage"`
	Scores                         // flattened into the record's JSON
	Feedback         string        `json:"feedback"`
	Keypoints        []Keypoint    `json:"keypoints"`
	Connections      []Connection  `json:"connections"`
	Observations     []Observation `json:"observations"`
	Suggestions      []string      `json:"suggestions"`
	ActionDate       time.Time     `json:"actionDate"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// NewAnalysis is an insertable record; identity and creation time are assigned by storage.
type NewAnalysis struct {
	UserID           *int64
	FileName         string
	OriginalFileName string
	FileType         MediaKind
	MimeType         string
	FileSize         int64
	ActionType       ActionType
	ActionStage      ActionStage
	Scores           Scores
	Feedback         string
	Keypoints        []Keypoint
	Connections      []Connection
	Observations     []Observation
	Suggestions      []string
	ActionDate       *time.Time
}

// Materialize builds the stored record for id/createdAt without aliasing the
// caller's slices.
func (n *NewAnalysis) Materialize(id int64, createdAt time.Time) *Analysis {
	a := &Analysis{
		ID:               id,
		UserID:           copyInt64Ptr(n.UserID),
		FileName:         n.FileName,
		OriginalFileName: n.OriginalFileName,
		FileType:         n.FileType,
		MimeType:         n.MimeType,
		FileSize:         n.FileSize,
		ActionType:       n.ActionType,
		ActionStage:      n.ActionStage,
		Scores:           n.Scores,
		Feedback:         n.Feedback,
		Keypoints:        cloneSlice(n.Keypoints),
		Connections:      cloneSlice(n.Connections),
		Observations:     cloneSlice(n.Observations),
		Suggestions:      cloneSlice(n.Suggestions),
		ActionDate:       createdAt,
		CreatedAt:        createdAt,
	}
	if n.ActionDate != nil {
		a.ActionDate = n.ActionDate.UTC()
	}
	return a
}

// Clone returns a deep copy.
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}
	c := *a
	c.UserID = copyInt64Ptr(a.UserID)
	c.Keypoints = cloneSlice(a.Keypoints)
	c.Connections = cloneSlice(a.Connections)
	c.Observations = cloneSlice(a.Observations)
	c.Suggestions = cloneSlice(a.Suggestions)
	return &c
}

// cloneSlice copies s; the result is never nil so empty lists encode as [].
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func copyInt64Ptr(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// AnalysisFilter narrows GetAnalyses. Zero values disable a criterion;
// Offset only applies together with a positive Limit.
type AnalysisFilter struct {
	UserID     *int64
	ActionType ActionType
	Since      time.Time
	Limit      int
	Offset     int
}

// Matches reports whether a satisfies the non-pagination criteria.
func (f AnalysisFilter) Matches(a *Analysis) bool {
	if f.UserID != nil && (a.UserID == nil || *a.UserID != *f.UserID) {
		return false
	}
	if f.ActionType != "" && a.ActionType != f.ActionType {
		return false
	}
	if !f.Since.IsZero() && a.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

// FileMeta is what the analysis generator gets to see of an upload.
type FileMeta struct {
	FileName string
	MimeType string
	Size     int64
	Kind     MediaKind
}

// GeneratedAnalysis is the synthesized part of a record.
type GeneratedAnalysis struct {
	ActionType   ActionType
	ActionStage  ActionStage
	Scores       Scores
	Feedback     string
	Keypoints    []Keypoint
	Connections  []Connection
	Observations []Observation
	Suggestions  []string
}

// AnalysisGenerator stands in for the computer-vision pipeline.
type AnalysisGenerator interface {
	Generate(ctx context.Context, meta FileMeta) (*GeneratedAnalysis, error)
}
