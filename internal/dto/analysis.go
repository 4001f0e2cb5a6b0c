package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UploadRequest is the JSON body of POST /api/upload.
// @Description Base64 encoded file upload
type UploadRequest struct {
	FileName   string     `json:"fileName" example:"swing.mp4"`
	FileType   string     `json:"fileType" example:"video/mp4"`
	FileSize   int64      `json:"fileSize" example:"1048576"`
	FileData   string     `json:"fileData" example:"data:video/mp4;base64,AAAA"`
	UserID     OptionalID `json:"userId,omitempty" swaggertype:"string" example:"1"`
	ActionDate string     `json:"actionDate,omitempty" example:"2024-06-01"`
}

// OptionalID accepts a JSON number, a numeric string or null and keeps the raw text
// so the service can report malformed values.
type OptionalID string

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = OptionalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("userId must be a number or string: %w", err)
	}
	*o = OptionalID(n.String())
	return nil
}

// DeleteResponse is returned by DELETE /api/analyses/:id.
type DeleteResponse struct {
	Success bool `json:"success" example:"true"`
}

// HealthResponse reports liveness and the active storage engine.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"memory"`
	Cache   string `json:"cache,omitempty" example:"redis"`
}

// --- Pagination and Filtering DTOs ---

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Limit  int `query:"limit"`
	Offset int
	Page   int `query:"page"`
}

// AnalysisListQuery holds the raw query parameters of GET /api/analyses.
type AnalysisListQuery struct {
	UserID     string `query:"userId"`
	ActionType string `query:"actionType"`
	Since      string `query:"since"`
	Limit      string `query:"limit"`
	Page       string `query:"page"`
}

// ParsePositive parses an optional positive integer; ok is false for malformed input.
func ParsePositive(raw string) (n int64, set bool, ok bool) {
	if raw == "" {
		return 0, false, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, true, false
	}
	return v, true, true
}
