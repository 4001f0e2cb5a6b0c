package validation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"tennis-analyzer/internal/domain"
	"unicode/utf8"
)

const (
	maxFileNameLength = 255
	maxUsernameLength = 64
	minScore          = 0
	maxScore          = 100
)

// UploadInput is the untrusted description of an uploaded file.
// Exactly one of Data or Base64Data is expected to carry the payload.
type UploadInput struct {
	FileName   string
	MimeType   string
	Size       int64
	Data       []byte
	Base64Data string
}

// Validator provides request validation functionality
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator instance. A maxFileSize of 0 disables the size ceiling.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateUpload checks an upload before anything is written. Every malformed
// field is reported.
func (v *Validator) ValidateUpload(in UploadInput) domain.ValidationErrors {
	var errs domain.ValidationErrors

	name := strings.TrimSpace(in.FileName)
	switch {
	case name == "":
		errs = append(errs, domain.NewMissingFieldError("fileName"))
	case utf8.RuneCountInString(name) > maxFileNameLength:
		errs = append(errs, domain.NewOutOfRangeError("fileName", utf8.RuneCountInString(name), 1, maxFileNameLength))
	}

	mimeType := strings.TrimSpace(in.MimeType)
	if mimeType == "" {
		errs = append(errs, domain.NewMissingFieldError("fileType"))
	} else if _, ok := domain.MediaKindFor(mimeType); !ok {
		errs = append(errs, domain.NewUnsupportedMediaError("fileType", mimeType))
	}

	if in.Size <= 0 {
		errs = append(errs, domain.NewFieldError("fileSize", "fileSize must be greater than 0"))
	} else if v.maxFileSize > 0 && in.Size > v.maxFileSize {
		errs = append(errs, domain.NewOutOfRangeError("fileSize", in.Size, 1, v.maxFileSize))
	}

	if len(in.Data) == 0 && strings.TrimSpace(in.Base64Data) == "" {
		errs = append(errs, domain.NewMissingFieldError("fileData"))
	}

	return errs
}

// ValidatePayloadSize checks the byte count actually received, which may
// differ from the declared fileSize.
func (v *Validator) ValidatePayloadSize(n int64) domain.ValidationErrors {
	if v.maxFileSize > 0 && n > v.maxFileSize {
		return domain.ValidationErrors{domain.NewOutOfRangeError("fileData", n, 1, v.maxFileSize)}
	}
	return nil
}

// ValidateInsert checks a fully populated record right before it is persisted.
func (v *Validator) ValidateInsert(rec *domain.NewAnalysis) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if rec == nil {
		return append(errs, domain.NewMissingFieldError("analysis"))
	}

	required := []struct {
		field string
		value string
	}{
		{"fileName", rec.FileName},
		{"originalFileName", rec.OriginalFileName},
		{"mimeType", rec.MimeType},
		{"feedback", rec.Feedback},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, domain.NewMissingFieldError(r.field))
		}
	}

	if !rec.FileType.IsValid() {
		errs = append(errs, domain.NewInvalidFormatError("fileType", rec.FileType))
	}
	if rec.FileSize <= 0 {
		errs = append(errs, domain.NewFieldError("fileSize", "fileSize must be greater than 0"))
	}
	if !rec.ActionType.IsValid() {
		errs = append(errs, domain.NewInvalidFormatError("actionType", rec.ActionType))
	}
	if !rec.ActionStage.IsValid() {
		errs = append(errs, domain.NewInvalidFormatError("actionStage", rec.ActionStage))
	}

	errs = append(errs, validateScores(rec.Scores)...)

	for i, kp := range rec.Keypoints {
		field := fmt.Sprintf("keypoints[%d]", i)
		if strings.TrimSpace(kp.Part) == "" {
			errs = append(errs, domain.NewMissingFieldError(field+".part"))
		}
		if kp.X < 0 || kp.X > 100 || kp.Y < 0 || kp.Y > 100 {
			errs = append(errs, domain.NewFieldError(field, "coordinates must be percentages within [0, 100]"))
		}
		if kp.Score < 0 || kp.Score > 1 {
			errs = append(errs, domain.NewOutOfRangeError(field+".score", kp.Score, 0, 1))
		}
	}

	for i, o := range rec.Observations {
		field := fmt.Sprintf("observations[%d]", i)
		if strings.TrimSpace(o.Text) == "" {
			errs = append(errs, domain.NewMissingFieldError(field+".text"))
		}
		if !o.Type.IsValid() {
			errs = append(errs, domain.NewInvalidFormatError(field+".type", o.Type))
		}
	}

	for i, s := range rec.Suggestions {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, domain.NewMissingFieldError(fmt.Sprintf("suggestions[%d]", i)))
		}
	}

	return errs
}

func validateScores(s domain.Scores) domain.ValidationErrors {
	var errs domain.ValidationErrors
	checks := []struct {
		field string
		value int
	}{
		{"preparationScore", s.Preparation},
		{"swingPathScore", s.SwingPath},
		{"bodyPositionScore", s.BodyPosition},
		{"followThroughScore", s.FollowThrough},
		{"overallScore", s.Overall},
	}
	inRange := true
	for _, c := range checks {
		if c.value < minScore || c.value > maxScore {
			errs = append(errs, domain.NewOutOfRangeError(c.field, c.value, minScore, maxScore))
			inRange = false
		}
	}
	if inRange {
		want := domain.OverallScore(s.Preparation, s.SwingPath, s.BodyPosition, s.FollowThrough)
		if s.Overall != want {
			errs = append(errs, domain.NewFieldError("overallScore",
				fmt.Sprintf("overallScore %d does not match component average %d", s.Overall, want)))
		}
	}
	return errs
}

// ValidateNewUser checks user creation input.
func (v *Validator) ValidateNewUser(username, password string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	username = strings.TrimSpace(username)
	if username == "" {
		errs = append(errs, domain.NewMissingFieldError("username"))
	} else if utf8.RuneCountInString(username) > maxUsernameLength {
		errs = append(errs, domain.NewOutOfRangeError("username", utf8.RuneCountInString(username), 1, maxUsernameLength))
	}
	if password == "" {
		errs = append(errs, domain.NewMissingFieldError("password"))
	}
	return errs
}

var errEmptyPayload = errors.New("empty payload")

// DecodeFileData decodes a base64 payload. Browser data URLs
// ("data:video/mp4;base64,....") are accepted as well as bare base64.
func DecodeFileData(encoded string) ([]byte, error) {
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		payload = payload[idx+1:]
	}
	if payload == "" {
		return nil, errEmptyPayload
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr == nil {
			data, err = raw, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, errEmptyPayload
	}
	return data, nil
}
