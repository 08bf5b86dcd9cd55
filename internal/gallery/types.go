package gallery

import (
	"strings"
	"time"
)

// ImageRecord mirrors one entry of /gallery-images.
type ImageRecord struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	CreatedAt string `json:"created_at"`
}

// ListResponse mirrors the payload returned by /gallery-images.
type ListResponse struct {
	Success bool          `json:"success"`
	Images  []ImageRecord `json:"images"`
	Message string        `json:"message,omitempty"`
}

// DeleteRequest is the body posted to /delete-image.
type DeleteRequest struct {
	PublicID string `json:"public_id"`
}

// DeleteResponse mirrors the payload returned by /delete-image.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// FileName returns the last path segment of the public id.
func (r ImageRecord) FileName() string {
	id := strings.TrimSpace(r.PublicID)
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	if id == "" {
		return "Unknown"
	}
	return id
}

// ParsedCreatedAt returns the upload timestamp as time.Time when possible.
func (r ImageRecord) ParsedCreatedAt() time.Time {
	return parseTime(r.CreatedAt)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
