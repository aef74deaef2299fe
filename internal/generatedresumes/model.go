package generatedresumes

import "time"

// GeneratedResume is an archived PDF produced by a wizard session.
type GeneratedResume struct {
	ID         string
	UserID     string
	SessionID  string
	FullName   string
	FileName   string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

// Response is the outward-facing representation of an archived resume.
type Response struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	FullName    string    `json:"fullName"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func toResponse(r GeneratedResume) Response {
	return Response{
		ID:          r.ID,
		SessionID:   r.SessionID,
		FullName:    r.FullName,
		FileName:    r.FileName,
		MimeType:    r.MimeType,
		SizeBytes:   r.SizeBytes,
		GeneratedAt: r.CreatedAt,
	}
}
