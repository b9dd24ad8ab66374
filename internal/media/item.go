package media

import (
	"strings"
	"time"
)

// Kind classifies an asset for the object store. The store treats images and
// videos as different resource types, so destroy calls must carry the same
// kind the upload used.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindForMIME infers the asset kind from a MIME type. Anything that is not
// a video is stored as an image.
func KindForMIME(mimeType string) Kind {
	if strings.HasPrefix(mimeType, "video/") {
		return KindVideo
	}
	return KindImage
}

// Item is one attached asset in a parent record's media list. The whole list
// is persisted as a single JSONB column, so field names here are the wire
// format of the stored blob.
type Item struct {
	ID           int64     `json:"id"`
	FileURL      string    `json:"file_url"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	PublicID     string    `json:"public_id"`
	Description  string    `json:"description"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	DisplayOrder int       `json:"display_order"`
	UploadedAt   time.Time `json:"uploaded_at"`
	OriginalName string    `json:"original_name,omitempty"`
}

// Kind returns the store resource type for this item, derived from its MIME
// type.
func (i Item) Kind() Kind {
	return KindForMIME(i.FileType)
}

// UploadResult is what the object store reports for a stored asset. Size is
// the authoritative byte count, not whatever the client claimed.
type UploadResult struct {
	URL      string
	PublicID string
	Size     int64
}

// ObjectStore is the remote asset store consumed by the collection engine
// and the record lifecycle.
//
// Destroy must be idempotent: destroying an id that no longer exists is not
// an error. DeriveThumbnail computes a URL template and must never be
// required for an upload to succeed.
type ObjectStore interface {
	Upload(data []byte, filename, contentType string, kind Kind) (UploadResult, error)
	Destroy(publicID string, kind Kind) error
	DeriveThumbnail(publicID string) (string, error)
}
