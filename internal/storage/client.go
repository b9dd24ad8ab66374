package storage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
	"portfolio-backend/internal/media"
)

// UploadError marks a rejection by the remote store, as opposed to a local
// persistence failure.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q rejected: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Client stores portfolio media in a Supabase storage bucket. The public id
// handed back to callers is the object path inside the bucket; it is all
// that is needed to destroy or derive from the asset later.
type Client struct {
	client  *storage.Client
	bucket  string
	baseURL string
	folder  string
}

func NewClient(supabaseURL, serviceRoleKey, bucket string) (*Client, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &Client{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		folder:  "portfolio/media",
	}, nil
}

// Upload stores one asset and returns its public URL, object path and the
// byte count actually stored. The object name is a fresh UUID so client
// filenames can never collide in the bucket.
func (c *Client) Upload(data []byte, filename, contentType string, kind media.Kind) (media.UploadResult, error) {
	objectPath := fmt.Sprintf("%s/%s%s", c.folder, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))

	upsert := false
	err := retryWithBackoff(func() error {
		_, err := c.client.UploadFile(c.bucket, objectPath, bytes.NewReader(data), storage.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		return err
	}, 3)
	if err != nil {
		return media.UploadResult{}, &UploadError{Filename: filename, Err: err}
	}

	return media.UploadResult{
		URL:      c.publicURL(objectPath),
		PublicID: objectPath,
		Size:     int64(len(data)),
	}, nil
}

// Destroy removes an asset from the bucket. Destroying an object that is
// already gone reports success, so compensation sweeps can safely retry.
func (c *Client) Destroy(publicID string, kind media.Kind) error {
	_, err := c.client.RemoveFile(c.bucket, []string{publicID})
	if err != nil && !isMissingObject(err) {
		return fmt.Errorf("failed to destroy %q: %w", publicID, err)
	}
	return nil
}

// DeriveThumbnail builds a render-transform URL for an asset. This is pure
// URL templating against the storage render endpoint, not a new upload, so
// it may be computed speculatively and discarded.
func (c *Client) DeriveThumbnail(publicID string) (string, error) {
	if publicID == "" {
		return "", fmt.Errorf("public id is required")
	}
	return fmt.Sprintf("%s/storage/v1/render/image/public/%s/%s?width=300&height=200&resize=cover",
		c.baseURL, c.bucket, publicID), nil
}

func (c *Client) publicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, objectPath)
}

func isMissingObject(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}

func retryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
