package media_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"portfolio-backend/internal/media"
)

// fakeStore is an in-memory ObjectStore that records every call.
type fakeStore struct {
	uploads     []string // filenames in upload order
	destroyed   []string // public ids in destroy order
	failAt      int      // fail the nth upload (1-based), 0 = never
	destroyErr  error
	thumbErr    error
	uploadCount int
}

func (s *fakeStore) Upload(data []byte, filename, contentType string, kind media.Kind) (media.UploadResult, error) {
	s.uploadCount++
	if s.failAt > 0 && s.uploadCount == s.failAt {
		return media.UploadResult{}, errors.New("remote store rejected file")
	}
	s.uploads = append(s.uploads, filename)
	publicID := fmt.Sprintf("portfolio/media/%s", filename)
	return media.UploadResult{
		URL:      "https://store.example.com/" + publicID,
		PublicID: publicID,
		Size:     int64(len(data)),
	}, nil
}

func (s *fakeStore) Destroy(publicID string, kind media.Kind) error {
	s.destroyed = append(s.destroyed, publicID)
	return s.destroyErr
}

func (s *fakeStore) DeriveThumbnail(publicID string) (string, error) {
	if s.thumbErr != nil {
		return "", s.thumbErr
	}
	return "https://store.example.com/thumb/" + publicID, nil
}

func newEngine(store *fakeStore) *media.Engine {
	return media.NewEngine(store, nil, zap.NewNop())
}

func imageFile(name string) media.NewFile {
	return media.NewFile{Name: name, ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
}

func videoFile(name string) media.NewFile {
	return media.NewFile{Name: name, ContentType: "video/mp4", Data: []byte("mp4-bytes")}
}

func TestAppend_AssignsSequentialDisplayOrder(t *testing.T) {
	store := &fakeStore{}
	engine := newEngine(store)

	var cleanup media.CleanupList
	c, err := engine.Append(nil, []media.NewFile{
		imageFile("a.jpg"), imageFile("b.jpg"), imageFile("c.jpg"),
	}, nil, &cleanup)
	require.NoError(t, err)

	require.Len(t, c, 3)
	for i, item := range c {
		assert.Equal(t, i+1, item.DisplayOrder)
	}
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, store.uploads)
}

func TestAppend_IDsArePairwiseDistinct(t *testing.T) {
	store := &fakeStore{}
	engine := newEngine(store)

	var cleanup media.CleanupList
	var c media.Collection
	var err error
	for batch := 0; batch < 3; batch++ {
		c, err = engine.Append(c, []media.NewFile{
			imageFile("a.jpg"), imageFile("b.jpg"), imageFile("c.jpg"),
		}, nil, &cleanup)
		require.NoError(t, err)
	}

	seen := make(map[int64]bool)
	for _, item := range c {
		assert.False(t, seen[item.ID], "duplicate media id %d", item.ID)
		seen[item.ID] = true
	}
	assert.Len(t, seen, 9)
}

func TestAppend_DefaultDescriptions(t *testing.T) {
	store := &fakeStore{}
	engine := newEngine(store)

	var cleanup media.CleanupList
	c, err := engine.Append(nil, []media.NewFile{
		imageFile("a.jpg"), videoFile("b.mp4"),
	}, nil, &cleanup)
	require.NoError(t, err)

	assert.Equal(t, "Image 1", c[0].Description)
	assert.Equal(t, "Video 2", c[1].Description)
}

func TestAppend_ExplicitDescriptionsByPosition(t *testing.T) {
	store := &fakeStore{}
	engine := newEngine(store)

	var cleanup media.CleanupList
	c, err := engine.Append(nil, []media.NewFile{
		imageFile("a.jpg"), imageFile("b.jpg"),
	}, map[int]string{1: "Checkout flow"}, &cleanup)
	require.NoError(t, err)

	assert.Equal(t, "Image 1", c[0].Description)
	assert.Equal(t, "Checkout flow", c[1].Description)
}

func TestAppend_VideoGetsThumbnail(t *testing.T) {
	store := &fakeStore{}
	engine := newEngine(store)

	var cleanup media.CleanupList
	c, err := engine.Append(nil, []media.NewFile{
		videoFile("demo.mp4"), imageFile("still.jpg"),
	}, nil, &cleanup)
	require.NoError(t, err)

	require.NotNil(t, c[0].ThumbnailURL)
	assert.Contains(t, *c[0].ThumbnailURL, "thumb")
	assert.Nil(t, c[1].ThumbnailURL)
}

func TestAppend_ThumbnailFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{thumbErr: errors.New("render unavailable")}
	engine := newEngine(store)

	var cleanup media.CleanupList
	c, err := engine.Append(nil, []media.NewFile{videoFile("demo.mp4")}, nil, &cleanup)
	require.NoError(t, err)

	require.Len(t, c, 1)
	assert.Nil(t, c[0].ThumbnailURL)
	assert.Equal(t, 1, cleanup.Len())
}

func TestAppend_MidBatchFailureKeepsCleanupList(t *testing.T) {
	store := &fakeStore{failAt: 2}
	engine := newEngine(store)

	var cleanup media.CleanupList
	_, err := engine.Append(nil, []media.NewFile{
		imageFile("a.jpg"), imageFile("b.jpg"), imageFile("c.jpg"),
	}, nil, &cleanup)
	require.Error(t, err)

	// Only the first upload succeeded and only it needs compensation.
	assert.Equal(t, 1, cleanup.Len())
	cleanup.Drain(store, zap.NewNop())
	assert.Equal(t, []string{"portfolio/media/a.jpg"}, store.destroyed)
}

type upperFilter struct{ err error }

func (f upperFilter) Transform(data []byte, mimeType string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("x:"), data...), nil
}

func TestAppend_FilterFailureFallsBackToOriginal(t *testing.T) {
	store := &fakeStore{}
	engine := media.NewEngine(store, upperFilter{err: errors.New("ffmpeg exploded")}, zap.NewNop())

	var cleanup media.CleanupList
	c, err := engine.Append(nil, []media.NewFile{videoFile("demo.mp4")}, nil, &cleanup)
	require.NoError(t, err)

	// Upload proceeded with the original bytes.
	assert.Equal(t, int64(len("mp4-bytes")), c[0].FileSize)
}

func TestAppend_FilterTransformsBytes(t *testing.T) {
	store := &fakeStore{}
	engine := media.NewEngine(store, upperFilter{}, zap.NewNop())

	var cleanup media.CleanupList
	c, err := engine.Append(nil, []media.NewFile{videoFile("demo.mp4")}, nil, &cleanup)
	require.NoError(t, err)

	assert.Equal(t, int64(len("x:mp4-bytes")), c[0].FileSize)
}

func TestRemove_DestroysMatchingAssets(t *testing.T) {
	store := &fakeStore{}
	engine := newEngine(store)

	c := media.Collection{
		{ID: 1, PublicID: "p/one", FileType: "image/png", DisplayOrder: 1},
		{ID: 2, PublicID: "p/two", FileType: "video/mp4", DisplayOrder: 2},
		{ID: 3, PublicID: "p/three", FileType: "image/jpeg", DisplayOrder: 3},
	}

	c = engine.Remove(c, []int64{2, 99})

	require.Len(t, c, 2)
	assert.Equal(t, int64(1), c[0].ID)
	assert.Equal(t, int64(3), c[1].ID)
	assert.Equal(t, []string{"p/two"}, store.destroyed)
}

func TestRemove_DestroyFailureDoesNotBlockRemoval(t *testing.T) {
	store := &fakeStore{destroyErr: errors.New("network down")}
	engine := newEngine(store)

	c := media.Collection{
		{ID: 1, PublicID: "p/one", FileType: "image/png", DisplayOrder: 1},
		{ID: 2, PublicID: "p/two", FileType: "image/png", DisplayOrder: 2},
	}

	c = engine.Remove(c, []int64{1, 2})

	assert.Empty(t, c)
	assert.Equal(t, []string{"p/one", "p/two"}, store.destroyed)
}

func TestRedescribe_IgnoresUnknownIDs(t *testing.T) {
	engine := newEngine(&fakeStore{})

	c := media.Collection{
		{ID: 1, Description: "Image 1"},
		{ID: 2, Description: "Image 2"},
	}

	c = engine.Redescribe(c, map[int64]string{2: "Login screen", 42: "ghost"})

	assert.Equal(t, "Image 1", c[0].Description)
	assert.Equal(t, "Login screen", c[1].Description)
}

func TestRemoveThenAppend_OrderBaselineReflectsRemovals(t *testing.T) {
	store := &fakeStore{}
	engine := newEngine(store)

	c := media.Collection{
		{ID: 1, PublicID: "p/one", FileType: "image/png", DisplayOrder: 1},
		{ID: 2, PublicID: "p/two", FileType: "image/png", DisplayOrder: 2},
	}

	// Remove the first item, then append: the survivor's order 2 is the
	// baseline, so the new item gets order 3.
	c = engine.Remove(c, []int64{1})
	var cleanup media.CleanupList
	c, err := engine.Append(c, []media.NewFile{videoFile("demo.mp4")}, nil, &cleanup)
	require.NoError(t, err)

	require.Len(t, c, 2)
	assert.Equal(t, 3, c[1].DisplayOrder)
	require.NotNil(t, c[1].ThumbnailURL)
}
