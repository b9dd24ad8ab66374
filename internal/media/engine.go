package media

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Filter is an optional pre-upload transform, typically video compression.
// The engine calls it with the original bytes and falls back to them when the
// filter fails: a transcoding problem must never block the upload itself.
type Filter interface {
	Transform(data []byte, mimeType string) ([]byte, error)
}

// NewFile is one attachment taken from an inbound request, in client order.
type NewFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Engine applies collection mutations for one parent record. Operations are
// pure transformations over the item list plus the uploads needed to
// materialize new items; persistence belongs to the caller.
//
// Within one update request the fixed order is Remove, Redescribe, Append:
// redescribe cannot target an id removed in the same call, and append's
// display-order baseline reflects removals already applied.
type Engine struct {
	store  ObjectStore
	filter Filter
	log    *zap.Logger
}

func NewEngine(store ObjectStore, filter Filter, log *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		filter: filter,
		log:    log,
	}
}

// Remove drops the items whose ids appear in ids and issues a best-effort
// destroy for each dropped asset. A destroy failure is logged and does not
// block the remaining removals or the enclosing request.
func (e *Engine) Remove(c Collection, ids []int64) Collection {
	if len(ids) == 0 {
		return c
	}

	targets := make(map[int64]bool, len(ids))
	for _, id := range ids {
		targets[id] = true
	}

	kept := make(Collection, 0, len(c))
	for _, item := range c {
		if !targets[item.ID] {
			kept = append(kept, item)
			continue
		}
		if err := e.store.Destroy(item.PublicID, item.Kind()); err != nil {
			e.log.Warn("failed to destroy removed media asset",
				zap.Int64("media_id", item.ID),
				zap.String("public_id", item.PublicID),
				zap.Error(err))
		}
	}
	return kept
}

// Redescribe overwrites descriptions for the matching ids. Ids with no
// matching item are ignored.
func (e *Engine) Redescribe(c Collection, descriptions map[int64]string) Collection {
	if len(descriptions) == 0 {
		return c
	}
	for i := range c {
		if desc, ok := descriptions[c[i].ID]; ok {
			c[i].Description = desc
		}
	}
	return c
}

// Append uploads each new file in client order and appends the resulting
// items. Every successful upload is recorded on cleanup before anything else
// can fail, so a mid-batch failure leaves the caller a complete compensation
// list. Descriptions are keyed by position in files; absent entries default
// to "<Image|Video> <display_order>".
func (e *Engine) Append(c Collection, files []NewFile, descriptions map[int]string, cleanup *CleanupList) (Collection, error) {
	if len(files) == 0 {
		return c, nil
	}

	maxOrder := c.MaxDisplayOrder()
	base := time.Now().UnixMilli()

	for i, f := range files {
		kind := KindForMIME(f.ContentType)

		data := f.Data
		if e.filter != nil {
			transformed, err := e.filter.Transform(f.Data, f.ContentType)
			if err != nil {
				e.log.Warn("media filter failed, uploading original bytes",
					zap.String("filename", f.Name),
					zap.Error(err))
			} else {
				data = transformed
			}
		}

		result, err := e.store.Upload(data, f.Name, f.ContentType, kind)
		if err != nil {
			return c, fmt.Errorf("failed to upload %q: %w", f.Name, err)
		}
		cleanup.Add(result.PublicID, kind)

		order := maxOrder + 1 + i

		// Timestamp plus batch offset, nudged past any id already taken in
		// the live list.
		id := base + int64(i)
		for c.HasID(id) {
			id++
		}

		description := descriptions[i]
		if description == "" {
			label := "Image"
			if kind == KindVideo {
				label = "Video"
			}
			description = fmt.Sprintf("%s %d", label, order)
		}

		var thumbnail *string
		if kind == KindVideo {
			url, err := e.store.DeriveThumbnail(result.PublicID)
			if err != nil {
				e.log.Warn("thumbnail derivation failed",
					zap.String("public_id", result.PublicID),
					zap.Error(err))
			} else {
				thumbnail = &url
			}
		}

		c = append(c, Item{
			ID:           id,
			FileURL:      result.URL,
			FileType:     f.ContentType,
			FileSize:     result.Size,
			PublicID:     result.PublicID,
			Description:  description,
			ThumbnailURL: thumbnail,
			DisplayOrder: order,
			UploadedAt:   time.Now().UTC(),
			OriginalName: f.Name,
		})
	}

	return c, nil
}
