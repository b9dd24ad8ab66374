package media

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Collection is the ordered media list owned by one parent record. The slice
// is append-ordered; presentation order is DisplayOrder, which callers sort
// by themselves.
type Collection []Item

// Scan implements sql.Scanner so the JSONB media column reads straight into
// a Collection.
func (c *Collection) Scan(src interface{}) error {
	if src == nil {
		*c = Collection{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into media.Collection", src)
	}

	if len(data) == 0 {
		*c = Collection{}
		return nil
	}
	return json.Unmarshal(data, c)
}

// Value implements driver.Valuer. An empty collection is stored as an empty
// JSON array, never NULL.
func (c Collection) Value() (driver.Value, error) {
	if c == nil {
		c = Collection{}
	}
	return json.Marshal(c)
}

// MaxDisplayOrder returns the highest display order in the collection, or 0
// when empty. Appends start numbering from this baseline, so gaps left by
// past removals are never backfilled.
func (c Collection) MaxDisplayOrder() int {
	max := 0
	for _, item := range c {
		if item.DisplayOrder > max {
			max = item.DisplayOrder
		}
	}
	return max
}

// HasID reports whether any item in the collection carries the given id.
func (c Collection) HasID(id int64) bool {
	for _, item := range c {
		if item.ID == id {
			return true
		}
	}
	return false
}

// FeaturedImage returns the file URL of the first item in list order, or ""
// when the collection is empty.
func (c Collection) FeaturedImage() string {
	if len(c) == 0 {
		return ""
	}
	return c[0].FileURL
}
