package models

import (
	"database/sql"
	"time"

	"portfolio-backend/internal/media"
)

// MobileApp is the parent row owning an embedded media collection. The media
// column is a single JSONB blob, so every collection mutation rewrites the
// whole list inside one transaction.
type MobileApp struct {
	ID             int64
	ProjectName    string
	Industry       string
	Stacks         []string
	Designer       sql.NullString
	DesignerLink   sql.NullString
	Company        sql.NullString
	Status         string
	Media          media.Collection
	ProjectLink    sql.NullString
	GithubLink     sql.NullString
	CreatedByEmail sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Derived at query time, never stored.
	StacksCount   int
	MediaCount    int
	FeaturedImage sql.NullString
}
