package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"portfolio-backend/internal/models"
)

const mobileAppColumns = `
	id, project_name, industry, stacks, designer, designer_link, company,
	status, media, project_link, github_link, created_by_email,
	created_at, updated_at`

// Tx is one transaction over the mobile_apps table. The handling request
// owns it exclusively and must end it with Commit or Rollback on every path.
type Tx interface {
	GetMobileApp(id int64) (*models.MobileApp, error)
	InsertMobileApp(app *models.MobileApp) (*models.MobileApp, error)
	UpdateMobileApp(app *models.MobileApp) (*models.MobileApp, error)
	DeleteMobileApp(id int64) error
	Commit() error
	Rollback() error
}

func (c *Client) Begin() (Tx, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &appTx{tx: tx}, nil
}

type appTx struct {
	tx *sql.Tx
}

func (t *appTx) GetMobileApp(id int64) (*models.MobileApp, error) {
	row := t.tx.QueryRow(`SELECT`+mobileAppColumns+` FROM mobile_apps WHERE id = $1`, id)
	return scanMobileApp(row)
}

func (t *appTx) InsertMobileApp(app *models.MobileApp) (*models.MobileApp, error) {
	row := t.tx.QueryRow(`
		INSERT INTO mobile_apps (
			project_name, industry, stacks, designer, designer_link, company,
			status, media, project_link, github_link, created_by_email,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING`+mobileAppColumns,
		app.ProjectName, app.Industry, pq.Array(app.Stacks),
		app.Designer, app.DesignerLink, app.Company,
		app.Status, app.Media, app.ProjectLink, app.GithubLink, app.CreatedByEmail,
	)
	inserted, err := scanMobileApp(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert mobile app: %w", err)
	}
	return inserted, nil
}

func (t *appTx) UpdateMobileApp(app *models.MobileApp) (*models.MobileApp, error) {
	row := t.tx.QueryRow(`
		UPDATE mobile_apps
		SET project_name = $1, industry = $2, stacks = $3, designer = $4,
			designer_link = $5, company = $6, status = $7, media = $8,
			project_link = $9, github_link = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING`+mobileAppColumns,
		app.ProjectName, app.Industry, pq.Array(app.Stacks),
		app.Designer, app.DesignerLink, app.Company,
		app.Status, app.Media, app.ProjectLink, app.GithubLink, app.ID,
	)
	updated, err := scanMobileApp(row)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update mobile app: %w", err)
	}
	return updated, nil
}

func (t *appTx) DeleteMobileApp(id int64) error {
	result, err := t.tx.Exec(`DELETE FROM mobile_apps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mobile app: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *appTx) Commit() error {
	return t.tx.Commit()
}

func (t *appTx) Rollback() error {
	return t.tx.Rollback()
}

// GetMobileAppByID is the read-side lookup with query-time projections.
func (c *Client) GetMobileAppByID(id int64) (*models.MobileApp, error) {
	row := c.db.QueryRow(`
		SELECT`+mobileAppColumns+`,
			COALESCE(array_length(stacks, 1), 0) AS stacks_count,
			jsonb_array_length(COALESCE(media, '[]'::jsonb)) AS media_count
		FROM mobile_apps
		WHERE id = $1
	`, id)

	var app models.MobileApp
	err := row.Scan(
		&app.ID, &app.ProjectName, &app.Industry, pq.Array(&app.Stacks),
		&app.Designer, &app.DesignerLink, &app.Company,
		&app.Status, &app.Media, &app.ProjectLink, &app.GithubLink,
		&app.CreatedByEmail, &app.CreatedAt, &app.UpdatedAt,
		&app.StacksCount, &app.MediaCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mobile app: %w", err)
	}

	return &app, nil
}

// ListMobileApps returns all rows newest first, with the derived summary
// fields (counts, featured image) computed in SQL, never stored.
func (c *Client) ListMobileApps() ([]models.MobileApp, error) {
	rows, err := c.db.Query(`
		SELECT` + mobileAppColumns + `,
			COALESCE(array_length(stacks, 1), 0) AS stacks_count,
			jsonb_array_length(COALESCE(media, '[]'::jsonb)) AS media_count,
			CASE
				WHEN jsonb_array_length(COALESCE(media, '[]'::jsonb)) > 0
				THEN (media->0->>'file_url')::text
				ELSE NULL
			END AS featured_image
		FROM mobile_apps
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mobile apps: %w", err)
	}
	defer rows.Close()

	var apps []models.MobileApp
	for rows.Next() {
		var app models.MobileApp
		err := rows.Scan(
			&app.ID, &app.ProjectName, &app.Industry, pq.Array(&app.Stacks),
			&app.Designer, &app.DesignerLink, &app.Company,
			&app.Status, &app.Media, &app.ProjectLink, &app.GithubLink,
			&app.CreatedByEmail, &app.CreatedAt, &app.UpdatedAt,
			&app.StacksCount, &app.MediaCount, &app.FeaturedImage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mobile app: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mobile apps: %w", err)
	}

	return apps, nil
}

func scanMobileApp(row *sql.Row) (*models.MobileApp, error) {
	var app models.MobileApp
	err := row.Scan(
		&app.ID, &app.ProjectName, &app.Industry, pq.Array(&app.Stacks),
		&app.Designer, &app.DesignerLink, &app.Company,
		&app.Status, &app.Media, &app.ProjectLink, &app.GithubLink,
		&app.CreatedByEmail, &app.CreatedAt, &app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}
