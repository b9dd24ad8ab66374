package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/realtime"
)

var (
	// ErrValidation marks a request rejected before any side effect.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing parent record.
	ErrNotFound = errors.New("mobile app not found")
)

const defaultStatus = "in_progress"

// Store is the relational side of the record lifecycle.
type Store interface {
	Begin() (database.Tx, error)
	GetMobileAppByID(id int64) (*models.MobileApp, error)
	ListMobileApps() ([]models.MobileApp, error)
}

// EventPublisher emits best-effort lifecycle events after a commit.
type EventPublisher interface {
	PublishProjectEvent(projectID int64, event string, payload map[string]interface{}) error
}

// MobileAppService orchestrates create/update/delete of mobile app records:
// one storage transaction per call, sequential uploads through the media
// engine, and a single compensation sweep on every failure path so a rolled
// back transaction never strands assets uploaded during the attempt.
type MobileAppService struct {
	store   Store
	objects media.ObjectStore
	engine  *media.Engine
	events  EventPublisher
	log     *zap.Logger
}

func NewMobileAppService(store Store, objects media.ObjectStore, filter media.Filter, events EventPublisher, log *zap.Logger) *MobileAppService {
	return &MobileAppService{
		store:   store,
		objects: objects,
		engine:  media.NewEngine(objects, filter, log),
		events:  events,
		log:     log,
	}
}

type CreateInput struct {
	ProjectName  string
	Industry     string
	Stacks       []string
	Designer     string
	DesignerLink string
	Company      string
	Status       string
	ProjectLink  string
	GithubLink   string
	CreatedBy    string

	Files        []media.NewFile
	Descriptions map[int]string
}

// Create validates, uploads the attached files in order, and inserts the new
// row with its serialized media list in one transaction. On any failure the
// transaction is rolled back and every asset uploaded during this call is
// issued a compensating destroy.
func (s *MobileAppService) Create(in CreateInput) (*models.MobileApp, error) {
	if in.ProjectName == "" || in.Industry == "" || len(in.Stacks) == 0 {
		return nil, fmt.Errorf("%w: project_name, industry and stacks are required", ErrValidation)
	}

	status := in.Status
	if status == "" {
		status = defaultStatus
	}

	tx, err := s.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	cleanup := &media.CleanupList{}

	collection, err := s.engine.Append(nil, in.Files, in.Descriptions, cleanup)
	if err != nil {
		s.compensate(tx, cleanup)
		return nil, err
	}

	created, err := tx.InsertMobileApp(&models.MobileApp{
		ProjectName:    in.ProjectName,
		Industry:       in.Industry,
		Stacks:         in.Stacks,
		Designer:       toNull(in.Designer),
		DesignerLink:   toNull(in.DesignerLink),
		Company:        toNull(in.Company),
		Status:         status,
		Media:          collection,
		ProjectLink:    toNull(in.ProjectLink),
		GithubLink:     toNull(in.GithubLink),
		CreatedByEmail: toNull(in.CreatedBy),
	})
	if err != nil {
		s.compensate(tx, cleanup)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		cleanup.Drain(s.objects, s.log)
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.publish(created.ID, "project_created", realtime.ProjectCreatedPayload(created.ID, len(created.Media)))
	return created, nil
}

// UpdateInput carries only what the request explicitly supplied. A nil
// scalar means "retain the stored value"; a non-nil empty string is an
// explicit clear for the optional fields.
type UpdateInput struct {
	ProjectName  *string
	Industry     *string
	Stacks       []string
	Designer     *string
	DesignerLink *string
	Company      *string
	Status       *string
	ProjectLink  *string
	GithubLink   *string

	RemoveMediaIDs  []int64
	RedescribeMedia map[int64]string
	Files           []media.NewFile
	Descriptions    map[int]string
}

// Update loads the row, applies media operations in the fixed order
// remove, redescribe, append, merges scalar fields, and persists the result.
// Compensation on failure covers only assets uploaded during this call;
// pre-existing media is never touched by a failed update.
func (s *MobileAppService) Update(id int64, in UpdateInput) (*models.MobileApp, error) {
	tx, err := s.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	cleanup := &media.CleanupList{}

	updated, err := s.applyUpdate(tx, id, in, cleanup)
	if err != nil {
		s.compensate(tx, cleanup)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		cleanup.Drain(s.objects, s.log)
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.publish(updated.ID, "project_updated", realtime.ProjectUpdatedPayload(updated.ID, len(updated.Media)))
	return updated, nil
}

func (s *MobileAppService) applyUpdate(tx database.Tx, id int64, in UpdateInput, cleanup *media.CleanupList) (*models.MobileApp, error) {
	current, err := tx.GetMobileApp(id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("mobile app %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mobile app: %w", err)
	}

	collection := s.engine.Remove(current.Media, in.RemoveMediaIDs)
	collection = s.engine.Redescribe(collection, in.RedescribeMedia)
	collection, err = s.engine.Append(collection, in.Files, in.Descriptions, cleanup)
	if err != nil {
		return nil, err
	}
	current.Media = collection

	if in.ProjectName != nil && *in.ProjectName != "" {
		current.ProjectName = *in.ProjectName
	}
	if in.Industry != nil && *in.Industry != "" {
		current.Industry = *in.Industry
	}
	if len(in.Stacks) > 0 {
		current.Stacks = in.Stacks
	}
	if in.Status != nil && *in.Status != "" {
		current.Status = *in.Status
	}
	if in.Designer != nil {
		current.Designer = toNull(*in.Designer)
	}
	if in.DesignerLink != nil {
		current.DesignerLink = toNull(*in.DesignerLink)
	}
	if in.Company != nil {
		current.Company = toNull(*in.Company)
	}
	if in.ProjectLink != nil {
		current.ProjectLink = toNull(*in.ProjectLink)
	}
	if in.GithubLink != nil {
		current.GithubLink = toNull(*in.GithubLink)
	}

	return tx.UpdateMobileApp(current)
}

// Delete destroys every media asset the row owns (best-effort, continuing
// past individual failures), then deletes the row. A row-delete failure is
// still reported even though already-destroyed assets are unrecoverable.
func (s *MobileAppService) Delete(id int64) error {
	tx, err := s.store.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	app, err := tx.GetMobileApp(id)
	if errors.Is(err, database.ErrNotFound) {
		s.rollback(tx)
		return fmt.Errorf("mobile app %d: %w", id, ErrNotFound)
	}
	if err != nil {
		s.rollback(tx)
		return fmt.Errorf("failed to load mobile app: %w", err)
	}

	for _, item := range app.Media {
		if err := s.objects.Destroy(item.PublicID, item.Kind()); err != nil {
			s.log.Warn("failed to destroy media asset during delete",
				zap.Int64("mobile_app_id", id),
				zap.String("public_id", item.PublicID),
				zap.Error(err))
		}
	}

	if err := tx.DeleteMobileApp(id); err != nil {
		s.rollback(tx)
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.publish(id, "project_deleted", realtime.ProjectDeletedPayload(id))
	return nil
}

func (s *MobileAppService) Get(id int64) (*models.MobileApp, error) {
	app, err := s.store.GetMobileAppByID(id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("mobile app %d: %w", id, ErrNotFound)
	}
	return app, err
}

func (s *MobileAppService) List() ([]models.MobileApp, error) {
	return s.store.ListMobileApps()
}

// compensate rolls the transaction back and drains the cleanup list. Both
// halves are best-effort and never mask the error that triggered them.
func (s *MobileAppService) compensate(tx database.Tx, cleanup *media.CleanupList) {
	s.rollback(tx)
	cleanup.Drain(s.objects, s.log)
}

func (s *MobileAppService) rollback(tx database.Tx) {
	if err := tx.Rollback(); err != nil {
		s.log.Warn("transaction rollback failed", zap.Error(err))
	}
}

func (s *MobileAppService) publish(id int64, event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProjectEvent(id, event, payload); err != nil {
		s.log.Warn("failed to publish project event",
			zap.Int64("mobile_app_id", id),
			zap.String("event", event),
			zap.Error(err))
	}
}

func toNull(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// ParseStacks accepts the technology list either as a JSON array or as a
// comma-separated string and normalizes it to trimmed non-empty entries.
func ParseStacks(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		parsed = strings.Split(raw, ",")
	}

	stacks := make([]string, 0, len(parsed))
	for _, s := range parsed {
		if s = strings.TrimSpace(s); s != "" {
			stacks = append(stacks, s)
		}
	}
	return stacks
}
