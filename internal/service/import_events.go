package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// ImportEvent describes a finished import for downstream consumers (graders,
// sync jobs). Only the fields relevant to the import kind are set.
type ImportEvent struct {
	Kind               string    `json:"kind"`
	CourseID           string    `json:"course_id,omitempty"`
	Slug               string    `json:"slug,omitempty"`
	StudentsCreated    int       `json:"students_created,omitempty"`
	EnrollmentsCreated int       `json:"enrollments_created,omitempty"`
	SubmissionsAdded   int       `json:"submissions_added,omitempty"`
	StudentsUpdated    int       `json:"students_updated,omitempty"`
	RowsSkipped        int       `json:"rows_skipped,omitempty"`
	CompletedAt        time.Time `json:"completed_at"`
}

// ImportEventPublisher fans out import events. Publishing is best effort:
// failures are logged, never surfaced to the importing request.
type ImportEventPublisher interface {
	PublishImportEvent(event ImportEvent)
}

type natsImportEvents struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSImportEvents builds a publisher emitting import events on the given
// NATS subject.
func NewNATSImportEvents(conn *nats.Conn, subject string, logger zerolog.Logger) ImportEventPublisher {
	return &natsImportEvents{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "import_events").Logger(),
	}
}

func (p *natsImportEvents) PublishImportEvent(event ImportEvent) {
	if p.conn == nil || p.subject == "" {
		return
	}

	if event.CompletedAt.IsZero() {
		event.CompletedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode import event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", p.subject).Msg("failed to publish import event")
	}
}
