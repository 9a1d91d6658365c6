package events

import (
	"time"

	"github.com/spec-kit/denuncia-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered   EventType = "account_registered"
	EventAccountVerified     EventType = "account_verified"
	EventAccountBlockChanged EventType = "account_block_changed"
	EventReportCreated       EventType = "report_created"
	EventReportStatusChanged EventType = "report_status_changed"
	EventReportDeleted       EventType = "report_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type      domain.SubjectType `json:"type"`
	AccountID *string            `json:"account_id,omitempty"`
	AdminID   *string            `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// AccountBlockChangedPayload payload.
type AccountBlockChangedPayload struct {
	Blocked bool `json:"blocked"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Title    string                `json:"title"`
	Category domain.ReportCategory `json:"category"`
	OwnerID  string                `json:"owner_id"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
}
