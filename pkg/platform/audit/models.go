package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// EventCategory classifies audit events for routing and retention.
type EventCategory string

const (
	// CategoryCompliance covers verification outcomes that feed an LC decision.
	CategoryCompliance EventCategory = "compliance"
	// CategoryOperations covers source health changes.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventFieldVerified      AuditEvent = "field_verified"
	EventDocumentsValidated AuditEvent = "documents_validated"
	EventBatchVerified      AuditEvent = "batch_verified"
	EventSourceOpened       AuditEvent = "source_circuit_opened"
	EventSourceClosed       AuditEvent = "source_circuit_closed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventFieldVerified:      CategoryCompliance,
	EventDocumentsValidated: CategoryCompliance,
	EventBatchVerified:      CategoryCompliance,
	EventSourceOpened:       CategoryOperations,
	EventSourceClosed:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted after a verification or validation completes. It never
// carries the raw field value, only ValueHash.
type Event struct {
	ID         string        `json:"id"`
	Category   EventCategory `json:"category"`
	Action     string        `json:"action"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
	Subject    string        `json:"subject,omitempty"`
	ClientIP   string        `json:"client_ip,omitempty"`
	Kind       string        `json:"kind,omitempty"`
	ValueHash  string        `json:"value_hash,omitempty"`
	Verified   bool          `json:"verified"`
	Confidence float64       `json:"confidence,omitempty"`
	Source     string        `json:"source,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	// Counts carries summary numbers (checks, errors, batch size).
	Counts map[string]int `json:"counts,omitempty"`
}

// Sink persists or forwards events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// HashValue returns the hex SHA-256 of the normalized value.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(strings.ToUpper(strings.TrimSpace(value))))
	return hex.EncodeToString(sum[:])
}
