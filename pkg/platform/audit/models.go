package audit

import (
	"context"
	"time"

	id "hotelchain/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers money movement and account lifecycle. Kept
	// for the statutory bookkeeping period.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers authentication failures, lockouts and role changes.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine front-desk and inventory activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string
	Category  EventCategory
	Timestamp time.Time
	// UserID is the user the action concerns (the guest for a booking).
	UserID id.UserID
	// ActorID is the staff member who performed the action when different from UserID.
	ActorID   string
	BranchID  string
	Subject   string
	Action    string
	Reason    string
	Email     string
	RequestID string
	IP        string
}

type AuditEvent string

const (
	// Identity events
	EventUserRegistered AuditEvent = "user_registered"
	EventUserCreated    AuditEvent = "user_created"
	EventUserDeleted    AuditEvent = "user_deleted"
	EventUserUpdated    AuditEvent = "user_updated"
	EventLoginSucceeded AuditEvent = "login_succeeded"
	EventLoginFailed    AuditEvent = "login_failed"
	EventLoginLocked    AuditEvent = "login_locked"
	EventLoggedOut      AuditEvent = "logged_out"

	// Inventory events
	EventBranchCreated   AuditEvent = "branch_created"
	EventBranchUpdated   AuditEvent = "branch_updated"
	EventBranchDeleted   AuditEvent = "branch_deleted"
	EventRoomTypeCreated AuditEvent = "room_type_created"
	EventRoomCreated     AuditEvent = "room_created"
	EventRoomUpdated     AuditEvent = "room_updated"
	EventRoomDeleted     AuditEvent = "room_deleted"

	// Booking events
	EventReservationCreated   AuditEvent = "reservation_created"
	EventReservationEdited    AuditEvent = "reservation_edited"
	EventReservationCancelled AuditEvent = "reservation_cancelled"
	EventGuestCheckedIn       AuditEvent = "guest_checked_in"
	EventWalkInCheckedIn      AuditEvent = "walk_in_checked_in"
	EventGuestCheckedOut      AuditEvent = "guest_checked_out"
	EventCheckOutModified     AuditEvent = "check_out_modified"

	// Billing events
	EventPaymentRecorded AuditEvent = "payment_recorded"
	EventInvoiceIssued   AuditEvent = "invoice_issued"
	EventInvoicePaid     AuditEvent = "invoice_paid"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserRegistered:  CategoryCompliance,
	EventUserCreated:     CategoryCompliance,
	EventUserDeleted:     CategoryCompliance,
	EventUserUpdated:     CategoryCompliance,
	EventPaymentRecorded: CategoryCompliance,
	EventInvoiceIssued:   CategoryCompliance,
	EventInvoicePaid:     CategoryCompliance,

	EventLoginFailed: CategorySecurity,
	EventLoginLocked: CategorySecurity,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
