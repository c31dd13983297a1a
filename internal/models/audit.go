package models

import "time"

// Audit action labels recorded by the core components.
const (
	AuditActionUserRegistered     = "User Registered"
	AuditActionUserLogin          = "User Login"
	AuditActionLoginFailed        = "Login Failed"
	AuditActionSubjectCreated     = "Subject Created"
	AuditActionSubjectUpdated     = "Subject Updated"
	AuditActionSubjectDeleted     = "Subject Deleted"
	AuditActionEnrollmentRequest  = "Enrollment Requested"
	AuditActionEnrollmentApproved = "Enrollment Approved"
	AuditActionEnrollmentDeclined = "Enrollment Declined"
	AuditActionRoomCreated        = "Room Created"
	AuditActionRoomDeleted        = "Room Deleted"
	AuditActionLabCreated         = "Lab Created"
	AuditActionLabDeleted         = "Lab Deleted"
)

// ActorSystem credits state changes not attributable to a user.
const ActorSystem = "system"

// AuditEntry is an immutable row in the append-only audit trail.
// TS carries second precision, matching the persisted format.
type AuditEntry struct {
	ID      string         `json:"id"`
	TS      time.Time      `json:"ts"`
	Action  string         `json:"action"`
	Actor   string         `json:"actor"`
	Details map[string]any `json:"details"`
}
