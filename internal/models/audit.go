package models

import "time"

// AuditAction classifies an audit entry
type AuditAction string

const (
	AuditSearch        AuditAction = "SEARCH"
	AuditSelection     AuditAction = "SELECTION"
	AuditOverride      AuditAction = "OVERRIDE"
	AuditSynonymAdd    AuditAction = "SYNONYM_ADD"
	AuditSynonymRemove AuditAction = "SYNONYM_REMOVE"
	AuditLogin         AuditAction = "LOGIN"
	AuditUserCreate    AuditAction = "USER_CREATE"
	AuditUserToggle    AuditAction = "USER_TOGGLE"
	AuditUserDelete    AuditAction = "USER_DELETE"
	AuditSMSStatus     AuditAction = "SMS_STATUS"
)

// AuditEntry is append-only. ID order is insertion order.
type AuditEntry struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	Timestamp  time.Time   `json:"timestamp" gorm:"not null;index"`
	Action     AuditAction `json:"action" gorm:"size:32;not null;index"`
	Actor      string      `json:"user" gorm:"size:120"`
	Details    string      `json:"details"`
	NcoCode    string      `json:"ncoCode,omitempty" gorm:"size:8"`
	Confidence *float64    `json:"confidence,omitempty"`
}
