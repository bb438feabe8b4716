package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionOfficialCreate = "OFFICIAL_CREATE"
	AuditActionOfficialUpdate = "OFFICIAL_UPDATE"
	AuditActionOfficialDelete = "OFFICIAL_DELETE"
	AuditActionRiskCreate     = "RISK_CREATE"
	AuditActionRiskUpdate     = "RISK_UPDATE"
	AuditActionRiskDelete     = "RISK_DELETE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ActorID    *string   `db:"actor_id" json:"actor_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Detail     []byte    `db:"detail" json:"detail,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
