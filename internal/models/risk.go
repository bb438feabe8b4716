package models

import "time"

// RiskStatus marks whether a registry entry still blocks clearance.
type RiskStatus string

const (
	// RiskStatusAtRisk blocks clearance. Legacy entries without a status
	// are normalized to this value at the repository boundary.
	RiskStatusAtRisk   RiskStatus = "atRisk"
	RiskStatusResolved RiskStatus = "resolved"
)

// Blocking reports whether an entry with this status denies clearance.
func (s RiskStatus) Blocking() bool {
	return s == RiskStatusAtRisk || s == ""
}

// RiskEntry flags a student as having an unresolved obligation. Entries are
// keyed by a generated stable ID; mutation by list position is not supported.
type RiskEntry struct {
	ID              string     `db:"id" json:"id"`
	StudentID       string     `db:"student_id" json:"studentId"`
	StudentName     string     `db:"student_name" json:"studentName"`
	Department      string     `db:"department" json:"department"`
	CaseDescription string     `db:"case_description" json:"caseDescription"`
	AddedByID       string     `db:"added_by_id" json:"addedById"`
	AddedByName     string     `db:"added_by_name" json:"addedByName"`
	Status          RiskStatus `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// RiskFilter captures filtering criteria for listing risk entries.
type RiskFilter struct {
	Search     string
	Department string
	Status     *RiskStatus
	Page       int
	PageSize   int
}

// RiskCreateRequest carries the fields an operator supplies when flagging a
// student. Identity fields of the student are resolved from the directory.
type RiskCreateRequest struct {
	StudentID       string `json:"studentId"`
	Department      string `json:"department"`
	CaseDescription string `json:"caseDescription"`
	Status          string `json:"status"`
}

// RiskUpdateRequest carries the mutable fields of an existing entry.
type RiskUpdateRequest struct {
	Department      string `json:"department"`
	CaseDescription string `json:"caseDescription"`
	Status          string `json:"status"`
}
