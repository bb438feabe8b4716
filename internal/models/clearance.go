package models

import "time"

// ClearanceReason is the enumerated set the request form offers. "Other"
// requires free-text detail.
type ClearanceReason string

const (
	ReasonEndOfAcademicYear ClearanceReason = "End of Academic Year"
	ReasonGraduation        ClearanceReason = "Graduation"
	ReasonAcademicDismissal ClearanceReason = "Academic Dismissal"
	ReasonWithdrawing       ClearanceReason = "Withdrawing for Health/Family Reasons"
	ReasonDisciplinaryCase  ClearanceReason = "Disciplinary Case"
	ReasonOther             ClearanceReason = "Other"
)

// KnownReasons lists every selectable reason in form order.
func KnownReasons() []ClearanceReason {
	return []ClearanceReason{
		ReasonEndOfAcademicYear,
		ReasonGraduation,
		ReasonAcademicDismissal,
		ReasonWithdrawing,
		ReasonDisciplinaryCase,
		ReasonOther,
	}
}

// ClearanceSubmission carries the requester-editable fields of the form.
// Identity fields are never accepted from the client; they are resolved from
// the directory against the authenticated student.
type ClearanceSubmission struct {
	AcademicYear string `json:"academicYear"`
	Semester     string `json:"semester"`
	YearOfStudy  string `json:"yearOfStudy"`
	Reason       string `json:"reason"`
	OtherReason  string `json:"otherReason"`
	Date         string `json:"date"`
}

// DecisionOutcome is the terminal state of one submission.
type DecisionOutcome string

const (
	// DecisionRejected means validation failed; no directory or registry
	// lookup was performed.
	DecisionRejected DecisionOutcome = "rejected"
	// DecisionDenied means an active risk entry blocks the student.
	DecisionDenied   DecisionOutcome = "denied"
	DecisionApproved DecisionOutcome = "approved"
)

// CertificateData is the snapshot an approved decision binds into the
// rendered certificate. All identity fields come from the directory record.
type CertificateData struct {
	StudentName     string    `json:"studentName"`
	FatherName      string    `json:"fatherName"`
	GrandFatherName string    `json:"grandFatherName"`
	Sex             string    `json:"sex"`
	StudentID       string    `json:"studentId"`
	Department      string    `json:"department"`
	AcademicYear    string    `json:"academicYear"`
	Semester        string    `json:"semester"`
	YearOfStudy     string    `json:"yearOfStudy"`
	Reason          string    `json:"reason"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// ClearanceDecision is derived per submission and never persisted as request
// history. Approved decisions are held in memory only long enough for the
// certificate to be previewed or saved.
type ClearanceDecision struct {
	ID              string            `json:"id"`
	StudentID       string            `json:"studentId"`
	Outcome         DecisionOutcome   `json:"outcome"`
	Message         string            `json:"message"`
	FieldErrors     map[string]string `json:"fieldErrors,omitempty"`
	BlockingEntries []RiskEntry       `json:"blockingEntries,omitempty"`
	Certificate     *CertificateData  `json:"certificate,omitempty"`
	DecidedAt       time.Time         `json:"decidedAt"`
}
