package models

import "time"

// StudentProfile is the authoritative directory record for an enrolled
// student. Reference data: seeded at startup and never mutated by the
// clearance workflow.
type StudentProfile struct {
	ID              string    `db:"id" json:"id"`
	StudentID       string    `db:"student_id" json:"studentId"`
	StudentName     string    `db:"student_name" json:"studentName"`
	FatherName      string    `db:"father_name" json:"fatherName"`
	GrandFatherName string    `db:"grand_father_name" json:"grandFatherName"`
	Sex             string    `db:"sex" json:"sex"`
	Department      string    `db:"department" json:"department"`
	AcademicYear    string    `db:"academic_year" json:"academicYear"`
	YearOfStudy     string    `db:"year_of_study" json:"yearOfStudy"`
	Username        string    `db:"username" json:"-"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
