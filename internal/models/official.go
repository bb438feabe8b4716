package models

import "time"

// OfficialProfile is a staff directory record managed by the main admin.
type OfficialProfile struct {
	ID           string    `db:"id" json:"id"`
	OfficialID   string    `db:"official_id" json:"officialId"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Role         Role      `db:"role" json:"role"`
	Profession   string    `db:"profession" json:"profession"`
	Education    string    `db:"education" json:"education"`
	Department   string    `db:"department" json:"department"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name for display and audit records.
func (o OfficialProfile) FullName() string {
	if o.FirstName == "" {
		return o.LastName
	}
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}

// OfficialFilter captures filtering criteria for listing officials. Search
// matches across every textual field, mirroring the admin table's free-text
// filter box.
type OfficialFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
}

// Admin is an institution-wide administrator account.
type Admin struct {
	ID           string    `db:"id" json:"id"`
	AdminID      string    `db:"admin_id" json:"adminId"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"-"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// OfficialRequest carries the intake form fields for creating or updating an
// official. Which fields are required is configuration-driven; Password is
// optional on update and means "keep the current one" when empty.
type OfficialRequest struct {
	OfficialID string `json:"officialId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	Profession string `json:"profession"`
	Education  string `json:"education"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}
