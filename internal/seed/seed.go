// Package seed holds the bundled directory collections used when no
// database is reachable. Records are normalized here so the rest of the
// system only ever sees fully-populated, typed profiles: plaintext seed
// passwords become bcrypt hashes, drifted field names are mapped onto the
// canonical schema, and risk entries missing a status default to blocking.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

//go:embed students.json
var studentsJSON []byte

//go:embed officials.json
var officialsJSON []byte

//go:embed admins.json
var adminsJSON []byte

//go:embed risks.json
var risksJSON []byte

// Data bundles every seeded collection.
type Data struct {
	Students  []models.StudentProfile
	Officials []models.OfficialProfile
	Admins    []models.Admin
	Risks     []models.RiskEntry
}

type rawStudent struct {
	StudentID       string `json:"studentId"`
	StudentName     string `json:"studentName"`
	FatherName      string `json:"fatherName"`
	GrandFatherName string `json:"grandFatherName"`
	Sex             string `json:"sex"`
	Department      string `json:"department"`
	AcademicYear    string `json:"academicYear"`
	YearOfStudy     string `json:"yearOfStudy"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

type rawOfficial struct {
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

type rawAdmin struct {
	AdminID  string `json:"adminId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// rawRisk tolerates both historical spellings of the case field.
type rawRisk struct {
	StudentID   string `json:"studentId"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	RiskCase    string `json:"riskCase"`
	Case        string `json:"case"`
	AddedBy     string `json:"addedBy"`
	AddedByID   string `json:"addedById"`
	Status      string `json:"status"`
}

// Load parses and normalizes the bundled collections.
func Load() (*Data, error) {
	now := time.Now().UTC()
	data := &Data{}

	var students struct {
		Students []rawStudent `json:"students"`
	}
	if err := json.Unmarshal(studentsJSON, &students); err != nil {
		return nil, fmt.Errorf("parse student seed: %w", err)
	}
	for _, raw := range students.Students {
		hash, err := hashPassword(raw.Password)
		if err != nil {
			return nil, err
		}
		data.Students = append(data.Students, models.StudentProfile{
			ID:              uuid.NewString(),
			StudentID:       strings.TrimSpace(raw.StudentID),
			StudentName:     raw.StudentName,
			FatherName:      raw.FatherName,
			GrandFatherName: raw.GrandFatherName,
			Sex:             raw.Sex,
			Department:      raw.Department,
			AcademicYear:    raw.AcademicYear,
			YearOfStudy:     raw.YearOfStudy,
			Username:        raw.Username,
			PasswordHash:    hash,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	var officials struct {
		Officials []rawOfficial `json:"officials"`
	}
	if err := json.Unmarshal(officialsJSON, &officials); err != nil {
		return nil, fmt.Errorf("parse official seed: %w", err)
	}
	for _, raw := range officials.Officials {
		hash, err := hashPassword(raw.Password)
		if err != nil {
			return nil, err
		}
		role := models.Role(raw.Role)
		if !role.Valid() {
			role = models.RoleDepartmentOfficial
		}
		data.Officials = append(data.Officials, models.OfficialProfile{
			ID:           uuid.NewString(),
			OfficialID:   strings.TrimSpace(raw.OfficialID),
			FirstName:    raw.FirstName,
			LastName:     raw.LastName,
			Role:         role,
			Profession:   raw.Profession,
			Education:    raw.Education,
			Department:   raw.Department,
			Email:        raw.Email,
			Phone:        raw.Phone,
			Username:     raw.Username,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	var admins struct {
		Admins []rawAdmin `json:"admins"`
	}
	if err := json.Unmarshal(adminsJSON, &admins); err != nil {
		return nil, fmt.Errorf("parse admin seed: %w", err)
	}
	for _, raw := range admins.Admins {
		hash, err := hashPassword(raw.Password)
		if err != nil {
			return nil, err
		}
		data.Admins = append(data.Admins, models.Admin{
			ID:           uuid.NewString(),
			AdminID:      strings.TrimSpace(raw.AdminID),
			Name:         raw.Name,
			Email:        raw.Email,
			Username:     raw.Username,
			PasswordHash: hash,
			CreatedAt:    now,
		})
	}

	var risks struct {
		Risks []rawRisk `json:"risks"`
	}
	if err := json.Unmarshal(risksJSON, &risks); err != nil {
		return nil, fmt.Errorf("parse risk seed: %w", err)
	}
	for _, raw := range risks.Risks {
		caseText := raw.RiskCase
		if caseText == "" {
			caseText = raw.Case
		}
		status := models.RiskStatus(raw.Status)
		if status == "" {
			status = models.RiskStatusAtRisk
		}
		data.Risks = append(data.Risks, models.RiskEntry{
			ID:              uuid.NewString(),
			StudentID:       strings.TrimSpace(raw.StudentID),
			StudentName:     raw.Name,
			Department:      raw.Department,
			CaseDescription: caseText,
			AddedByID:       raw.AddedByID,
			AddedByName:     raw.AddedBy,
			Status:          status,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	return data, nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	return string(hash), nil
}
