package model

import (
	"errors"
	"fmt"
	"strings"
)

// Grade bounds supported by the task bank.
const (
	MinGrade = 5
	MaxGrade = 10
)

const MinPasswordLength = 6

var ErrEmailEmpty = errors.New("email must not be empty")
var ErrEmailInvalid = errors.New("email must contain a single @ with a non-empty local part and domain")
var ErrNameEmpty = errors.New("name must not be empty")
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
var ErrInvalidRole = errors.New("invalid role: must be student or admin")
var ErrGradeOutOfRange = fmt.Errorf("grade must be between %d and %d", MinGrade, MaxGrade)
var ErrGradeRequired = errors.New("students must have a grade")

// User is the account record as returned by the backend. The progress fields
// (XP, Level, Badges) are computed server-side; the client only caches them.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      Role     `json:"role"`
	Grade     *int     `json:"grade,omitempty"` // only set for students
	XP        int      `json:"xp"`
	Level     int      `json:"level"`
	Badges    []string `json:"badges"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// IsStudent reports whether the user has the student role.
func (u *User) IsStudent() bool { return u != nil && u.Role == RoleStudent }

// Registration is the payload sent to the register endpoint.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Grade    *int   `json:"grade"`
}

// Normalize enforces the grade invariant: only students carry a grade.
// The backend is not trusted to strip it symmetrically, so the client
// clears it before sending.
func (r *Registration) Normalize() {
	if r.Role != RoleStudent {
		r.Grade = nil
	}
}

// Validate checks a registration payload before it goes on the wire.
// Normalize should be called first.
func (r *Registration) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameEmpty
	}
	if !r.Role.Valid() {
		return ErrInvalidRole
	}
	if r.Role == RoleStudent {
		if r.Grade == nil {
			return ErrGradeRequired
		}
		if err := ValidateGrade(*r.Grade); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEmail performs a cheap shape check; the backend does the real
// verification.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailEmpty
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return ErrEmailInvalid
	}
	domain := email[at+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return ErrEmailInvalid
	}
	return nil
}

// ValidateGrade checks that a grade is within the supported range.
func ValidateGrade(grade int) error {
	if grade < MinGrade || grade > MaxGrade {
		return ErrGradeOutOfRange
	}
	return nil
}
