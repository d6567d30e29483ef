package model_test

import (
	"testing"

	"github.com/mathevilla/mathevilla/pkg/model"
)

func intPtr(v int) *int { return &v }

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tcases := map[string]struct {
		email     string
		expectErr bool
	}{
		"valid":           {email: "a@b.de", expectErr: false},
		"empty":           {email: "", expectErr: true},
		"no_at":           {email: "nobody.example.com", expectErr: true},
		"two_ats":         {email: "a@@b.de", expectErr: true},
		"empty_local":     {email: "@b.de", expectErr: true},
		"domain_no_dot":   {email: "a@localhost", expectErr: true},
		"subdomain":       {email: "kid@school.example.org", expectErr: false},
		"trailing_domain": {email: "a@", expectErr: true},
	}

	for name, tc := range tcases {
		t.Run(name, func(t *testing.T) {
			err := model.ValidateEmail(tc.email)
			if tc.expectErr && err == nil {
				t.Fatalf("expected error for %q, got nil", tc.email)
			}
			if !tc.expectErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.email, err)
			}
		})
	}
}

func TestRegistrationNormalize(t *testing.T) {
	t.Parallel()

	// Admins must never carry a grade, even if the form supplied one.
	reg := model.Registration{
		Email:    "head@school.example.org",
		Password: "secret1",
		Name:     "Head Admin",
		Role:     model.RoleAdmin,
		Grade:    intPtr(9),
	}
	reg.Normalize()
	if reg.Grade != nil {
		t.Fatalf("expected grade cleared for admin, got %v", *reg.Grade)
	}
	if err := reg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	// Students keep theirs.
	reg = model.Registration{
		Email:    "kid@school.example.org",
		Password: "secret1",
		Name:     "Kid",
		Role:     model.RoleStudent,
		Grade:    intPtr(7),
	}
	reg.Normalize()
	if reg.Grade == nil || *reg.Grade != 7 {
		t.Fatalf("expected grade 7 kept for student, got %v", reg.Grade)
	}
}

func TestRegistrationValidate(t *testing.T) {
	t.Parallel()

	tcases := map[string]struct {
		reg     model.Registration
		wantErr error
	}{
		"student_without_grade": {
			reg:     model.Registration{Email: "a@b.de", Password: "secret1", Name: "A", Role: model.RoleStudent},
			wantErr: model.ErrGradeRequired,
		},
		"grade_below_range": {
			reg:     model.Registration{Email: "a@b.de", Password: "secret1", Name: "A", Role: model.RoleStudent, Grade: intPtr(4)},
			wantErr: model.ErrGradeOutOfRange,
		},
		"grade_above_range": {
			reg:     model.Registration{Email: "a@b.de", Password: "secret1", Name: "A", Role: model.RoleStudent, Grade: intPtr(11)},
			wantErr: model.ErrGradeOutOfRange,
		},
		"short_password": {
			reg:     model.Registration{Email: "a@b.de", Password: "abc", Name: "A", Role: model.RoleStudent, Grade: intPtr(5)},
			wantErr: model.ErrPasswordTooShort,
		},
		"unknown_role": {
			reg:     model.Registration{Email: "a@b.de", Password: "secret1", Name: "A", Role: "teacher"},
			wantErr: model.ErrInvalidRole,
		},
		"blank_name": {
			reg:     model.Registration{Email: "a@b.de", Password: "secret1", Name: "   ", Role: model.RoleStudent, Grade: intPtr(5)},
			wantErr: model.ErrNameEmpty,
		},
		"ok": {
			reg: model.Registration{Email: "a@b.de", Password: "secret1", Name: "A", Role: model.RoleStudent, Grade: intPtr(10)},
		},
	}

	for name, tc := range tcases {
		t.Run(name, func(t *testing.T) {
			err := tc.reg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err != tc.wantErr {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRolePermissions(t *testing.T) {
	t.Parallel()

	if !model.RoleAdmin.Can(model.PermManageTasks) {
		t.Fatal("admin should manage tasks")
	}
	if model.RoleStudent.Can(model.PermManageTasks) {
		t.Fatal("student must not manage tasks")
	}
	if !model.RoleStudent.Can(model.PermPracticeTasks) {
		t.Fatal("student should practice tasks")
	}
	if model.RoleAdmin.Can(model.PermSubmitChallenges) {
		t.Fatal("admin must not submit challenges")
	}
	if model.Role("teacher").Valid() {
		t.Fatal("unknown role must not validate")
	}
}
