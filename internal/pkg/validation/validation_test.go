package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
)

type signUpForm struct {
	Email    string      `validate:"required,email"`
	Password string      `validate:"required,min=8,password"`
	Role     models.Role `validate:"required,role"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		form signUpForm
		ok   bool
	}{
		{"valid", signUpForm{"demo@fringe.app", "fairway42", models.RoleStudent}, true},
		{"coach role", signUpForm{"coach@fringe.app", "fairway42", models.RoleCoach}, true},
		{"bad email", signUpForm{"not-an-email", "fairway42", models.RoleStudent}, false},
		{"short password", signUpForm{"demo@fringe.app", "ab1", models.RoleStudent}, false},
		{"password without digits", signUpForm{"demo@fringe.app", "fairwaysonly", models.RoleStudent}, false},
		{"password without letters", signUpForm{"demo@fringe.app", "12345678", models.RoleStudent}, false},
		{"unknown role", signUpForm{"demo@fringe.app", "fairway42", "caddy"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.form)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			}
		})
	}
}
