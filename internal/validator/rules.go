package validator

import (
	"dlibrary_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires the domain enums into the validator so request
// structs can tag fields instead of checking by hand.
func registerCustomRules(v *validator.Validate) error {
	return v.RegisterValidation("is-user-role", validateUserRole)
}

// validateUserRole accepts only roles an administrator may assign.
func validateUserRole(fl validator.FieldLevel) bool {
	return models.IsAssignableRole(models.UserRole(fl.Field().String()))
}
