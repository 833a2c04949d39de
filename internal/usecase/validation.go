package usecase

import (
	"fmt"
	"net/mail"
	"strings"
)

const maxNameLength = 200

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateSaveSignatureInput(input SaveSignatureInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.Signature) == "" {
		errors = append(errors, ValidationError{"signature", "is required"})
	}

	if len(input.Name) > maxNameLength {
		errors = append(errors, ValidationError{"name", fmt.Sprintf("must not exceed %d characters", maxNameLength)})
	}

	return errors
}

func ValidateNotifyApproversInput(input NotifyApproversInput) []ValidationError {
	var errors []ValidationError

	if len(input.Signatures) == 0 {
		errors = append(errors, ValidationError{"signatures", "is required and must not be empty"})
	}

	return errors
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return false
	}
	// ParseAddress accepts "Name <addr>"; only a bare address is a valid key.
	return strings.EqualFold(addr.Address, strings.TrimSpace(email))
}

func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
