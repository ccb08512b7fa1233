package customers

import (
	"strings"
	"time"

	"customer-svc/internal/types"
)

// ValidateCreateRequest applies the field-level checks a submission must pass
// before it reaches the store. Email and phone formats are deliberately not
// checked beyond presence; the stored contract imposes none.
func ValidateCreateRequest(r *CreateRequest) error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.Phone) == "" {
		return types.NewValidationError("Name, email, and phone are required fields")
	}
	if err := validateDob(r.Dob); err != nil {
		return err
	}
	if r.Nationality != "" {
		if err := validateNationality(r.Nationality); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUpdateRequest checks only the fields the caller actually sent.
func ValidateUpdateRequest(r *UpdateRequest) error {
	if r.Dob != nil {
		if err := validateDob(*r.Dob); err != nil {
			return err
		}
	}
	if r.Nationality != nil && *r.Nationality != "" {
		if err := validateNationality(*r.Nationality); err != nil {
			return err
		}
	}
	return nil
}

// validateDob rejects future dates. Comparison is lexicographic on ISO
// strings, which is chronologically correct for the YYYY-MM-DD layout.
func validateDob(dob string) error {
	if dob == "" {
		return nil
	}
	today := time.Now().UTC().Format(types.DateLayout)
	if dob > today {
		return types.NewValidationError("Date of birth cannot be in the future")
	}
	return nil
}

func validateNationality(raw string) error {
	switch types.Nationality(raw) {
	case types.NationalityDomestic, types.NationalityForeign:
		return nil
	default:
		return types.NewValidationError("nationality must be %s or %s", types.NationalityDomestic, types.NationalityForeign)
	}
}
