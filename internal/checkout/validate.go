package checkout

import (
	"regexp"
	"strings"

	"shopease-service/internal/entity"
	"shopease-service/internal/validation"
)

const (
	msgRequired     = "This field is required"
	msgInvalidEmail = "Please enter a valid email address"
	msgInvalidPhone = "Please enter a valid phone number"
	msgInvalidZip   = "Please enter a valid zip code"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\d{10,13}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Validate checks a shipping form. Every field except country is required;
// email, phone and zip code are format-checked once present.
func Validate(d entity.ShippingDetails) validation.FieldErrors {
	errs := validation.FieldErrors{}

	required := []struct {
		field string
		value string
	}{
		{"first_name", d.FirstName},
		{"last_name", d.LastName},
		{"email", d.Email},
		{"address", d.Address},
		{"city", d.City},
		{"state", d.State},
		{"zip_code", d.ZipCode},
		{"phone", d.Phone},
	}
	for _, r := range required {
		if validation.Blank(r.value) {
			errs.Add(r.field, msgRequired)
		}
	}

	if !validation.Blank(d.Email) && !emailPattern.MatchString(d.Email) {
		errs.Add("email", msgInvalidEmail)
	}
	if !validation.Blank(d.Phone) && !phonePattern.MatchString(validation.Digits(d.Phone)) {
		errs.Add("phone", msgInvalidPhone)
	}
	if !validation.Blank(d.ZipCode) && !zipPattern.MatchString(strings.TrimSpace(d.ZipCode)) {
		errs.Add("zip_code", msgInvalidZip)
	}
	return errs
}
