package enrollment

import (
	"regexp"
	"strings"
	"time"

	"govpass-enrollment/models"
	"govpass-enrollment/phone"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const dateOfBirthLayout = "2006-01-02"

// FieldErrors maps a field name to a human-readable validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// ValidateDetails checks all seven personal details fields. It returns
// nil when everything passes, or a FieldErrors describing every failing
// field at once.
func ValidateDetails(details models.PersonalDetails) error {
	errs := FieldErrors{}

	if strings.TrimSpace(details.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(details.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}

	if strings.TrimSpace(details.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(details.Email) {
		errs["email"] = "Please enter a valid email address"
	}

	if strings.TrimSpace(details.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if !phone.IsNationalNumber(details.Phone) {
		errs["phone"] = "Please enter a valid phone number"
	}

	switch details.Gender {
	case "Male", "Female", "Other":
	case "":
		errs["gender"] = "Gender is required"
	default:
		errs["gender"] = "Gender must be Male, Female or Other"
	}

	if details.DateOfBirth == "" {
		errs["dateOfBirth"] = "Date of birth is required"
	} else if dob, err := time.Parse(dateOfBirthLayout, details.DateOfBirth); err != nil {
		errs["dateOfBirth"] = "Date of birth must be in YYYY-MM-DD format"
	} else if dob.After(time.Now()) {
		errs["dateOfBirth"] = "Date of birth cannot be in the future"
	}

	if strings.TrimSpace(details.NationalID) == "" {
		errs["nationalId"] = "National ID is required"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
