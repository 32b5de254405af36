package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

// Validation limits
const (
	MinUsernameLength      = 3
	MaxUsernameLength      = 30
	MinNameLength          = 2
	MaxNameLength          = 255
	MinTitleLength         = 3
	MaxTitleLength         = 255
	MinDescriptionLength   = 10
	MaxDescriptionLength   = 5000
	MaxLocationLength      = 255
	MaxAddressLength       = 255
	MaxFeedbackLength      = 2000
	MaxCompanyNameLength   = 255
	MaxLicenseNumberLength = 100
	PhoneLength            = 10
	PincodeLength          = 6
)

var (
	digitsOnly    = regexp.MustCompile(`^[0-9]+$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9._-]+$`)
)

// failf builds a validation error, so callers can return it unwrapped
// and the HTTP layer still reports a 400 instead of a masked 500.
func failf(format string, args ...any) error {
	return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf(format, args...))
}

// ValidateLength checks the rune length of a string field.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return failf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return failf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty checks that a string is not blank.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return failf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateEmail checks the email format.
func ValidateEmail(email string) error {
	if email == "" {
		return failf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return failf("invalid email format")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return failf("email local part must be between 1 and 64 characters")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 || !strings.Contains(domainPart, ".") {
		return failf("invalid email domain")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return failf("email local part contains invalid characters")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return failf("invalid email domain format")
	}

	return nil
}

// ValidateUsername checks the login name.
func ValidateUsername(username string) error {
	if username == "" {
		return failf("username is required")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("username", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	if !usernameRegex.MatchString(strings.ToLower(username)) {
		return failf("username may only contain letters, digits, dots, dashes and underscores")
	}

	return nil
}

// ValidatePhone checks a contact phone number: exactly 10 digits.
func ValidatePhone(phone string) error {
	if phone == "" {
		return failf("phone number is required")
	}
	if !digitsOnly.MatchString(phone) {
		return failf("phone number must contain only digits")
	}
	if len(phone) != PhoneLength {
		return failf("phone number must be exactly %d digits", PhoneLength)
	}
	return nil
}

// ValidatePincode checks an optional postal code: 6 digits when present.
func ValidatePincode(pincode string) error {
	if pincode == "" {
		return nil
	}
	if !digitsOnly.MatchString(pincode) || len(pincode) != PincodeLength {
		return failf("pincode must be exactly %d digits", PincodeLength)
	}
	return nil
}

// ValidateComplaintTitle checks a complaint title.
func ValidateComplaintTitle(title string) error {
	if err := ValidateNonEmpty("title", title); err != nil {
		return err
	}
	return ValidateLength("title", title, MinTitleLength, MaxTitleLength)
}

// ValidateComplaintDescription checks a complaint description.
func ValidateComplaintDescription(description string) error {
	if err := ValidateNonEmpty("description", description); err != nil {
		return err
	}
	return ValidateLength("description", description, MinDescriptionLength, MaxDescriptionLength)
}

// ValidateRejectionReason checks officer feedback attached to a rejection.
func ValidateRejectionReason(reason string) error {
	if err := ValidateNonEmpty("rejection reason", reason); err != nil {
		return err
	}
	return ValidateLength("rejection reason", reason, 0, MaxFeedbackLength)
}
