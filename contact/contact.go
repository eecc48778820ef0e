package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"giveaway-system/models"
)

// ErrInvalidContact is returned when a required contact is missing or fails
// the minimal format check for its type.
var ErrInvalidContact = errors.New("invalid contact")

// Contact types.
const (
	TypePhone = "phone"
	TypeEmail = "email"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Contact is a normalized contact identity.
type Contact struct {
	Type  string
	Value string
}

// Resolved carries the normalized contacts for a submission. Primary is the
// identity the entry is keyed on; Secondary is set only for the "both"
// entry-type policy, where the phone is primary and the email rides along.
type Resolved struct {
	Primary   Contact
	Secondary *Contact
}

// NormalizePhone strips a raw phone string to digits only. A leading US
// country code on an 11-digit number is dropped so "+1 555..." and "555..."
// resolve to the same identity. Fails unless at least 10 digits remain.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) < 10 {
		return "", fmt.Errorf("%w: phone must have at least 10 digits", ErrInvalidContact)
	}
	return digits, nil
}

// NormalizeEmail lowercases and trims a raw email. Fails unless it matches a
// minimal local@domain shape.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailRe.MatchString(email) {
		return "", fmt.Errorf("%w: malformed email address", ErrInvalidContact)
	}
	return email, nil
}

// Normalize validates a single contact value of the given type.
func Normalize(contactType, raw string) (Contact, error) {
	switch contactType {
	case TypePhone:
		v, err := NormalizePhone(raw)
		if err != nil {
			return Contact{}, err
		}
		return Contact{Type: TypePhone, Value: v}, nil
	case TypeEmail:
		v, err := NormalizeEmail(raw)
		if err != nil {
			return Contact{}, err
		}
		return Contact{Type: TypeEmail, Value: v}, nil
	default:
		return Contact{}, fmt.Errorf("%w: unknown contact type %q", ErrInvalidContact, contactType)
	}
}

// Resolve normalizes the submitted contacts under the giveaway's entry-type
// policy. Pure function, no side effects.
func Resolve(entryType, phone, email string) (Resolved, error) {
	switch entryType {
	case models.EntryTypePhone:
		c, err := Normalize(TypePhone, phone)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Primary: c}, nil
	case models.EntryTypeEmail:
		c, err := Normalize(TypeEmail, email)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Primary: c}, nil
	case models.EntryTypeBoth:
		p, err := Normalize(TypePhone, phone)
		if err != nil {
			return Resolved{}, err
		}
		e, err := Normalize(TypeEmail, email)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Primary: p, Secondary: &e}, nil
	default:
		return Resolved{}, fmt.Errorf("%w: giveaway has unknown entry type %q", ErrInvalidContact, entryType)
	}
}
