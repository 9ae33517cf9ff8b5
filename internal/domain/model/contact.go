// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"regexp"
	"time"
)

// Contact submission failures.
var (
	ErrMissingFields = errors.New("missing required contact fields")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrRateLimited   = errors.New("too many contact submissions")
	ErrAbandoned     = errors.New("contact submission abandoned")
)

// emailPattern accepts local@domain.tld where no part contains whitespace or '@'.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactSubmission is a contact form message. It is never stored.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactFromFields builds a submission from a decoded request body.
// Non-string values are treated as absent.
func ContactFromFields(fields map[string]any) ContactSubmission {
	str := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}
	return ContactSubmission{
		Name:    str("name"),
		Email:   str("email"),
		Subject: str("subject"),
		Message: str("message"),
	}
}

// Validate checks presence of all fields first, then the email format.
// A whitespace-only value is present; only the empty string is missing.
func (c ContactSubmission) Validate() error {
	for _, v := range []string{c.Name, c.Email, c.Subject, c.Message} {
		if v == "" {
			return ErrMissingFields
		}
	}
	if !ValidEmail(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ContactRecord is what gets written to the operational log for an
// accepted submission.
type ContactRecord struct {
	ID         string
	Submission ContactSubmission
	ReceivedAt time.Time
}

// LocalTimeLayout renders timestamps the way the site's audience reads them
// (time first, then day/month/year).
const LocalTimeLayout = "15:04:05 2/1/2006"
