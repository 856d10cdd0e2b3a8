package session

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// Credentials is a login form. Identifier is a username or an email.
type Credentials struct {
	Identifier string
	Password   string
}

// RegistrationForm carries everything the sign-up flow collects.
type RegistrationForm struct {
	FullName        string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptedTerms   bool
}

// ValidateCredentials rejects obviously incomplete logins before any
// network traffic happens.
func ValidateCredentials(c Credentials) error {
	if strings.TrimSpace(c.Identifier) == "" {
		return &ValidationError{Field: "identifier", Message: "Username or email is required"}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	return nil
}

// ValidateRegistration applies the full client-side sign-up rules.
// The first violated rule wins.
func ValidateRegistration(f RegistrationForm) error {
	name := strings.TrimSpace(f.FullName)
	if name == "" {
		return &ValidationError{Field: "full_name", Message: "Full name is required"}
	}
	if len([]rune(name)) < 2 {
		return &ValidationError{Field: "full_name", Message: "Full name must be at least 2 characters"}
	}
	username := strings.TrimSpace(f.Username)
	if username == "" {
		return &ValidationError{Field: "username", Message: "Username is required"}
	}
	if len(username) < minUsernameLen {
		return &ValidationError{Field: "username", Message: "Username must be at least 3 characters"}
	}
	if !usernameRe.MatchString(username) {
		return &ValidationError{Field: "username", Message: "Username can only contain letters, numbers, and underscores"}
	}
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if !emailRe.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if f.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if err := validatePasswordStrength(f.Password); err != nil {
		return err
	}
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match"}
	}
	if !f.AcceptedTerms {
		return &ValidationError{Field: "terms", Message: "You must accept the terms and conditions"}
	}
	return nil
}

func validatePasswordStrength(password string) error {
	if len(password) < minPasswordLen {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return &ValidationError{Field: "password", Message: "Password must contain at least one uppercase letter, one lowercase letter, and one number"}
	}
	return nil
}
