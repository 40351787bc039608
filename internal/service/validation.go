package service

import (
	"fmt"
	"regexp"
	"strings"
)

// emailPattern is a pragmatic address-syntax check: one "@", no whitespace,
// a dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects all field problems of one request. It wraps
// [ErrValidation] so callers can match with errors.Is without inspecting
// individual fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// UserInput carries the raw signup fields before validation and hashing.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int64  `json:"age"`
}

// NormalizeEmail trims surrounding whitespace and lowercases the address,
// matching how emails are stored and compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateNewUser checks the signup input against the user field rules and
// returns a [ValidationError] listing every violated rule, or nil when the
// input is acceptable. It is a pure function: no hashing, no persistence.
//
// Rules:
//   - email: required, must match address syntax (checked after
//     normalization);
//   - password: required, minimum 7 characters, must not contain the
//     substring "password" in any letter case;
//   - age: must not be negative.
func ValidateNewUser(in UserInput) error {
	var fields []FieldError

	fields = append(fields, validateEmail(NormalizeEmail(in.Email))...)
	fields = append(fields, validatePassword(in.Password)...)
	fields = append(fields, validateAge(in.Age)...)

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func validateEmail(email string) []FieldError {
	if email == "" {
		return []FieldError{{Field: "email", Message: "email is required"}}
	}
	if !emailPattern.MatchString(email) {
		return []FieldError{{Field: "email", Message: "incorrect email format"}}
	}

	return nil
}

func validatePassword(password string) []FieldError {
	password = strings.TrimSpace(password)

	if password == "" {
		return []FieldError{{Field: "password", Message: "password is required"}}
	}
	if len(password) < 7 {
		return []FieldError{{Field: "password", Message: "password must be at least 7 characters long"}}
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return []FieldError{{Field: "password", Message: `password must not contain "password"`}}
	}

	return nil
}

func validateAge(age int64) []FieldError {
	if age < 0 {
		return []FieldError{{Field: "age", Message: "age must be a positive number"}}
	}

	return nil
}
