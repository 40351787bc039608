package service

import "errors"

var (
	// ErrValidation marks any input that fails the user/task field rules.
	// Concrete field problems ride along in a [ValidationError].
	ErrValidation = errors.New("invalid data provided")

	// ErrInvalidCredentials is returned by Login for both an unknown email
	// and a wrong password. The two cases are deliberately
	// indistinguishable so that callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("unable to login")

	// ErrUnauthenticated is returned by Authenticate for every failure
	// mode: missing token, bad signature, expired token, or a token no
	// longer present in the user's token list. Callers never learn which.
	ErrUnauthenticated = errors.New("please authenticate")

	// ErrInvalidOperation is returned when a profile or task update names
	// a field outside the allow-list. Nothing is applied.
	ErrInvalidOperation = errors.New("invalid update operation")

	// ErrTokenCreationFailed is returned when signing a new JWT fails.
	ErrTokenCreationFailed = errors.New("token creation failed")
)
