package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vlebedev/go-task-manager/internal/avatar"
	"github.com/vlebedev/go-task-manager/internal/config"
	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/mailer"
	"github.com/vlebedev/go-task-manager/internal/store"
	"github.com/vlebedev/go-task-manager/internal/utils"
	"github.com/vlebedev/go-task-manager/models"
)

// userUpdatableFields is the fixed allow-list of profile fields a PATCH may
// touch. Any other key fails the whole update with ErrInvalidOperation.
var userUpdatableFields = map[string]struct{}{
	"name":     {},
	"email":    {},
	"password": {},
	"age":      {},
}

// userService is the concrete implementation of [UserService]: profile
// updates, avatar management, and account deletion with task cascade.
type userService struct {
	userRepository store.UserRepository
	mailer         mailer.Mailer
	bcryptCost     int
	logger         *logger.Logger
}

// NewUserService constructs a UserService wired to the given UserRepository.
func NewUserService(userRepository store.UserRepository, cfg config.App, mail mailer.Mailer, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		mailer:         mail,
		bcryptCost:     cfg.BcryptCost,
		logger:         logger,
	}
}

// UpdateProfile applies the submitted updates to the user record with
// all-or-nothing semantics.
//
// Every submitted key must be in the {name, email, password, age} allow-list,
// otherwise nothing is applied and ErrInvalidOperation is returned. Values
// are re-validated per the user field rules and the password, when present,
// is re-hashed before the record is persisted.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, updates map[string]any) (models.User, error) {
	log := logger.FromContext(ctx)

	if len(updates) == 0 {
		return models.User{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: "no updates provided"}}}
	}

	for key := range updates {
		if _, ok := userUpdatableFields[key]; !ok {
			log.Debug().Str("field", key).Msg("update of disallowed field requested")
			return models.User{}, fmt.Errorf("%w: field %q is not updatable", ErrInvalidOperation, key)
		}
	}

	fields, err := s.normalizeUserUpdates(updates)
	if err != nil {
		log.Err(err).Msg("invalid profile update data provided")
		return models.User{}, err
	}

	updated, err := s.userRepository.UpdateUser(ctx, userID, fields)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("profile update ended with error")
		return models.User{}, fmt.Errorf("profile update ended with error: %w", err)
	}

	return updated, nil
}

// normalizeUserUpdates validates the allow-listed values and converts them
// into column/value pairs ready for the store. The password is hashed here so
// plaintext never crosses the repository boundary.
func (s *userService) normalizeUserUpdates(updates map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(updates))
	var fieldErrors []FieldError

	if raw, ok := updates["name"]; ok {
		name, ok := raw.(string)
		if !ok {
			fieldErrors = append(fieldErrors, FieldError{Field: "name", Message: "name must be a string"})
		} else {
			fields["name"] = strings.TrimSpace(name)
		}
	}

	if raw, ok := updates["email"]; ok {
		email, ok := raw.(string)
		if !ok {
			fieldErrors = append(fieldErrors, FieldError{Field: "email", Message: "email must be a string"})
		} else {
			normalized := NormalizeEmail(email)
			if errs := validateEmail(normalized); len(errs) > 0 {
				fieldErrors = append(fieldErrors, errs...)
			} else {
				fields["email"] = normalized
			}
		}
	}

	if raw, ok := updates["password"]; ok {
		password, ok := raw.(string)
		if !ok {
			fieldErrors = append(fieldErrors, FieldError{Field: "password", Message: "password must be a string"})
		} else if errs := validatePassword(password); len(errs) > 0 {
			fieldErrors = append(fieldErrors, errs...)
		} else {
			hashed, err := utils.HashPassword(strings.TrimSpace(password), s.bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("password hashing failed: %w", err)
			}
			fields["password"] = hashed
		}
	}

	if raw, ok := updates["age"]; ok {
		age, err := toInt64(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{Field: "age", Message: "age must be a number"})
		} else if errs := validateAge(age); len(errs) > 0 {
			fieldErrors = append(fieldErrors, errs...)
		} else {
			fields["age"] = age
		}
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	return fields, nil
}

// toInt64 converts a decoded JSON number to int64. encoding/json produces
// float64 for plain maps and json.Number when configured.
func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", raw)
	}
}

// DeleteAccount removes the user record and every owned task in a single
// cascade, then queues a best-effort cancelation notification.
func (s *userService) DeleteAccount(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	if err := s.userRepository.DeleteUserCascade(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("account deletion ended with error")
		return fmt.Errorf("account deletion ended with error: %w", err)
	}

	// best-effort; a failed notification never resurrects the account
	s.mailer.SendCancelation(user.Email, user.Name)

	return nil
}

// SetAvatar validates the uploaded file, normalizes it to a 250x250 PNG, and
// stores it on the user record.
func (s *userService) SetAvatar(ctx context.Context, userID int64, filename string, data []byte) error {
	log := logger.FromContext(ctx)

	if err := avatar.ValidateFilename(filename); err != nil {
		return err
	}

	normalized, err := avatar.Normalize(data)
	if err != nil {
		log.Debug().Err(err).Msg("avatar normalization failed")
		return err
	}

	if err := s.userRepository.SaveAvatar(ctx, userID, normalized); err != nil {
		log.Err(err).Int64("id", userID).Msg("avatar saving failed")
		return fmt.Errorf("avatar saving failed: %w", err)
	}

	return nil
}

// GetAvatar returns the stored PNG avatar of the given user.
func (s *userService) GetAvatar(ctx context.Context, userID int64) ([]byte, error) {
	data, err := s.userRepository.GetAvatar(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("avatar lookup failed: %w", err)
	}

	return data, nil
}

// RemoveAvatar clears the stored avatar of the given user.
func (s *userService) RemoveAvatar(ctx context.Context, userID int64) error {
	if err := s.userRepository.DeleteAvatar(ctx, userID); err != nil {
		return fmt.Errorf("avatar removal failed: %w", err)
	}

	return nil
}
