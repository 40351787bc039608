package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vlebedev/go-task-manager/internal/config"
	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/mailer"
	"github.com/vlebedev/go-task-manager/internal/store"
	"github.com/vlebedev/go-task-manager/internal/utils"
	"github.com/vlebedev/go-task-manager/models"
)

// authService is the concrete implementation of [AuthService]. It handles
// user registration, credential verification, and the bearer-token lifecycle
// using a UserRepository for persistence, bcrypt for password hashing, and
// HMAC-SHA256 signed JWTs bound to the per-user token list.
type authService struct {
	// userRepository is the data-access layer for users and their tokens.
	userRepository store.UserRepository

	// mailer queues best-effort account notifications.
	mailer mailer.Mailer

	// tokenSignKey is the HMAC secret used to sign and verify tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	// bcryptCost is the work factor applied when hashing passwords.
	bcryptCost int

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given UserRepository
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, cfg config.App, mail mailer.Mailer, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		mailer:         mail,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		bcryptCost:     cfg.BcryptCost,
		logger:         logger,
	}
}

// Signup creates a new user account and logs it in.
//
// The input is validated per the user field rules, the password is replaced
// by its bcrypt hash before the record ever reaches the store, a welcome
// notification is queued (its failure never fails the signup), and the first
// bearer token is issued and appended to the fresh user's token list.
//
// Returns:
//   - a *ValidationError (wrapping ErrValidation) on bad input;
//   - store.ErrEmailAlreadyExists when the email is taken;
//   - ErrTokenCreationFailed when signing the first token fails.
func (a *authService) Signup(ctx context.Context, in UserInput) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if err := ValidateNewUser(in); err != nil {
		log.Err(err).Msg("invalid signup data provided")
		return models.User{}, models.Token{}, err
	}

	hashed, err := utils.HashPassword(strings.TrimSpace(in.Password), a.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, models.Token{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    NormalizeEmail(in.Email),
		Password: hashed,
		Age:      in.Age,
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	// best-effort; a failed notification never fails the signup
	a.mailer.SendWelcome(registeredUser.Email, registeredUser.Name)

	token, err := a.issueToken(ctx, registeredUser.UserID)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return registeredUser, token, nil
}

// Login authenticates an existing user and opens a new session.
//
// It looks up the account by the normalized email and compares the supplied
// password against the stored bcrypt hash. A missing account and a wrong
// password both yield ErrInvalidCredentials, preventing user enumeration.
// On success a fresh token is issued and appended to the user's token list;
// existing sessions are unaffected.
func (a *authService) Login(ctx context.Context, email, password string) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	foundUser, err := a.userRepository.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug().Msg("login attempt for unknown email")
			return models.User{}, models.Token{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user search by email failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !utils.CheckPassword(password, foundUser.Password) {
		log.Debug().Int64("id", foundUser.UserID).Msg("login attempt with wrong password")
		return models.User{}, models.Token{}, ErrInvalidCredentials
	}

	token, err := a.issueToken(ctx, foundUser.UserID)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return foundUser, token, nil
}

// Authenticate resolves a bearer token string to the user it belongs to.
//
// The check runs in two steps: signature/expiry/issuer validation without any
// database round trip, then a lookup confirming the token is still present in
// the owning user's token list. Both failure modes collapse into
// ErrUnauthenticated so callers cannot distinguish a forged token from a
// revoked one.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Debug().Err(err).Msg("token validation failed")
		return models.User{}, ErrUnauthenticated
	}

	user, err := a.userRepository.FindUserByIDAndToken(ctx, token.UserID, tokenString)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug().Int64("id", token.UserID).Msg("token is revoked or user is gone")
			return models.User{}, ErrUnauthenticated
		}
		log.Err(err).Msg("user lookup by token failed")
		return models.User{}, fmt.Errorf("user lookup by token failed: %w", err)
	}

	return user, nil
}

// Logout removes exactly the given token from the user's token list. All
// other sessions remain valid. Removing an already-absent token is a no-op.
func (a *authService) Logout(ctx context.Context, userID int64, token string) error {
	if err := a.userRepository.RemoveToken(ctx, userID, token); err != nil {
		return fmt.Errorf("token removal failed: %w", err)
	}

	return nil
}

// LogoutAll clears the user's entire token list. Every session for this user
// becomes invalid immediately.
func (a *authService) LogoutAll(ctx context.Context, userID int64) error {
	if err := a.userRepository.RemoveAllTokens(ctx, userID); err != nil {
		return fmt.Errorf("token list clearing failed: %w", err)
	}

	return nil
}

// ActiveSessions reports the number of tokens currently held by the user.
func (a *authService) ActiveSessions(ctx context.Context, userID int64) (int, error) {
	tokens, err := a.userRepository.ListTokens(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("token listing failed: %w", err)
	}

	return len(tokens), nil
}

// issueToken signs a fresh JWT for the user and appends it to the token
// list, making it valid for authentication.
func (a *authService) issueToken(ctx context.Context, userID int64) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateJWTToken(a.tokenIssuer, userID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("token creation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	if err := a.userRepository.AddToken(ctx, userID, token.SignedString); err != nil {
		log.Err(err).Int64("id", userID).Msg("token persisting failed")
		return models.Token{}, fmt.Errorf("token persisting failed: %w", err)
	}

	return token, nil
}
