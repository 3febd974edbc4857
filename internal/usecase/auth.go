package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ErlanBelekov/todo-api/internal/domain"
	"github.com/ErlanBelekov/todo-api/internal/email"
	"github.com/ErlanBelekov/todo-api/internal/repository"
)

const (
	maxFieldLen      = 255
	maxPasswordBytes = 72 // bcrypt ignores or rejects anything longer
)

// staticFallbackHash is a well-formed cost-10 bcrypt hash used when the
// configured hasher cannot produce one at construction time.
const staticFallbackHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) error
}

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	email  email.Sender
	logger *slog.Logger

	// dummyHash is compared against on unknown emails so both login
	// failures cost one bcrypt comparison.
	dummyHash string
}

func NewAuthUsecase(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, sender email.Sender, logger *slog.Logger) *AuthUsecase {
	u := &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		email:  sender,
		logger: logger.With("component", "auth_usecase"),
	}
	u.dummyHash = u.computeDummyHash()
	return u
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *domain.User
	Token string
}

// Register creates the account and returns it with a freshly minted token.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" || strings.TrimSpace(input.Name) == "" {
		return nil, domain.NewValidationError("Email, password, and name are required")
	}
	if utf8.RuneCountInString(input.Email) > maxFieldLen || utf8.RuneCountInString(input.Name) > maxFieldLen {
		return nil, domain.NewValidationError("Email and name must be at most 255 characters")
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, domain.NewValidationError("Password must be at most 72 bytes")
	}

	// Cheap pre-check so a taken email does not pay for a bcrypt round.
	// The unique index still decides races.
	_, err := u.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.users.Create(ctx, input.Email, hash, input.Name)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	u.sendWelcome(ctx, user)

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies the credentials. Unknown email and wrong password return the
// same error, and both paths run one bcrypt comparison.
func (u *AuthUsecase) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = u.hasher.Compare(u.dummyHash, input.Password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := u.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (u *AuthUsecase) computeDummyHash() string {
	h, err := u.hasher.Hash("not-a-real-password")
	if err != nil || h == "" {
		u.logger.Error("compute dummy hash, using static fallback", "error", err)
		return staticFallbackHash
	}
	return h
}

func (u *AuthUsecase) sendWelcome(ctx context.Context, user *domain.User) {
	subject := "Welcome to your task list"
	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your account is ready. Sign in with %s to start adding tasks.</p>`,
		html.EscapeString(user.Name), html.EscapeString(user.Email),
	)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "send welcome email", "user_id", user.ID, "error", err)
	}
}
