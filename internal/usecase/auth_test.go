package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/todo-api/internal/domain"
	"github.com/ErlanBelekov/todo-api/internal/usecase"
)

// ---- fakes ----

type fakeUserRepo struct {
	create      func(ctx context.Context, email, passwordHash, name string) (*domain.User, error)
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
	findByID    func(ctx context.Context, id int64) (*domain.User, error)
	delete      func(ctx context.Context, id int64) error
}

func (r *fakeUserRepo) Create(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	return r.create(ctx, email, passwordHash, name)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

// fakeHasher prefixes instead of hashing and counts comparisons.
type fakeHasher struct {
	hashErr      error
	compares     int
	lastCompared string
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Compare(hashed, password string) error {
	h.compares++
	h.lastCompared = hashed
	if hashed != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct {
	issue func(userID int64) (string, error)
}

func (f *fakeTokens) Issue(userID int64) (string, error) {
	if f.issue != nil {
		return f.issue(userID)
	}
	return "token-for-user", nil
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func okSender() *fakeEmailSender {
	return &fakeEmailSender{send: func(context.Context, string, string, string) error { return nil }}
}

func notFound(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func newAuth(repo *fakeUserRepo, hasher *fakeHasher, sender *fakeEmailSender) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(repo, hasher, &fakeTokens{}, sender, discardLogger)
}

var storedUser = &domain.User{
	ID:           1,
	Email:        "a@x.io",
	PasswordHash: "hashed:pw1",
	Name:         "Ann",
	CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
}

// ---- Register ----

func TestRegister_Success(t *testing.T) {
	var storedHash string
	var mailedTo string

	repo := &fakeUserRepo{
		findByEmail: notFound,
		create: func(_ context.Context, email, hash, name string) (*domain.User, error) {
			storedHash = hash
			return &domain.User{ID: 1, Email: email, PasswordHash: hash, Name: name}, nil
		},
	}
	sender := &fakeEmailSender{send: func(_ context.Context, to, _, _ string) error {
		mailedTo = to
		return nil
	}}

	res, err := newAuth(repo, &fakeHasher{}, sender).Register(context.Background(), usecase.RegisterInput{
		Email: "a@x.io", Password: "pw1", Name: "Ann",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token == "" {
		t.Error("expected a token")
	}
	if res.User.ID != 1 || res.User.Name != "Ann" {
		t.Errorf("user = %+v", res.User)
	}
	if storedHash == "pw1" {
		t.Error("plaintext password was stored")
	}
	if mailedTo != "a@x.io" {
		t.Errorf("welcome email sent to %q, want a@x.io", mailedTo)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	cases := []usecase.RegisterInput{
		{Email: "", Password: "pw", Name: "Ann"},
		{Email: "a@x.io", Password: "", Name: "Ann"},
		{Email: "a@x.io", Password: "pw", Name: ""},
		{Email: "   ", Password: "pw", Name: "Ann"},
	}
	repo := &fakeUserRepo{} // any repository call would panic on a nil func

	for _, in := range cases {
		_, err := newAuth(repo, &fakeHasher{}, okSender()).Register(context.Background(), in)
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("input %+v: expected ValidationError, got %v", in, err)
			continue
		}
		if vErr.Message != "Email, password, and name are required" {
			t.Errorf("message = %q", vErr.Message)
		}
	}
}

func TestRegister_TooLong(t *testing.T) {
	repo := &fakeUserRepo{}
	auth := newAuth(repo, &fakeHasher{}, okSender())

	cases := []usecase.RegisterInput{
		{Email: strings.Repeat("a", 256), Password: "pw", Name: "Ann"},
		{Email: "a@x.io", Password: "pw", Name: strings.Repeat("n", 256)},
		{Email: "a@x.io", Password: strings.Repeat("p", 73), Name: "Ann"},
		{Email: "a@x.io", Password: strings.Repeat("é", 37), Name: "Ann"},
	}
	for _, in := range cases {
		var vErr *domain.ValidationError
		if _, err := auth.Register(context.Background(), in); !errors.As(err, &vErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	}
}

func TestRegister_NameLimitCountsCharacters(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: notFound,
		create: func(_ context.Context, email, hash, name string) (*domain.User, error) {
			return &domain.User{ID: 1, Email: email, PasswordHash: hash, Name: name}, nil
		},
	}
	auth := newAuth(repo, &fakeHasher{}, okSender())

	// 200 characters, 400 bytes.
	name := strings.Repeat("д", 200)
	res, err := auth.Register(context.Background(), usecase.RegisterInput{Email: "a@x.io", Password: "pw1", Name: name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.Name != name {
		t.Errorf("name = %q, want %q", res.User.Name, name)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(context.Context, string) (*domain.User, error) { return storedUser, nil },
	}

	_, err := newAuth(repo, &fakeHasher{}, okSender()).Register(context.Background(), usecase.RegisterInput{
		Email: "a@x.io", Password: "other", Name: "Other",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_EmailTakenByConcurrentInsert(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: notFound,
		create: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}

	_, err := newAuth(repo, &fakeHasher{}, okSender()).Register(context.Background(), usecase.RegisterInput{
		Email: "a@x.io", Password: "pw", Name: "Ann",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_EmailFailureIsNotFatal(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: notFound,
		create: func(_ context.Context, email, hash, name string) (*domain.User, error) {
			return &domain.User{ID: 2, Email: email, PasswordHash: hash, Name: name}, nil
		},
	}
	sender := &fakeEmailSender{send: func(context.Context, string, string, string) error {
		return errors.New("smtp down")
	}}

	res, err := newAuth(repo, &fakeHasher{}, sender).Register(context.Background(), usecase.RegisterInput{
		Email: "b@x.io", Password: "pw", Name: "Bob",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.ID != 2 {
		t.Errorf("user id = %d, want 2", res.User.ID)
	}
}

func TestRegister_RepoError(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(context.Context, string) (*domain.User, error) {
			return nil, errors.New("db down")
		},
	}

	_, err := newAuth(repo, &fakeHasher{}, okSender()).Register(context.Background(), usecase.RegisterInput{
		Email: "a@x.io", Password: "pw", Name: "Ann",
	})
	if err == nil || errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected internal error, got %v", err)
	}
}

// ---- Login ----

func TestLogin_Success(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(context.Context, string) (*domain.User, error) { return storedUser, nil },
	}

	res, err := newAuth(repo, &fakeHasher{}, okSender()).Login(context.Background(), usecase.LoginInput{
		Email: "a@x.io", Password: "pw1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.ID != 1 || res.Token == "" {
		t.Errorf("result = %+v", res)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	known := &fakeUserRepo{
		findByEmail: func(context.Context, string) (*domain.User, error) { return storedUser, nil },
	}
	unknown := &fakeUserRepo{findByEmail: notFound}

	knownHasher := &fakeHasher{}
	unknownHasher := &fakeHasher{}

	_, errWrong := newAuth(known, knownHasher, okSender()).Login(context.Background(), usecase.LoginInput{
		Email: "a@x.io", Password: "nope",
	})
	_, errUnknown := newAuth(unknown, unknownHasher, okSender()).Login(context.Background(), usecase.LoginInput{
		Email: "nobody@x.io", Password: "nope",
	})

	if !errors.Is(errWrong, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrong)
	}
	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if knownHasher.compares != 1 || unknownHasher.compares != 1 {
		t.Errorf("compares = %d / %d, want one each", knownHasher.compares, unknownHasher.compares)
	}
}

func TestLogin_UnknownEmailStillComparesWhenHashingFails(t *testing.T) {
	hasher := &fakeHasher{hashErr: errors.New("rng exhausted")}
	auth := newAuth(&fakeUserRepo{findByEmail: notFound}, hasher, okSender())

	for i := 0; i < 2; i++ {
		_, err := auth.Login(context.Background(), usecase.LoginInput{Email: "nobody@x.io", Password: "nope"})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if hasher.compares != 2 {
		t.Errorf("compares = %d, want 2", hasher.compares)
	}
	if !strings.HasPrefix(hasher.lastCompared, "$2a$10$") || len(hasher.lastCompared) != 60 {
		t.Errorf("compared against %q, want a well-formed bcrypt hash", hasher.lastCompared)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	repo := &fakeUserRepo{}

	_, err := newAuth(repo, &fakeHasher{}, okSender()).Login(context.Background(), usecase.LoginInput{Email: "a@x.io"})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Message != "Email and password are required" {
		t.Errorf("message = %q", vErr.Message)
	}
}

func TestLogin_EmailIsCaseSensitive(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email == storedUser.Email {
				return storedUser, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}

	_, err := newAuth(repo, &fakeHasher{}, okSender()).Login(context.Background(), usecase.LoginInput{
		Email: "A@X.IO", Password: "pw1",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
