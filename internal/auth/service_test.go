package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/sociopedia/internal/model"
	"github.com/hitoshi/sociopedia/internal/repository"
)

// --- モック ---

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func newTestService(users repository.UserRepository) *Service {
	return NewService(users, NewTokenIssuer(testSecret, time.Hour), bcrypt.MinCost)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:      "a@x.com",
		Password:   "pw1",
		FirstName:  "Taro",
		LastName:   "Yamada",
		Location:   "Tokyo",
		Occupation: "Engineer",
	}
}

// --- Register ---

func TestService_Register_CreatesUser(t *testing.T) {
	var created *model.User
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(users)

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if user.ID == "" {
		t.Error("expected a generated user ID")
	}
	if user.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", user.Email, "a@x.com")
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw1" {
		t.Error("expected password to be stored as a hash, not plaintext")
	}
	if !VerifyPassword("pw1", user.PasswordHash) {
		t.Error("expected stored hash to verify against the original password")
	}
	if user.ViewedProfile != 0 || user.Impressions != 0 {
		t.Error("expected counters to start at zero")
	}
}

func TestService_Register_NormalizesEmail(t *testing.T) {
	users := &mockUserRepo{}
	svc := newTestService(users)

	in := validRegisterInput()
	in.Email = "  A@X.Com "

	user, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Errorf("Email = %q, want normalized %q", user.Email, "a@x.com")
	}
}

func TestService_Register_DuplicateEmail_ReturnsError(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
	}
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), validRegisterInput())
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateEmail)
	}
}

// 一意性の事前確認をすり抜けた同時登録はストレージの一意制約で検出される
func TestService_Register_StorageDuplicate_MapsToDuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateEmail
		},
	}
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), validRegisterInput())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateEmail)
	}
}

func TestService_Register_InvalidInput_ReturnsValidationError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"メール未指定", func(in *RegisterInput) { in.Email = "" }},
		{"メール形式不正", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"パスワード未指定", func(in *RegisterInput) { in.Password = "" }},
		{"名未指定", func(in *RegisterInput) { in.FirstName = "" }},
		{"姓未指定", func(in *RegisterInput) { in.LastName = "" }},
	}

	svc := newTestService(&mockUserRepo{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegisterInput()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *model.APIError, got %T", err)
			}
			if apiErr.Code != model.ErrCodeValidation {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeValidation)
			}
		})
	}
}

// --- Login ---

func TestService_Login_Success_ReturnsUserAndToken(t *testing.T) {
	hash, err := HashPassword("pw1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := newTestService(users)

	user, token, err := svc.Login(context.Background(), "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	// 発行されたトークンが検証可能であること
	issuer := NewTokenIssuer(testSecret, time.Hour)
	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("verified userID = %q, want %q", userID, "user-1")
	}
}

// 未登録メールとパスワード不一致が同一のエラーコードを返すことを検証
func TestService_Login_UnknownEmailAndWrongPassword_SameError(t *testing.T) {
	hash, err := HashPassword("pw1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	unknownUsers := &mockUserRepo{}
	knownUsers := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}

	_, _, errUnknown := newTestService(unknownUsers).Login(context.Background(), "nobody@x.com", "pw1")
	_, _, errWrong := newTestService(knownUsers).Login(context.Background(), "a@x.com", "wrong")

	for name, err := range map[string]error{"unknown email": errUnknown, "wrong password": errWrong} {
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("%s: expected *model.APIError, got %T", name, err)
		}
		if apiErr.Code != model.ErrCodeInvalidCredentials {
			t.Errorf("%s: Code = %q, want %q", name, apiErr.Code, model.ErrCodeInvalidCredentials)
		}
	}
}

func TestService_Login_EmptyInput_ReturnsValidationError(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	_, _, err := svc.Login(context.Background(), "", "")
	if err == nil {
		t.Fatal("expected error for empty credentials")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeValidation {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeValidation)
	}
}
