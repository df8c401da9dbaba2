package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/sociopedia/internal/model"
	"github.com/hitoshi/sociopedia/internal/repository"
)

// Service は登録とログインのサービス層。
type Service struct {
	users      repository.UserRepository
	issuer     *TokenIssuer
	bcryptCost int
}

// NewService はServiceを生成する。
func NewService(users repository.UserRepository, issuer *TokenIssuer, bcryptCost int) *Service {
	return &Service{
		users:      users,
		issuer:     issuer,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput はユーザー登録の検証済み入力。
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Location    string
	Occupation  string
	PicturePath string
}

// Register は新規ユーザーを作成する。
// メールアドレスの一意性を確認し、パスワードをハッシュ化してから永続化する。
// 返却するUserのPasswordHashはレスポンスに含めないこと（ハンドラー側の責務）。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := validateRegisterInput(in); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	// 一意性の事前確認。同時登録の競合はストレージの一意制約が最終防衛線となる。
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEmailError(email)
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Location:     strings.TrimSpace(in.Location),
		Occupation:   strings.TrimSpace(in.Occupation),
		PicturePath:  in.PicturePath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, model.NewDuplicateEmailError(email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Login はメールアドレスとパスワードで認証し、成功時にトークンを発行する。
// ユーザー未存在とパスワード不一致は外部から区別できない同一のエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", model.NewValidationError("メールアドレスとパスワードは必須です")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// validateRegisterInput は登録入力の形式検証を行う。
func validateRegisterInput(in RegisterInput) error {
	if strings.TrimSpace(in.Email) == "" {
		return model.NewValidationError("メールアドレスは必須です")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return model.NewValidationError("メールアドレスの形式が正しくありません")
	}
	if in.Password == "" {
		return model.NewValidationError("パスワードは必須です")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return model.NewValidationError("名（firstName）は必須です")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return model.NewValidationError("姓（lastName）は必須です")
	}
	return nil
}
