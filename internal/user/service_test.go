package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hitoshi/sociopedia/internal/model"
)

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func TestService_GetProfile_ReturnsUser(t *testing.T) {
	svc := NewService(&mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "a@x.com", FirstName: "Alice"}, nil
		},
	})

	user, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("ID = %q, want %q", user.ID, "user-1")
	}
}

func TestService_GetProfile_NotFound_ReturnsAPIError(t *testing.T) {
	svc := NewService(&mockUserRepo{})

	_, err := svc.GetProfile(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error for unknown user")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
}

func TestService_GetProfile_RepoError_Propagates(t *testing.T) {
	svc := NewService(&mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, fmt.Errorf("connection reset")
		},
	})

	_, err := svc.GetProfile(context.Background(), "user-1")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("storage error should not be an APIError, got %v", apiErr)
	}
}
