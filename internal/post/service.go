// Package post は投稿とフィードのドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/sociopedia/internal/model"
	"github.com/hitoshi/sociopedia/internal/repository"
)

// Service は投稿管理のサービス層。
type Service struct {
	posts repository.PostRepository
	users repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(posts repository.PostRepository, users repository.UserRepository) *Service {
	return &Service{
		posts: posts,
		users: users,
	}
}

// CreatePost は投稿を作成し、全投稿のフィード（新しい順）を返す。
// 投稿者の表示属性は作成時点のスナップショットとして投稿に複製される。
// 作成した投稿単体ではなくフィード全体を返すのは元実装の挙動を踏襲したもの。
func (s *Service) CreatePost(ctx context.Context, authorID, description, picturePath string) ([]*model.Post, error) {
	if strings.TrimSpace(description) == "" && picturePath == "" {
		return nil, model.NewValidationError("投稿内容（description）または画像が必要です")
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find author: %w", err)
	}
	if author == nil {
		return nil, model.NewUserNotFoundError(authorID)
	}

	now := time.Now()
	post := &model.Post{
		ID:              uuid.NewString(),
		UserID:          author.ID,
		FirstName:       author.FirstName,
		LastName:        author.LastName,
		Location:        author.Location,
		Description:     strings.TrimSpace(description),
		PicturePath:     picturePath,
		UserPicturePath: author.PicturePath,
		Likes:           map[string]bool{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("user_id", author.ID),
	)

	return s.posts.ListAll(ctx)
}

// ListFeed は全投稿を新しい順に返す。
func (s *Service) ListFeed(ctx context.Context) ([]*model.Post, error) {
	return s.posts.ListAll(ctx)
}

// ListFeedByUser は指定ユーザーの投稿を新しい順に返す。
func (s *Service) ListFeedByUser(ctx context.Context, authorID string) ([]*model.Post, error) {
	return s.posts.ListByUserID(ctx, authorID)
}

// ToggleLike は投稿に対するユーザーのいいねを反転し、更新後の投稿を返す。
// 2回続けて呼ぶと元の状態に戻る。
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (*model.Post, error) {
	existing, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if existing == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	if err := s.posts.ToggleLike(ctx, postID, userID); err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	updated, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload post: %w", err)
	}
	if updated == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	return updated, nil
}
