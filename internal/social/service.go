// Package social は友人関係（ソーシャルグラフ）のドメインロジックを提供する。
package social

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/sociopedia/internal/model"
	"github.com/hitoshi/sociopedia/internal/repository"
)

// Service は友人関係の管理サービス。
// すべての変更操作は対称性の不変条件
// （A ∈ friends(B) ⟺ B ∈ friends(A)）を維持する。
type Service struct {
	users   repository.UserRepository
	friends repository.FriendshipRepository
}

// NewService はServiceを生成する。
func NewService(users repository.UserRepository, friends repository.FriendshipRepository) *Service {
	return &Service{
		users:   users,
		friends: friends,
	}
}

// AddFriend はselfIDとotherIDを相互に友人として登録し、
// selfIDの解決済み友人一覧を返す。既に友人の場合は何もしない（冪等）。
func (s *Service) AddFriend(ctx context.Context, selfID, otherID string) ([]model.FriendSummary, error) {
	if err := s.checkPair(ctx, selfID, otherID); err != nil {
		return nil, err
	}

	if err := s.friends.AddPair(ctx, selfID, otherID); err != nil {
		return nil, fmt.Errorf("failed to add friendship: %w", err)
	}

	slog.Info("friend added",
		slog.String("user_id", selfID),
		slog.String("friend_id", otherID),
	)

	return s.friends.ListFriends(ctx, selfID)
}

// RemoveFriend は相互の友人関係を解除し、selfIDの解決済み友人一覧を返す。
// 友人でない場合は何もしない（冪等）。
func (s *Service) RemoveFriend(ctx context.Context, selfID, otherID string) ([]model.FriendSummary, error) {
	if err := s.checkPair(ctx, selfID, otherID); err != nil {
		return nil, err
	}

	if err := s.friends.RemovePair(ctx, selfID, otherID); err != nil {
		return nil, fmt.Errorf("failed to remove friendship: %w", err)
	}

	slog.Info("friend removed",
		slog.String("user_id", selfID),
		slog.String("friend_id", otherID),
	)

	return s.friends.ListFriends(ctx, selfID)
}

// ToggleFriend は現在の関係に応じて追加または解除を行う。
// 既に友人なら解除、そうでなければ追加する（元実装のPATCH挙動）。
func (s *Service) ToggleFriend(ctx context.Context, selfID, otherID string) ([]model.FriendSummary, error) {
	if err := s.checkPair(ctx, selfID, otherID); err != nil {
		return nil, err
	}

	exists, err := s.friends.Exists(ctx, selfID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}

	if exists {
		return s.RemoveFriend(ctx, selfID, otherID)
	}
	return s.AddFriend(ctx, selfID, otherID)
}

// ListFriends はselfIDの友人一覧を、各友人の現在の表示属性で返す。
func (s *Service) ListFriends(ctx context.Context, selfID string) ([]model.FriendSummary, error) {
	user, err := s.users.FindByID(ctx, selfID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(selfID)
	}

	return s.friends.ListFriends(ctx, selfID)
}

// checkPair は友人操作の対象ペアを検証する。
// 自己参照を拒否し、両ユーザーの存在を確認する。
func (s *Service) checkPair(ctx context.Context, selfID, otherID string) error {
	if selfID == otherID {
		return model.NewFriendSelfReferenceError()
	}

	for _, id := range []string{selfID, otherID} {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		if user == nil {
			return model.NewUserNotFoundError(id)
		}
	}

	return nil
}
