// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/sociopedia/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
// ストレージ層のunique violationをドメイン層へ伝えるためのセンチネル。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す（部分書き込みなし）。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// FriendshipRepository は友人関係の永続化インターフェース。
// 友人関係は常に両方向の行のペアとして保持される（対称性の不変条件）。
type FriendshipRepository interface {
	// AddPair は(userID, friendID)と(friendID, userID)の両方向を
	// 同一トランザクションで挿入する。既に存在する場合は何もしない（冪等）。
	AddPair(ctx context.Context, userID, friendID string) error

	// RemovePair は両方向の行を同一トランザクションで削除する。
	// 存在しない場合は何もしない（冪等）。
	RemovePair(ctx context.Context, userID, friendID string) error

	// Exists は(userID, friendID)の友人関係が存在するかを返す。
	Exists(ctx context.Context, userID, friendID string) (bool, error)

	// ListFriends は指定ユーザーの友人一覧を、各友人の現在の表示属性を
	// 結合して返す。追加日時の昇順で並ぶ。
	ListFriends(ctx context.Context, userID string) ([]model.FriendSummary, error)
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// Create は投稿を作成する。
	Create(ctx context.Context, post *model.Post) error

	// FindByID は指定IDの投稿をいいね情報付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// ListAll は全投稿をいいね情報付きで新しい順に返す。
	ListAll(ctx context.Context) ([]*model.Post, error)

	// ListByUserID は指定ユーザーの投稿をいいね情報付きで新しい順に返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Post, error)

	// ToggleLike は投稿に対するユーザーのいいねを反転する。
	// いいね済みなら削除、未いいねなら挿入を同一トランザクションで行う。
	ToggleLike(ctx context.Context, postID, userID string) error
}
