package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/sociopedia/internal/model"
)

// PostgresFriendshipRepo はPostgreSQLを使用した友人関係リポジトリ。
// 両方向の行を常に同一トランザクションで書き込むことで、
// 友人関係の対称性（A∈friends(B) ⟺ B∈friends(A)）を維持する。
type PostgresFriendshipRepo struct {
	db *sql.DB
}

// NewPostgresFriendshipRepo はPostgresFriendshipRepoを生成する。
func NewPostgresFriendshipRepo(db *sql.DB) *PostgresFriendshipRepo {
	return &PostgresFriendshipRepo{db: db}
}

// AddPair は(userID, friendID)と(friendID, userID)の両方向を
// 同一トランザクションで挿入する。既に存在する行は無視する（冪等）。
func (r *PostgresFriendshipRepo) AddPair(ctx context.Context, userID, friendID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insert = `INSERT INTO friendships (user_id, friend_id)
	                VALUES ($1, $2)
	                ON CONFLICT (user_id, friend_id) DO NOTHING`

	if _, err := tx.ExecContext(ctx, insert, userID, friendID); err != nil {
		return fmt.Errorf("failed to insert friendship: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, friendID, userID); err != nil {
		return fmt.Errorf("failed to insert reverse friendship: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemovePair は両方向の行を同一トランザクションで削除する。
// 存在しない場合は何もしない（冪等）。
func (r *PostgresFriendshipRepo) RemovePair(ctx context.Context, userID, friendID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM friendships
		 WHERE (user_id = $1 AND friend_id = $2)
		    OR (user_id = $2 AND friend_id = $1)`,
		userID, friendID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Exists は(userID, friendID)の友人関係が存在するかを返す。
func (r *PostgresFriendshipRepo) Exists(ctx context.Context, userID, friendID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2
		 )`,
		userID, friendID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship existence: %w", err)
	}

	return exists, nil
}

// ListFriends は指定ユーザーの友人一覧を、各友人の現在の表示属性を
// 結合して追加日時の昇順で返す。
func (r *PostgresFriendshipRepo) ListFriends(ctx context.Context, userID string) ([]model.FriendSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.location, u.occupation, u.picture_path
		 FROM friendships f
		 JOIN users u ON u.id = f.friend_id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []model.FriendSummary{}
	for rows.Next() {
		var f model.FriendSummary
		if err := rows.Scan(&f.ID, &f.FirstName, &f.LastName, &f.Location, &f.Occupation, &f.PicturePath); err != nil {
			return nil, fmt.Errorf("failed to scan friend row: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friend rows: %w", err)
	}

	return friends, nil
}

// compile-time interface check
var _ FriendshipRepository = (*PostgresFriendshipRepo)(nil)
