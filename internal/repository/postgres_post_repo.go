package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/sociopedia/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// Create は投稿を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, first_name, last_name, location,
		                    description, picture_path, user_picture_path,
		                    created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		post.ID, post.UserID, post.FirstName, post.LastName, post.Location,
		post.Description, post.PicturePath, post.UserPicturePath,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// FindByID は指定IDの投稿をいいね情報付きで取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, first_name, last_name, location,
		        description, picture_path, user_picture_path, created_at, updated_at
		 FROM posts WHERE id = $1`,
		id,
	).Scan(
		&post.ID, &post.UserID, &post.FirstName, &post.LastName, &post.Location,
		&post.Description, &post.PicturePath, &post.UserPicturePath,
		&post.CreatedAt, &post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	if err := r.attachLikes(ctx, []*model.Post{post}); err != nil {
		return nil, err
	}

	return post, nil
}

// ListAll は全投稿をいいね情報付きで新しい順に返す。
func (r *PostgresPostRepo) ListAll(ctx context.Context) ([]*model.Post, error) {
	return r.list(ctx,
		`SELECT id, user_id, first_name, last_name, location,
		        description, picture_path, user_picture_path, created_at, updated_at
		 FROM posts ORDER BY created_at DESC`,
	)
}

// ListByUserID は指定ユーザーの投稿をいいね情報付きで新しい順に返す。
func (r *PostgresPostRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Post, error) {
	return r.list(ctx,
		`SELECT id, user_id, first_name, last_name, location,
		        description, picture_path, user_picture_path, created_at, updated_at
		 FROM posts WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
}

// ToggleLike は投稿に対するユーザーのいいねを反転する。
// 削除を先に試み、対象行がなければ挿入する。反転全体を1トランザクションで行う。
func (r *PostgresPostRepo) ToggleLike(ctx context.Context, postID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if deleted == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			 ON CONFLICT (post_id, user_id) DO NOTHING`,
			postID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *PostgresPostRepo) list(ctx context.Context, query string, args ...any) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post := &model.Post{}
		if err := rows.Scan(
			&post.ID, &post.UserID, &post.FirstName, &post.LastName, &post.Location,
			&post.Description, &post.PicturePath, &post.UserPicturePath,
			&post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post rows: %w", err)
	}

	if err := r.attachLikes(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// attachLikes は指定された投稿群のいいね情報を1クエリでまとめて取得し、
// 各投稿のLikesマップに展開する。
func (r *PostgresPostRepo) attachLikes(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[string]*model.Post, len(posts))
	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		post.Likes = map[string]bool{}
		byID[post.ID] = post
		ids = append(ids, post.ID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, user_id FROM post_likes WHERE post_id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to list likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return fmt.Errorf("failed to scan like row: %w", err)
		}
		if post, ok := byID[postID]; ok {
			post.Likes[userID] = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate like rows: %w", err)
	}

	return nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
