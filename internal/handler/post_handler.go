package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/sociopedia/internal/middleware"
	"github.com/hitoshi/sociopedia/internal/model"
	"github.com/hitoshi/sociopedia/internal/storage"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	// CreatePost は投稿を作成し、全投稿のフィード（新しい順）を返す。
	CreatePost(ctx context.Context, authorID, description, picturePath string) ([]*model.Post, error)
	// ListFeed は全投稿を新しい順に返す。
	ListFeed(ctx context.Context) ([]*model.Post, error)
	// ListFeedByUser は指定ユーザーの投稿を新しい順に返す。
	ListFeedByUser(ctx context.Context, authorID string) ([]*model.Post, error)
	// ToggleLike は投稿へのいいねを反転し、更新後の投稿を返す。
	ToggleLike(ctx context.Context, postID, userID string) (*model.Post, error)
}

// PostHandler は投稿とフィードのHTTPハンドラー。
type PostHandler struct {
	service       PostServiceInterface
	files         storage.FileStore
	maxUploadSize int64
	events        EventRecorder
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface, files storage.FileStore, maxUploadSize int64, events EventRecorder) *PostHandler {
	if events == nil {
		events = noopEventRecorder{}
	}
	return &PostHandler{
		service:       service,
		files:         files,
		maxUploadSize: maxUploadSize,
		events:        events,
	}
}

// CreatePost は投稿作成を処理する。投稿者は認証済みユーザー。
// POST /posts（multipart/form-data、任意のpictureファイルを含む）
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenMissingError())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("マルチパートフォームの解析に失敗しました"))
		return
	}

	// 画像ファイルは任意。指定があれば保存し、参照名を投稿に記録する。
	picturePath := r.FormValue("picturePath")
	file, header, err := r.FormFile("picture")
	if err == nil {
		defer file.Close()

		saved, saveErr := h.files.Save(header.Filename, file)
		if saveErr != nil {
			slog.Error("failed to save post picture",
				slog.String("filename", header.Filename),
				slog.String("error", saveErr.Error()),
			)
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewValidationError("画像ファイルの保存に失敗しました"))
			return
		}
		picturePath = saved
		h.events.RecordUploadSaved()
	} else if err != http.ErrMissingFile {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("画像ファイルの読み取りに失敗しました"))
		return
	}

	feed, err := h.service.CreatePost(r.Context(), userID, r.FormValue("description"), picturePath)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.events.RecordPostCreated()

	writeJSONResponse(w, http.StatusCreated, toPostResponses(feed))
}

// ListFeed は全投稿のフィードを返す。
// GET /posts
func (h *PostHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.ListFeed(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toPostResponses(feed))
}

// ListUserFeed は指定ユーザーの投稿フィードを返す。
// GET /posts/{userID}
func (h *PostHandler) ListUserFeed(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "userID")

	feed, err := h.service.ListFeedByUser(r.Context(), authorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toPostResponses(feed))
}

// ToggleLike は投稿へのいいねを反転し、更新後の投稿を返す。
// PATCH /posts/{id}/like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenMissingError())
		return
	}

	postID := chi.URLParam(r, "id")

	post, err := h.service.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.events.RecordLikeToggled()

	writeJSONResponse(w, http.StatusOK, toPostResponse(post))
}
