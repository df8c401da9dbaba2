// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/sociopedia/internal/auth"
	"github.com/hitoshi/sociopedia/internal/model"
	"github.com/hitoshi/sociopedia/internal/storage"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを作成する。
	Register(ctx context.Context, in auth.RegisterInput) (*model.User, error)
	// Login は認証に成功したユーザーとトークンを返す。
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

// AuthHandler は登録とログインのHTTPハンドラー。
type AuthHandler struct {
	service       AuthServiceInterface
	files         storage.FileStore
	maxUploadSize int64
	events        EventRecorder
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, files storage.FileStore, maxUploadSize int64, events EventRecorder) *AuthHandler {
	if events == nil {
		events = noopEventRecorder{}
	}
	return &AuthHandler{
		service:       service,
		files:         files,
		maxUploadSize: maxUploadSize,
		events:        events,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register はユーザー登録を処理する。
// POST /auth/register（multipart/form-data、任意のpictureファイルを含む）
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("マルチパートフォームの解析に失敗しました"))
		return
	}

	// 画像ファイルは任意。指定があれば保存し、参照名をプロフィールに記録する。
	picturePath := r.FormValue("picturePath")
	file, header, err := r.FormFile("picture")
	if err == nil {
		defer file.Close()

		saved, saveErr := h.files.Save(header.Filename, file)
		if saveErr != nil {
			slog.Error("failed to save profile picture",
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

	in := auth.RegisterInput{
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		FirstName:   r.FormValue("firstName"),
		LastName:    r.FormValue("lastName"),
		Location:    r.FormValue("location"),
		Occupation:  r.FormValue("occupation"),
		PicturePath: picturePath,
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.events.RecordRegistration()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// Login はログインを処理する。
// POST /auth/login（JSON）
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.events.RecordLogin()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}
