package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/sociopedia/internal/model"
)

// EventRecorder はハンドラーが業務イベントをメトリクスとして記録するためのインターフェース。
// metrics.Collectorの部分集合として定義する。
type EventRecorder interface {
	RecordRegistration()
	RecordLogin()
	RecordPostCreated()
	RecordLikeToggled()
	RecordFriendUpdate(action string)
	RecordUploadSaved()
}

// noopEventRecorder はメトリクス未構成時に使用する何もしない実装。
type noopEventRecorder struct{}

func (noopEventRecorder) RecordRegistration()              {}
func (noopEventRecorder) RecordLogin()                     {}
func (noopEventRecorder) RecordPostCreated()               {}
func (noopEventRecorder) RecordLikeToggled()               {}
func (noopEventRecorder) RecordFriendUpdate(action string) {}
func (noopEventRecorder) RecordUploadSaved()               {}

var _ EventRecorder = noopEventRecorder{}

// userResponse はユーザー情報のAPIレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Location      string    `json:"location"`
	Occupation    string    `json:"occupation"`
	PicturePath   string    `json:"picturePath"`
	ViewedProfile int       `json:"viewedProfile"`
	Impressions   int       `json:"impressions"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// friendResponse は友人一覧のAPIレスポンス。表示属性のみを含む。
type friendResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Location    string `json:"location"`
	Occupation  string `json:"occupation"`
	PicturePath string `json:"picturePath"`
}

// postResponse は投稿のAPIレスポンス。
type postResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	PicturePath     string          `json:"picturePath"`
	UserPicturePath string          `json:"userPicturePath"`
	Likes           map[string]bool `json:"likes"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Location:      user.Location,
		Occupation:    user.Occupation,
		PicturePath:   user.PicturePath,
		ViewedProfile: user.ViewedProfile,
		Impressions:   user.Impressions,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// toFriendResponses はFriendSummaryのスライスをAPIレスポンスに変換する。
// 空の場合もnullではなく空配列を返す。
func toFriendResponses(friends []model.FriendSummary) []friendResponse {
	results := make([]friendResponse, len(friends))
	for i, f := range friends {
		results[i] = friendResponse{
			ID:          f.ID,
			FirstName:   f.FirstName,
			LastName:    f.LastName,
			Location:    f.Location,
			Occupation:  f.Occupation,
			PicturePath: f.PicturePath,
		}
	}
	return results
}

// toPostResponse はmodel.PostからAPIレスポンスに変換する。
func toPostResponse(post *model.Post) postResponse {
	likes := post.Likes
	if likes == nil {
		likes = map[string]bool{}
	}
	return postResponse{
		ID:              post.ID,
		UserID:          post.UserID,
		FirstName:       post.FirstName,
		LastName:        post.LastName,
		Location:        post.Location,
		Description:     post.Description,
		PicturePath:     post.PicturePath,
		UserPicturePath: post.UserPicturePath,
		Likes:           likes,
		CreatedAt:       post.CreatedAt,
		UpdatedAt:       post.UpdatedAt,
	}
}

// toPostResponses はPostのスライスをAPIレスポンスに変換する。
// 空の場合もnullではなく空配列を返す。
func toPostResponses(posts []*model.Post) []postResponse {
	results := make([]postResponse, len(posts))
	for i, p := range posts {
		results[i] = toPostResponse(p)
	}
	return results
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation:
		return http.StatusBadRequest
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeUserNotFound, model.ErrCodePostNotFound:
		return http.StatusNotFound
	case model.ErrCodeFriendSelfReference:
		return http.StatusBadRequest
	case model.ErrCodeTokenMissing, model.ErrCodeTokenInvalid, model.ErrCodeTokenExpired:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
