package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/sociopedia/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// GetProfile は指定IDのユーザーを返す。
	GetProfile(ctx context.Context, id string) (*model.User, error)
}

// SocialServiceInterface は友人関係ハンドラーが必要とするサービスインターフェース。
// 変更操作はいずれも操作後の友人一覧を返す。
type SocialServiceInterface interface {
	AddFriend(ctx context.Context, selfID, otherID string) ([]model.FriendSummary, error)
	RemoveFriend(ctx context.Context, selfID, otherID string) ([]model.FriendSummary, error)
	ToggleFriend(ctx context.Context, selfID, otherID string) ([]model.FriendSummary, error)
	ListFriends(ctx context.Context, selfID string) ([]model.FriendSummary, error)
}

// UserHandler はプロフィールと友人関係のHTTPハンドラー。
type UserHandler struct {
	profile ProfileServiceInterface
	social  SocialServiceInterface
	events  EventRecorder
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(profile ProfileServiceInterface, social SocialServiceInterface, events EventRecorder) *UserHandler {
	if events == nil {
		events = noopEventRecorder{}
	}
	return &UserHandler{
		profile: profile,
		social:  social,
		events:  events,
	}
}

// patchFriendRequest は友人関係更新リクエストのボディ。
// actionを省略した場合は現在の関係を反転する。
type patchFriendRequest struct {
	Action string `json:"action"`
}

// GetUser はユーザープロフィールを返す。
// GET /user/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	user, err := h.profile.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// ListFriends はユーザーの友人一覧を返す。
// GET /user/{id}/friends
func (h *UserHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	friends, err := h.social.ListFriends(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toFriendResponses(friends))
}

// PatchFriend は友人関係を更新し、更新後の友人一覧を返す。
// PATCH /user/{id}/{friendID}
//
// ボディの`action`がaddなら追加、removeなら解除（いずれも冪等）。
// ボディなし・action省略時は現在の関係を反転する。
func (h *UserHandler) PatchFriend(w http.ResponseWriter, r *http.Request) {
	selfID := chi.URLParam(r, "id")
	friendID := chi.URLParam(r, "friendID")

	req, err := decodePatchFriendRequest(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	var friends []model.FriendSummary
	switch req.Action {
	case "add":
		friends, err = h.social.AddFriend(r.Context(), selfID, friendID)
	case "remove":
		friends, err = h.social.RemoveFriend(r.Context(), selfID, friendID)
	case "":
		friends, err = h.social.ToggleFriend(r.Context(), selfID, friendID)
	default:
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("actionはaddまたはremoveを指定してください"))
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	action := req.Action
	if action == "" {
		action = "toggle"
	}
	h.events.RecordFriendUpdate(action)

	writeJSONResponse(w, http.StatusOK, toFriendResponses(friends))
}

// decodePatchFriendRequest は友人関係更新のボディを読み取る。
// 空ボディはaction省略として扱う。
func decodePatchFriendRequest(r *http.Request) (patchFriendRequest, error) {
	var req patchFriendRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err == nil || errors.Is(err, io.EOF) {
		return req, nil
	}
	return req, err
}
