package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/sociopedia/internal/metrics"
	"github.com/hitoshi/sociopedia/internal/middleware"
	"github.com/hitoshi/sociopedia/internal/storage"
)

// Pinger はヘルスチェックで使用するDB疎通確認のインターフェース。
// *sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// メトリクス（nilの場合は記録しない）
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// サービス
	AuthService    AuthServiceInterface
	ProfileService ProfileServiceInterface
	SocialService  SocialServiceInterface
	PostService    PostServiceInterface

	// ファイルストレージ
	FileStore     storage.FileStore
	AssetsDir     string
	MaxUploadSize int64

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics
//
// 認証ミドルウェアは保護ルートのグループにのみ適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	var events EventRecorder
	if deps.Metrics != nil {
		events = deps.Metrics
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.FileStore, deps.MaxUploadSize, events)
	userHandler := NewUserHandler(deps.ProfileService, deps.SocialService, events)
	postHandler := NewPostHandler(deps.PostService, deps.FileStore, deps.MaxUploadSize, events)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// アップロード画像の静的配信
	if deps.AssetsDir != "" {
		fileServer := http.FileServer(http.Dir(deps.AssetsDir))
		r.Handle("/assets/*", http.StripPrefix("/assets/", fileServer))
	}

	r.Get("/health", NewHealthHandler(deps.DB))

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))

		// プロフィールと友人関係
		r.Route("/user/{id}", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Get("/friends", userHandler.ListFriends)
			r.Patch("/{friendID}", userHandler.PatchFriend)
		})

		// 投稿とフィード
		r.Route("/posts", func(r chi.Router) {
			r.Post("/", postHandler.CreatePost)
			r.Get("/", postHandler.ListFeed)
			r.Get("/{userID}", postHandler.ListUserFeed)
			r.Patch("/{id}/like", postHandler.ToggleLike)
		})
	})

	return r
}

// NewHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
				})
				return
			}
		}

		writeJSONResponse(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}
