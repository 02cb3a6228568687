package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/devconnect/internal/metrics"
	"github.com/hitoshi/devconnect/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	HealthChecker     HealthChecker

	// メトリクス。nilの場合は計測しない
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	AuthService    AuthServiceInterface
	PostService    PostServiceInterface
	ProfileService ProfileServiceInterface
	UserService    UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS → (AuthMiddleware)
//
// 認証不要のルートはAuthMiddlewareの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	var recorder middleware.RejectionRecorder
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
		recorder = deps.Metrics
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService)
	postHandler := NewPostHandler(deps.PostService)
	profileHandler := NewProfileHandler(deps.ProfileService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Post("/api/auth", authHandler.Login)
	r.Post("/api/users", authHandler.Register)
	r.Get("/api/profile", profileHandler.List)
	r.Get("/api/profile/user/{user_id}", profileHandler.GetByUserID)

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, recorder))

		r.Get("/api/auth", authHandler.Me)

		r.Route("/api/posts", func(r chi.Router) {
			r.Post("/", postHandler.CreatePost)
			r.Get("/", postHandler.ListPosts)
			r.Get("/{id}", postHandler.GetPost)
			r.Delete("/{id}", postHandler.DeletePost)
			r.Put("/like/{id}", postHandler.Like)
			r.Put("/unlike/{id}", postHandler.Unlike)
			r.Post("/comment/{id}", postHandler.Comment)
			r.Delete("/comment/{id}/{comment_id}", postHandler.DeleteComment)
		})

		r.Get("/api/profile/me", profileHandler.Me)
		r.Post("/api/profile", profileHandler.Upsert)
		r.Delete("/api/profile", userHandler.Withdraw)
		r.Put("/api/profile/experience", profileHandler.AddExperience)
		r.Delete("/api/profile/experience/{exp_id}", profileHandler.DeleteExperience)
		r.Put("/api/profile/education", profileHandler.AddEducation)
		r.Delete("/api/profile/education/{edc_id}", profileHandler.DeleteEducation)
	})

	return r
}
