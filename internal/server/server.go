package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"esportfed/internal/auth"
	"esportfed/internal/config"
	"esportfed/internal/email"
	"esportfed/internal/member"
	"esportfed/internal/plan"
	"esportfed/internal/registration"
	"esportfed/internal/user"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether one backing service answers.
type HealthCheck func(ctx context.Context) error

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Users         user.Service
	Members       member.Service
	Catalog       *plan.Catalog
	Emails        email.Queue
	Registrations *registration.Handler
	Checks        map[string]HealthCheck
}

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(cfg *config.Config, deps Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLoggingMiddleware(), MetricsMiddleware(), corsMiddleware())

	userHandler := user.NewHandler(deps.Users)
	memberHandler := member.NewHandler(deps.Members)
	planHandler := plan.NewHandler(deps.Catalog)
	emailHandler := email.NewHandler(deps.Emails)

	public := router.Group("/")
	public.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		public.GET("/plans", planHandler.List)
		public.POST("/auth/login", userHandler.Login)
		public.POST("/auth/refresh", userHandler.RefreshToken)
	}
	deps.Registrations.RegisterRoutes(public)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/members", memberHandler.List)
		admin.GET("/members/:id", memberHandler.Get)
		admin.PATCH("/members/:id/status", memberHandler.UpdateStatus)
		admin.GET("/emails", emailHandler.Monitor)
		admin.POST("/emails", emailHandler.Send)
		admin.POST("/emails/test", emailHandler.SendTest)
		admin.POST("/users", userHandler.CreateOperator)
	}

	router.GET("/health", Health(deps.Checks))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		config: cfg,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A clean Shutdown is not an error.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept-Language, X-CSRF-Token, Authorization, Stripe-Signature, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
