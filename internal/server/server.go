// Package server assembles the gin engine and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/alumni-hub/internal/config"
	"github.com/justsurfingit/alumni-hub/internal/handlers"
	"github.com/justsurfingit/alumni-hub/internal/metrics"
	"github.com/justsurfingit/alumni-hub/internal/middleware"
	"github.com/justsurfingit/alumni-hub/internal/models"
	"github.com/justsurfingit/alumni-hub/internal/ratelimit"
	"github.com/justsurfingit/alumni-hub/internal/services"
)

type Stores struct {
	Users        services.UserStore
	Jobs         services.JobStore
	Applications services.ApplicationStore
	Mentorship   services.MentorshipStore
	Workshops    services.WorkshopStore
}

type Tokens interface {
	services.TokenIssuer
	middleware.TokenVerifier
}

type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Stores  Stores
	Tokens  Tokens
	Limiter ratelimit.Limiter // nil disables rate limiting
	Metrics *metrics.Metrics  // nil disables /metrics
	Ping    func(ctx context.Context) error
}

func NewRouter(opts Options) (*gin.Engine, error) {
	cfg := opts.Config
	policy, err := services.NewTransitionPolicy(cfg.Workflow.TransitionPolicy)
	if err != nil {
		return nil, err
	}

	// services.Recorder must stay a nil interface when metrics are off
	var rec services.Recorder
	if opts.Metrics != nil {
		rec = opts.Metrics
	}

	jobHandler := handlers.NewJobHandler(services.NewJobService(opts.Stores.Jobs, opts.Stores.Users, rec))
	appHandler := handlers.NewApplicationHandler(services.NewApplicationService(opts.Stores.Applications, opts.Stores.Jobs, policy, rec))
	mentorHandler := handlers.NewMentorshipHandler(services.NewMentorshipService(opts.Stores.Mentorship, opts.Stores.Users, policy, rec))
	workshopHandler := handlers.NewWorkshopHandler(services.NewWorkshopService(opts.Stores.Workshops, rec))
	userHandler := handlers.NewUserHandler(services.NewUserService(opts.Stores.Users, opts.Tokens))
	healthHandler := &handlers.HealthHandler{Ping: opts.Ping}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.Recovery(opts.Logger),
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) == 0 || slices.Contains(cfg.Server.CORSOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(corsConfig))

	r.Use(middleware.Timeout(cfg.Server.RequestTimeout), middleware.Errors(opts.Logger, cfg.App.Debug()))

	r.GET("/health", healthHandler.HealthCheck)

	limit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimit(opts.Limiter, scope)
	}
	authed := middleware.Authenticate(opts.Tokens)
	student := func(msg string) gin.HandlerFunc { return middleware.RequireRole(models.RoleStudent, msg) }
	alumni := func(msg string) gin.HandlerFunc { return middleware.RequireRole(models.RoleAlumni, msg) }

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.HealthCheck)

		authRoutes := api.Group("/auth")
		authRoutes.POST("/register", userHandler.Register)
		authRoutes.POST("/login", limit("login"), userHandler.Login)

		users := api.Group("/users", authed)
		users.GET("/profile", userHandler.Profile)
		users.PUT("/profile", userHandler.UpdateProfile)
		users.GET("/alumni", userHandler.Alumni)

		// Job Routes
		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/alumni", authed, alumni("Only alumni can view their posted jobs"), jobHandler.ListAlumniJobs)
		api.GET("/jobs/:id", jobHandler.GetJob)
		api.POST("/jobs", authed, alumni("Only alumni can post jobs"), jobHandler.CreateJob)
		api.DELETE("/jobs/:id", authed, alumni("Only alumni can delete jobs"), jobHandler.DeleteJob)

		apps := api.Group("/job-applications", authed)
		apps.POST("/:jobId/apply", student("Only students can apply for jobs"), limit("apply"), appHandler.Apply)
		apps.GET("/my-applications", student("Only students can view their applications"), appHandler.MyApplications)
		apps.GET("/:jobId/check-application", student("Only students can check applications"), appHandler.CheckApplication)
		apps.GET("/alumni/applications", alumni("Only alumni can view applications to their jobs"), appHandler.AlumniApplications)
		apps.PUT("/:id/status", appHandler.UpdateStatus)

		// the mentor id is validated before the role, so no role middleware here
		mentorship := api.Group("/mentorship", authed)
		mentorship.POST("/request", limit("mentorship"), mentorHandler.RequestMentorship)
		mentorship.GET("/student-requests", student("Only students can view their mentorship requests"), mentorHandler.StudentRequests)
		mentorship.GET("/mentor-requests", alumni("Only alumni can view mentorship requests"), mentorHandler.MentorRequests)
		mentorship.PATCH("/:id/status", mentorHandler.UpdateStatus)

		workshops := api.Group("/workshops", authed)
		workshops.GET("", workshopHandler.ListWorkshops)
		workshops.POST("", alumni("Only alumni can create workshops"), workshopHandler.CreateWorkshop)
		workshops.POST("/register", student("Only students can register for workshops"), limit("workshops"), workshopHandler.Register)
		workshops.PUT("/:id", workshopHandler.UpdateWorkshop)
		workshops.DELETE("/:id", workshopHandler.DeleteWorkshop)
		workshops.GET("/alumni/:alumniId", workshopHandler.ByAlumni)
		workshops.GET("/student/:studentId", workshopHandler.ByStudent)
	}

	return r, nil
}

const shutdownTimeout = 10 * time.Second

// Run serves handler on port until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, port int, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
