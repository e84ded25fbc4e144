package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"osas-connect/config"
	"osas-connect/internal/api/handler"
	"osas-connect/internal/api/middleware"
	"osas-connect/internal/model"
	"osas-connect/pkg/jwt"
)

const (
	jsonBodyLimit = 1 << 20

	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Setup builds the gin engine. checker and limiter may be nil when Redis is not configured.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	checker middleware.TokenChecker,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	staff := middleware.RoleAuth(model.RoleOSASStaff, model.RoleAdmin)
	admin := middleware.RoleAuth(model.RoleAdmin)
	student := middleware.RoleAuth(model.RoleStudent)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public auth
		auth := v1.Group("/auth", middleware.BodyLimit(jsonBodyLimit))
		{
			limit := middleware.RateLimit(limiter, authRateLimit, authRateWindow)
			auth.POST("/login", limit, h.Auth.Login)
			auth.POST("/register", limit, h.Auth.Register)
			auth.POST("/refresh", limit, h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker))

		// multipart uploads are capped by the document handler
		authorized.POST("/applications/:id/documents", student, h.Document.Upload)

		api := authorized.Group("", middleware.BodyLimit(jsonBodyLimit))
		{
			api.POST("/auth/logout", h.Auth.Logout)
			api.GET("/auth/me", h.Auth.GetCurrentUser)
			api.PUT("/auth/password", h.Auth.ChangePassword)

			users := api.Group("/users", admin)
			{
				users.GET("", h.User.List)
				users.POST("", h.User.Create)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id", h.User.Update)
				users.PUT("/:id/active", h.User.SetActive)
				users.PUT("/:id/role", h.User.AssignRole)
			}

			api.GET("/profile", student, h.Profile.GetMine)
			api.PUT("/profile", student, h.Profile.UpdateMine)
			api.GET("/students/:id/profile", staff, h.Profile.GetByUser)
			api.PUT("/students/:id/disciplinary", staff, h.Profile.SetDisciplinary)

			scholarships := api.Group("/scholarships")
			{
				scholarships.GET("", h.Scholarship.List)
				scholarships.GET("/:id", h.Scholarship.Get)
				scholarships.POST("", admin, h.Scholarship.Create)
				scholarships.PUT("/:id", admin, h.Scholarship.Update)
				scholarships.DELETE("/:id", admin, h.Scholarship.Delete)
			}

			applications := api.Group("/applications")
			{
				applications.GET("", h.Application.List)
				applications.POST("", student, h.Application.Create)
				applications.GET("/:id", h.Application.Get)
				applications.PUT("/:id", student, h.Application.Update)
				applications.POST("/:id/submit", student, h.Application.Submit)
				applications.DELETE("/:id/withdraw", student, h.Application.Withdraw)

				applications.POST("/:id/start-verification", staff, h.Application.StartVerification)
				applications.POST("/:id/complete-verification", staff, h.Application.CompleteVerification)
				applications.POST("/:id/start-evaluation", staff, h.Application.StartEvaluation)
				applications.POST("/:id/evaluate", staff, h.Application.Evaluate)

				applications.GET("/:id/qrcode", h.Application.QRCode)
				applications.GET("/:id/documents", h.Document.List)
				applications.GET("/:id/stipends", h.Stipend.List)
				applications.POST("/:id/stipends", staff, h.Stipend.Release)
				applications.GET("/:id/renewal-eligibility", h.Renewal.Eligibility)
			}

			documents := api.Group("/documents")
			{
				documents.GET("/:id", h.Document.Download)
				documents.DELETE("/:id", student, h.Document.Delete)
				documents.POST("/:id/verify", staff, h.Document.Verify)
			}

			interviews := api.Group("/interviews")
			{
				interviews.GET("", h.Interview.List)
				interviews.POST("", staff, h.Interview.Schedule)
				interviews.GET("/:id", h.Interview.Get)
				interviews.POST("/:id/reschedule", staff, h.Interview.Reschedule)
				interviews.POST("/:id/cancel", staff, h.Interview.Cancel)
				interviews.POST("/:id/complete", staff, h.Interview.Complete)
				interviews.GET("/:id/calendar.ics", h.Interview.CalendarInvite)
			}

			api.GET("/stipends", staff, h.Stipend.ListAll)

			renewals := api.Group("/renewals")
			{
				renewals.GET("", h.Renewal.List)
				renewals.POST("", student, h.Renewal.Submit)
				renewals.GET("/current-period", h.Renewal.CurrentPeriod)
				renewals.GET("/statistics", staff, h.Renewal.Statistics)
				renewals.GET("/:id", h.Renewal.Get)
				renewals.POST("/:id/review", staff, h.Renewal.StartReview)
				renewals.POST("/:id/approve", staff, h.Renewal.Approve)
				renewals.POST("/:id/reject", staff, h.Renewal.Reject)
			}

			notifications := api.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			api.GET("/dashboard", staff, h.Report.Dashboard)

			export := api.Group("/export", staff)
			{
				export.GET("/applications", h.Report.ExportApplications)
				export.GET("/stipends", h.Report.ExportStipends)
				export.GET("/renewals", h.Report.ExportRenewals)
			}
		}
	}

	return r
}
