package router

import (
	"net/http"
	"strings"

	"robotapp-backend/internal/api/admin"
	"robotapp-backend/internal/api/feedback"
	"robotapp-backend/internal/api/health"
	"robotapp-backend/internal/api/order"
	"robotapp-backend/internal/api/product"
	"robotapp-backend/internal/api/question"
	"robotapp-backend/internal/api/support"
	"robotapp-backend/internal/api/user"
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth     *user.AuthHandler
	Order    *order.OrderHandler
	Product  *product.ProductHandler
	Support  *support.SupportHandler
	Feedback *feedback.FeedbackHandler
	Question *question.QuestionHandler
	Admin    *admin.AdminHandler
	Health   *health.HealthHandler
}

// Options configures the engine
type Options struct {
	ServiceName string
	FrontendURL string
	// UploadsDir is served under /uploads when set
	UploadsDir  string
	RateLimiter *middleware.RateLimiter
	Analytics   *errors.ErrorAnalytics
	Tracing     bool
}

// New builds the engine with the global middleware chain and every route
func New(h Handlers, opts Options) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Analytics != nil {
		r.Use(middleware.ErrorMonitorMiddleware(opts.Analytics))
	}
	r.Use(cors.New(corsConfig(opts.FrontendURL)))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/uploads/`})))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}

	if opts.UploadsDir != "" {
		r.Static("/uploads", opts.UploadsDir)
	}

	r.NoRoute(func(c *gin.Context) {
		errors.HandleError(c, errors.New(errors.ErrResourceNotFound, "Route not found"))
	})

	api := r.Group("/api")
	api.GET("/health", h.Health.Check)

	auth := middleware.AuthMiddleware()
	optional := middleware.OptionalAuthMiddleware()
	adminOnly := middleware.AdminMiddleware()

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.GET("/verify", auth, h.Auth.Verify)
		authRoutes.GET("/me", auth, h.Auth.GetProfile)
		authRoutes.PUT("/profile", auth, h.Auth.UpdateProfile)
		authRoutes.PUT("/password", auth, h.Auth.ChangePassword)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", optional, h.Order.CreateOrder)
		orders.GET("/my-orders", auth, h.Order.GetMyOrders)
		orders.GET("/track/:orderNumber", h.Order.TrackOrder)
		orders.GET("/:id", auth, h.Order.GetOrder)
		orders.PATCH("/:id/status", auth, adminOnly, h.Order.UpdateStatus)
		orders.POST("/:id/cancel", auth, h.Order.CancelOrder)
	}

	products := api.Group("/products")
	{
		products.GET("", optional, h.Product.ListProducts)
		products.GET("/slug/:slug", optional, h.Product.GetProductBySlug)
		products.GET("/:id", optional, h.Product.GetProduct)
		products.POST("", auth, adminOnly, h.Product.CreateProduct)
		products.PUT("/:id", auth, adminOnly, h.Product.UpdateProduct)
		products.DELETE("/:id", auth, adminOnly, h.Product.DeactivateProduct)
		products.POST("/:id/images", auth, adminOnly, h.Product.UploadImage)
	}

	tickets := api.Group("/support")
	{
		tickets.POST("", optional, h.Support.CreateTicket)
		tickets.GET("/my-tickets", auth, h.Support.GetMyTickets)
		tickets.GET("/:id", auth, h.Support.GetTicket)
		tickets.POST("/:id/comments", auth, h.Support.AddComment)
		tickets.GET("", auth, adminOnly, h.Support.ListTickets)
		tickets.PATCH("/:id", auth, adminOnly, h.Support.UpdateTicket)
	}

	fb := api.Group("/feedback", auth)
	{
		fb.GET("", h.Feedback.ListFeedback)
		fb.POST("", h.Feedback.CreateFeedback)
		fb.GET("/:id", h.Feedback.GetFeedback)
		fb.DELETE("/:id", h.Feedback.DeleteFeedback)
		fb.POST("/:id/vote", h.Feedback.Vote)
		fb.DELETE("/:id/vote", h.Feedback.RemoveVote)
		fb.POST("/:id/replies", h.Feedback.AddReply)
		fb.POST("/:id/replies/:replyId/like", h.Feedback.LikeReply)
		fb.PATCH("/:id/replies/:replyId/solution", h.Feedback.MarkSolution)
		fb.PATCH("/:id/status", adminOnly, h.Feedback.UpdateStatus)
	}

	questions := api.Group("/questions")
	{
		questions.GET("", h.Question.ListQuestions)
		questions.GET("/:id", h.Question.GetQuestion)
		questions.POST("", auth, h.Question.AskQuestion)
		questions.POST("/:id/answers", auth, h.Question.AddAnswer)
		questions.POST("/:id/answers/:answerId/upvote", auth, h.Question.UpvoteAnswer)
		questions.POST("/:id/answers/:answerId/accept", auth, h.Question.AcceptAnswer)
	}

	adminRoutes := api.Group("/admin", auth, adminOnly)
	{
		adminRoutes.GET("/dashboard/stats", h.Admin.GetDashboardStats)
		adminRoutes.GET("/errors", h.Admin.GetErrorStats)

		userAdmin := adminRoutes.Group("/users")
		{
			userAdmin.GET("", h.Admin.GetUsers)
			userAdmin.PATCH("/:id/role", h.Admin.UpdateUserRole)
			userAdmin.PATCH("/:id/status", h.Admin.UpdateUserStatus)
		}

		orderAdmin := adminRoutes.Group("/orders")
		{
			orderAdmin.GET("", h.Order.ListOrders)
			orderAdmin.PATCH("/:id/status", h.Order.UpdateStatus)
		}

		adminRoutes.DELETE("/products/:id", h.Product.DeleteProduct)
	}

	return r
}

func corsConfig(frontendURL string) cors.Config {
	cfg := cors.DefaultConfig()
	origins := []string{}
	for _, origin := range strings.Split(frontendURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions,
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{"Content-Length", "Content-Type", middleware.RequestIDHeader}
	return cfg
}
