package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/hostel-app/config"
	"github.com/yeremiapane/hostel-app/controllers"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
)

func SetupRouter(app *services.Container, cfg config.App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.Metrics())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))
	r.Use(middlewares.LoggerMiddleware())
	if cfg.RateLimitPerSec > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst).RateLimit())
	}

	authCtrl := controllers.NewAuthController(app.Auth)
	userCtrl := controllers.NewUserController(app.Users)
	complaintCtrl := controllers.NewComplaintController(app.Complaints)
	serviceCtrl := controllers.NewServiceRequestController(app.ServiceRequests)
	leaveCtrl := controllers.NewLeaveController(app.Leaves)
	paymentCtrl := controllers.NewPaymentController(app.Payments)
	receiptCtrl := controllers.NewReceiptController(app.Payments)
	announcementCtrl := controllers.NewAnnouncementController(app.Announcements)
	dashboardCtrl := controllers.NewDashboardController(app.Dashboard)
	activityCtrl := controllers.NewActivityController(app.Hub, cfg.CORSOrigins)
	healthCtrl := controllers.NewHealthController(app.Store)

	adminOnly := middlewares.RoleCheck(models.RoleAdmin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", healthCtrl.Ping)
	r.GET("/healthz", healthCtrl.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	public := api.Group("/auth")
	if cfg.AuthRatePerMin > 0 {
		public.Use(middlewares.NewStrictRateLimiter(cfg.AuthRatePerMin).RateLimit())
	}
	{
		public.POST("/register", authCtrl.Register)
		public.POST("/login", authCtrl.Login)
	}

	api.GET("/ws", middlewares.WebSocketAuthMiddleware(app.Auth), activityCtrl.Stream)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware(app.Auth))

	auth.POST("/auth/logout", authCtrl.Logout)
	auth.GET("/auth/me", authCtrl.Me)

	// USERS (admin)
	auth.GET("/users", adminOnly, userCtrl.List)
	auth.POST("/users", adminOnly, userCtrl.Create)
	auth.DELETE("/users/:id", adminOnly, userCtrl.Delete)

	// COMPLAINTS
	auth.GET("/complaints", complaintCtrl.List)
	auth.POST("/complaints", complaintCtrl.Create)
	auth.PATCH("/complaints/:id", adminOnly, complaintCtrl.UpdateStatus)

	// SERVICE REQUESTS
	auth.GET("/service-requests", serviceCtrl.List)
	auth.POST("/service-requests", serviceCtrl.Create)
	auth.PATCH("/service-requests/:id", adminOnly, serviceCtrl.Update)

	// LEAVE REQUESTS
	auth.GET("/leave-requests", leaveCtrl.List)
	auth.POST("/leave-requests", leaveCtrl.Create)
	auth.PATCH("/leave-requests/:id", adminOnly, leaveCtrl.UpdateStatus)

	// PAYMENTS
	payments := auth.Group("/payments")
	payments.Use(middlewares.PaymentSecurityHeaders(), middlewares.LogPaymentRequest())
	{
		payments.GET("", paymentCtrl.List)
		payments.POST("", adminOnly, paymentCtrl.Create)
		payments.PATCH("/:id", paymentCtrl.Update)
		payments.POST("/:id/pay", paymentCtrl.Pay)
		payments.GET("/:id/receipt", receiptCtrl.Download)
	}

	// ANNOUNCEMENTS
	auth.GET("/announcements", announcementCtrl.List)
	auth.POST("/announcements", adminOnly, announcementCtrl.Create)

	// DASHBOARD
	auth.GET("/dashboard/stats", adminOnly, dashboardCtrl.Stats)
	auth.GET("/dashboard/overview", dashboardCtrl.Overview)
	auth.GET("/activity", adminOnly, activityCtrl.Recent)

	return r
}
