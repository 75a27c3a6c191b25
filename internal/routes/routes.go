package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	"github.com/CareBridgeServices/care-marketplace/internal/config"
	"github.com/CareBridgeServices/care-marketplace/internal/handlers"
	"github.com/CareBridgeServices/care-marketplace/internal/infra/idem"
	infraRepo "github.com/CareBridgeServices/care-marketplace/internal/infra/repository"
	"github.com/CareBridgeServices/care-marketplace/internal/infra/stripepay"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
	"github.com/CareBridgeServices/care-marketplace/internal/storage"
	ucBooking "github.com/CareBridgeServices/care-marketplace/internal/usecase/booking"
	ucJobPost "github.com/CareBridgeServices/care-marketplace/internal/usecase/jobpost"
	ucPayments "github.com/CareBridgeServices/care-marketplace/internal/usecase/payments"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	jobPostRepo := infraRepo.NewJobPostGormRepository(db)
	paymentRepo := infraRepo.NewPaymentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifier := notification.New(db)
	notifyDispatcher := notification.NewDispatcher(notifier)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	eventGuard := idem.NewRedisStore(redisClient)

	processor := stripepay.New(cfg.StripeSecretKey)

	blobStore := storage.New(storage.Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})

	// ======================================================
	// 🧠 USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, auditDispatcher, notifyDispatcher)
	acceptBookingUC := ucBooking.NewAcceptBooking(bookingRepo, auditDispatcher, notifyDispatcher)
	rejectBookingUC := ucBooking.NewRejectBooking(bookingRepo, auditDispatcher, notifyDispatcher)
	startBookingUC := ucBooking.NewStartBooking(bookingRepo, auditDispatcher, notifyDispatcher)
	completeBookingUC := ucBooking.NewCompleteBooking(bookingRepo, auditDispatcher, notifyDispatcher)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, auditDispatcher, notifyDispatcher)

	// ======================================================
	// 🧠 USE CASES — JOB POSTS
	// ======================================================
	createJobPostUC := ucJobPost.NewCreateJobPost(jobPostRepo, auditDispatcher, notifyDispatcher)
	applyJobPostUC := ucJobPost.NewApplyToJobPost(jobPostRepo, auditDispatcher, notifyDispatcher)
	matchCaregiversUC := ucJobPost.NewMatchCaregivers(jobPostRepo)

	// ======================================================
	// 🧠 USE CASES — PAYMENTS / CONNECT
	// ======================================================
	createIntentUC := ucPayments.NewCreateIntent(paymentRepo, processor, auditDispatcher)

	webhookUC := ucPayments.NewWebhook(
		paymentRepo,
		processor,
		eventGuard,
		notifyDispatcher,
		cfg.StripeWebhookSecret,
		cfg.StripeConnectWebhookSecret,
	)

	connectUC := ucPayments.NewConnectAccounts(
		paymentRepo,
		processor,
		auditDispatcher,
		cfg.FrontendURL,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db, blobStore)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		acceptBookingUC,
		rejectBookingUC,
		startBookingUC,
		completeBookingUC,
		cancelBookingUC,
		bookingRepo,
	)

	jobPostHandler := handlers.NewJobPostHandler(
		createJobPostUC,
		applyJobPostUC,
		matchCaregiversUC,
		jobPostRepo,
		db,
	)

	paymentHandler := handlers.NewPaymentHandler(createIntentUC, paymentRepo)
	connectHandler := handlers.NewConnectHandler(connectUC)
	webhookHandler := handlers.NewWebhookHandler(webhookUC)

	notificationHandler := handlers.NewNotificationHandler(db)
	adminHandler := handlers.NewAdminHandler(db, auditDispatcher, notifyDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔔 WEBHOOKS (sem auth; assinatura verificada no corpo)
		// ------------------------------
		api.POST("/webhooks/payments", webhookHandler.Payment)
		api.POST("/webhooks/connect", webhookHandler.Connect)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/family/signup", authHandler.FamilySignup)
		api.POST("/auth/family/login", authHandler.FamilyLogin)
		api.POST("/auth/care/signup", authHandler.CaregiverSignup)
		api.POST("/auth/care/login", authHandler.CaregiverLogin)
		api.POST("/auth/admin/login", authHandler.AdminLogin)
		api.POST("/auth/refresh", authHandler.Refresh)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/auth/logout", authHandler.Logout)

			secured.GET("/me", profileHandler.GetMe)
			secured.POST("/me/avatar", profileHandler.UploadAvatar)

			// ------------------------------
			// FAMILY PROFILE
			// ------------------------------
			family := secured.Group("/", middleware.RequireRole(middleware.RoleFamily))
			{
				family.PATCH("/me/family", profileHandler.UpdateFamily)

				family.GET("/me/elders", profileHandler.ListElders)
				family.POST("/me/elders", profileHandler.AddElder)
				family.PATCH("/me/elders/:id", profileHandler.UpdateElder)
				family.DELETE("/me/elders/:id", profileHandler.DeleteElder)
			}

			// ------------------------------
			// CAREGIVER PROFILE
			// ------------------------------
			care := secured.Group("/", middleware.RequireRole(middleware.RoleCaregiver))
			{
				care.PATCH("/me/care", profileHandler.UpdateCaregiver)

				care.GET("/me/availability", profileHandler.ListAvailability)
				care.POST("/me/availability", profileHandler.AddAvailability)
				care.DELETE("/me/availability/:id", profileHandler.DeleteAvailability)

				care.POST("/me/documents", profileHandler.UploadDocument)
				care.DELETE("/me/documents/:id", profileHandler.DeleteDocument)
			}

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/stats", bookingHandler.Stats)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.POST("/bookings", middleware.RequireRole(middleware.RoleFamily), bookingHandler.Create)
			secured.PATCH("/bookings/:id/notes", middleware.RequireRole(middleware.RoleFamily), bookingHandler.UpdateNotes)
			secured.PATCH("/bookings/:id/accept", middleware.RequireRole(middleware.RoleCaregiver), bookingHandler.Accept)
			secured.PATCH("/bookings/:id/reject", middleware.RequireRole(middleware.RoleCaregiver), bookingHandler.Reject)
			secured.PATCH("/bookings/:id/start", bookingHandler.Start)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/bookings/:id/cancel", middleware.RequireRole(middleware.RoleFamily), bookingHandler.Cancel)

			// ------------------------------
			// JOB POSTS
			// ------------------------------
			secured.GET("/job-posts", jobPostHandler.ListActive)
			secured.GET("/job-posts/mine", middleware.RequireRole(middleware.RoleFamily), jobPostHandler.ListMine)
			secured.GET("/job-posts/:id", jobPostHandler.Get)
			secured.POST("/job-posts", middleware.RequireRole(middleware.RoleFamily), jobPostHandler.Create)
			secured.POST("/job-posts/:id/apply", middleware.RequireRole(middleware.RoleCaregiver), jobPostHandler.Apply)
			secured.GET("/job-posts/:id/match", middleware.RequireRole(middleware.RoleFamily), jobPostHandler.Match)
			secured.PATCH("/job-posts/:id/status", middleware.RequireRole(middleware.RoleFamily), jobPostHandler.UpdateStatus)
			secured.DELETE("/job-posts/:id", middleware.RequireRole(middleware.RoleFamily), jobPostHandler.Delete)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.GET("/payments", paymentHandler.List)
			secured.GET("/payments/:id", paymentHandler.Get)
			secured.POST("/payments", middleware.RequireRole(middleware.RoleFamily), paymentHandler.CreateIntent)

			// ------------------------------
			// CONNECT (conta de repasse do cuidador)
			// ------------------------------
			connect := secured.Group("/connect", middleware.RequireRole(middleware.RoleCaregiver))
			{
				connect.POST("/account", connectHandler.CreateAccount)
				connect.GET("/onboarding-link", connectHandler.OnboardingLink)
				connect.GET("/dashboard-link", connectHandler.DashboardLink)
				connect.GET("/balance", connectHandler.Balance)
				connect.POST("/refresh-status", connectHandler.RefreshStatus)
			}

			// ------------------------------
			// NOTIFICATIONS
			// ------------------------------
			secured.GET("/notifications", notificationHandler.List)
			secured.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
			secured.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
			secured.DELETE("/notifications/:id", notificationHandler.Delete)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
			{
				admin.GET("/families", adminHandler.ListFamilies)
				admin.GET("/caregivers", adminHandler.ListCaregivers)
				admin.GET("/caregivers/pending", adminHandler.ListPendingCaregivers)
				admin.PATCH("/caregivers/:id/approve", adminHandler.ApproveCaregiver)
				admin.PATCH("/caregivers/:id/reject", adminHandler.RejectCaregiver)

				admin.GET("/job-posts", adminHandler.ListJobPosts)

				admin.GET("/connect/overview", adminHandler.ConnectOverview)
				admin.GET("/connect/accounts", adminHandler.ListConnectAccounts)
				admin.GET("/connect/transactions", adminHandler.ListConnectTransactions)
				admin.PATCH("/connect/accounts/:id/approve", adminHandler.ApproveConnectAccount)
				admin.PATCH("/connect/accounts/:id/restrict", adminHandler.RestrictConnectAccount)

				admin.GET("/dashboard", adminHandler.Dashboard)
				admin.GET("/payments/stats", paymentHandler.Stats)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
