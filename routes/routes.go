package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Keithpaul98/Car-Hire-System/controllers"
	"github.com/Keithpaul98/Car-Hire-System/middleware"
	"github.com/Keithpaul98/Car-Hire-System/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires every endpoint. Public routes come first, then
// customer routes behind auth, then staff and admin surfaces.
func SetupRouter(
	bc *controllers.BookingController,
	pc *controllers.PaymentController,
	bookingService *services.BookingService,
	log *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// ---- Public ----
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/logout", controllers.Logout)
			auth.POST("/refresh", controllers.RefreshToken)
			auth.GET("/check-username", controllers.CheckUsername)
			auth.GET("/check-email", controllers.CheckEmail)
		}

		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("", controllers.ListVehicles)
			vehicles.GET("/:id", controllers.GetVehicle)
			vehicles.GET("/:id/reviews", controllers.ListVehicleReviews)
			vehicles.GET("/:id/features", controllers.ListVehicleFeatures)
		}

		api.GET("/categories", controllers.ListCategories)
		api.GET("/brands", controllers.ListBrands)
		api.GET("/models", controllers.ListModels)
		api.GET("/addons", controllers.ListAddons)
		api.GET("/payment-methods", controllers.ListPaymentMethods)
		api.GET("/promotions", controllers.ListPromotions)
		api.GET("/loyalty-tiers", controllers.ListLoyaltyTiers)
		api.POST("/promotions/validate", controllers.ValidatePromotion(bookingService))

		// ---- Authenticated customers ----
		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			profile := authed.Group("/profile")
			{
				profile.GET("", controllers.GetProfile)
				profile.PUT("", controllers.UpdateProfile)
				profile.POST("/change-password", controllers.ChangePassword)
				profile.GET("/sessions", controllers.ListSessions)
				profile.GET("/dashboard", controllers.Dashboard)
			}

			bookings := authed.Group("/bookings")
			{
				bookings.POST("", bc.Create)
				bookings.POST("/quote", bc.Quote)
				bookings.GET("", bc.List)
				bookings.GET("/:id", bc.Get)
				bookings.POST("/:id/cancel", bc.Cancel)
				bookings.POST("/:id/addons", bc.AssignAddon)
				bookings.POST("/:id/drivers", bc.AddDriver)
			}

			payments := authed.Group("/payments")
			{
				payments.POST("", pc.Create)
				payments.GET("", pc.List)
				payments.GET("/:id", pc.Get)
				payments.POST("/:id/process", pc.Process)
			}

			invoices := authed.Group("/invoices")
			{
				invoices.GET("", pc.ListInvoices)
				invoices.GET("/:id", pc.GetInvoice)
			}
			authed.GET("/receipts/:id", pc.GetReceipt)

			reviews := authed.Group("/reviews")
			{
				reviews.POST("", controllers.CreateReview)
				reviews.POST("/:id/vote", controllers.VoteReviewHelpful)
			}

			issues := authed.Group("/issues")
			{
				issues.POST("", controllers.CreateIssue)
				issues.GET("", controllers.ListIssues)
				issues.GET("/:id", controllers.GetIssue)
				issues.POST("/:id/feedback", controllers.SubmitIssueFeedback)
			}

			authed.GET("/penalties", controllers.ListPenalties)
			authed.POST("/penalties/:id/dispute", controllers.DisputePenalty)
		}

		// ---- Staff ----
		staff := api.Group("/staff")
		staff.Use(middleware.RequireAuth(), middleware.RequireStaff())
		{
			staff.GET("/users", controllers.ListUsers)
			staff.GET("/users/:id", controllers.GetUser)
			staff.POST("/users/:id/verify", controllers.VerifyUser)
			staff.POST("/users/:id/suspend", controllers.SuspendUser)

			staff.POST("/vehicles", controllers.CreateVehicle)
			staff.PATCH("/vehicles/:id", controllers.UpdateVehicle)
			staff.POST("/vehicles/:id/retire", controllers.RetireVehicle)
			staff.POST("/vehicles/:id/features", controllers.AssignVehicleFeature)
			staff.POST("/vehicles/:id/images", controllers.AddVehicleImage)
			staff.POST("/vehicles/:id/maintenance", controllers.ScheduleMaintenance)
			staff.GET("/vehicles/:id/maintenance", controllers.ListMaintenanceRecords)
			staff.GET("/vehicles/:id/safety-equipment", controllers.ListSafetyEquipment)
			staff.PUT("/vehicles/:id/safety-equipment", controllers.UpsertSafetyEquipment)
			staff.POST("/maintenance/:id/complete", controllers.CompleteMaintenance)

			staff.POST("/categories", controllers.CreateCategory)
			staff.POST("/brands", controllers.CreateBrand)
			staff.POST("/models", controllers.CreateModel)

			staff.POST("/bookings/:id/confirm", bc.Confirm)
			staff.POST("/bookings/:id/start", bc.Start)
			staff.POST("/bookings/:id/complete", bc.Complete)
			staff.POST("/bookings/:id/no-show", bc.MarkNoShow)
			staff.POST("/bookings/:id/reprice", bc.Reprice)

			staff.POST("/payments/:id/refund", pc.Refund)
			staff.POST("/payments/:id/receipt", pc.CreateReceipt)

			staff.POST("/invoices", pc.CreateInvoice)
			staff.POST("/invoices/:id/send", pc.SendInvoice)
			staff.POST("/invoices/:id/payments", pc.RecordInvoicePayment)
			staff.POST("/invoices/mark-overdue", pc.MarkOverdueInvoices)

			staff.GET("/reviews/pending", controllers.ListPendingReviews)
			staff.POST("/reviews/:id/moderate", controllers.ModerateReview)
			staff.POST("/reviews/:id/respond", controllers.RespondToReview)

			staff.POST("/promotions", controllers.CreatePromotion)
			staff.PATCH("/promotions/:id", controllers.UpdatePromotion)

			staff.POST("/issues/:id/assign", controllers.AssignIssue)
			staff.POST("/issues/:id/resolve", controllers.ResolveIssue)

			staff.POST("/penalties", controllers.CreatePenalty)
			staff.POST("/penalties/:id/decide", controllers.DecidePenalty)
		}

		// ---- Admin ----
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/stats", controllers.AdminStats)
			admin.GET("/bulk-actions", controllers.ListBulkActions)
			admin.POST("/bulk-actions", controllers.RunBulkAction)
			admin.GET("/settings", controllers.GetCompanySettings)
			admin.PUT("/settings", controllers.UpdateCompanySettings)
		}
	}

	return r
}
