package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"club-ticketing/config"
	"club-ticketing/handlers"
	_ "club-ticketing/migrations"
	"club-ticketing/monitoring"
	"club-ticketing/security"
	"club-ticketing/services"
	"club-ticketing/utils"
)

func main() {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)
	notifier := utils.NewNotifier(pn)

	// Record watcher feeds identity cache invalidation
	watcher := services.NewRecordWatcher()
	watcher.Bind(app)

	// Initialize services
	clubService := services.NewClubService(app)
	eventService := services.NewEventService(app)
	ticketService := services.NewTicketService(app)
	profileService := services.NewProfileService(app)
	adminService := services.NewAdminService(app)
	qrScanService := services.NewQRScanService(app)
	consumptionTypeService := services.NewConsumptionTypeService(app)
	consumptionOrderService := services.NewConsumptionOrderService(app)
	consumptionTicketService := services.NewConsumptionTicketService(app)
	gameService := services.NewGameService(app)
	participationService := services.NewGameParticipationService(app)
	loyaltyService := services.NewLoyaltyTransactionService(app)
	notificationService := services.NewNotificationService(app, notifier)
	paymentService := services.NewPaymentService(app)
	reservationService := services.NewTableReservationService(app)

	identityService := services.NewIdentityService(adminService, profileService, watcher, notifier)
	selectionService := services.NewClubSelectionService(clubService, redisClient)
	qrService := services.NewQRService(redisClient, ticketService, qrScanService, cfg.ScanSessionTTL)
	refundService := services.NewRefundService(eventService, notifier, cfg)

	// Initialize handlers
	identityHandler := handlers.NewIdentityHandler(app, identityService)
	clubHandler := handlers.NewClubHandler(app, clubService, selectionService)
	eventHandler := handlers.NewEventHandler(app, eventService, refundService, identityService)
	ticketHandler := handlers.NewTicketHandler(app, ticketService, eventService, identityService)
	qrHandler := handlers.NewQRHandler(app, qrService, qrScanService, identityService)
	consumptionHandler := handlers.NewConsumptionHandler(app, consumptionTypeService, consumptionOrderService, consumptionTicketService, identityService)
	engagementHandler := handlers.NewEngagementHandler(app, gameService, participationService, loyaltyService, profileService, notificationService, reservationService, identityService)
	paymentHandler := handlers.NewPaymentHandler(app, paymentService, identityService)
	adminHandler := handlers.NewAdminHandler(app, adminService, profileService, identityService)

	rateLimiter := security.NewRateLimiter(redisClient)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Create context for background tasks
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keep resolved identities in sync with profile/admin rows
	identityService.Watch(ctx)

	if cfg.EnableMetrics {
		monitoring.NewMonitor(redisClient)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel, refundService)

	// Register routes
	app.OnBeforeServe().Add(func(e *core.ServeEvent) error {
		// Identity endpoints
		e.Router.GET("/api/me", identityHandler.GetMe)
		e.Router.PATCH("/api/me/profile", identityHandler.UpdateProfile)
		e.Router.PATCH("/api/me/admin", identityHandler.UpdateAdminProfile)
		e.Router.POST("/api/me/signout", identityHandler.SignOut)

		// Club endpoints
		e.Router.GET("/api/clubs", clubHandler.ListClubs)
		e.Router.GET("/api/clubs/selection", clubHandler.GetSelectedClub)
		e.Router.POST("/api/clubs/selection", clubHandler.SelectClub)
		e.Router.DELETE("/api/clubs/selection", clubHandler.ClearSelection)
		e.Router.GET("/api/clubs/:id", clubHandler.GetClub)
		e.Router.GET("/api/clubs/:id/consumption-types", consumptionHandler.ListClubTypes)
		e.Router.GET("/api/clubs/:id/games", engagementHandler.ListClubGames)

		// Event endpoints
		e.Router.GET("/api/events", eventHandler.ListEvents)
		e.Router.POST("/api/events", eventHandler.CreateEvent)
		e.Router.GET("/api/events/:id", eventHandler.GetEvent)
		e.Router.POST("/api/events/:id/close-presale", eventHandler.ClosePresale)
		e.Router.POST("/api/events/:id/cancel", eventHandler.CancelEvent)
		e.Router.POST("/api/events/:id/reactivate", eventHandler.ReactivateEvent)
		e.Router.GET("/api/events/:id/reservations", engagementHandler.ListEventReservations)

		// Ticket endpoints
		e.Router.GET("/api/tickets", ticketHandler.ListMyTickets)
		e.Router.POST("/api/tickets", ticketHandler.PurchasePresale)
		e.Router.GET("/api/tickets/:id", ticketHandler.GetTicket)
		e.Router.POST("/api/tickets/:id/validate", ticketHandler.ValidateTicket)
		e.Router.POST("/api/tickets/:id/refund", ticketHandler.RefundTicket)

		// QR scan endpoints, rate limited per scanner
		scanLimit := rateLimiter.ScanRateLimit(cfg.ScanRateLimit, cfg.ScanRateWindow)
		e.Router.POST("/api/qr/scan", qrHandler.Scan, scanLimit, rateLimiter.AntiBotMiddleware())
		e.Router.GET("/api/qr/session", qrHandler.CurrentSession)
		e.Router.POST("/api/qr/consume", qrHandler.Consume, scanLimit)
		e.Router.POST("/api/qr/reset", qrHandler.Reset)
		e.Router.GET("/api/qr/history", qrHandler.History)

		// Consumption endpoints
		e.Router.GET("/api/orders", consumptionHandler.ListMyOrders)
		e.Router.GET("/api/orders/:id", consumptionHandler.GetOrder)
		e.Router.POST("/api/orders/:id/cancel", consumptionHandler.CancelOrder)
		e.Router.POST("/api/consumption-types/:id/active", consumptionHandler.SetTypeActive)
		e.Router.POST("/api/consumption-tickets/:id/consume", consumptionHandler.ConsumeTicket)
		e.Router.POST("/api/consumption-tickets/:id/code", consumptionHandler.IssueCode)

		// Engagement endpoints
		e.Router.POST("/api/games/:id/start", engagementHandler.StartGame)
		e.Router.POST("/api/games/:id/participate", engagementHandler.Participate)
		e.Router.POST("/api/games/:id/winner", engagementHandler.SelectWinner)
		e.Router.GET("/api/loyalty", engagementHandler.ListLoyaltyTransactions)
		e.Router.POST("/api/loyalty/cashout", engagementHandler.CashoutLoyalty)
		e.Router.GET("/api/notifications", engagementHandler.ListNotifications)
		e.Router.POST("/api/notifications/:id/read", engagementHandler.MarkNotificationRead)
		e.Router.POST("/api/reservations/:id/confirm", engagementHandler.ConfirmReservation)
		e.Router.POST("/api/reservations/:id/cancel", engagementHandler.CancelReservation)

		// Payment endpoints
		e.Router.POST("/api/payments", paymentHandler.CreatePayment)
		e.Router.GET("/api/payments/:id", paymentHandler.GetPayment)
		e.Router.POST("/api/payments/:id/complete", paymentHandler.CompletePayment)
		e.Router.POST("/api/payments/:id/refund", paymentHandler.RefundPayment)

		// Admin endpoints
		e.Router.GET("/api/admin/stats", adminHandler.GetClubStats)
		e.Router.GET("/api/admin/profiles", adminHandler.FindProfile)
		e.Router.POST("/api/admin/profiles/:id/verify", adminHandler.VerifyProfile)

		// Health check
		e.Router.GET("/health", func(c echo.Context) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return c.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return c.JSON(200, map[string]string{"status": "healthy"})
		})

		if cfg.EnableMetrics {
			e.Router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
		}

		// Reschedule refund pipelines interrupted by the last shutdown
		go resumeRefunds(eventService, refundService)

		log.Println("Server routes registered")

		return nil
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// resumeRefunds reloads events left mid-refund and restarts their timers.
func resumeRefunds(eventService *services.EventService, refundService *services.RefundService) {
	events, err := eventService.GetRefundsInFlight()
	if err != nil {
		log.Printf("Error loading in-flight refunds: %v", err)
		return
	}

	if len(events) > 0 {
		log.Printf("Resuming refund pipeline for %d event(s)", len(events))
		refundService.Resume(events)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc, refundService *services.RefundService) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	refundService.Stop()
	cancel()
}
