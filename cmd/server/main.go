package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"soundhaus/internal/api"
	"soundhaus/internal/auth"
	"soundhaus/internal/repository"
	"soundhaus/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("WARNING: STRIPE_SECRET_KEY not set; payments will fail")
	}

	bookingRepo := repository.NewBookingRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	deliverableRepo := repository.NewDeliverableRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)
	jobRepo := repository.NewJobRepository(db)

	stripeSvc := service.NewStripeService()
	senderSvc := service.NewSenderService()
	storageSvc, err := service.NewStorageService()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	availabilitySvc := service.NewAvailabilityService(availabilityRepo)
	blockSvc := service.NewBlockService(availabilityRepo)
	bookingSvc := service.NewBookingService(bookingRepo, availabilitySvc, stripeSvc, senderSvc)
	deliverableSvc := service.NewDeliverableService(deliverableRepo, bookingRepo, storageSvc, senderSvc)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo, os.Getenv("ADMIN_EMAILS"))
	jobSvc := service.NewJobService(jobRepo)

	userHandler := api.NewUserBookingHandler(bookingSvc, availabilitySvc, deliverableSvc)
	adminHandler := api.NewAdminHandler(bookingSvc, blockSvc, deliverableSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingSvc, stripeSvc)

	// Hourly sweep of bookings whose deposit was never paid.
	c := cron.New()
	c.AddFunc("@hourly", func() {
		if err := jobSvc.CancelStalePendingBookings(24 * time.Hour); err != nil {
			log.Printf("Cron job failed: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/availability", userHandler.CheckAvailability).Methods("GET")
	r.HandleFunc("/api/rates", userHandler.GetRates).Methods("GET")
	r.HandleFunc("/api/bookings", userHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/api/bookings/{code}", userHandler.GetBooking).Methods("GET")
	r.HandleFunc("/api/bookings/{code}", userHandler.CancelBooking).Methods("DELETE")
	r.HandleFunc("/api/bookings/{code}/deliverables", userHandler.ListDeliverables).Methods("GET")
	r.HandleFunc("/api/checkout/session", stripeHandler.GetBookingBySessionID).Methods("GET")

	// Stripe webhook
	r.HandleFunc("/webhooks/stripe", stripeHandler.HandleWebhook).Methods("POST")

	// Admin login
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(adminAuthSvc))
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/complete", adminHandler.CompleteBooking).Methods("POST")
	admin.HandleFunc("/bookings/delete", adminHandler.SoftDeleteBooking).Methods("POST")
	admin.HandleFunc("/bookings/{id}/audit", adminHandler.GetAuditTrail).Methods("GET")
	admin.HandleFunc("/bookings/{id}/deliverables", adminHandler.CreateDeliverable).Methods("POST")
	admin.HandleFunc("/blocked-intervals", adminHandler.ListBlockedIntervals).Methods("GET")
	admin.HandleFunc("/blocked-intervals", adminHandler.CreateBlockedInterval).Methods("POST")
	admin.HandleFunc("/blocked-intervals/{id}", adminHandler.DeleteBlockedInterval).Methods("DELETE")
	admin.HandleFunc("/admins", adminAuthHandler.CreateAdmin).Methods("POST")

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:3000"
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{siteURL}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
