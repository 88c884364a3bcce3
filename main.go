package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moodDiaryAPI/handlers"
	"moodDiaryAPI/internal/datekey"
	"moodDiaryAPI/internal/store"
	"moodDiaryAPI/middleware"
	"moodDiaryAPI/services"
)

var (
	diaryStore    store.Store
	clock         *datekey.Clock
	streakService *services.StreakService
	statsService  *services.StatsService
	entryService  *services.EntryService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	// One fixed diary timezone for the whole deployment; "today" must not
	// depend on where the process happens to run.
	tz := os.Getenv("MOOD_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	var err error
	clock, err = datekey.NewClock(tz)
	if err != nil {
		log.Fatal("Failed to load diary timezone:", err)
	}
	log.Printf("Diary timezone: %s", tz)

	diaryStore, err = openStore()
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}

	streakService = services.NewStreakService(diaryStore, clock)
	statsService = services.NewStatsService(diaryStore, clock, streakService)
	entryService = services.NewEntryService(diaryStore, clock, streakService)

	middleware.InitPrometheus()
}

func openStore() (store.Store, error) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "firestore"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch backend {
	case "firestore":
		s, err := store.NewFirestoreStore(ctx, "./serviceAccountKey.json")
		if err != nil {
			return nil, err
		}
		log.Println("Successfully connected to Firestore")
		return s, nil

	case "postgres":
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			log.Fatal("DATABASE_URL environment variable is not set")
		}

		poolConfig, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			return nil, err
		}
		poolConfig.MaxConns = 25
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = 30 * time.Minute
		poolConfig.HealthCheckPeriod = time.Minute

		dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, err
		}
		if err := dbPool.Ping(ctx); err != nil {
			return nil, err
		}
		log.Println("Successfully connected to Postgres")
		return store.NewPostgresStore(dbPool), nil

	case "memory":
		log.Println("WARNING: using in-memory store, data will not survive restarts")
		return store.NewMemoryStore(), nil
	}

	log.Fatalf("Unknown STORE_BACKEND %q (want firestore, postgres or memory)", backend)
	return nil, nil
}

func main() {
	defer func() {
		log.Println("Closing store...")
		if err := diaryStore.Close(); err != nil {
			log.Printf("Store close error: %v", err)
		}
	}()

	// Initialize handlers
	entryHandler := handlers.NewEntryHandler(entryService)
	statsHandler := handlers.NewStatsHandler(statsService, streakService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := diaryStore.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "store connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "mood-diary-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("/diary").Subrouter()
	protected.Use(middleware.AuthMiddleware)

	protected.HandleFunc("/entries", entryHandler.ListEntries).Methods("GET")
	protected.HandleFunc("/entries/{date}", entryHandler.GetEntry).Methods("GET")
	protected.HandleFunc("/entries/{date}", entryHandler.UpsertEntry).Methods("PUT")
	protected.HandleFunc("/entries/{date}", entryHandler.DeleteEntry).Methods("DELETE")
	protected.HandleFunc("/calendar", entryHandler.GetCalendar).Methods("GET")
	protected.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")
	protected.HandleFunc("/stats/custom", statsHandler.GetCustomStats).Methods("GET")
	protected.HandleFunc("/streak", statsHandler.GetStreak).Methods("GET")
	protected.HandleFunc("/dashboard", statsHandler.GetDashboard).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length", "X-Request-Id"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
