package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/awashgames/gamehub-services/configs"
	"github.com/awashgames/gamehub-services/internal/gamesvc/broker"
	"github.com/awashgames/gamehub-services/internal/gamesvc/db"
	"github.com/awashgames/gamehub-services/internal/gamesvc/handlers"
	"github.com/awashgames/gamehub-services/internal/gamesvc/service"
	"github.com/awashgames/gamehub-services/internal/gamesvc/session"
	"github.com/awashgames/gamehub-services/internal/gamesvc/store"
	"github.com/awashgames/gamehub-services/internal/gamesvc/ws"
	nats "github.com/awashgames/gamehub-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect(context.Background())
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	playerStore := store.NewPlayerStore(dbpool)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := playerStore.EnsureSchema(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to prepare schema: %v", err)
	}
	if err := playerStore.Seed(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to seed players: %v", err)
	}
	cancel()

	// one session and one lock registry per process; every handler shares them
	sessions := session.NewRegistry()
	locks := session.NewLockRegistry()

	playerService := service.NewPlayerService(playerStore, sessions)
	resourceService := service.NewResourceService(playerStore, locks)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// Initialize command router over websocket
	s := ws.NewWs(sessions, playerService, resourceService)
	s.Broker = broker.NewBroker(n.Conn)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(s, playerService)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
