package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pongarena/play/internal/clock"
	"pongarena/play/internal/game"
	"pongarena/play/internal/gateway"
	"pongarena/play/internal/handlers"
	"pongarena/play/internal/identity"
	"pongarena/play/internal/lobby"
	"pongarena/play/internal/matchmaking"
	"pongarena/play/internal/models"
	"pongarena/play/internal/notify"
	"pongarena/play/internal/routers"
	"pongarena/play/internal/stats"
	"pongarena/play/internal/tournament"
)

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func initDatabase() (*gorm.DB, error) {
	host := getEnv("POSTGRES_HOST", "localhost")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "postgres")
	dbname := getEnv("POSTGRES_DB", "postgres")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := models.DefaultConfig()
	jwtSecret := []byte(getEnv("JWT_SECRET", "dev-secret"))
	sched := clock.NewScheduler(clockwork.NewRealClock())

	// Identity and stats ride the same database. Without one the server
	// still runs, with in-memory stand-ins.
	var ids identity.Provider
	var recorder stats.Recorder
	db, err := initDatabase()
	if err != nil {
		logger.Warn("database unavailable, using in-memory identity and stats", zap.Error(err))
		ids = identity.NewStatic()
		recorder = stats.NewMemory()
	} else {
		store, err := identity.NewStore(db)
		if err != nil {
			logger.Fatal("identity migration failed", zap.Error(err))
		}
		ids = store
		gr, err := stats.NewGormRecorder(db, logger)
		if err != nil {
			logger.Fatal("stats migration failed", zap.Error(err))
		}
		recorder = gr
	}

	// Push transport over redis pub/sub. Optional like the database.
	var notifier notify.Notifier = notify.Nop{}
	var gw *gateway.Gateway
	rdb := redis.NewClient(&redis.Options{Addr: getEnv("REDIS_ADDR", "localhost:6379")})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unavailable, push notifications disabled", zap.Error(err))
	} else {
		notifier = notify.NewRedisPublisher(rdb, logger)
		gw = gateway.New(rdb, jwtSecret, logger)
	}

	games := game.NewManager(cfg, ids, notifier, recorder, sched, logger)
	lobbies := lobby.NewManager(ids, games, notifier, logger)
	queue := matchmaking.NewQueue(cfg, ids, games, sched, logger)
	tournaments := tournament.NewEngine(cfg, ids, games, notifier, recorder, sched, logger)
	queue.Bind(tournaments, lobbies)
	lobbies.Bind(tournaments)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go queue.Run(ctx)
	if gw != nil {
		go gw.Run(ctx)
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))

	srv := &handlers.Server{
		Queue:       queue,
		Games:       games,
		Lobbies:     lobbies,
		Tournaments: tournaments,
		JWTSecret:   jwtSecret,
		Logger:      logger,
	}
	routers.PlayRoutes(router, srv, gw)

	addr := ":" + getEnv("PORT", "8080")
	httpServer := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("play engine listening", zap.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
