package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"LeagueLadder/config"
	"LeagueLadder/internal/auth"
	"LeagueLadder/internal/jobs"
	"LeagueLadder/internal/matchmaking"
	"LeagueLadder/internal/middleware"
	"LeagueLadder/internal/notify"
	"LeagueLadder/internal/storage"
	"LeagueLadder/internal/utils"
	"LeagueLadder/internal/websocket"
)

func main() {
	config.Load()
	utils.Init()

	//-------------------------------------------------------
	// 1. Storage: postgres repos, or in-memory when no DSN
	//-------------------------------------------------------
	var (
		games   matchmaking.GameRepo
		leagues matchmaking.LeagueRepo
	)
	if dsn := config.C.Database.DSN; dsn != "" {
		if err := storage.InitPostgres(dsn); err != nil {
			utils.Error.Fatalf("Postgres init failed: %v", err)
		}
		games = matchmaking.NewPostgresGameRepo(storage.DB)
		leagues = matchmaking.NewPostgresLeagueRepo(storage.DB)
	} else {
		utils.Print.Warn("no database DSN, running on in-memory repos")
		games = matchmaking.NewMemoryGameRepo()
		leagues = matchmaking.NewMemoryLeagueRepo()
	}

	//-------------------------------------------------------
	// 2. Pair lock: redis when configured, otherwise the
	//    single-process no-op default
	//-------------------------------------------------------
	var locker matchmaking.PairLocker = matchmaking.NoopLocker{}
	if addr := config.C.Redis.Addr; addr != "" {
		if err := storage.InitRedis(addr, config.C.Redis.Password, config.C.Redis.DB); err != nil {
			utils.Error.Fatalf("Redis init failed: %v", err)
		}
		locker = matchmaking.NewRedisLocker(storage.Rdb,
			time.Duration(config.C.Matchmaking.LockTTLSeconds)*time.Second)
	} else {
		utils.Print.Warn("no redis configured, pair locking is single-process only")
	}

	//-------------------------------------------------------
	// 3. Notifications: smtp invitations + websocket pushes
	//-------------------------------------------------------
	var notifier matchmaking.Notifier = notify.LogNotifier{}
	if config.C.SMTP.Addr != "" {
		notifier = notify.NewEmailNotifier(config.C.SMTP.Addr, config.C.SMTP.From)
	}

	hub := websocket.NewHub()
	go hub.Run()

	//-------------------------------------------------------
	// 4. Matchmaking service
	//-------------------------------------------------------
	svc := matchmaking.NewService(games, leagues, notifier, locker)
	svc.OnMatchCreated = notify.MatchPush(hub)

	//-------------------------------------------------------
	// 5. Periodic backfill reconciler
	//-------------------------------------------------------
	reconciler := jobs.NewBackfillReconciler(svc, config.C.Matchmaking.Leagues,
		time.Duration(config.C.Matchmaking.BackfillMinutes)*time.Minute)
	if err := reconciler.Start(); err != nil {
		utils.Error.Fatalf("Backfill scheduler failed: %v", err)
	}
	defer reconciler.Stop()

	//-------------------------------------------------------
	// 6. HTTP surface
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := auth.NewHandler(leagues, []byte(config.C.JWT.Secret))
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/nonce", authHandler.GetNonce)
		authGroup.POST("/login", authHandler.Login)
	}

	secret := []byte(config.C.JWT.Secret)
	guarded := r.Group("/", middleware.JwtAuthMiddleware(secret))
	{
		guarded.GET("/ws", websocket.ServeWS(hub))

		mh := matchmaking.NewHandler(svc)
		guarded.POST("/leagues/:league_id/players/:player_id/match", mh.EnsureMatch)
		guarded.POST("/leagues/:league_id/backfill", mh.Backfill)
		guarded.POST("/games/:game_id/updated", mh.GameUpdated)
	}

	utils.Print.Info("server running", "port", config.C.Server.Port)
	if err := r.Run(config.C.Server.Port); err != nil {
		utils.Error.Fatalf("Server stopped: %v", err)
	}
}
