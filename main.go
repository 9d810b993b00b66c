package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-campaign/api"
	campaignapi "github.com/beka-birhanu/vinom-campaign/api/campaign"
	api_i "github.com/beka-birhanu/vinom-campaign/api/i"
	"github.com/beka-birhanu/vinom-campaign/api/identity"
	"github.com/beka-birhanu/vinom-campaign/api/middleware"
	"github.com/beka-birhanu/vinom-campaign/config"
	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/beka-birhanu/vinom-campaign/infrastruture/leaderboard"
	"github.com/beka-birhanu/vinom-campaign/infrastruture/lock"
	"github.com/beka-birhanu/vinom-campaign/infrastruture/repo"
	"github.com/beka-birhanu/vinom-campaign/infrastruture/sessionstore"
	"github.com/beka-birhanu/vinom-campaign/infrastruture/token"
	"github.com/beka-birhanu/vinom-campaign/logger"
	"github.com/beka-birhanu/vinom-campaign/maze"
	"github.com/beka-birhanu/vinom-campaign/service"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	lockExpiry     = 2 * time.Second
	leaderboardKey = "campaign:leaderboard"
)

// Global variables for dependencies
var (
	mongoClient        *mongo.Client
	redisClient        *redis.Client
	progressRepo       i.ProgressRepo
	userRepo           *repo.UserRepo
	sessionStore       i.SessionStore
	locker             i.Locker
	standings          i.Leaderboard
	jwtTokenizer       i.Tokenizer
	campaignManager    *service.CampaignManager
	authService        i.Authenticator
	campaignController api_i.Controller
	identityController api_i.Controller
	router             *api.Router
	appLogger          i.Logger
)

func newLogger(prefix, color string) i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initProgressRepo(client *mongo.Client) {
	progressRepo = repo.NewProgressRepo(client, config.Envs.DBName, "progress")
	appLogger.Info("Progress repository initialized")
}

func initUserRepo(ctx context.Context, client *mongo.Client) {
	userRepo = repo.NewUserRepo(client, config.Envs.DBName, "users")
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Preparing user repository: %v", err))
		os.Exit(1)
	}
	appLogger.Info("User repository initialized")
}

func initSessionStore(client *redis.Client) {
	var err error
	sessionStore, err = sessionstore.NewRedisSessionStore(client, config.Envs.SessionTTLSeconds)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session store: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session store initialized")
}

func initLocker(client *redis.Client) {
	locker = lock.NewRedsyncLocker(client, lockExpiry)
	appLogger.Info("Session locker initialized")
}

func initLeaderboard(client *redis.Client) {
	standings = leaderboard.NewRedisLeaderboard(client, leaderboardKey)
	appLogger.Info("Leaderboard initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initCampaignManager() {
	var err error
	campaignManager, err = service.NewCampaignManager(&service.Config{
		MazeFactory: func(level int, seed int64) (game.Maze, error) {
			m, err := maze.New(level, seed)
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Store:       sessionStore,
		Progress:    progressRepo,
		Leaderboard: standings,
		Locker:      locker,
		Tokenizer:   jwtTokenizer,
		Logger:      newLogger("CAMPAIGN", config.ColorCyan),
		TokenTTL:    time.Duration(config.Envs.SessionTTLSeconds) * time.Second,
		MaxLevel:    config.Envs.MaxLevel,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating campaign manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Campaign manager initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuth(userRepo, jwtTokenizer, newLogger("AUTH", config.ColorYellow))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initIdentityController() {
	var err error
	identityController, err = identity.NewIdentityServer(authService, newLogger("IDENTITY-API", config.ColorBlue))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating identity controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Identity controller initialized")
}

func initCampaignController() {
	var err error
	campaignController, err = campaignapi.NewCampaignController(campaignManager, newLogger("CAMPAIGN-API", config.ColorMagenta))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating campaign controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Campaign controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{identityController, campaignController},
		AuthorizationMiddleware: middleware.Authorize(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	initMongo(setupCtx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	initRedis(setupCtx)
	defer redisClient.Close()

	initProgressRepo(mongoClient)
	initUserRepo(setupCtx, mongoClient)
	initSessionStore(redisClient)
	initLocker(redisClient)
	initLeaderboard(redisClient)
	initJWTTokenizer()
	initCampaignManager()
	initAuthService()
	initIdentityController()
	initCampaignController()
	initRouter(jwtTokenizer)

	// Run HTTP server until interrupted
	if err := router.Run(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Running server: %v", err))
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFlush()
	if err := campaignManager.Flush(flushCtx); err != nil {
		appLogger.Warning(fmt.Sprintf("Flushing sessions: %v", err))
	}
	appLogger.Info("Shut down")
}
