package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	httpapi "github.com/pulseboard/go-board-backend/internal/api/http"
	"github.com/pulseboard/go-board-backend/internal/api/http/middleware"
	projhttp "github.com/pulseboard/go-board-backend/internal/projects/http"
	"github.com/pulseboard/go-board-backend/internal/projects/repository"
	projservice "github.com/pulseboard/go-board-backend/internal/projects/service"
	"github.com/pulseboard/go-board-backend/internal/stats/cache"
	statshttp "github.com/pulseboard/go-board-backend/internal/stats/http"
	statsservice "github.com/pulseboard/go-board-backend/internal/stats/service"
	timehttp "github.com/pulseboard/go-board-backend/internal/timetracking/http"
	timeservice "github.com/pulseboard/go-board-backend/internal/timetracking/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Mongo       *mongo.Client
	DB          *mongo.Database
	Redis       *redis.Client
	StatsTTL    time.Duration
	Logger      *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Mongo, dep.Redis)
	healthHandler.RegisterRoutes(r)

	repo := repository.New(dep.DB)
	statsCache := cache.New(dep.Redis, dep.StatsTTL)

	projectSvc := projservice.NewProjectService(repo, statsCache, dep.Logger)
	taskSvc := projservice.NewTaskService(repo, statsCache, dep.Logger)
	timeSvc := timeservice.NewTimeTrackingService(repo, statsCache, dep.Logger)
	statsSvc := statsservice.NewStatsService(repo, statsCache, dep.Logger)

	api := r.Group("/api/v1")

	projectsGroup := api.Group("/projects")
	projhttp.New(projectSvc, taskSvc).Register(projectsGroup)
	timehttp.New(timeSvc).Register(projectsGroup)
	statshttp.New(statsSvc).Register(projectsGroup)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-Id")
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
