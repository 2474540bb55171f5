package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	authhttp "github.com/taskboard-io/taskboard-backend/internal/auth/http"
	authmw "github.com/taskboard-io/taskboard-backend/internal/auth/middleware"
	authrepo "github.com/taskboard-io/taskboard-backend/internal/auth/repository"
	authservice "github.com/taskboard-io/taskboard-backend/internal/auth/service"
	"github.com/taskboard-io/taskboard-backend/internal/httpapi"
	"github.com/taskboard-io/taskboard-backend/internal/httpapi/middleware"
	projectcache "github.com/taskboard-io/taskboard-backend/internal/projects/cache"
	projecthttp "github.com/taskboard-io/taskboard-backend/internal/projects/http"
	projectrepo "github.com/taskboard-io/taskboard-backend/internal/projects/repository"
	projectservice "github.com/taskboard-io/taskboard-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName     string
	Version         string
	DB              *pgxpool.Pool
	SQLDB           *sql.DB
	Redis           *redis.Client
	ListTTL         time.Duration
	LoginRatePerMin int
	LoginBurst      int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())

	userRepo := authrepo.NewUserRepository(dep.SQLDB)
	authService := authservice.NewAuthService(userRepo)

	sessions := api.Group("/sessions")
	if dep.LoginRatePerMin > 0 {
		sessions.Use(authmw.LoginRateLimit(rate.Limit(float64(dep.LoginRatePerMin)/60.0), dep.LoginBurst))
	}
	authhttp.New(authService).Register(sessions)

	repo := projectrepo.NewRepo(dep.DB)
	var listCache projectservice.ListCache
	if dep.Redis != nil {
		listCache = projectcache.NewListCache(dep.Redis, dep.ListTTL)
	}
	projectSvc := projectservice.NewProjectService(repo, listCache)
	taskSvc := projectservice.NewTaskService(repo)

	resources := api.Group("/projects")
	resources.Use(authmw.TokenAuth(authService))
	projecthttp.New(projectSvc, taskSvc).Register(resources)

	return r
}
