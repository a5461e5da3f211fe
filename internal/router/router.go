package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-tracker-api/internal/config"
	"task-tracker-api/internal/handler"
	"task-tracker-api/internal/metrics"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/service"
)

// Config carries everything the router needs to assemble the service
type Config struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *zap.Logger
	AppConfig      *config.Config
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// Setup builds the gin engine with all routes and middleware wired
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	projectRepo := repository.NewProjectRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)
	teamRepo := repository.NewTeamRepository(cfg.DB)
	notifRepo := repository.NewNotificationRepository(cfg.DB)

	// Services
	notificationService := service.NewNotificationService(notifRepo, taskRepo, userRepo, cfg.Redis, cfg.AppConfig, cfg.Metrics, cfg.Logger)
	taskService := service.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, notificationService, cfg.Metrics, cfg.Logger)
	projectService := service.NewProjectService(projectRepo, userRepo, cfg.Metrics, cfg.Logger)
	teamService := service.NewTeamService(teamRepo, userRepo, cfg.Logger)
	reportService := service.NewReportService(taskRepo, userRepo, notifRepo, cfg.Logger)
	userService := service.NewUserService(userRepo, cfg.Logger)

	// Handlers
	healthHandler := handler.NewHealthHandler(cfg.DB)
	taskHandler := handler.NewTaskHandler(taskService)
	projectHandler := handler.NewProjectHandler(projectService)
	teamHandler := handler.NewTeamHandler(teamService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(userService)

	// Unauthenticated surface
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	basePath := ""
	if cfg.AppConfig != nil {
		basePath = cfg.AppConfig.Server.BasePath
	}
	api := r.Group(basePath)

	// Internal scheduler surface, guarded by a static key
	internalKey := ""
	if cfg.AppConfig != nil {
		internalKey = cfg.AppConfig.App.InternalAPIKey
	}
	internal := api.Group("/internal", middleware.InternalAuth(internalKey))
	internal.POST("/jobs/overdue-scan", notificationHandler.RunOverdueScan)

	jwtSecret := ""
	if cfg.AppConfig != nil {
		jwtSecret = cfg.AppConfig.JWT.Secret
	}
	authed := api.Group("", middleware.Auth(jwtSecret))

	users := authed.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/me", userHandler.GetMe)
	}

	projects := authed.Group("/projects")
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/:projectId", projectHandler.GetProject)
		projects.PUT("/:projectId", projectHandler.UpdateProject)
		projects.DELETE("/:projectId", projectHandler.DeleteProject)
		projects.POST("/:projectId/boards", projectHandler.CreateBoard)
		projects.GET("/:projectId/boards", projectHandler.GetBoards)
	}

	boards := authed.Group("/boards")
	{
		boards.PUT("/:boardId", projectHandler.UpdateBoard)
		boards.DELETE("/:boardId", projectHandler.DeleteBoard)
		boards.GET("/:boardId/tasks", taskHandler.GetBoardTasks)
		boards.GET("/:boardId/kanban", taskHandler.GetKanban)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:taskId", taskHandler.GetTask)
		tasks.PUT("/:taskId", taskHandler.UpdateTask)
		tasks.DELETE("/:taskId", taskHandler.DeleteTask)
		tasks.PATCH("/:taskId/status", taskHandler.UpdateTaskStatus)
		tasks.PATCH("/:taskId/progress", taskHandler.UpdateTaskProgress)
		tasks.PATCH("/:taskId/order", taskHandler.UpdateTaskOrder)
		tasks.POST("/:taskId/dependencies", taskHandler.AddDependency)
		tasks.GET("/:taskId/dependencies", taskHandler.GetDependencies)
		tasks.DELETE("/:taskId/dependencies/:dependsOnId", taskHandler.RemoveDependency)
	}

	teams := authed.Group("/teams")
	{
		teams.POST("", teamHandler.CreateTeam)
		teams.GET("", teamHandler.ListTeams)
		teams.GET("/:teamId", teamHandler.GetTeam)
		teams.PUT("/:teamId", teamHandler.UpdateTeam)
		teams.DELETE("/:teamId", teamHandler.DeleteTeam)
		teams.POST("/:teamId/members", teamHandler.AddMember)
		teams.PATCH("/:teamId/members/:userId", teamHandler.UpdateMemberRole)
		teams.DELETE("/:teamId/members/:userId", teamHandler.RemoveMember)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.GET("/counts", notificationHandler.GetCounts)
		notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
		notifications.PATCH("/:notificationId/read", notificationHandler.MarkRead)
	}

	authed.GET("/reports", reportHandler.GetReport)
	authed.GET("/reports/export", reportHandler.ExportReportCSV)
	authed.GET("/dashboard", reportHandler.GetDashboard)

	return r
}
