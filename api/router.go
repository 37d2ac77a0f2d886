package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"modsou/config"
	"modsou/model"
	"modsou/service"
)

// SetupRouter 设置路由
func SetupRouter(searchService *service.SearchService, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultsFromConfig(cfg)
	handler := NewHandler(searchService, defaults, cfg.Attribution)
	authService := service.NewAuthService(cfg.JWTSecret)

	// 设置为生产模式
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(LoggerMiddleware(logger))
	r.Use(GzipMiddleware(cfg.EnableCompression, cfg.MinSizeToCompress))

	api := r.Group("/api")
	{
		// 搜索接口 - 支持POST和GET两种方式
		guarded := api.Group("", AuthMiddleware(authService))
		{
			guarded.GET("/search", handler.Search)
			guarded.POST("/search", handler.Search)
			guarded.POST("/command", handler.Command)
		}

		api.GET("/help", handler.Help)
		api.GET("/health", handler.Health)
	}

	return r
}

// DefaultsFromConfig 从配置读取搜索默认值
func DefaultsFromConfig(cfg *config.Config) service.Defaults {
	sortPref, ok := model.ParseSortPreference(cfg.DefaultSort)
	if !ok {
		sortPref = model.SortByTime
	}
	return service.Defaults{
		GameID:      cfg.DefaultGameID,
		PageSize:    model.ClampPageSize(cfg.DefaultPageSize),
		Sort:        sortPref,
		IsRecommend: cfg.DefaultIsRecommend,
	}
}
