package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modsou/api"
	"modsou/config"
	"modsou/plugin"
	// 插件的空导入，触发init函数自动注册
	_ "modsou/plugin/threedm"
	"modsou/service"
	"modsou/util"
	"modsou/util/cache"
)

func main() {
	// 初始化应用
	logger := initApp()

	// 启动服务器
	if err := startServer(logger); err != nil {
		logger.Error("服务器异常退出", "error", err)
		os.Exit(1)
	}
}

// initApp 初始化配置、日志和HTTP客户端
func initApp() *slog.Logger {
	config.Init()

	logger := config.NewLogger(os.Stdout, config.AppConfig.LogLevel)
	slog.SetDefault(logger)

	util.InitHTTPClient(config.AppConfig.ProxyURL)
	return logger
}

// startServer 启动Web服务器，收到退出信号后优雅关闭
func startServer(logger *slog.Logger) error {
	cfg := config.AppConfig

	pluginManager := plugin.NewPluginManager()
	pluginManager.RegisterAllGlobalPlugins(plugin.Deps{
		Config: cfg,
		Client: util.GetHTTPClient(),
		Logger: logger,
	})

	formatter := service.NewFormatter(cfg.ChunkThreshold, cfg.ChunkSize, cfg.Attribution)
	searchService := service.NewSearchService(pluginManager, cfg.PluginName, formatter, logger)

	done := make(chan struct{})
	defer close(done)
	if cfg.CacheEnabled && cfg.CacheTTL > 0 {
		resultCache := cache.NewMemoryCache(cfg.CacheMaxItems)
		resultCache.StartCleanupTask(cfg.CacheTTL, done)
		searchService.EnableCache(resultCache, cfg.CacheTTL)
	}

	router := api.SetupRouter(searchService, cfg, logger)

	printServiceInfo(cfg, pluginManager, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("启动服务器失败: %w", err)
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("正在关闭服务器", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// printServiceInfo 打印服务信息
func printServiceInfo(cfg *config.Config, pluginManager *plugin.PluginManager, logger *slog.Logger) {
	logger.Info(fmt.Sprintf("服务器启动在 http://localhost:%s", cfg.Port))

	if cfg.UseProxy {
		logger.Info("使用代理", "proxy", cfg.ProxyURL)
	} else {
		logger.Info("未使用代理")
	}

	if !cfg.APIKeyConfigured() {
		logger.Warn("请在配置中设置正确的API密钥 (MOD_APPKEY)")
	}

	if cfg.CacheEnabled && cfg.CacheTTL > 0 {
		logger.Info("结果缓存已启用", "ttl", cfg.CacheTTL.String(), "maxItems", cfg.CacheMaxItems)
	} else {
		logger.Info("结果缓存已禁用")
	}

	logger.Info("搜索默认值", "gameId", cfg.DefaultGameID, "pageSize", cfg.DefaultPageSize,
		"sort", cfg.DefaultSort, "attemptTimeout", cfg.AttemptTimeout.String())

	for _, p := range pluginManager.GetPlugins() {
		logger.Info("已加载插件", "name", p.Name(), "priority", p.Priority(), "configured", p.Configured())
	}
}
