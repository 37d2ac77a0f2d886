package threedm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"modsou/config"
	"modsou/model"
	"modsou/plugin"
)

// 在init函数中注册插件
func init() {
	plugin.RegisterGlobalPlugin(PluginName, func(deps plugin.Deps) plugin.ModSearchPlugin {
		return NewPluginFromConfig(deps.Config, deps.Client, deps.Logger)
	})
}

const (
	PluginName      = "3dm"
	DefaultSiteBase = "https://mod.3dmgame.com"
)

// DefaultAPIURLs v3接口的已知地址，按优先级排列
var DefaultAPIURLs = []string{
	DefaultSiteBase + "/api/v3/mods",
	DefaultSiteBase + "/api/v3/mods/search",
}

// Options 插件配置
type Options struct {
	APIKey         string
	APIURLs        []string
	KeywordKeys    []string
	SiteBase       string
	AttemptTimeout time.Duration
}

// Plugin 3DM mod站搜索插件
type Plugin struct {
	opts       Options
	planner    *Planner
	negotiator *Negotiator
	logger     *slog.Logger
}

// NewPlugin 创建插件
func NewPlugin(opts Options, client *http.Client, logger *slog.Logger) *Plugin {
	if len(opts.APIURLs) == 0 {
		opts.APIURLs = DefaultAPIURLs
	}
	if opts.SiteBase == "" {
		opts.SiteBase = DefaultSiteBase
	}
	opts.SiteBase = strings.TrimRight(opts.SiteBase, "/")
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("plugin", PluginName)

	return &Plugin{
		opts:       opts,
		planner:    NewPlanner(opts.APIURLs, opts.KeywordKeys),
		negotiator: NewNegotiator(client, opts.APIKey, opts.AttemptTimeout, logger),
		logger:     logger,
	}
}

// NewPluginFromConfig 使用全局配置创建插件
func NewPluginFromConfig(cfg *config.Config, client *http.Client, logger *slog.Logger) *Plugin {
	if cfg == nil {
		cfg = config.Load()
	}
	opts := Options{
		APIURLs:        cfg.APIURLs,
		SiteBase:       cfg.SiteBase,
		AttemptTimeout: cfg.AttemptTimeout,
	}
	if cfg.APIKeyConfigured() {
		opts.APIKey = cfg.APIKey
	}
	return NewPlugin(opts, client, logger)
}

// Name 返回插件名称
func (p *Plugin) Name() string { return PluginName }

// Priority 返回插件优先级
func (p *Plugin) Priority() int { return 1 }

// DisplayName 站点名称
func (p *Plugin) DisplayName() string { return "3DMGame" }

// DetailURL 构造mod详情链接
func (p *Plugin) DetailURL(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	return p.opts.SiteBase + "/mod/" + id
}

// Configured 是否已配置密钥
func (p *Plugin) Configured() bool {
	key := strings.TrimSpace(p.opts.APIKey)
	return key != "" && key != config.APIKeyPlaceholder
}

// Plan 返回该请求的尝试计划
func (p *Plugin) Plan(req model.SearchRequest) []model.AttemptSpec {
	return p.planner.Plan(req)
}

// Search 生成计划并依次协商
func (p *Plugin) Search(ctx context.Context, req model.SearchRequest) (model.SearchResult, error) {
	plan := p.planner.Plan(req)
	p.logger.Debug("开始协商", "keyword", req.Keyword, "attempts", len(plan))
	return p.negotiator.Negotiate(ctx, req, plan)
}
