package plugin

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"modsou/config"
	"modsou/model"
)

// ModSearchPlugin mod站点插件接口
type ModSearchPlugin interface {
	// Name 返回插件名称
	Name() string

	// Priority 返回插件优先级，数值越小越优先
	Priority() int

	// DisplayName 结果标题中展示的站点名称
	DisplayName() string

	// DetailURL 根据mod ID构造详情链接，ID为空时返回空串
	DetailURL(id string) string

	// Configured 密钥等必要配置是否齐全
	Configured() bool

	// Search 执行一次搜索，返回规范化结果
	Search(ctx context.Context, req model.SearchRequest) (model.SearchResult, error)
}

// Deps 构造插件时注入的依赖
type Deps struct {
	Config *config.Config
	Client *http.Client
	Logger *slog.Logger
}

// Factory 插件构造函数
type Factory func(deps Deps) ModSearchPlugin

// 全局插件注册表
var (
	globalRegistry     = make(map[string]Factory)
	globalRegistryLock sync.RWMutex
)

// RegisterGlobalPlugin 注册插件构造函数到全局注册表，通常在插件包的init中调用
func RegisterGlobalPlugin(name string, factory Factory) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || factory == nil {
		return
	}

	globalRegistryLock.Lock()
	defer globalRegistryLock.Unlock()

	globalRegistry[name] = factory
}

// registeredFactories 按名称排序返回注册表快照
func registeredFactories() []Factory {
	globalRegistryLock.RLock()
	defer globalRegistryLock.RUnlock()

	names := make([]string, 0, len(globalRegistry))
	for name := range globalRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	factories := make([]Factory, 0, len(names))
	for _, name := range names {
		factories = append(factories, globalRegistry[name])
	}
	return factories
}

// PluginManager 插件管理器
type PluginManager struct {
	plugins []ModSearchPlugin
}

// NewPluginManager 创建插件管理器
func NewPluginManager() *PluginManager {
	return &PluginManager{
		plugins: make([]ModSearchPlugin, 0),
	}
}

// RegisterPlugin 注册插件实例
func (pm *PluginManager) RegisterPlugin(p ModSearchPlugin) {
	if p == nil {
		return
	}
	pm.plugins = append(pm.plugins, p)
	sort.SliceStable(pm.plugins, func(i, j int) bool {
		return pm.plugins[i].Priority() < pm.plugins[j].Priority()
	})
}

// RegisterAllGlobalPlugins 用同一组依赖实例化所有全局注册的插件
func (pm *PluginManager) RegisterAllGlobalPlugins(deps Deps) {
	for _, factory := range registeredFactories() {
		pm.RegisterPlugin(factory(deps))
	}
}

// GetPlugins 获取所有插件，按优先级排序
func (pm *PluginManager) GetPlugins() []ModSearchPlugin {
	return pm.plugins
}

// GetPlugin 按名称获取插件，名称为空时返回优先级最高的插件
func (pm *PluginManager) GetPlugin(name string) (ModSearchPlugin, bool) {
	if len(pm.plugins) == 0 {
		return nil, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return pm.plugins[0], true
	}
	for _, p := range pm.plugins {
		if strings.ToLower(p.Name()) == name {
			return p, true
		}
	}
	return nil, false
}

// ContainsKeyword 标题或作者中是否包含关键词（不区分大小写）
func ContainsKeyword(records []model.ModRecord, keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Title), kw) || strings.Contains(strings.ToLower(r.Author), kw) {
			return true
		}
	}
	return false
}
