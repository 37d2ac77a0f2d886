package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"modsou/model"
	"modsou/plugin"
	"modsou/util/cache"
	jsonutil "modsou/util/json"
)

// 参数校验失败时的提示
const (
	MsgEmptyKeyword  = "请提供搜索关键词！\n使用方法: /mod搜索 <关键词>"
	MsgNoCredential  = "插件未配置API密钥，请联系管理员配置后使用"
	MsgPluginMissing = "未找到可用的mod搜索插件，请联系管理员检查配置"
)

// SearchOutcome 一次成功搜索的输出
type SearchOutcome struct {
	Chunks  []string           // 按顺序发送的文本分段
	Records []model.ModRecord  // 实际渲染的记录（已排序截断）
	Result  model.SearchResult // 协商得到的原始结果
}

// SearchService 搜索服务：校验参数、调用插件协商、渲染结果
type SearchService struct {
	pluginManager *plugin.PluginManager
	pluginName    string
	formatter     *Formatter
	logger        *slog.Logger

	resultCache *cache.MemoryCache
	cacheTTL    time.Duration
}

// NewSearchService 创建搜索服务，pluginName为空时使用优先级最高的插件
func NewSearchService(pluginManager *plugin.PluginManager, pluginName string, formatter *Formatter, logger *slog.Logger) *SearchService {
	if formatter == nil {
		formatter = NewFormatter(DefaultChunkThreshold, DefaultChunkSize, DefaultAttribution)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		pluginManager: pluginManager,
		pluginName:    pluginName,
		formatter:     formatter,
		logger:        logger,
	}
}

// EnableCache 开启结果缓存，只缓存有记录的成功结果
func (s *SearchService) EnableCache(c *cache.MemoryCache, ttl time.Duration) {
	if c == nil || ttl <= 0 {
		return
	}
	s.resultCache = c
	s.cacheTTL = ttl
}

// GetPluginManager 返回插件管理器
func (s *SearchService) GetPluginManager() *plugin.PluginManager {
	return s.pluginManager
}

// ActivePlugin 当前使用的插件
func (s *SearchService) ActivePlugin() (plugin.ModSearchPlugin, bool) {
	if s.pluginManager == nil {
		return nil, false
	}
	return s.pluginManager.GetPlugin(s.pluginName)
}

// Search 执行一次搜索
// 返回的错误总是 *model.ErrorDescriptor，任何panic也会在这里被转换为错误
func (s *SearchService) Search(ctx context.Context, req model.SearchRequest) (out SearchOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			desc := model.NewUnexpectedError(fmt.Errorf("panic: %v", r))
			s.logger.Error("搜索过程中发生panic", "keyword", req.Keyword, "panic", r)
			out, err = SearchOutcome{}, desc
		}
	}()

	if req.Keyword == "" {
		return SearchOutcome{}, model.NewValidationError(MsgEmptyKeyword)
	}
	p, ok := s.ActivePlugin()
	if !ok {
		return SearchOutcome{}, model.NewValidationError(MsgPluginMissing)
	}
	if !p.Configured() {
		return SearchOutcome{}, model.NewValidationError(MsgNoCredential)
	}

	s.logger.Info("正在搜索关键词", "keyword", req.Keyword, "plugin", p.Name(),
		"gameId", req.GameID, "pageSize", req.PageSize, "sort", string(req.SortPreference))

	cacheKey := resultCacheKey(p.Name(), req)
	result, hit := s.cachedResult(cacheKey)
	if hit {
		s.logger.Debug("命中结果缓存", "keyword", req.Keyword)
	} else {
		var searchErr error
		result, searchErr = p.Search(ctx, req)
		if ctxErr := ctx.Err(); ctxErr != nil {
			// 取消时不返回部分结果
			return SearchOutcome{}, model.NewCanceledError(ctxErr)
		}
		if searchErr != nil {
			desc := model.AsDescriptor(searchErr)
			s.logFailure(req, desc)
			return SearchOutcome{}, desc
		}
		s.storeResult(cacheKey, result)
	}

	records := PrepareRecords(result.Records, req)
	return SearchOutcome{
		Chunks:  s.formatter.Format(result, req, p),
		Records: records,
		Result:  result,
	}, nil
}

// SearchChunks 执行搜索并总是返回可发送的分段，失败时为单段失败消息
func (s *SearchService) SearchChunks(ctx context.Context, req model.SearchRequest) []string {
	out, err := s.Search(ctx, req)
	if err != nil {
		return ErrorChunks(err)
	}
	return out.Chunks
}

// Deliver 执行搜索并把分段按顺序逐个交给send
// send出错或ctx被取消时停止后续发送
func (s *SearchService) Deliver(ctx context.Context, req model.SearchRequest, send func(chunk string) error) error {
	for _, chunk := range s.SearchChunks(ctx, req) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := send(chunk); err != nil {
			return fmt.Errorf("send chunk failed: %w", err)
		}
	}
	return nil
}

// ErrorChunks 把错误渲染为单段失败消息
func ErrorChunks(err error) []string {
	if err == nil {
		return nil
	}
	return []string{model.AsDescriptor(err).UserMessage()}
}

func (s *SearchService) logFailure(req model.SearchRequest, desc *model.ErrorDescriptor) {
	switch desc.Kind {
	case model.KindUnexpected:
		s.logger.Error("搜索mod时发生错误", "keyword", req.Keyword,
			"type", fmt.Sprintf("%T", desc.Err), "message", errMessage(desc.Err))
	case model.KindCanceled:
		s.logger.Info("搜索已取消", "keyword", req.Keyword)
	default:
		s.logger.Warn("搜索失败", "keyword", req.Keyword, "kind", desc.Kind.String(),
			"status", desc.Status, "error", desc.Error())
	}
}

// resultCacheKey 同一插件下参数完全相同的请求共享缓存
func resultCacheKey(pluginName string, req model.SearchRequest) string {
	return cache.GenerateCacheKey(pluginName, req.Keyword, map[string]string{
		"game":      strconv.Itoa(req.GameID),
		"size":      strconv.Itoa(req.PageSize),
		"sort":      string(req.SortPreference),
		"recommend": strconv.FormatBool(req.IsRecommend),
	})
}

func (s *SearchService) cachedResult(key string) (model.SearchResult, bool) {
	if s.resultCache == nil {
		return model.SearchResult{}, false
	}
	data, ok := s.resultCache.Get(key)
	if !ok {
		return model.SearchResult{}, false
	}
	var result model.SearchResult
	if err := jsonutil.Unmarshal(data, &result); err != nil {
		s.logger.Warn("缓存数据损坏，重新搜索", "error", err)
		return model.SearchResult{}, false
	}
	return result, true
}

func (s *SearchService) storeResult(key string, result model.SearchResult) {
	if s.resultCache == nil || result.IsEmpty() {
		return
	}
	data, err := jsonutil.Marshal(result)
	if err != nil {
		s.logger.Warn("序列化缓存结果失败", "error", err)
		return
	}
	s.resultCache.Set(key, data, s.cacheTTL)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
