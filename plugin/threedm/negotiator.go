package threedm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"modsou/model"
	"modsou/plugin"
	"modsou/util"
)

const (
	// DefaultAttemptTimeout 单次尝试的超时
	// 最坏情况下一次搜索耗时 = 尝试次数 × 单次超时，计划大小固定，所以有上限
	DefaultAttemptTimeout = 20 * time.Second

	// 响应体读取上限
	maxBodySize = 4 << 20
)

// 这些状态码通常说明参数组合不被接受或上游临时故障，换下一个组合继续
var retryableStatus = map[int]bool{
	model.StatusConnectionReset:    true,
	http.StatusBadRequest:          true,
	http.StatusNotFound:            true,
	http.StatusMethodNotAllowed:    true,
	http.StatusUnprocessableEntity: true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Negotiator 按计划顺序逐个尝试请求组合，直到找到真正按关键词过滤过的结果
type Negotiator struct {
	client  *http.Client
	apiKey  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewNegotiator 创建协商器，timeout<=0 时使用默认值
func NewNegotiator(client *http.Client, apiKey string, timeout time.Duration, logger *slog.Logger) *Negotiator {
	if client == nil {
		client = util.GetHTTPClient()
	}
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Negotiator{
		client:  client,
		apiKey:  strings.TrimSpace(apiKey),
		timeout: timeout,
		logger:  logger,
	}
}

// Negotiate 依次执行计划中的尝试
//
// 有结果且标题或作者命中关键词时立即返回；有结果但未命中时记为候选并继续，
// 后面的候选覆盖前面的。全部尝试完仍没有命中时返回最后一个候选，
// 一个候选都没有则返回空结果。认证失败和业务错误码会立即终止。
func (n *Negotiator) Negotiate(ctx context.Context, req model.SearchRequest, plan []model.AttemptSpec) (model.SearchResult, error) {
	var (
		candidate  *model.SearchResult
		lastErr    *model.ErrorDescriptor
		answered   bool
		skipGroups = make(map[string]bool)
	)

	for _, attempt := range plan {
		if err := ctx.Err(); err != nil {
			return model.SearchResult{}, model.NewCanceledError(err)
		}
		if skipGroups[attempt.Group()] {
			continue
		}

		result, err := n.try(ctx, req, attempt)
		if err != nil {
			desc := model.AsDescriptor(err)
			n.logger.Debug("尝试失败", "attempt", attempt.Index, "kind", desc.Kind.String(), "status", desc.Status, "error", err)

			switch desc.Kind {
			case model.KindCanceled, model.KindAuth, model.KindUpstreamCode, model.KindValidation:
				return model.SearchResult{}, desc
			case model.KindUpstreamAnomaly, model.KindTimeout, model.KindConnect:
				// 同一URL和认证方式的其它组合大概率同样失败
				skipGroups[attempt.Group()] = true
			case model.KindUpstreamStatus:
				if !retryableStatus[desc.Status] {
					return model.SearchResult{}, desc
				}
			}
			lastErr = desc
			continue
		}

		answered = true
		matched := attempt
		if result.TotalCount > 0 && plugin.ContainsKeyword(result.Records, req.Keyword) {
			result.MatchedAttempt = &matched
			result.Verified = true
			n.logger.Info("命中关键词", "attempt", attempt.Index, "key", attempt.KeywordParamKey,
				"auth", string(attempt.AuthStyle), "records", len(result.Records), "total", result.TotalCount)
			return result, nil
		}
		if result.TotalCount > 0 {
			result.MatchedAttempt = &matched
			candidate = &result
			n.logger.Debug("有结果但未命中关键词，记为候选", "attempt", attempt.Index, "total", result.TotalCount)
		}
	}

	if candidate != nil {
		n.logger.Info("未精确命中，返回候选结果", "attempt", candidate.MatchedAttempt.Index, "total", candidate.TotalCount)
		return *candidate, nil
	}
	if !answered && lastErr != nil {
		return model.SearchResult{}, lastErr
	}
	return model.SearchResult{}, nil
}

// try 执行单次尝试
func (n *Negotiator) try(ctx context.Context, req model.SearchRequest, attempt model.AttemptSpec) (model.SearchResult, error) {
	target, err := buildAttemptURL(attempt, req)
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("build url failed: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("create request failed: %w", err)
	}
	util.SetBrowserHeaders(httpReq)
	httpReq.Header.Set("Authorization", authorization(n.apiKey, attempt.AuthStyle))

	n.logger.Debug("尝试请求", "attempt", attempt.Index, "url", attempt.URL, "auth", string(attempt.AuthStyle),
		"gameId", attempt.IncludeGameID, "key", attempt.KeywordParamKey)

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return model.SearchResult{}, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.SearchResult{}, model.NewStatusError(resp.StatusCode, util.TruncateRunes(string(body), 200))
	}
	if readErr != nil {
		return model.SearchResult{}, classifyTransportError(ctx, readErr)
	}

	result, shape, err := normalize(body)
	if err != nil {
		return model.SearchResult{}, err
	}
	n.logger.Debug("响应已解析", "attempt", attempt.Index, "shape", shape.String(),
		"records", len(result.Records), "total", result.TotalCount)
	return result, nil
}

// buildAttemptURL 拼接查询参数
func buildAttemptURL(attempt model.AttemptSpec, req model.SearchRequest) (string, error) {
	u, err := url.Parse(attempt.URL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("page", "1")
	q.Set("pageSize", strconv.Itoa(req.PageSize))
	if req.IsRecommend {
		q.Set("isRecommend", "1")
	} else {
		q.Set("isRecommend", "0")
	}
	if sortBy := upstreamSortField(req.SortPreference); sortBy != "" {
		q.Set("sortBy", sortBy)
		q.Set("sortOrder", "desc")
	}
	if attempt.IncludeGameID && req.GameID > 0 {
		q.Set("gameId", strconv.Itoa(req.GameID))
	}
	q.Set(attempt.KeywordParamKey, req.Keyword)

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// upstreamSortField 排序偏好对应的上游排序字段，相关度排序不传
func upstreamSortField(s model.SortPreference) string {
	switch s {
	case model.SortByTime:
		return "mods_updateTime"
	case model.SortByDownloads:
		return "mods_download_cnt"
	}
	return ""
}

// authorization 按认证方式构造Authorization头
func authorization(key string, style model.AuthStyle) string {
	if style == model.AuthBearer && !strings.HasPrefix(strings.ToLower(key), "bearer ") {
		return "Bearer " + key
	}
	return key
}

// classifyTransportError 把网络层错误分为取消、超时和连接失败
func classifyTransportError(parent context.Context, err error) error {
	if parentErr := parent.Err(); parentErr != nil {
		return model.NewCanceledError(parentErr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.NewTimeoutError(err)
	}

	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return model.NewConnectError(err)
	}
	return model.NewUnexpectedError(err)
}
