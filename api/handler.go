package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"modsou/model"
	"modsou/service"
	"modsou/util"
	jsonutil "modsou/util/json"
)

// Handler HTTP接口处理器
type Handler struct {
	searchService *service.SearchService
	defaults      service.Defaults
	attribution   string
}

// NewHandler 创建处理器
func NewHandler(searchService *service.SearchService, defaults service.Defaults, attribution string) *Handler {
	return &Handler{
		searchService: searchService,
		defaults:      defaults,
		attribution:   attribution,
	}
}

// writeJSON 使用sonic序列化并写出响应
func writeJSON(c *gin.Context, status int, resp model.Response) {
	jsonData, err := jsonutil.Marshal(resp)
	if err != nil {
		c.String(http.StatusInternalServerError, "序列化响应失败: "+err.Error())
		return
	}
	c.Data(status, "application/json; charset=utf-8", jsonData)
}

// Search 搜索处理函数，支持GET和POST
func (h *Handler) Search(c *gin.Context) {
	var apiReq model.APISearchRequest

	if c.Request.Method == http.MethodGet {
		apiReq.Keyword = c.Query("kw")
		if apiReq.Keyword == "" {
			apiReq.Keyword = c.Query("keyword")
		}
		if v := c.Query("game_id"); v != "" {
			gameID := util.StringToInt(v)
			apiReq.GameID = &gameID
		}
		apiReq.PageSize = util.StringToInt(c.Query("page_size"))
		apiReq.Sort = c.Query("sort")
		if v := c.Query("recommend"); v != "" {
			recommend := v == "1" || strings.EqualFold(v, "true")
			apiReq.IsRecommend = &recommend
		}
	} else {
		data, err := c.GetRawData()
		if err != nil {
			writeJSON(c, http.StatusBadRequest, model.NewErrorResponse(400, "读取请求数据失败: "+err.Error()))
			return
		}
		if err := jsonutil.Unmarshal(data, &apiReq); err != nil {
			writeJSON(c, http.StatusBadRequest, model.NewErrorResponse(400, "无效的请求参数: "+err.Error()))
			return
		}
	}

	req := h.buildRequest(apiReq)
	out, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		desc := model.AsDescriptor(err)
		status := httpStatusFor(desc)
		writeJSON(c, status, model.NewErrorResponseWithData(status, desc.Message, model.SearchResponse{
			Chunks:    []string{desc.UserMessage()},
			ErrorKind: desc.Kind.String(),
		}))
		return
	}

	writeJSON(c, http.StatusOK, model.NewSuccessResponse(model.SearchResponse{
		Chunks:         out.Chunks,
		Count:          len(out.Records),
		Total:          out.Result.TotalCount,
		Records:        out.Records,
		MatchedAttempt: out.Result.MatchedAttempt,
		Verified:       out.Result.Verified,
	}))
}

// Command 处理聊天指令文本
func (h *Handler) Command(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		writeJSON(c, http.StatusBadRequest, model.NewErrorResponse(400, "读取请求数据失败: "+err.Error()))
		return
	}
	var req model.CommandRequest
	if err := jsonutil.Unmarshal(data, &req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeJSON(c, http.StatusBadRequest, model.NewErrorResponse(400, "无效的请求参数"))
		return
	}

	chunks := h.searchService.HandleCommand(c.Request.Context(), req.Text, h.defaults)
	if chunks == nil {
		writeJSON(c, http.StatusBadRequest, model.NewErrorResponse(400, "无法识别的指令"))
		return
	}
	writeJSON(c, http.StatusOK, model.NewSuccessResponse(gin.H{"chunks": chunks}))
}

// Help 返回帮助信息
func (h *Handler) Help(c *gin.Context) {
	configured := false
	if p, ok := h.searchService.ActivePlugin(); ok {
		configured = p.Configured()
	}
	writeJSON(c, http.StatusOK, model.NewSuccessResponse(gin.H{
		"text": service.HelpText(h.defaults, configured, h.attribution),
	}))
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	pluginNames := []string{}
	if pm := h.searchService.GetPluginManager(); pm != nil {
		for _, p := range pm.GetPlugins() {
			pluginNames = append(pluginNames, p.Name())
		}
	}

	active := ""
	configured := false
	if p, ok := h.searchService.ActivePlugin(); ok {
		active = p.Name()
		configured = p.Configured()
	}

	writeJSON(c, http.StatusOK, model.NewSuccessResponse(gin.H{
		"status":         "ok",
		"plugins":        pluginNames,
		"plugin_count":   len(pluginNames),
		"active_plugin":  active,
		"api_configured": configured,
	}))
}

// buildRequest 用默认值补全接口参数
func (h *Handler) buildRequest(apiReq model.APISearchRequest) model.SearchRequest {
	gameID := h.defaults.GameID
	if apiReq.GameID != nil {
		gameID = *apiReq.GameID
	}
	pageSize := h.defaults.PageSize
	if apiReq.PageSize > 0 {
		pageSize = apiReq.PageSize
	}
	sortPref := h.defaults.Sort
	if p, ok := model.ParseSortPreference(apiReq.Sort); ok {
		sortPref = p
	}
	recommend := h.defaults.IsRecommend
	if apiReq.IsRecommend != nil {
		recommend = *apiReq.IsRecommend
	}
	return model.NewSearchRequest(apiReq.Keyword, gameID, pageSize, sortPref, recommend)
}

// httpStatusFor 错误分类对应的HTTP状态码
func httpStatusFor(desc *model.ErrorDescriptor) int {
	switch desc.Kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindTimeout:
		return http.StatusGatewayTimeout
	case model.KindAuth, model.KindUpstreamAnomaly, model.KindUpstreamStatus, model.KindUpstreamCode, model.KindConnect:
		return http.StatusBadGateway
	case model.KindCanceled:
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}
