package model

import (
	"strings"
)

// 单次搜索的页大小上限
const MaxPageSize = 50

// SortPreference 排序偏好
type SortPreference string

const (
	SortByTime      SortPreference = "time"      // 按更新时间
	SortByDownloads SortPreference = "downloads" // 按下载量
	SortByRelevance SortPreference = "relevance" // 按相关度（保持上游顺序）
)

// ParseSortPreference 解析排序偏好，兼容中文别名，无法识别时返回 ok=false
func ParseSortPreference(s string) (SortPreference, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "update", "updated", "时间", "更新", "最新":
		return SortByTime, true
	case "downloads", "download", "下载", "下载量", "热门":
		return SortByDownloads, true
	case "relevance", "default", "相关", "相关度", "默认":
		return SortByRelevance, true
	}
	return "", false
}

// Label 排序方式的展示文案
func (s SortPreference) Label() string {
	switch s {
	case SortByTime:
		return "按更新时间"
	case SortByDownloads:
		return "按下载量"
	default:
		return "按相关度"
	}
}

// SearchRequest 一次mod搜索的参数，整个搜索过程中不修改
type SearchRequest struct {
	Keyword        string         `json:"keyword"`         // 搜索关键词（已去除首尾空白）
	GameID         int            `json:"game_id"`         // 游戏ID，<=0 表示不限
	PageSize       int            `json:"page_size"`       // 返回条数
	SortPreference SortPreference `json:"sort_preference"` // 排序偏好
	IsRecommend    bool           `json:"is_recommend"`    // 是否只看推荐
}

// NewSearchRequest 构造搜索请求，规范化关键词、页大小和排序偏好
func NewSearchRequest(keyword string, gameID, pageSize int, sort SortPreference, isRecommend bool) SearchRequest {
	return SearchRequest{
		Keyword:        strings.TrimSpace(keyword),
		GameID:         gameID,
		PageSize:       ClampPageSize(pageSize),
		SortPreference: normalizeSort(sort),
		IsRecommend:    isRecommend,
	}
}

// ClampPageSize 把页大小限制在 1..MaxPageSize
func ClampPageSize(n int) int {
	if n <= 0 {
		return 1
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func normalizeSort(s SortPreference) SortPreference {
	if p, ok := ParseSortPreference(string(s)); ok {
		return p
	}
	return SortByTime
}

// APISearchRequest HTTP接口的搜索参数
type APISearchRequest struct {
	Keyword     string `json:"kw"`
	GameID      *int   `json:"game_id"`
	PageSize    int    `json:"page_size"`
	Sort        string `json:"sort"`
	IsRecommend *bool  `json:"recommend"`
}

// CommandRequest 聊天指令请求
type CommandRequest struct {
	Text string `json:"text" binding:"required"`
}
