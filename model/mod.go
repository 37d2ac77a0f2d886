package model

import (
	"fmt"
	"time"
)

// 规范化记录缺失字段时的占位文案
const (
	UnknownTitle  = "未知标题"
	UnknownAuthor = "未知作者"
	UnknownSize   = "未知大小"
	UnknownTime   = "未知时间"
	LinkMissing   = "链接不可用"
)

// AuthStyle 认证头的写法
type AuthStyle string

const (
	AuthRaw    AuthStyle = "raw"    // Authorization: <key>
	AuthBearer AuthStyle = "bearer" // Authorization: Bearer <key>
)

// AttemptSpec 一次请求尝试的组合
type AttemptSpec struct {
	Index           int       `json:"index"` // 计划中的序号，从1开始
	URL             string    `json:"url"`
	AuthStyle       AuthStyle `json:"auth_style"`
	IncludeGameID   bool      `json:"include_game_id"`
	KeywordParamKey string    `json:"keyword_param_key"`
}

// Group 同一URL和认证方式的尝试属于同一组
func (a AttemptSpec) Group() string {
	return string(a.AuthStyle) + "|" + a.URL
}

func (a AttemptSpec) String() string {
	return fmt.Sprintf("#%d url=%s auth=%s gameId=%v key=%s", a.Index, a.URL, a.AuthStyle, a.IncludeGameID, a.KeywordParamKey)
}

// ModRecord 规范化后的mod记录，不依赖上游返回的是哪种结构
// PublishTime/UpdateTime 为零值表示未知
type ModRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishTime   time.Time `json:"publish_time"`
	UpdateTime    time.Time `json:"update_time"`
	DownloadCount int64     `json:"download_count"`
	SizeLabel     string    `json:"size_label"`
}

// SearchResult 规范化后的搜索结果
// TotalCount 是上游报告的总数，可能与 Records 长度不一致，渲染只看 Records
type SearchResult struct {
	Records        []ModRecord  `json:"records"`
	TotalCount     int          `json:"total_count"`
	MatchedAttempt *AttemptSpec `json:"matched_attempt,omitempty"`
	Verified       bool         `json:"verified"` // 是否有记录命中关键词
}

// IsEmpty 没有可渲染的记录
func (r SearchResult) IsEmpty() bool {
	return len(r.Records) == 0
}
