package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"modsou/model"
	"modsou/util"
)

// 分段默认阈值（按字符计）
const (
	DefaultChunkThreshold = 1500
	DefaultChunkSize      = 1200
	DefaultAttribution    = "▌本插件由--sora--提供技术支持"
)

// 日期按北京时间展示
var displayZone = time.FixedZone("CST", 8*3600)

// SiteInfo 渲染结果需要的站点信息
type SiteInfo interface {
	DisplayName() string
	DetailURL(id string) string
}

// Formatter 把规范化结果渲染为按顺序发送的文本分段
type Formatter struct {
	Threshold   int    // 全文超过该长度时分段
	ChunkSize   int    // 记录分段的最大长度
	Attribution string // 结尾署名，为空时不输出
}

// NewFormatter 创建格式化器，非法阈值使用默认值
func NewFormatter(threshold, chunkSize int, attribution string) *Formatter {
	if threshold <= 0 {
		threshold = DefaultChunkThreshold
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Formatter{
		Threshold:   threshold,
		ChunkSize:   chunkSize,
		Attribution: attribution,
	}
}

// NoResultMessage 无结果时的提示
func NoResultMessage(keyword string) string {
	return fmt.Sprintf("· 未找到关键词 '%s' 相关的mod内容", keyword)
}

// Format 渲染搜索结果
func (f *Formatter) Format(result model.SearchResult, req model.SearchRequest, site SiteInfo) []string {
	records := PrepareRecords(result.Records, req)
	if len(records) == 0 {
		return []string{NoResultMessage(req.Keyword)}
	}

	header := f.renderHeader(records, result.TotalCount, req, site)
	blocks := make([]string, 0, len(records))
	for i, rec := range records {
		blocks = append(blocks, renderRecord(i+1, rec, site))
	}

	parts := append([]string{header}, blocks...)
	if f.Attribution != "" {
		parts = append(parts, f.Attribution)
	}
	full := strings.Join(parts, "\n\n")
	if util.RuneLen(full) <= f.Threshold {
		return []string{full}
	}

	chunks := []string{header}
	chunks = append(chunks, packBlocks(blocks, f.ChunkSize)...)
	if f.Attribution != "" {
		chunks = append(chunks, f.Attribution)
	}
	return chunks
}

// PrepareRecords 按排序偏好排序后截断到页大小，不修改入参
// 只有按时间排序时才在本地重排，其余保持上游顺序
func PrepareRecords(records []model.ModRecord, req model.SearchRequest) []model.ModRecord {
	out := append([]model.ModRecord(nil), records...)
	if req.SortPreference == model.SortByTime {
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := out[i].UpdateTime, out[j].UpdateTime
			if ti.IsZero() || tj.IsZero() {
				// 未知时间排在最后
				return !ti.IsZero() && tj.IsZero()
			}
			return ti.After(tj)
		})
	}

	limit := req.PageSize
	if limit <= 0 {
		limit = model.MaxPageSize
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *Formatter) renderHeader(records []model.ModRecord, total int, req model.SearchRequest, site SiteInfo) string {
	lines := []string{
		fmt.Sprintf("▌%s Mod搜索结果", site.DisplayName()),
		fmt.Sprintf("▌关键词: %s", req.Keyword),
		fmt.Sprintf("▌找到 %d 个相关mod (总计%d个)", len(records), total),
		fmt.Sprintf("▌排序: %s", req.SortPreference.Label()),
	}
	return strings.Join(lines, "\n")
}

func renderRecord(index int, rec model.ModRecord, site SiteInfo) string {
	link := site.DetailURL(rec.ID)
	if link == "" {
		link = model.LinkMissing
	}
	return fmt.Sprintf("• %d. %s\n  作者: %s\n  发布: %s\n  更新: %s\n  下载: %d\n  大小: %s\n  链接: %s",
		index, rec.Title, rec.Author, formatDate(rec.PublishTime), formatDate(rec.UpdateTime),
		rec.DownloadCount, rec.SizeLabel, link)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return model.UnknownTime
	}
	return t.In(displayZone).Format("2006-01-02")
}

// packBlocks 把记录块贪心地装进不超过limit的分段，单个记录块不会被拆开
func packBlocks(blocks []string, limit int) []string {
	var (
		chunks  []string
		current strings.Builder
		curLen  int
	)
	for _, block := range blocks {
		blockLen := util.RuneLen(block)
		if curLen > 0 && curLen+2+blockLen > limit {
			chunks = append(chunks, current.String())
			current.Reset()
			curLen = 0
		}
		if curLen > 0 {
			current.WriteString("\n\n")
			curLen += 2
		}
		current.WriteString(block)
		curLen += blockLen
	}
	if curLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
