package threedm

import (
	"encoding/json"
	"strings"
	"time"

	"modsou/model"
	"modsou/util"
	jsonutil "modsou/util/json"
)

// responseShape 上游响应的结构
type responseShape int

const (
	shapeUnknown responseShape = iota
	shapeA                     // { data: [...], total }
	shapeB                     // { data: { data: [...], total } }
	shapeC                     // { code, message, data: { mod: [...], count } }
)

func (s responseShape) String() string {
	switch s {
	case shapeA:
		return "A"
	case shapeB:
		return "B"
	case shapeC:
		return "C"
	}
	return "unknown"
}

// 上游时间统一按北京时间解析
var cst = time.FixedZone("CST", 8*3600)

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// 同一字段在新旧接口中的键名，按优先级排列
var (
	titleKeys    = []string{"title", "mods_title"}
	authorKeys   = []string{"author", "mods_author", "user_nickName"}
	idKeys       = []string{"id", "mods_id"}
	downloadKeys = []string{"downloadCnt", "mods_download_cnt"}
	sizeKeys     = []string{"size", "mods_resource_size"}
	createKeys   = []string{"createTime", "mods_createTime"}
	updateKeys   = []string{"updateTime", "mods_updateTime"}
	resourceKeys = []string{"mods_resource", "resources"}
)

// Normalize 把任意一种已知结构的响应体转换为规范化结果
//
// 只有旧版结构中的业务错误码会返回错误；JSON损坏或结构无法识别时
// 返回空结果而不是失败。
func Normalize(body []byte) (model.SearchResult, error) {
	result, _, err := normalize(body)
	return result, err
}

func normalize(body []byte) (model.SearchResult, responseShape, error) {
	top, err := jsonutil.DecodeObject(body)
	if err != nil {
		return model.SearchResult{}, shapeUnknown, nil
	}

	shape, items, total := detectShape(top)

	if shape == shapeC || shape == shapeUnknown {
		if rawCode, ok := top["code"]; ok {
			code := util.ToString(rawCode)
			if code != "00" && code != "0" {
				return model.SearchResult{}, shape, model.NewUpstreamCodeError(code, util.ToString(top["message"]))
			}
		}
	}
	if shape == shapeUnknown {
		return model.SearchResult{}, shape, nil
	}

	records := make([]model.ModRecord, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		records = append(records, normalizeRecord(obj))
	}

	if total < 0 {
		total = 0
	}
	return model.SearchResult{Records: records, TotalCount: total}, shape, nil
}

// detectShape 识别结构并取出记录列表和总数
func detectShape(top map[string]interface{}) (responseShape, []interface{}, int) {
	switch data := top["data"].(type) {
	case []interface{}:
		return shapeA, data, countOr(top["total"], len(data))
	case map[string]interface{}:
		if items, ok := data["data"].([]interface{}); ok {
			return shapeB, items, countOr(data["total"], len(items))
		}
		if rawMods, ok := data["mod"]; ok {
			items, _ := rawMods.([]interface{})
			return shapeC, items, countOr(data["count"], len(items))
		}
	}
	return shapeUnknown, nil, 0
}

func countOr(v interface{}, fallback int) int {
	n, ok := util.ToInt64(v)
	if !ok {
		return fallback
	}
	return int(n)
}

// normalizeRecord 提取单条记录，缺失字段使用占位文案
func normalizeRecord(m map[string]interface{}) model.ModRecord {
	resources := nestedResources(m)
	latest, hasLatest := latestResource(resources)

	rec := model.ModRecord{
		ID:          firstString(m, idKeys...),
		Title:       firstString(m, titleKeys...),
		Author:      firstString(m, authorKeys...),
		SizeLabel:   firstString(m, sizeKeys...),
		PublishTime: firstTime(m, createKeys...),
		UpdateTime:  firstTime(m, updateKeys...),
	}

	if n, ok := firstInt(m, downloadKeys...); ok && n > 0 {
		rec.DownloadCount = n
	}

	if rec.SizeLabel == "" && len(resources) > 0 {
		rec.SizeLabel = util.ToString(resources[0]["mods_resource_size"])
	}

	if hasLatest {
		latestTime := parseTime(latest["mods_resource_createTime"])
		if rec.PublishTime.IsZero() {
			rec.PublishTime = latestTime
		}
		if rec.UpdateTime.IsZero() {
			rec.UpdateTime = latestTime
		}
	}
	if rec.UpdateTime.IsZero() {
		rec.UpdateTime = rec.PublishTime
	}

	if rec.Title == "" {
		rec.Title = model.UnknownTitle
	}
	if rec.Author == "" {
		rec.Author = model.UnknownAuthor
	}
	if rec.SizeLabel == "" {
		rec.SizeLabel = model.UnknownSize
	}
	return rec
}

// nestedResources 记录下的资源（版本）列表
func nestedResources(m map[string]interface{}) []map[string]interface{} {
	for _, key := range resourceKeys {
		list, ok := m[key].([]interface{})
		if !ok {
			continue
		}
		out := make([]map[string]interface{}, 0, len(list))
		for _, item := range list {
			if obj, ok := item.(map[string]interface{}); ok {
				out = append(out, obj)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// latestResource 优先取标记为最新版本的资源，否则取创建时间最大的资源
func latestResource(resources []map[string]interface{}) (map[string]interface{}, bool) {
	if len(resources) == 0 {
		return nil, false
	}
	for _, res := range resources {
		if util.ToBool(res["mods_resource_latest_version"]) || util.ToBool(res["isLatest"]) {
			return res, true
		}
	}

	var (
		best     map[string]interface{}
		bestTime time.Time
	)
	for _, res := range resources {
		t := parseTime(res["mods_resource_createTime"])
		if t.IsZero() {
			continue
		}
		if best == nil || t.After(bestTime) {
			best, bestTime = res, t
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := util.ToString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(m map[string]interface{}, keys ...string) (int64, bool) {
	for _, key := range keys {
		if n, ok := util.ToInt64(m[key]); ok {
			return n, true
		}
	}
	return 0, false
}

func firstTime(m map[string]interface{}, keys ...string) time.Time {
	for _, key := range keys {
		if t := parseTime(m[key]); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

// parseTime 解析上游时间，支持常见字符串格式和秒/毫秒时间戳，失败时返回零值
func parseTime(v interface{}) time.Time {
	switch val := v.(type) {
	case nil:
		return time.Time{}
	case json.Number, float64, int64, int:
		n, ok := util.ToInt64(val)
		if !ok {
			return time.Time{}
		}
		return fromUnix(n)
	}

	s := util.ToString(v)
	if s == "" || s == "0" || strings.HasPrefix(s, "0000-00-00") {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, cst); err == nil {
			return t
		}
	}
	if n, ok := util.ToInt64(s); ok {
		return fromUnix(n)
	}
	return time.Time{}
}

func fromUnix(n int64) time.Time {
	switch {
	case n <= 0:
		return time.Time{}
	case n > 1e12:
		return time.UnixMilli(n).In(cst)
	default:
		return time.Unix(n, 0).In(cst)
	}
}
