package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// GenerateCacheKey 根据插件名、关键词和搜索参数生成缓存键
// 关键词不区分大小写；参数按键名排序，相同参数集合总是得到相同的键
func GenerateCacheKey(pluginName, keyword string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(pluginName))
	b.WriteString("|")
	b.WriteString(strings.ToLower(strings.TrimSpace(keyword)))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("|" + k + "=" + params[k])
	}

	hash := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}
