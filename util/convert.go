package util

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// StringToInt 将字符串转换为整数，如果转换失败则返回0
func StringToInt(s string) int {
	if s == "" {
		return 0
	}

	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

// ToString 宽松地把上游字段转成字符串，nil和无法转换的值返回空串
func ToString(v interface{}) string {
	if v == nil {
		return ""
	}
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// ToInt64 宽松地把上游字段转成整数，支持数字、数字字符串和json.Number
func ToInt64(v interface{}) (int64, bool) {
	if v == nil {
		return 0, false
	}
	if n, ok := v.(json.Number); ok {
		v = n.String()
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v = s
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		// "12.0" 这类带小数的计数
		f, ferr := cast.ToFloat64E(v)
		if ferr != nil {
			return 0, false
		}
		return int64(f), true
	}
	return n, true
}

// ToBool 宽松地判断标志位，兼容 true/1/"1"/"true"
func ToBool(v interface{}) bool {
	if v == nil {
		return false
	}
	if n, ok := v.(json.Number); ok {
		v = n.String()
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// RuneLen 返回字符数（而不是字节数）
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateRunes 按字符截断字符串，用于日志输出
func TruncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}
