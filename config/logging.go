package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLogLevel 把配置中的日志级别字符串转换为slog级别，大小写不敏感
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}

// NewLogger 按配置创建文本格式的日志器
// 级别无法识别时回退到info，并记录一条警告
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := ParseLogLevel(level)
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	if err != nil {
		logger.Warn("日志级别无效，使用info", "error", err)
	}
	return logger
}
