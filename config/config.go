package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 未配置密钥时的占位值
const APIKeyPlaceholder = "{APPKEY}"

// 默认上游接口（v3），按优先级排列
var defaultAPIURLs = []string{
	"https://mod.3dmgame.com/api/v3/mods",
	"https://mod.3dmgame.com/api/v3/mods/search",
}

// Config 应用配置结构
type Config struct {
	Port     string
	ProxyURL string
	UseProxy bool
	LogLevel string

	// 上游接口相关配置
	APIKey         string
	APIURLs        []string
	SiteBase       string
	PluginName     string
	AttemptTimeout time.Duration

	// 搜索默认值
	DefaultGameID      int
	DefaultPageSize    int
	DefaultSort        string
	DefaultIsRecommend bool

	// 输出分段相关配置
	ChunkThreshold int
	ChunkSize      int
	Attribution    string

	// 结果缓存配置
	CacheEnabled  bool
	CacheTTL      time.Duration
	CacheMaxItems int

	// API访问控制
	JWTSecret string

	// 压缩相关配置
	EnableCompression bool
	MinSizeToCompress int

	// HTTP服务器配置
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
}

// 全局配置实例
var AppConfig *Config

// Init 初始化配置，先尝试加载.env文件
func Init() {
	loadDotEnv()
	AppConfig = Load()
}

// Load 从环境变量构建配置
func Load() *Config {
	proxyURL := os.Getenv("PROXY")

	return &Config{
		Port:     getString("PORT", "8888"),
		ProxyURL: proxyURL,
		UseProxy: proxyURL != "",
		LogLevel: getString("LOG_LEVEL", "info"),

		APIKey:         strings.TrimSpace(os.Getenv("MOD_APPKEY")),
		APIURLs:        getList("MOD_API_URLS", defaultAPIURLs),
		SiteBase:       strings.TrimRight(getString("MOD_SITE_BASE", "https://mod.3dmgame.com"), "/"),
		PluginName:     getString("MOD_PLUGIN", "3dm"),
		AttemptTimeout: time.Duration(getIntInRange("MOD_ATTEMPT_TIMEOUT", 20, 1, 60)) * time.Second,

		DefaultGameID:      getInt("MOD_GAME_ID", 261),
		DefaultPageSize:    getIntInRange("MOD_PAGE_SIZE", 10, 1, 50),
		DefaultSort:        getString("MOD_SORT", "time"),
		DefaultIsRecommend: getBool("MOD_IS_RECOMMEND", false),

		ChunkThreshold: getIntInRange("CHUNK_THRESHOLD", 1500, 100, 100000),
		ChunkSize:      getIntInRange("CHUNK_SIZE", 1200, 100, 100000),
		Attribution:    getString("MOD_ATTRIBUTION", "▌本插件由--sora--提供技术支持"),

		CacheEnabled:  getBool("CACHE_ENABLED", false),
		CacheTTL:      time.Duration(getIntInRange("CACHE_TTL", 10, 0, 1440)) * time.Minute,
		CacheMaxItems: getIntInRange("CACHE_MAX_ITEMS", 500, 1, 100000),

		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		EnableCompression: getBool("ENABLE_COMPRESSION", false),
		MinSizeToCompress: getIntInRange("MIN_SIZE_TO_COMPRESS", 1024, 1, 1<<20),

		HTTPReadTimeout:  time.Duration(getIntInRange("HTTP_READ_TIMEOUT", 30, 1, 3600)) * time.Second,
		HTTPWriteTimeout: time.Duration(getIntInRange("HTTP_WRITE_TIMEOUT", 1200, 1, 7200)) * time.Second,
	}
}

// APIKeyConfigured 密钥是否已配置（非空且不是占位值）
func (c *Config) APIKeyConfigured() bool {
	return c.APIKey != "" && c.APIKey != APIKeyPlaceholder
}

// loadDotEnv 加载.env文件，文件不存在时忽略
func loadDotEnv() {
	path := getString("ENV_FILE", ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	// 已存在的环境变量优先
	_ = godotenv.Load(path)
}

// 获取字符串配置，未设置时使用默认值
func getString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// 获取整数配置，无效时使用默认值
func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// 获取整数配置并限制在[lo,hi]内
func getIntInRange(key string, def, lo, hi int) int {
	n := getInt(key, def)
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// 获取布尔配置，兼容 true/false/1/0
func getBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return def
}

// 获取逗号分隔的列表配置
func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}
