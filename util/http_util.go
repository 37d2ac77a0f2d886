package util

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

// 浏览器风格的请求头，上游会拒绝明显的脚本UA
const (
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	AcceptJSON       = "application/json, text/plain, */*"
	AcceptLanguageZH = "zh-CN,zh;q=0.9,en;q=0.8"
)

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

// NewHTTPClient 创建出站HTTP客户端，proxyURL为空时直连
// 单次尝试的超时由调用方的context控制，这里的Timeout只是兜底
func NewHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{
		ForceAttemptHTTP2: true,

		// 连接池
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			if u.Scheme == "socks5" || u.Scheme == "socks5h" {
				// SOCKS5代理拨号器
				dialer, err := proxy.FromURL(u, proxy.Direct)
				if err == nil {
					if cd, ok := dialer.(proxy.ContextDialer); ok {
						transport.DialContext = cd.DialContext
					} else {
						transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
							return dialer.Dial(network, addr)
						}
					}
				}
			} else {
				// HTTP/HTTPS代理
				transport.Proxy = http.ProxyURL(u)
			}
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// InitHTTPClient 初始化全局HTTP客户端
func InitHTTPClient(proxyURL string) {
	httpClientOnce.Do(func() {
		httpClient = NewHTTPClient(proxyURL)
	})
}

// GetHTTPClient 获取全局HTTP客户端
func GetHTTPClient() *http.Client {
	InitHTTPClient("")
	return httpClient
}

// SetBrowserHeaders 设置浏览器风格的通用请求头，并禁止中间层缓存
func SetBrowserHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", BrowserUserAgent)
	req.Header.Set("Accept", AcceptJSON)
	req.Header.Set("Accept-Language", AcceptLanguageZH)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
}
