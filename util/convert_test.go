package util

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("  abc "))
	assert.Equal(t, "101", ToString(json.Number("101")))
	assert.Equal(t, "12", ToString(12))
	assert.Equal(t, "", ToString(map[string]interface{}{"a": 1}))
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{nil, 0, false},
		{"", 0, false},
		{" 42 ", 42, true},
		{json.Number("1234"), 1234, true},
		{float64(99), 99, true},
		{"12.5", 12, true},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := ToInt64(c.in)
		assert.Equal(t, c.ok, ok, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(1))
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool(" true "))
	assert.True(t, ToBool(json.Number("1")))
	assert.False(t, ToBool(nil))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool("nope"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "武器包", TruncateRunes("武器包", 3))
	assert.Equal(t, "武器...", TruncateRunes("武器包", 2))
	assert.Equal(t, "abc", TruncateRunes("abc", 0))
	assert.Equal(t, 3, RuneLen("武器包"))
}

func TestStringToInt(t *testing.T) {
	assert.Equal(t, 0, StringToInt(""))
	assert.Equal(t, 15, StringToInt(" 15 "))
	assert.Equal(t, 0, StringToInt("x"))
}

func TestNewHTTPClient_Proxy(t *testing.T) {
	direct := NewHTTPClient("")
	tr, ok := direct.Transport.(*http.Transport)
	assert.True(t, ok)
	assert.Nil(t, tr.Proxy)

	httpProxy := NewHTTPClient("http://127.0.0.1:8080")
	tr = httpProxy.Transport.(*http.Transport)
	assert.NotNil(t, tr.Proxy)

	socks := NewHTTPClient("socks5://127.0.0.1:1080")
	tr = socks.Transport.(*http.Transport)
	assert.Nil(t, tr.Proxy)
	assert.NotNil(t, tr.DialContext)
}

func TestSetBrowserHeaders(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	SetBrowserHeaders(req)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, BrowserUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, "no-cache", req.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", req.Header.Get("Pragma"))
}
