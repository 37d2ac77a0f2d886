package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSearchRequest(t *testing.T) {
	req := NewSearchRequest("  武器包 ", 261, 0, "", true)
	assert.Equal(t, "武器包", req.Keyword)
	assert.Equal(t, 1, req.PageSize)
	assert.Equal(t, SortByTime, req.SortPreference)
	assert.True(t, req.IsRecommend)

	req = NewSearchRequest("x", 0, 80, "下载量", false)
	assert.Equal(t, MaxPageSize, req.PageSize)
	assert.Equal(t, SortByDownloads, req.SortPreference)
}

func TestParseSortPreference(t *testing.T) {
	for in, want := range map[string]SortPreference{
		"time":      SortByTime,
		"最新":        SortByTime,
		"Downloads": SortByDownloads,
		"relevance": SortByRelevance,
		"默认":        SortByRelevance,
	} {
		got, ok := ParseSortPreference(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseSortPreference("random")
	assert.False(t, ok)
}

func TestSortLabel(t *testing.T) {
	assert.Equal(t, "按更新时间", SortByTime.Label())
	assert.Equal(t, "按下载量", SortByDownloads.Label())
	assert.Equal(t, "按相关度", SortByRelevance.Label())
}

func TestAttemptSpecGroup(t *testing.T) {
	a := AttemptSpec{URL: "u", AuthStyle: AuthRaw, KeywordParamKey: "key"}
	b := AttemptSpec{URL: "u", AuthStyle: AuthRaw, IncludeGameID: true, KeywordParamKey: "q"}
	c := AttemptSpec{URL: "u", AuthStyle: AuthBearer}
	assert.Equal(t, a.Group(), b.Group())
	assert.NotEqual(t, a.Group(), c.Group())
}
