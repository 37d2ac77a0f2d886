package threedm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modsou/model"
)

func TestNormalize_ShapesAreEquivalent(t *testing.T) {
	shapeABody := []byte(`{
		"data": [
			{"id": 101, "title": "武器包合集", "author": "sora", "createTime": "2024-01-02 10:00:00",
			 "updateTime": "2024-02-03 12:30:00", "downloadCnt": 1234, "size": "35.2MB"}
		],
		"total": 7
	}`)
	shapeBBody := []byte(`{
		"code": 0,
		"data": {
			"data": [
				{"id": "101", "title": "武器包合集", "author": "sora", "createTime": "2024-01-02 10:00:00",
				 "updateTime": "2024-02-03 12:30:00", "downloadCnt": "1234", "size": "35.2MB"}
			],
			"total": 7
		}
	}`)
	shapeCBody := []byte(`{
		"code": "00",
		"message": "ok",
		"data": {
			"mod": [
				{"mods_id": 101, "mods_title": "武器包合集", "mods_author": "sora", "mods_createTime": "2024-01-02 10:00:00",
				 "mods_updateTime": "2024-02-03 12:30:00", "mods_download_cnt": 1234, "mods_resource_size": "35.2MB"}
			],
			"count": 7
		}
	}`)

	a, shape, err := normalize(shapeABody)
	require.NoError(t, err)
	assert.Equal(t, shapeA, shape)

	b, shape, err := normalize(shapeBBody)
	require.NoError(t, err)
	assert.Equal(t, shapeB, shape)

	c, shape, err := normalize(shapeCBody)
	require.NoError(t, err)
	assert.Equal(t, shapeC, shape)

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	require.Len(t, a.Records, 1)
	rec := a.Records[0]
	assert.Equal(t, "101", rec.ID)
	assert.Equal(t, "武器包合集", rec.Title)
	assert.Equal(t, "sora", rec.Author)
	assert.Equal(t, int64(1234), rec.DownloadCount)
	assert.Equal(t, "35.2MB", rec.SizeLabel)
	assert.True(t, rec.PublishTime.Equal(time.Date(2024, 1, 2, 10, 0, 0, 0, cst)))
	assert.True(t, rec.UpdateTime.Equal(time.Date(2024, 2, 3, 12, 30, 0, 0, cst)))
	assert.Equal(t, 7, a.TotalCount)
}

func TestNormalize_MissingFieldsUseFallbacks(t *testing.T) {
	result, err := Normalize([]byte(`{"data": [{}], "total": 1}`))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, model.UnknownTitle, rec.Title)
	assert.Equal(t, model.UnknownAuthor, rec.Author)
	assert.Equal(t, model.UnknownSize, rec.SizeLabel)
	assert.Empty(t, rec.ID)
	assert.Zero(t, rec.DownloadCount)
	assert.True(t, rec.PublishTime.IsZero())
	assert.True(t, rec.UpdateTime.IsZero())
}

func TestNormalize_TotalDefaultsToRecordCount(t *testing.T) {
	result, err := Normalize([]byte(`{"data": [{"title": "a"}, {"title": "b"}]}`))
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 2, result.TotalCount)

	result, err = Normalize([]byte(`{"data": {"data": [{"title": "a"}], "total": "25"}}`))
	require.NoError(t, err)
	assert.Equal(t, 25, result.TotalCount)
}

func TestNormalize_AuthorFallsBackToNickName(t *testing.T) {
	result, err := Normalize([]byte(`{"data": [{"title": "a", "user_nickName": "玩家一号"}]}`))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "玩家一号", result.Records[0].Author)
}

func TestNormalize_LegacyCodeError(t *testing.T) {
	_, err := Normalize([]byte(`{"code": "401", "message": "密钥错误", "data": {"mod": [], "count": 0}}`))
	require.Error(t, err)

	desc := model.AsDescriptor(err)
	assert.Equal(t, model.KindUpstreamCode, desc.Kind)
	assert.Equal(t, "搜索失败: 密钥错误", desc.Message)

	_, err = Normalize([]byte(`{"code": 500, "data": {"mod": []}}`))
	require.Error(t, err)
	assert.Equal(t, "搜索失败: API返回错误代码", model.AsDescriptor(err).Message)
}

func TestNormalize_LegacyWithoutCodeIsAccepted(t *testing.T) {
	result, err := Normalize([]byte(`{"data": {"mod": [{"mods_title": "a"}], "count": 3}}`))
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, 3, result.TotalCount)
}

func TestNormalize_UnrecognizedInputIsEmpty(t *testing.T) {
	inputs := []string{
		`{not json`,
		``,
		`[1, 2, 3]`,
		`{"data": "nothing"}`,
		`{"result": {"list": []}}`,
		`{"data": {"items": [{"title": "a"}]}}`,
	}
	for _, in := range inputs {
		result, err := Normalize([]byte(in))
		assert.NoError(t, err, in)
		assert.True(t, result.IsEmpty(), in)
		assert.Zero(t, result.TotalCount, in)
	}
}

func TestNormalize_LatestResourceByCreateTime(t *testing.T) {
	body := []byte(`{"data": [{
		"title": "a",
		"mods_resource": [
			{"mods_resource_createTime": "2024-01-01 00:00:00", "mods_resource_size": "1MB"},
			{"mods_resource_createTime": "2024-03-01 08:00:00", "mods_resource_size": "2MB"},
			{"mods_resource_createTime": "bogus", "mods_resource_size": "3MB"}
		]
	}]}`)
	result, err := Normalize(body)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	want := time.Date(2024, 3, 1, 8, 0, 0, 0, cst)
	assert.True(t, rec.PublishTime.Equal(want))
	assert.True(t, rec.UpdateTime.Equal(want))
	// 大小取第一个资源
	assert.Equal(t, "1MB", rec.SizeLabel)
}

func TestNormalize_LatestResourcePrefersFlag(t *testing.T) {
	body := []byte(`{"data": [{
		"title": "a",
		"createTime": "2023-12-01 00:00:00",
		"resources": [
			{"mods_resource_createTime": "2024-05-01 00:00:00"},
			{"mods_resource_createTime": "2024-02-01 00:00:00", "mods_resource_latest_version": 1}
		]
	}]}`)
	result, err := Normalize(body)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.True(t, rec.PublishTime.Equal(time.Date(2023, 12, 1, 0, 0, 0, 0, cst)))
	assert.True(t, rec.UpdateTime.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, cst)))
}

func TestNormalize_UpdateTimeFallsBackToPublishTime(t *testing.T) {
	result, err := Normalize([]byte(`{"data": [{"title": "a", "createTime": "2024-06-01"}]}`))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.True(t, result.Records[0].UpdateTime.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, cst)))
}

func TestParseTime(t *testing.T) {
	want := time.Unix(1700000000, 0)

	assert.True(t, parseTime("1700000000").Equal(want))
	assert.True(t, parseTime(int64(1700000000)).Equal(want))
	assert.True(t, parseTime(float64(1700000000000)).Equal(want))
	assert.True(t, parseTime("2024-01-02T03:04:05+08:00").Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, cst)))

	for _, v := range []interface{}{nil, "", "0", "0000-00-00 00:00:00", "yesterday", int64(-5)} {
		assert.True(t, parseTime(v).IsZero(), "%v", v)
	}
}

func TestNormalize_NumericTimestamps(t *testing.T) {
	result, err := Normalize([]byte(`{"data": [{"title": "a", "createTime": 1700000000, "updateTime": 1700003600000}]}`))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.True(t, result.Records[0].PublishTime.Equal(time.Unix(1700000000, 0)))
	assert.True(t, result.Records[0].UpdateTime.Equal(time.Unix(1700003600, 0)))
}
