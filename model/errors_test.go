package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatusError(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
		msg    string
	}{
		{401, KindAuth, "API密钥无效，请联系管理员检查配置"},
		{403, KindAuth, "API访问被拒绝，请检查权限"},
		{StatusConnectionReset, KindUpstreamAnomaly, "API连接异常，请稍后重试或联系管理员检查网络配置"},
		{502, KindUpstreamStatus, "搜索失败，API返回状态码: 502"},
	}
	for _, tt := range tests {
		desc := NewStatusError(tt.status, "body")
		assert.Equal(t, tt.kind, desc.Kind, tt.status)
		assert.Equal(t, tt.msg, desc.Message, tt.status)
		assert.Equal(t, tt.status, desc.Status)
		assert.Equal(t, "× "+tt.msg, desc.UserMessage())
	}
	assert.Nil(t, NewStatusError(500, "").Err)
}

func TestNewUnexpectedError(t *testing.T) {
	desc := NewUnexpectedError(errors.New("  "))
	assert.Equal(t, "发生未知错误(*errors.errorString)，请稍后重试或联系管理员", desc.Message)

	desc = NewUnexpectedError(fmt.Errorf("bad thing"))
	assert.Equal(t, "搜索过程中发生错误: *errors.errorString - bad thing", desc.Message)
}

func TestAsDescriptor(t *testing.T) {
	assert.Nil(t, AsDescriptor(nil))

	orig := NewTimeoutError(errors.New("deadline"))
	wrapped := fmt.Errorf("attempt 3: %w", orig)
	assert.Same(t, orig, AsDescriptor(wrapped))

	plain := AsDescriptor(errors.New("x"))
	assert.Equal(t, KindUnexpected, plain.Kind)
}

func TestErrorDescriptor_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("refused")
	desc := NewConnectError(inner)
	assert.ErrorIs(t, desc, inner)
	assert.Contains(t, desc.Error(), "connect")
	assert.Contains(t, desc.Error(), "refused")

	code := NewUpstreamCodeError("401", "")
	assert.Equal(t, "搜索失败: API返回错误代码", code.Message)
	assert.Equal(t, "upstream_code", code.Kind.String())
	assert.Equal(t, "kind(99)", ErrorKind(99).String())
}
