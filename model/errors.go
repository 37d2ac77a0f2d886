package model

import (
	"errors"
	"fmt"
	"strings"
)

// 失败消息统一以该符号开头，便于和正常结果区分
const FailureMarker = "×"

// ErrorKind 错误分类
type ErrorKind int

const (
	KindUnexpected      ErrorKind = iota // 其他未预期错误
	KindValidation                       // 参数校验失败，不发起请求
	KindAuth                             // 401/403
	KindUpstreamAnomaly                  // 已知的异常状态码（如118，连接被重置）
	KindUpstreamStatus                   // 其他非2xx状态码
	KindUpstreamCode                     // 旧版接口返回了非成功的业务码
	KindTimeout                          // 请求超时
	KindConnect                          // 网络连接失败
	KindCanceled                         // 调用方取消了搜索
)

var kindNames = map[ErrorKind]string{
	KindUnexpected:      "unexpected",
	KindValidation:      "validation",
	KindAuth:            "auth",
	KindUpstreamAnomaly: "upstream_anomaly",
	KindUpstreamStatus:  "upstream_status",
	KindUpstreamCode:    "upstream_code",
	KindTimeout:         "timeout",
	KindConnect:         "connect",
	KindCanceled:        "canceled",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrorDescriptor 搜索失败的结构化描述
type ErrorDescriptor struct {
	Kind    ErrorKind
	Status  int    // HTTP状态码（如有）
	Message string // 面向用户的说明，不含失败符号
	Err     error  // 底层错误
}

func (e *ErrorDescriptor) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ErrorDescriptor) Unwrap() error {
	return e.Err
}

// UserMessage 展示给用户的单段失败消息
func (e *ErrorDescriptor) UserMessage() string {
	return FailureMarker + " " + e.Message
}

// NewValidationError 参数校验错误
func NewValidationError(message string) *ErrorDescriptor {
	return &ErrorDescriptor{Kind: KindValidation, Message: message}
}

// NewStatusError 按HTTP状态码分类
func NewStatusError(status int, body string) *ErrorDescriptor {
	desc := &ErrorDescriptor{Status: status}
	if body != "" {
		desc.Err = errors.New(body)
	}
	switch status {
	case 401:
		desc.Kind = KindAuth
		desc.Message = "API密钥无效，请联系管理员检查配置"
	case 403:
		desc.Kind = KindAuth
		desc.Message = "API访问被拒绝，请检查权限"
	case StatusConnectionReset:
		desc.Kind = KindUpstreamAnomaly
		desc.Message = "API连接异常，请稍后重试或联系管理员检查网络配置"
	default:
		desc.Kind = KindUpstreamStatus
		desc.Message = fmt.Sprintf("搜索失败，API返回状态码: %d", status)
	}
	return desc
}

// StatusConnectionReset 上游在连接被重置或拒绝时返回的非标准状态码
const StatusConnectionReset = 118

// NewUpstreamCodeError 旧版接口返回的业务错误
func NewUpstreamCodeError(code, message string) *ErrorDescriptor {
	if strings.TrimSpace(message) == "" {
		message = "API返回错误代码"
	}
	return &ErrorDescriptor{
		Kind:    KindUpstreamCode,
		Message: "搜索失败: " + message,
		Err:     fmt.Errorf("upstream code %q", code),
	}
}

// NewTimeoutError 请求超时
func NewTimeoutError(err error) *ErrorDescriptor {
	return &ErrorDescriptor{Kind: KindTimeout, Message: "请求超时，请稍后重试或检查网络连接", Err: err}
}

// NewConnectError 网络连接失败
func NewConnectError(err error) *ErrorDescriptor {
	return &ErrorDescriptor{Kind: KindConnect, Message: "网络连接失败，请检查网络连接后重试", Err: err}
}

// NewCanceledError 搜索被取消
func NewCanceledError(err error) *ErrorDescriptor {
	return &ErrorDescriptor{Kind: KindCanceled, Message: "搜索已取消", Err: err}
}

// NewUnexpectedError 未预期的错误，错误信息为空时只展示错误类型
func NewUnexpectedError(err error) *ErrorDescriptor {
	typeName := fmt.Sprintf("%T", err)
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	desc := &ErrorDescriptor{Kind: KindUnexpected, Err: err}
	if msg == "" {
		desc.Message = fmt.Sprintf("发生未知错误(%s)，请稍后重试或联系管理员", typeName)
	} else {
		desc.Message = fmt.Sprintf("搜索过程中发生错误: %s - %s", typeName, msg)
	}
	return desc
}

// AsDescriptor 把任意错误转换为ErrorDescriptor，非描述符错误归为未预期错误
func AsDescriptor(err error) *ErrorDescriptor {
	if err == nil {
		return nil
	}
	var desc *ErrorDescriptor
	if errors.As(err, &desc) {
		return desc
	}
	return NewUnexpectedError(err)
}
