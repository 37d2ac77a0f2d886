package model

// SearchResponse 搜索接口返回的数据
type SearchResponse struct {
	Chunks         []string     `json:"chunks"`                    // 按顺序发送的文本分段
	Count          int          `json:"count"`                     // 实际渲染的记录数
	Total          int          `json:"total"`                     // 上游报告的总数
	Records        []ModRecord  `json:"records,omitempty"`         // 渲染用的记录
	MatchedAttempt *AttemptSpec `json:"matched_attempt,omitempty"` // 命中的尝试组合（诊断用）
	Verified       bool         `json:"verified"`
	ErrorKind      string       `json:"error_kind,omitempty"`
}

// Response API通用响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) Response {
	return Response{
		Code:    code,
		Message: message,
	}
}

// NewErrorResponseWithData 创建带数据的错误响应，失败消息也按分段返回
func NewErrorResponseWithData(code int, message string, data interface{}) Response {
	return Response{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
