package json

import (
	"errors"

	"github.com/bytedance/sonic"
)

// ErrNotObject 顶层JSON不是对象
var ErrNotObject = errors.New("json: top-level value is not an object")

// API 是全局sonic配置实例
// UseNumber保证上游的整数ID和计数以json.Number保留，不会被转成float64
var API = sonic.Config{
	UseNumber:   true,
	EscapeHTML:  false,
	SortMapKeys: false,
}.Froze()

// Marshal 使用sonic序列化对象到JSON
func Marshal(v interface{}) ([]byte, error) {
	return API.Marshal(v)
}

// Unmarshal 使用sonic反序列化JSON到对象
func Unmarshal(data []byte, v interface{}) error {
	return API.Unmarshal(data, v)
}

// MarshalString 序列化对象到JSON字符串
func MarshalString(v interface{}) (string, error) {
	return API.MarshalToString(v)
}

// DecodeObject 把响应体解码成通用对象，顶层不是对象时返回ErrNotObject
func DecodeObject(data []byte) (map[string]interface{}, error) {
	var v interface{}
	if err := API.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}
