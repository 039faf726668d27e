package contentclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrEmptyTopic 主题为空，调用方应在发起请求前拦截
var ErrEmptyTopic = errors.New("please enter a topic")

// TransportError 非 2xx 响应；Message 取自响应体的 detail，缺失时为 "HTTP {status}"
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	return e.Message
}

// MalformedResponseError 2xx 响应体无法解码为预期结构
type MalformedResponseError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s %s (HTTP %d): %v", e.Method, e.Endpoint, e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsNetworkError 判断是否为连接层错误（DNS、拒绝连接、超时等）
func IsNetworkError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func newTransportError(status int, body []byte) *TransportError {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Detail == "" {
		return &TransportError{StatusCode: status, Message: "HTTP " + strconv.Itoa(status)}
	}
	return &TransportError{StatusCode: status, Message: envelope.Detail}
}

func errMissingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}
