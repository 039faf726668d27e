// Package contentclient 提供内容生成服务的 Go SDK
package contentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"benovitz-content-api/pkg/logger"
)

// DefaultBaseURL 默认服务地址
const DefaultBaseURL = "https://benovitz-content-api.onrender.com"

const defaultUserAgent = "benovitz-content-go/1.0"

// ClientConfig 客户端配置，构造后不可变
type ClientConfig struct {
	// BaseURL 为空时使用 DefaultBaseURL
	BaseURL string
	// APIKey 非空时以 Bearer Token 发送
	APIKey string
	// HTTPClient 为空时使用默认 Transport；超时由调用方的 Client 决定
	HTTPClient *http.Client
	UserAgent  string
}

// Client 内容生成服务客户端
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client

	// 合并并发的相同 GET 请求，结果不缓存
	group   singleflight.Group
	mu      sync.Mutex
	seq     uint64
	flights map[string]*flight
}

// flight 一次共享 GET；最后一个等待方离开时取消请求
type flight struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// New 创建客户端
func New(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		userAgent:  userAgent,
		httpClient: instrument(cfg.HTTPClient),
	}
}

// instrument 复制调用方的 http.Client 并为其 Transport 接入 otelhttp
func instrument(hc *http.Client) *http.Client {
	var out http.Client
	if hc != nil {
		out = *hc
	}
	base := out.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	out.Transport = otelhttp.NewTransport(base)
	return &out
}

// BaseURL 返回服务地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request 向 {baseURL}{endpoint} 发送 JSON 请求，并把 2xx 响应体解码到 out
//
// 非 2xx 返回 *TransportError；连接层错误（*url.Error）原样返回；
// 响应体无法解码时返回 *MalformedResponseError。out 为 nil 时忽略响应体。
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug(ctx, "content api request failed", "method", method, "endpoint", endpoint, "error", err.Error())
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "content api request",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newTransportError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}

	malformed := func(err error) error {
		return &MalformedResponseError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return malformed(err)
	}
	if v, ok := out.(validator); ok {
		if err := v.validate(); err != nil {
			return malformed(err)
		}
	}
	return nil
}

// getShared 合并并发的相同 GET 请求
//
// 共享请求不继承任何单个调用方的 ctx，等待方全部离开（返回或放弃）时才取消，
// 之后的调用总是发起新的请求。
func getShared[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	f := c.joinFlight(ctx, endpoint)
	defer c.leaveFlight(endpoint, f)

	ch := c.group.DoChan(f.key, func() (any, error) {
		var out T
		err := c.Request(f.ctx, http.MethodGet, endpoint, nil, &out)
		return out, err
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// joinFlight 新建的共享请求保留首个调用方 ctx 中的值（trace 等），但不继承其取消
func (c *Client) joinFlight(ctx context.Context, endpoint string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.flights[endpoint]; ok {
		f.waiters++
		return f
	}
	if c.flights == nil {
		c.flights = make(map[string]*flight)
	}
	c.seq++
	shared, cancel := context.WithCancel(context.WithoutCancel(ctx))
	f := &flight{
		key:     endpoint + "#" + strconv.FormatUint(c.seq, 10),
		ctx:     shared,
		cancel:  cancel,
		waiters: 1,
	}
	c.flights[endpoint] = f
	return f
}

func (c *Client) leaveFlight(endpoint string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[endpoint] == f {
		delete(c.flights, endpoint)
	}
}
