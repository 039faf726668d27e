// Package contentstate 管理单个内容生成请求的加载/成功/失败状态
package contentstate

import (
	"context"
	"errors"
	"sync"

	"benovitz-content-api/pkg/contentclient"
)

// ErrSuperseded 调用期间有更新的 Generate 调用，本次结果已被丢弃
var ErrSuperseded = errors.New("contentstate: superseded by a newer generate call")

var errNoResponse = errors.New("contentstate: generator returned no response")

// Generator 内容生成端口，*contentclient.Client 实现了该接口
type Generator interface {
	Generate(ctx context.Context, req contentclient.GenerateRequest) (*contentclient.GenerateResponse, error)
}

// Phase 请求所处阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State 状态快照；完成后 Err 与 Content 至多一个非空
type State struct {
	Loading bool
	Err     error
	Content *string
}

// Phase 推导当前阶段
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhasePending
	case s.Err != nil:
		return PhaseFailed
	case s.Content != nil:
		return PhaseSucceeded
	default:
		return PhaseIdle
	}
}

// Controller 请求状态控制器
//
// 并发调用 Generate 时采用最近一次调用生效：每次调用领取新的令牌，
// 只有仍持有当前令牌的调用可以写入结果，过期调用不会被中断但结果会被丢弃。
type Controller struct {
	gen Generator

	mu      sync.Mutex
	state   State
	token   uint64
	subs    []subscriber
	nextSub int

	// pending 待投递的快照，按写入顺序排列；draining 表示已有 goroutine 在投递
	pending  []State
	draining bool
}

type subscriber struct {
	id int
	fn func(State)
}

// New 创建控制器
func New(gen Generator) *Controller {
	return &Controller{gen: gen}
}

// State 返回当前状态快照
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe 注册状态变更回调，返回取消函数
//
// 快照按状态写入顺序逐个投递，同一快照按订阅顺序依次调用回调。
// 回调不持有内部锁，可以在回调中再次修改状态，新快照排在当前快照之后投递。
// 并发写入时回调可能运行在另一个写入方的 goroutine 上。
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			for i, sub := range c.subs {
				if sub.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					break
				}
			}
			c.mu.Unlock()
		})
	}
}

// Generate 发起生成：先同步进入 Pending 并清空旧内容与错误，再调用 Generator
//
// 失败时错误既保存在状态中也返回给调用方。被更新的调用取代时，
// 成功结果返回 ErrSuperseded，失败结果返回其自身错误，两者都不写入状态。
func (c *Controller) Generate(ctx context.Context, topic string, format contentclient.Format, additionalContext string) error {
	c.mu.Lock()
	c.token++
	token := c.token
	c.setLocked(State{Loading: true})

	resp, err := c.gen.Generate(ctx, contentclient.GenerateRequest{
		Topic:             topic,
		Format:            format,
		AdditionalContext: additionalContext,
	})
	if err == nil && resp == nil {
		err = errNoResponse
	}

	c.mu.Lock()
	if token != c.token {
		c.mu.Unlock()
		if err != nil {
			return err
		}
		return ErrSuperseded
	}
	if err != nil {
		c.setLocked(State{Err: err})
		return err
	}
	content := resp.Content
	c.setLocked(State{Content: &content})
	return nil
}

// ClearContent 清空内容；空闲时为无操作
func (c *Controller) ClearContent() {
	c.mu.Lock()
	if c.state.Content == nil {
		c.mu.Unlock()
		return
	}
	next := c.state
	next.Content = nil
	c.setLocked(next)
}

// ClearError 清空错误；空闲时为无操作
func (c *Controller) ClearError() {
	c.mu.Lock()
	if c.state.Err == nil {
		c.mu.Unlock()
		return
	}
	next := c.state
	next.Err = nil
	c.setLocked(next)
}

// setLocked 写入状态、释放锁并通知订阅者；调用前必须持有 c.mu
//
// 快照在锁内入队，保证投递顺序与写入顺序一致。
// 已有 goroutine 在投递时只入队，由它继续投递。
func (c *Controller) setLocked(s State) {
	c.state = s
	c.pending = append(c.pending, s)
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true

	for {
		if len(c.pending) == 0 {
			c.draining = false
			c.mu.Unlock()
			return
		}
		next := c.pending[0]
		c.pending = c.pending[1:]
		subs := make([]func(State), len(c.subs))
		for i, sub := range c.subs {
			subs[i] = sub.fn
		}
		c.mu.Unlock()

		for _, fn := range subs {
			fn(next)
		}
		c.mu.Lock()
	}
}
