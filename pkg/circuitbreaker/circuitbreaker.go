// Package circuitbreaker 连续失败计数熔断器
//
// 用于保护尽力而为的下游调用（事件发布）：下游连续失败threshold次后进入OPEN，
// cooldown期间直接返回ErrOpen；冷却结束进入HALF_OPEN放行一次探测，
// 探测成功回到CLOSED，失败重新OPEN。
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpen 熔断期间的快速失败
var ErrOpen = errors.New("circuit breaker is open")

// Settings 熔断参数
type Settings struct {
	// Threshold 连续失败多少次后熔断，<=0时取5
	Threshold int
	// Cooldown OPEN状态持续时间，<=0时取30s
	Cooldown time.Duration
	// OnStateChange 状态变化回调，在锁内调用，不要在回调里访问熔断器
	OnStateChange func(name string, from, to State)
}

// Breaker 熔断器，并发安全
type Breaker struct {
	name          string
	threshold     int
	cooldown      time.Duration
	onStateChange func(name string, from, to State)
	now           func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// New 创建熔断器
func New(name string, s Settings) *Breaker {
	if s.Threshold <= 0 {
		s.Threshold = 5
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:          name,
		threshold:     s.Threshold,
		cooldown:      s.Cooldown,
		onStateChange: s.OnStateChange,
		now:           time.Now,
	}
}

// Do 执行fn；熔断期间不调用fn，直接返回ErrOpen
func (b *Breaker) Do(fn func() error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := fn()
	b.record(err == nil)
	return err
}

// State 当前状态（冷却结束后返回HALF_OPEN）
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()

	switch b.state {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		// 半开只放行一个探测请求
		if b.probing {
			return ErrOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.failures = 0
		if b.state == StateHalfOpen {
			b.setState(StateClosed)
		}
		return
	}

	b.failures++
	switch b.state {
	case StateClosed:
		if b.failures >= b.threshold {
			b.setState(StateOpen)
		}
	case StateHalfOpen:
		b.setState(StateOpen)
	}
}

// refresh OPEN超过冷却时间转为HALF_OPEN，调用方持有锁
func (b *Breaker) refresh() {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		b.setState(StateHalfOpen)
	}
}

func (b *Breaker) setState(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.probing = false
	if to == StateOpen {
		b.openedAt = b.now()
	}
	if to == StateClosed {
		b.failures = 0
	}
	if b.onStateChange != nil {
		b.onStateChange(b.name, from, to)
	}
}
