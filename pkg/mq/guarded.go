package mq

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/postboard/pkg/circuitbreaker"
)

// publisher 发布接口，*Publisher实现了它
type publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// GuardedPublisher 带熔断的发布者
// RabbitMQ连续失败后一段时间内直接返回circuitbreaker.ErrOpen，避免每个写请求都等待超时
type GuardedPublisher struct {
	next    publisher
	breaker *circuitbreaker.Breaker
}

// NewGuardedPublisher 包装发布者；threshold/cooldown<=0时使用熔断器默认值
func NewGuardedPublisher(next publisher, threshold int, cooldown time.Duration) *GuardedPublisher {
	return &GuardedPublisher{
		next: next,
		breaker: circuitbreaker.New("mq.publisher", circuitbreaker.Settings{
			Threshold: threshold,
			Cooldown:  cooldown,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				zap.L().Warn("circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

func (g *GuardedPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return g.breaker.Do(func() error {
		return g.next.Publish(ctx, routingKey, message)
	})
}

// State 熔断器当前状态
func (g *GuardedPublisher) State() circuitbreaker.State {
	return g.breaker.State()
}
