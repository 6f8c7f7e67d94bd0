package post

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/postboard/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/postboard/internal/testutil"
	"github.com/xiebiao/postboard/pkg/mq"
)

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []*mq.Event
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := message.(*mq.Event); ok && e.Type == routingKey {
		p.events = append(p.events, e)
	}
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fixture 用例测试的公共依赖:内存SQLite + miniredis
type fixture struct {
	db        *gorm.DB
	repo      post.Repository
	service   post.Service
	txManager *mysql.TxManager
	cache     *redis.ListCache
	redis     *miniredis.Miniredis
	publisher *recordingPublisher
	notifier  *Notifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	repo := mysql.NewPostRepository(db)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := redis.NewListCache(client, time.Minute)

	publisher := &recordingPublisher{}
	return &fixture{
		db:        db,
		repo:      repo,
		service:   post.NewService(repo),
		txManager: mysql.NewTxManager(db),
		cache:     cache,
		redis:     mr,
		publisher: publisher,
		notifier:  NewNotifier(cache, publisher),
	}
}

// seed 直接写入帖子并设置点赞数
func (f *fixture) seed(t *testing.T, title string, likes int) uint {
	t.Helper()
	p := post.NewPost(title, "content of "+title, "author")
	if err := f.repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seed: %v", err)
	}
	testutil.SetLikes(t, f.db, p.ID, likes)
	return p.ID
}
