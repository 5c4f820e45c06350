package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

var ErrNotFound = errors.New("没有找到分组任务")

// 只删除自己持有的锁，避免误删后来者的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store 在 redis 中保存每个赛事的分组任务锁和进度
type Store struct {
	rdb        *redis.Client
	timeout    time.Duration
	expiration time.Duration
}

func NewStore(rdb *redis.Client, timeout, expiration time.Duration) *Store {
	return &Store{
		rdb:        rdb,
		timeout:    timeout,
		expiration: expiration,
	}
}

func lockKey(eventID int64) string {
	return fmt.Sprintf("pairing_lock_%d", eventID)
}

func progressKey(eventID int64) string {
	return fmt.Sprintf("pairing_progress_%d", eventID)
}

// Acquire 为赛事加锁，同一赛事同时只能有一个分组任务
// 返回 false 表示已经有任务在排队或运行
func (s *Store) Acquire(eventID int64, jobID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.rdb.SetNX(ctx, lockKey(eventID), jobID, s.expiration).Result()
}

func (s *Store) Release(eventID int64, jobID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return releaseScript.Run(ctx, s.rdb, []string{lockKey(eventID)}, jobID).Err()
}

func (s *Store) Save(eventID int64, p *domain.PairingProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.rdb.Set(ctx, progressKey(eventID), data, s.expiration).Err()
}

func (s *Store) Get(eventID int64) (*domain.PairingProgress, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.rdb.Get(ctx, progressKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p := &domain.PairingProgress{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}

	return p, nil
}
