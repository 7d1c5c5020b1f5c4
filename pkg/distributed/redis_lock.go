package distributed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisLock Redis 分布式锁
// 投递重试Worker每个tick抢占一次锁，避免多实例部署时重复处理同一批投递任务
type RedisLock struct {
	client   *redis.Client
	key      string
	value    string
	expiry   time.Duration
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewRedisLock 创建 Redis 分布式锁
// 如果client为nil（Redis未启用），TryLock返回true降级为单机模式
func NewRedisLock(client *redis.Client, key string, expiry time.Duration) *RedisLock {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisLock{
		client:   client,
		key:      key,
		value:    uuid.New().String(), // 使用 UUID 作为锁的值，防止误释放
		expiry:   expiry,
		ctx:      ctx,
		cancelFn: cancel,
	}
}

// TryLock 尝试获取锁（非阻塞）
// Redis未启用时返回true：单机部署没有竞争者，Worker照常处理
func (l *RedisLock) TryLock() (bool, error) {
	if l.client == nil {
		return true, nil
	}

	// 使用 SET NX EX 命令：如果 key 不存在则设置，并设置过期时间
	result, err := l.client.SetNX(l.ctx, l.key, l.value, l.expiry).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return result, nil
}

// Unlock 释放锁
func (l *RedisLock) Unlock() error {
	defer l.cancelFn()

	if l.client == nil {
		return nil
	}

	// 使用 Lua 脚本保证原子性：只有持有锁的实例才能释放
	script := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`

	result, err := l.client.Eval(context.Background(), script, []string{l.key}, l.value).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	if result == int64(0) {
		log.Printf("[RedisLock] Lock %s was not held by this instance", l.key)
	}

	return nil
}

// IsLocked 检查锁是否存在
func (l *RedisLock) IsLocked() (bool, error) {
	if l.client == nil {
		return false, nil
	}

	result, err := l.client.Exists(l.ctx, l.key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}
