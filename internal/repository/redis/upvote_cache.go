package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UpvoteSetTTL       = 24 * time.Hour
	UpvoteCntTTL       = 24 * time.Hour
	LockTTL            = 300 * time.Millisecond
	UpvoteSetKeyPrefix = "upvote:set:post"   // 某帖子已点赞的用户ID集合
	UpvoteCntKeyPrefix = "upvote:cnt:post"   // 某帖子的点赞计数
	LockKeyPrefix      = "lock:upvote:post:" // 回源重建锁
)

// UpvoteCacheRepository 热点帖子的点赞缓存。只服务单帖读路径，
// 列表装配一律回源 MySQL，缓存不做第二份真相
type UpvoteCacheRepository struct {
	setTTL time.Duration
	cntTTL time.Duration
}

type DistLock struct{}

func NewUpvoteCacheRepository() *UpvoteCacheRepository {
	return &UpvoteCacheRepository{
		setTTL: UpvoteSetTTL,
		cntTTL: UpvoteCntTTL,
	}
}

func (r *UpvoteCacheRepository) setKey(postID uint64) string {
	return fmt.Sprintf("%s:%d", UpvoteSetKeyPrefix, postID)
}
func (r *UpvoteCacheRepository) cntKey(postID uint64) string {
	return fmt.Sprintf("%s:%d", UpvoteCntKeyPrefix, postID)
}

// AddUpvote 写路径：MySQL 落库成功后调用
func (r *UpvoteCacheRepository) AddUpvote(ctx context.Context, userID, postID uint64) error {
	if !Ready() {
		return nil
	}
	k := r.setKey(postID)
	if err := Client.SAdd(ctx, k, userID).Err(); err != nil {
		return err
	}
	_ = Client.Expire(ctx, k, r.setTTL).Err()

	ck := r.cntKey(postID)
	if err := Client.Incr(ctx, ck).Err(); err != nil {
		return err
	}
	_ = Client.Expire(ctx, ck, r.cntTTL).Err()
	return nil
}

func (r *UpvoteCacheRepository) RemoveUpvote(ctx context.Context, userID, postID uint64) error {
	if !Ready() {
		return nil
	}
	k := r.setKey(postID)
	if err := Client.SRem(ctx, k, userID).Err(); err != nil {
		return err
	}
	ck := r.cntKey(postID)
	// 计数防负数
	return Client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, ck).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if val <= 0 {
			// 不存在或已为 0，交给读侧重建
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Decr(ctx, ck)
			return nil
		})
		return err
	}, ck)
}

// IsUpvotedCached 集合命中才算数，返回 (值, 是否命中, err)
func (r *UpvoteCacheRepository) IsUpvotedCached(ctx context.Context, userID, postID uint64) (bool, bool, error) {
	if !Ready() {
		return false, false, nil
	}
	k := r.setKey(postID)
	exists, err := Client.Exists(ctx, k).Result()
	if err != nil {
		return false, false, err
	}
	if exists == 0 {
		return false, false, nil
	}
	b, err := Client.SIsMember(ctx, k, userID).Result()
	return b, true, err
}

func (r *UpvoteCacheRepository) GetCountCached(ctx context.Context, postID uint64) (int64, bool, error) {
	if !Ready() {
		return 0, false, nil
	}
	val, err := Client.Get(ctx, r.cntKey(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (r *UpvoteCacheRepository) SetCount(ctx context.Context, postID uint64, n int64) error {
	if !Ready() {
		return nil
	}
	return Client.Set(ctx, r.cntKey(postID), n, r.cntTTL).Err()
}

// WarmIsUpvoted 惰性回填：只在集合已存在时写，避免无界扩张
func (r *UpvoteCacheRepository) WarmIsUpvoted(ctx context.Context, userID, postID uint64, upvoted bool) {
	if !Ready() {
		return
	}
	k := r.setKey(postID)
	if ok, _ := Client.Exists(ctx, k).Result(); ok > 0 {
		if upvoted {
			_ = Client.SAdd(ctx, k, userID).Err()
		} else {
			_ = Client.SRem(ctx, k, userID).Err()
		}
		_ = Client.Expire(ctx, k, r.setTTL).Err()
	}
}

// DeleteCount 删除计数Key，交给读侧重建；可选延迟二删抵消并发回填窗口
func (r *UpvoteCacheRepository) DeleteCount(ctx context.Context, postID uint64, delay ...time.Duration) error {
	if !Ready() {
		return nil
	}
	key := r.cntKey(postID)
	if err := Client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), key).Err()
		}()
	}
	return nil
}

// Acquire 请求加分布式锁
func (l *DistLock) Acquire(ctx context.Context, postID uint64, token string) (bool, error) {
	if !Ready() {
		return false, nil
	}
	key := fmt.Sprintf("%s%d", LockKeyPrefix, postID)
	return Client.SetNX(ctx, key, token, LockTTL).Result()
}

// Release 用lua保证原子性
func (l *DistLock) Release(ctx context.Context, postID uint64, token string) error {
	if !Ready() {
		return nil
	}
	key := fmt.Sprintf("%s%d", LockKeyPrefix, postID)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, Client, []string{key}, token).Result()
	return err
}
