package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/redis"

	"gorm.io/gorm"
)

// UpvoteService 点赞翻转与计数读取。真相永远在 MySQL 的唯一索引上，
// Redis 只加速单帖热点读
type UpvoteService struct {
	repo  *mysql.UpvoteRepository
	posts *mysql.PostRepository
	cache *redis.UpvoteCacheRepository
	lock  *redis.DistLock
}

func NewUpvoteService(db *gorm.DB) *UpvoteService {
	return &UpvoteService{
		repo:  &mysql.UpvoteRepository{DB: db},
		posts: &mysql.PostRepository{DB: db},
		cache: redis.NewUpvoteCacheRepository(),
		lock:  &redis.DistLock{},
	}
}

// Toggle 翻转后返回最终状态。写库成功才动缓存；
// 计数修正拿不到锁就删计数Key，交给读侧重建
func (s *UpvoteService) Toggle(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, fmt.Errorf("%w: user and post id required", ErrInvalidParam)
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return false, err
	}

	upvoted, err := s.repo.Toggle(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if upvoted {
		_ = s.cache.AddUpvote(ctx, userID, postID)
	} else {
		_ = s.cache.RemoveUpvote(ctx, userID, postID)
	}

	token := fmt.Sprintf("%d-%d-%d", userID, postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, postID, token) }()
		// 持锁校准一次计数
		if n, err := s.repo.CountByPost(ctx, postID); err == nil {
			_ = s.cache.SetCount(ctx, postID, n)
		} else {
			_ = s.cache.DeleteCount(ctx, postID)
		}
	} else {
		_ = s.cache.DeleteCount(ctx, postID)
	}
	return upvoted, nil
}

// Status 单帖计数 + 调用者状态。两个缓存都命中才用缓存；
// 任一缺位就两个字段同读 MySQL，不让计数和个人状态来自不同真相
func (s *UpvoteService) Status(ctx context.Context, userID, postID uint64) (int64, bool, error) {
	if userID == 0 || postID == 0 {
		return 0, false, fmt.Errorf("%w: user and post id required", ErrInvalidParam)
	}
	cnt, cntHit, cntErr := s.cache.GetCountCached(ctx, postID)
	mine, setHit, setErr := s.cache.IsUpvotedCached(ctx, userID, postID)
	if cntErr == nil && setErr == nil && cntHit && setHit {
		return cnt, mine, nil
	}

	n, err := s.repo.CountByPost(ctx, postID)
	if err != nil {
		return 0, false, err
	}
	upvoted, err := s.repo.IsUpvoted(ctx, userID, postID)
	if err != nil {
		return 0, false, err
	}
	_ = s.cache.SetCount(ctx, postID, n)
	s.cache.WarmIsUpvoted(ctx, userID, postID, upvoted)
	return n, upvoted, nil
}

// IsUpvoted 先查缓存集合，miss 回源并惰性回填
func (s *UpvoteService) IsUpvoted(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, fmt.Errorf("%w: user and post id required", ErrInvalidParam)
	}
	if b, ok, err := s.cache.IsUpvotedCached(ctx, userID, postID); err == nil && ok {
		return b, nil
	}
	b, err := s.repo.IsUpvoted(ctx, userID, postID)
	if err == nil {
		s.cache.WarmIsUpvoted(ctx, userID, postID, b)
	}
	return b, err
}

// Count 单帖计数：缓存 miss 时持锁回源重建，避免全体打库
func (s *UpvoteService) Count(ctx context.Context, userID, postID uint64) (int64, error) {
	if postID == 0 {
		return 0, fmt.Errorf("%w: post id required", ErrInvalidParam)
	}
	if v, ok, err := s.cache.GetCountCached(ctx, postID); err == nil && ok {
		return v, nil
	}

	token := fmt.Sprintf("%d-%d-%d", userID, postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, postID, token) }()

		// double check
		if v, ok, err := s.cache.GetCountCached(ctx, postID); err == nil && ok {
			return v, nil
		}
		v, err := s.repo.CountByPost(ctx, postID)
		if err != nil {
			return 0, err
		}
		_ = s.cache.SetCount(ctx, postID, v)
		return v, nil
	}

	// 没拿到锁，短暂退避后再读一次缓存
	time.Sleep(50 * time.Millisecond)
	if v, ok, err := s.cache.GetCountCached(ctx, postID); err == nil && ok {
		return v, nil
	}
	return s.repo.CountByPost(ctx, postID)
}
