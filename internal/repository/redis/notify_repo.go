package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	NotifyDedupTTL    = 24 * time.Hour
	NotifyDedupPrefix = "notify:announcement"
)

var (
	ErrNotifyMarkFailed = errors.New("notify mark failed")
)

// NotifyRepository 公告邮件去重：同一 (用户, 帖子) 只通知一次
type NotifyRepository struct{}

// MarkNotified SetNX 抢占；返回 false 表示已经通知过
func (r *NotifyRepository) MarkNotified(ctx context.Context, userID, postID uint64) (bool, error) {
	if !Ready() {
		return true, nil
	}
	key := fmt.Sprintf("%s:%d:%d", NotifyDedupPrefix, postID, userID)
	ok, err := Client.SetNX(ctx, key, 1, NotifyDedupTTL).Result()
	if err != nil {
		return false, ErrNotifyMarkFailed
	}
	return ok, nil
}

// ClearNotified 删除去重键（发送失败时回滚，允许重发）
func (r *NotifyRepository) ClearNotified(ctx context.Context, userID, postID uint64) error {
	if !Ready() {
		return nil
	}
	key := fmt.Sprintf("%s:%d:%d", NotifyDedupPrefix, postID, userID)
	return Client.Del(ctx, key).Err()
}
