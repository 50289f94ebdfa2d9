package model

import "time"

// Upvote (user_id, post_id) 唯一，投票是二值的，靠唯一索引兜底并发
type Upvote struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_user_post"`
	PostID    uint64 `gorm:"not null;index;uniqueIndex:uk_user_post"`
	CreatedAt time.Time
}
