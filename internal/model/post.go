package model

import "time"

const (
	PostGeneral      = "GENERAL"
	PostAnnouncement = "ANNOUNCEMENT"
)

// Post 帖子创建后不可变，按 (created_at DESC, id DESC) 展示
type Post struct {
	ID        uint64    `gorm:"primaryKey;index:idx_club_time_id,priority:3,sort:desc" json:"id"`
	ClubID    uint64    `gorm:"not null;index:idx_club_time_id,priority:1" json:"club_id"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	Type      string    `gorm:"size:16;not null;default:GENERAL" json:"type"`
	Title     string    `gorm:"size:500;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_club_time_id,priority:2,sort:desc" json:"created_at"`
}

type PostImage struct {
	ID       uint64 `gorm:"primaryKey" json:"-"`
	PostID   uint64 `gorm:"not null;index" json:"-"`
	ImageURL string `gorm:"size:512;not null" json:"image_url"`
}

// PostOutbox 帖子事件 outbox 表，与帖子同事务写入
type PostOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // post / announcement
	PostID    uint64 `gorm:"not null"`
	ClubID    uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0"` // 0=pending,1=sent,2=failed
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PostOutbox) TableName() string { return "post_outbox" }
