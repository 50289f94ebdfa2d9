package mysql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

// PostFilter 分页查询条件。筛选在存储层与排序键组合，
// 内存过滤会破坏 limit+1 的正确性
type PostFilter struct {
	ClubIDs []uint64
	Type    string // 空串表示不按类型过滤
}

// CreateWithOutbox 帖子与 outbox 事件同事务落库
func (r *PostRepository) CreateWithOutbox(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		eventType := "post"
		if post.Type == model.PostAnnouncement {
			eventType = "announcement"
		}
		payload, err := json.Marshal(map[string]any{
			"post_id":   post.ID,
			"club_id":   post.ClubID,
			"author_id": post.AuthorID,
			"type":      post.Type,
			"title":     post.Title,
		})
		if err != nil {
			return err
		}
		return tx.Create(&model.PostOutbox{
			EventType: eventType,
			PostID:    post.ID,
			ClubID:    post.ClubID,
			Payload:   string(payload),
		}).Error
	})
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	return &post, err
}

// ListPage 键集分页：全序 (created_at DESC, id DESC)，after 为上一页
// 最后一行；调用方取 limit+1 行，多出的一行即下一页存在的证据
func (r *PostRepository) ListPage(ctx context.Context, f PostFilter, after *model.Post, limit int) ([]model.Post, error) {
	if len(f.ClubIDs) == 0 {
		return nil, nil
	}
	q := r.DB.WithContext(ctx).Where("club_id IN ?", f.ClubIDs)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if after != nil {
		// 严格落在游标之后：时间在前，同一时刻用 id 打破并列
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID)
	}
	var list []model.Post
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// CountSince 周帖数统计
func (r *PostRepository) CountSince(ctx context.Context, clubID uint64, since time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("club_id = ? AND created_at >= ?", clubID, since).
		Count(&n).Error
	return n, err
}

// ImagesByPostIDs 附图批量查询
func (r *PostRepository) ImagesByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]string, error) {
	out := make(map[uint64][]string, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var images []model.PostImage
	err := r.DB.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		out[img.PostID] = append(out[img.PostID], img.ImageURL)
	}
	return out, nil
}
