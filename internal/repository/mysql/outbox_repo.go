package mysql

import (
	"context"

	"github.com/AUB-Clubs/aub-clubs/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// 超过该次数标记 failed，等待人工对账
const outboxMaxRetry = 5

// FetchPending 拉取一批待投递事件
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]model.PostOutbox, error) {
	var rows []model.PostOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.PostOutbox{}).
		Where("id = ?", id).
		Update("status", 1).Error
}

// MarkFailed 投递失败计数；重试次数用尽后置为 failed
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.PostOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"retry":  gorm.Expr("retry + 1"),
			"status": gorm.Expr("CASE WHEN retry + 1 >= ? THEN 2 ELSE 0 END", outboxMaxRetry),
		}).Error
}
