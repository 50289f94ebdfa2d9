package mysql

import (
	"context"

	"github.com/AUB-Clubs/aub-clubs/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpvoteRepository struct {
	DB *gorm.DB
}

// Toggle 原子翻转：有记录则删（返回 false），无则插入（返回 true）。
// 并发双击由唯一索引 (user_id, post_id) 收敛，不向上抛冲突
func (r *UpvoteRepository) Toggle(ctx context.Context, userID, postID uint64) (bool, error) {
	var upvoted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&model.Upvote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			upvoted = false
			return nil
		}
		// 没删到行则插入；与并发插入撞唯一索引时 DoNothing，
		// 终态一致（行存在）
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).Create(&model.Upvote{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		upvoted = true
		return nil
	})
	return upvoted, err
}

func (r *UpvoteRepository) CountByPost(ctx context.Context, postID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Upvote{}).
		Where("post_id = ?", postID).
		Count(&n).Error
	return n, err
}

// CountByPostIDs 列表装配用的批量计数
func (r *UpvoteRepository) CountByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID uint64
		N      int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Upvote{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.N
	}
	return out, nil
}

// UpvotedSet 当前用户在给定帖子里点过赞的集合。
// 与 CountByPostIDs 在同一次装配里读同一个库，计数和个人状态不会分叉
func (r *UpvoteRepository) UpvotedSet(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Upvote{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *UpvoteRepository) IsUpvoted(ctx context.Context, userID, postID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Upvote{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error
	return n > 0, err
}
