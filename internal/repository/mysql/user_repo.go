package mysql

import (
	"context"

	"github.com/AUB-Clubs/aub-clubs/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

// FindByIDs 批量查询，按 id 建映射供列表装配使用
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.User, error) {
	out := make(map[uint64]model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []model.User
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UpdateProfile 只更新传入的字段
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}
