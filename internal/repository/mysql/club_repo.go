package mysql

import (
	"context"
	"strconv"

	"github.com/AUB-Clubs/aub-clubs/internal/model"

	"gorm.io/gorm"
)

type ClubRepository struct {
	DB *gorm.DB
}

// ClubQuery 目录查询条件
type ClubQuery struct {
	Search string // 标题/简介子串，纯数字时同时按 CRN 精确匹配
	Type   string // 分类标签
	Offset int
	Limit  int
}

func (r *ClubRepository) FindByID(ctx context.Context, id uint64) (*model.Club, error) {
	var club model.Club
	err := r.DB.WithContext(ctx).Preload("Types").First(&club, id).Error
	return &club, err
}

// FindByIDs Feed 装配用，按 id 建映射
func (r *ClubRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Club, error) {
	out := make(map[uint64]model.Club, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var clubs []model.Club
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&clubs).Error; err != nil {
		return nil, err
	}
	for _, c := range clubs {
		out[c.ID] = c
	}
	return out, nil
}

// List 目录分页。筛选必须落在 SQL 上，总数和当页用同一组条件
func (r *ClubRepository) List(ctx context.Context, q ClubQuery) ([]model.Club, int64, error) {
	apply := func(db *gorm.DB) *gorm.DB {
		if q.Search != "" {
			pat := "%" + q.Search + "%"
			if crn, err := strconv.ParseUint(q.Search, 10, 64); err == nil {
				db = db.Where("title LIKE ? OR description LIKE ? OR crn = ?", pat, pat, crn)
			} else {
				db = db.Where("title LIKE ? OR description LIKE ?", pat, pat)
			}
		}
		if q.Type != "" {
			db = db.Joins("JOIN club_types ON club_types.club_id = clubs.id AND club_types.type = ?", q.Type)
		}
		return db
	}

	var total int64
	if err := apply(r.DB.WithContext(ctx).Model(&model.Club{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clubs []model.Club
	err := apply(r.DB.WithContext(ctx).Model(&model.Club{})).
		Preload("Types").
		Order("title ASC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&clubs).Error
	return clubs, total, err
}
