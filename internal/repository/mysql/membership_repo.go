package mysql

import (
	"context"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	DB *gorm.DB
}

// 角色排序：PRESIDENT > VICE_PRESIDENT > MEMBER
const roleRankExpr = "CASE memberships.role WHEN 'PRESIDENT' THEN 0 WHEN 'VICE_PRESIDENT' THEN 1 ELSE 2 END"

// MemberRow 成员列表行（带用户展示字段）
type MemberRow struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// Join 幂等插入：(user_id, club_id) 已存在则不报错也不改角色
func (r *MembershipRepository) Join(ctx context.Context, m *model.Membership) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "club_id"}},
		DoNothing: true,
	}).Create(m).Error
}

// Leave 幂等删除
func (r *MembershipRepository) Leave(ctx context.Context, userID, clubID uint64) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Delete(&model.Membership{}).Error
}

func (r *MembershipRepository) Find(ctx context.Context, userID, clubID uint64) (*model.Membership, error) {
	var m model.Membership
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		First(&m).Error
	return &m, err
}

// ListClubIDs 用户加入的社团 id 集合
func (r *MembershipRepository) ListClubIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Membership{}).
		Where("user_id = ?", userID).
		Pluck("club_id", &ids).Error
	return ids, err
}

func (r *MembershipRepository) CountByClub(ctx context.Context, clubID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Membership{}).
		Where("club_id = ?", clubID).
		Count(&n).Error
	return n, err
}

// CountByClubs 目录列表的批量成员数
func (r *MembershipRepository) CountByClubs(ctx context.Context, clubIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(clubIDs))
	if len(clubIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ClubID uint64
		N      int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Membership{}).
		Select("club_id, COUNT(*) AS n").
		Where("club_id IN ?", clubIDs).
		Group("club_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ClubID] = row.N
	}
	return out, nil
}

// ListMembers 角色优先、入团时间次之
func (r *MembershipRepository) ListMembers(ctx context.Context, clubID uint64, limit int) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.DB.WithContext(ctx).Table("memberships").
		Select("memberships.id, memberships.user_id, memberships.role, memberships.joined_at, users.first_name, users.last_name, users.email").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.club_id = ?", clubID).
		Order(roleRankExpr + ", memberships.joined_at ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ListMembersPage 扇出遍历用的分批读取，按 id 稳定排序，
// 成员数不设上限
func (r *MembershipRepository) ListMembersPage(ctx context.Context, clubID uint64, offset, limit int) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.DB.WithContext(ctx).Table("memberships").
		Select("memberships.id, memberships.user_id, memberships.role, memberships.joined_at, users.first_name, users.last_name, users.email").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.club_id = ?", clubID).
		Order("memberships.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RolesByUsers 作者角色批量查询，供帖子列表装配
func (r *MembershipRepository) RolesByUsers(ctx context.Context, clubID uint64, userIDs []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var ms []model.Membership
	err := r.DB.WithContext(ctx).
		Where("club_id = ? AND user_id IN ?", clubID, userIDs).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		out[m.UserID] = m.Role
	}
	return out, nil
}

// ListByUser 用户的全部成员关系（个人主页用）
func (r *MembershipRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Membership, error) {
	var ms []model.Membership
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&ms).Error
	return ms, err
}
