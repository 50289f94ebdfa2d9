package service

import (
	"context"
	"errors"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"

	"gorm.io/gorm"
)

// Guard 社团资源的授权检查，纯查询无副作用。
// 策略：目录和社团首页公开；成员名单、论坛、公告、发帖一律要求成员身份
type Guard struct {
	members *mysql.MembershipRepository
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{members: &mysql.MembershipRepository{DB: db}}
}

// RequireMembership 调用者必须持有该社团的成员关系
func (g *Guard) RequireMembership(ctx context.Context, userID, clubID uint64) (*model.Membership, error) {
	m, err := g.members.Find(ctx, userID, clubID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RequireAnnouncementRights 发公告只开放给 PRESIDENT / VICE_PRESIDENT
func (g *Guard) RequireAnnouncementRights(m *model.Membership) error {
	if !m.CanAnnounce() {
		return ErrForbidden
	}
	return nil
}
