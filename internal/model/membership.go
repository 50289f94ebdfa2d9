package model

import "time"

// 社团角色。发公告需要 PRESIDENT / VICE_PRESIDENT
const (
	RolePresident     = "PRESIDENT"
	RoleVicePresident = "VICE_PRESIDENT"
	RoleMember        = "MEMBER"
)

// Membership (user_id, club_id) 唯一，角色决定写权限
type Membership struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_user_club" json:"user_id"`
	ClubID    uint64    `gorm:"not null;index;uniqueIndex:uk_user_club" json:"club_id"`
	Role      string    `gorm:"size:16;not null;default:MEMBER" json:"role"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
	UpdatedAt time.Time `json:"-"`
}

// CanAnnounce 是否有发公告权限
func (m *Membership) CanAnnounce() bool {
	return m.Role == RolePresident || m.Role == RoleVicePresident
}
