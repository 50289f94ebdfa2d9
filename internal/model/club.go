package model

import "time"

type Club struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CRN         uint64 `gorm:"uniqueIndex;not null" json:"crn"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"size:512" json:"image_url"`
	BannerURL   string `gorm:"size:512" json:"banner_url"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Types []ClubType `gorm:"foreignKey:ClubID" json:"types"`
}

// ClubType 社团分类标签，一个社团可挂多个
type ClubType struct {
	ID     uint64 `gorm:"primaryKey" json:"-"`
	ClubID uint64 `gorm:"not null;index;uniqueIndex:uk_club_type" json:"-"`
	Type   string `gorm:"size:32;not null;uniqueIndex:uk_club_type" json:"type"`
}

func (ClubType) TableName() string { return "club_types" }

// 目录筛选用的分类全集
var ClubTypeSet = map[string]bool{
	"ACADEMIC": true, "ARTS": true, "BUSINESS": true, "CAREER": true,
	"CULTURAL": true, "GAMING": true, "MEDIA": true, "SPORTS": true,
	"SOCIAL": true, "TECHNOLOGY": true, "COMMUNITY_SERVICE": true,
	"ENVIRONMENTAL": true, "HEALTH_WELLNESS": true, "RELIGIOUS": true,
	"BEGINNER_FRIENDLY": true, "COMPETITIVE": true, "NETWORKING": true,
}

// TypeNames 返回标签字符串列表
func (c *Club) TypeNames() []string {
	names := make([]string, 0, len(c.Types))
	for _, t := range c.Types {
		names = append(names, t.Type)
	}
	return names
}
