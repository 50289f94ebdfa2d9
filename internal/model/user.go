package model

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	AubnetID  uint64    `gorm:"uniqueIndex;not null" json:"aubnet_id"`
	Email     string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	FirstName string    `gorm:"size:64;not null" json:"first_name"`
	LastName  string    `gorm:"size:64;not null" json:"last_name"`
	DOB       time.Time `json:"dob"`
	Bio       string    `gorm:"type:text" json:"bio"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	Major     string    `gorm:"size:200" json:"major"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName 展示用姓名
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
