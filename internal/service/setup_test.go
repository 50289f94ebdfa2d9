package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Club{},
		&model.ClubType{},
		&model.Membership{},
		&model.Post{},
		&model.PostImage{},
		&model.Upvote{},
		&model.PostOutbox{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint64, first, last string) *model.User {
	t.Helper()
	u := &model.User{
		ID:        id,
		AubnetID:  202500000 + id,
		Email:     fmt.Sprintf("user%d@mail.aub.edu", id),
		FirstName: first,
		LastName:  last,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedClub(t *testing.T, db *gorm.DB, id uint64, title string, types ...string) *model.Club {
	t.Helper()
	c := &model.Club{ID: id, CRN: 10000 + id, Title: title}
	for _, typ := range types {
		c.Types = append(c.Types, model.ClubType{Type: typ})
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed club: %v", err)
	}
	return c
}

func seedMember(t *testing.T, db *gorm.DB, userID, clubID uint64, role string) {
	t.Helper()
	err := db.Create(&model.Membership{UserID: userID, ClubID: clubID, Role: role}).Error
	if err != nil {
		t.Fatalf("seed membership: %v", err)
	}
}

func seedPost(t *testing.T, db *gorm.DB, clubID, authorID uint64, typ string, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{
		ClubID:    clubID,
		AuthorID:  authorID,
		Type:      typ,
		Title:     "title",
		Content:   "content",
		CreatedAt: at,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}
