package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"

	"gorm.io/gorm"
)

const (
	maxBioLen   = 2000
	maxMajorLen = 200
)

type ProfileService struct {
	users   *mysql.UserRepository
	members *mysql.MembershipRepository
	clubs   *mysql.ClubRepository
}

type ProfileClub struct {
	Role string  `json:"role"`
	Club ClubRef `json:"club"`
}

type ProfileView struct {
	ID        uint64        `json:"id"`
	AubnetID  uint64        `json:"aubnet_id"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	DOB       time.Time     `json:"dob"`
	Bio       string        `json:"bio"`
	AvatarURL string        `json:"avatar_url"`
	Major     string        `json:"major"`
	Year      int           `json:"year"`
	Clubs     []ProfileClub `json:"registered_clubs"`
}

// ProfileUpdate 指针字段表示“是否携带”，nil 不更新
type ProfileUpdate struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Major     *string `json:"major"`
	Year      *int    `json:"year"`
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		users:   &mysql.UserRepository{DB: db},
		members: &mysql.MembershipRepository{DB: db},
		clubs:   &mysql.ClubRepository{DB: db},
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uint64) (*ProfileView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}

	ms, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ClubID)
	}
	clubByID, err := s.clubs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	clubs := make([]ProfileClub, 0, len(ms))
	for _, m := range ms {
		club := clubByID[m.ClubID]
		clubs = append(clubs, ProfileClub{
			Role: m.Role,
			Club: ClubRef{ID: club.ID, CRN: club.CRN, Title: club.Title, ImageURL: club.ImageURL},
		})
	}
	return &ProfileView{
		ID:        user.ID,
		AubnetID:  user.AubnetID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		DOB:       user.DOB,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		Major:     user.Major,
		Year:      user.Year,
		Clubs:     clubs,
	}, nil
}

// Update 只更新携带的字段
func (s *ProfileService) Update(ctx context.Context, userID uint64, upd ProfileUpdate) (*ProfileView, error) {
	fields := make(map[string]any, 4)
	if upd.Bio != nil {
		if len(*upd.Bio) > maxBioLen {
			return nil, fmt.Errorf("%w: bio too long", ErrInvalidParam)
		}
		fields["bio"] = *upd.Bio
	}
	if upd.AvatarURL != nil {
		if *upd.AvatarURL != "" {
			if _, err := url.ParseRequestURI(*upd.AvatarURL); err != nil {
				return nil, fmt.Errorf("%w: avatar_url must be a valid url", ErrInvalidParam)
			}
		}
		fields["avatar_url"] = *upd.AvatarURL
	}
	if upd.Major != nil {
		if len(*upd.Major) > maxMajorLen {
			return nil, fmt.Errorf("%w: major too long", ErrInvalidParam)
		}
		fields["major"] = *upd.Major
	}
	if upd.Year != nil {
		if *upd.Year < 1 || *upd.Year > 10 {
			return nil, fmt.Errorf("%w: year must be 1-10", ErrInvalidParam)
		}
		fields["year"] = *upd.Year
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
