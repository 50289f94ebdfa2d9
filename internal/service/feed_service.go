package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"

	"gorm.io/gorm"
)

// FeedService "For You"：用户所有已加入社团的帖子合流。
// 合流必须是一条带排序键的查询，逐社团取再内存归并会在
// 发帖速度不同的社团之间弄丢游标语义
type FeedService struct {
	repo    *mysql.PostRepository
	members *mysql.MembershipRepository
	clubs   *mysql.ClubRepository
	dec     decorator
}

type FeedItem struct {
	PostItem
	Club ClubRef `json:"club"`
}

type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextCursor *uint64    `json:"next_cursor"`
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{
		repo:    &mysql.PostRepository{DB: db},
		members: &mysql.MembershipRepository{DB: db},
		clubs:   &mysql.ClubRepository{DB: db},
		dec: decorator{
			users:   &mysql.UserRepository{DB: db},
			posts:   &mysql.PostRepository{DB: db},
			upvotes: &mysql.UpvoteRepository{DB: db},
		},
	}
}

// GetFeed typ 可选（GENERAL / ANNOUNCEMENT），游标语义同论坛分页
func (s *FeedService) GetFeed(ctx context.Context, userID uint64, typ string, limit int, cursor *uint64) (*FeedPage, error) {
	if typ != "" && typ != model.PostGeneral && typ != model.PostAnnouncement {
		return nil, fmt.Errorf("%w: unknown feed filter %q", ErrInvalidParam, typ)
	}
	limit, err := ResolveLimit(limit, DefaultPageSize, MaxPageSize)
	if err != nil {
		return nil, err
	}

	clubIDs, err := s.members.ListClubIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	// 没加入任何社团就不碰帖子表
	if len(clubIDs) == 0 {
		return &FeedPage{Items: []FeedItem{}, NextCursor: nil}, nil
	}

	var after *model.Post
	if cursor != nil {
		p, err := s.repo.FindByID(ctx, *cursor)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cursor %d", ErrNotFound, *cursor)
		}
		if err != nil {
			return nil, err
		}
		after = p
	}

	list, err := s.repo.ListPage(ctx, mysql.PostFilter{ClubIDs: clubIDs, Type: typ}, after, limit+1)
	if err != nil {
		return nil, err
	}
	var next *uint64
	if len(list) > limit {
		list = list[:limit]
		id := list[len(list)-1].ID
		next = &id
	}

	dec, err := s.dec.load(ctx, userID, list)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]bool, len(list))
	ids := make([]uint64, 0, len(list))
	for _, p := range list {
		if !seen[p.ClubID] {
			seen[p.ClubID] = true
			ids = append(ids, p.ClubID)
		}
	}
	clubByID, err := s.clubs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(list))
	for i := range list {
		club := clubByID[list[i].ClubID]
		items = append(items, FeedItem{
			PostItem: dec.item(&list[i]),
			Club: ClubRef{
				ID:       club.ID,
				CRN:      club.CRN,
				Title:    club.Title,
				ImageURL: club.ImageURL,
			},
		})
	}
	return &FeedPage{Items: items, NextCursor: next}, nil
}
