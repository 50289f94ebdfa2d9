package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"

	"gorm.io/gorm"
)

const (
	DefaultMemberLimit = 50
	MaxMemberLimit     = 100

	DefaultClubPageSize = 10
	MaxClubPageSize     = 100
)

type ClubService struct {
	repo    *mysql.ClubRepository
	members *mysql.MembershipRepository
	posts   *mysql.PostRepository
	guard   *Guard
}

// ClubOverview 公开的社团首页数据
type ClubOverview struct {
	ID          uint64   `json:"id"`
	CRN         uint64   `json:"crn"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	BannerURL   string   `json:"banner_url"`
	Types       []string `json:"types"`
	MemberCount int64    `json:"member_count"`
}

type ClubStats struct {
	Members       int64 `json:"members"`
	PostsThisWeek int64 `json:"posts_this_week"`
}

// ClubSummary 目录列表项
type ClubSummary struct {
	ID          uint64   `json:"id"`
	CRN         uint64   `json:"crn"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Types       []string `json:"types"`
	MemberCount int64    `json:"member_count"`
}

type ClubList struct {
	Clubs      []ClubSummary `json:"clubs"`
	TotalCount int64         `json:"total_count"`
	TotalPages int64         `json:"total_pages"`
}

func NewClubService(db *gorm.DB) *ClubService {
	return &ClubService{
		repo:    &mysql.ClubRepository{DB: db},
		members: &mysql.MembershipRepository{DB: db},
		posts:   &mysql.PostRepository{DB: db},
		guard:   NewGuard(db),
	}
}

// Overview 公开接口，只有社团不存在时报 NotFound
func (s *ClubService) Overview(ctx context.Context, clubID uint64) (*ClubOverview, error) {
	club, err := s.repo.FindByID(ctx, clubID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: club %d", ErrNotFound, clubID)
	}
	if err != nil {
		return nil, err
	}
	n, err := s.members.CountByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return &ClubOverview{
		ID:          club.ID,
		CRN:         club.CRN,
		Title:       club.Title,
		Description: club.Description,
		ImageURL:    club.ImageURL,
		BannerURL:   club.BannerURL,
		Types:       club.TypeNames(),
		MemberCount: n,
	}, nil
}

// Stats 仅成员可见
func (s *ClubService) Stats(ctx context.Context, userID, clubID uint64) (*ClubStats, error) {
	if _, err := s.guard.RequireMembership(ctx, userID, clubID); err != nil {
		return nil, err
	}
	members, err := s.members.CountByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	posts, err := s.posts.CountSince(ctx, clubID, weekAgo)
	if err != nil {
		return nil, err
	}
	return &ClubStats{Members: members, PostsThisWeek: posts}, nil
}

// MembershipRole 调用者在该社团的角色；非成员返回 nil
func (s *ClubService) MembershipRole(ctx context.Context, userID, clubID uint64) (*string, error) {
	m, err := s.members.Find(ctx, userID, clubID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m.Role, nil
}

// Members 成员名单，仅成员可见
func (s *ClubService) Members(ctx context.Context, userID, clubID uint64, limit int) ([]mysql.MemberRow, error) {
	if _, err := s.guard.RequireMembership(ctx, userID, clubID); err != nil {
		return nil, err
	}
	limit, err := ResolveLimit(limit, DefaultMemberLimit, MaxMemberLimit)
	if err != nil {
		return nil, err
	}
	return s.members.ListMembers(ctx, clubID, limit)
}

// Join 幂等加入，角色固定 MEMBER；社团不存在报 NotFound
func (s *ClubService) Join(ctx context.Context, userID, clubID uint64) error {
	if _, err := s.repo.FindByID(ctx, clubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: club %d", ErrNotFound, clubID)
		}
		return err
	}
	return s.members.Join(ctx, &model.Membership{
		UserID: userID,
		ClubID: clubID,
		Role:   model.RoleMember,
	})
}

// Leave 幂等退出
func (s *ClubService) Leave(ctx context.Context, userID, clubID uint64) error {
	return s.members.Leave(ctx, userID, clubID)
}

// List 公开目录：搜索 + 分类筛选 + 页码分页
func (s *ClubService) List(ctx context.Context, page, limit int, search, typ string) (*ClubList, error) {
	if typ != "" && !model.ClubTypeSet[typ] {
		return nil, fmt.Errorf("%w: unknown club type %q", ErrInvalidParam, typ)
	}
	if page <= 0 {
		page = 1
	}
	limit, err := ResolveLimit(limit, DefaultClubPageSize, MaxClubPageSize)
	if err != nil {
		return nil, err
	}

	clubs, total, err := s.repo.List(ctx, mysql.ClubQuery{
		Search: search,
		Type:   typ,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(clubs))
	for _, c := range clubs {
		ids = append(ids, c.ID)
	}
	counts, err := s.members.CountByClubs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ClubSummary, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, ClubSummary{
			ID:          c.ID,
			CRN:         c.CRN,
			Title:       c.Title,
			Description: c.Description,
			ImageURL:    c.ImageURL,
			Types:       c.TypeNames(),
			MemberCount: counts[c.ID],
		})
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &ClubList{Clubs: out, TotalCount: total, TotalPages: totalPages}, nil
}
