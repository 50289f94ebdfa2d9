package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50

	maxTitleLen   = 500
	maxContentLen = 10000
)

type PostService struct {
	repo    *mysql.PostRepository
	members *mysql.MembershipRepository
	guard   *Guard
	dec     decorator
}

// PostPage 一页帖子。NextCursor 为空表示没有下一页
type PostPage struct {
	Items      []PostItem `json:"items"`
	NextCursor *uint64    `json:"next_cursor"`
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:    &mysql.PostRepository{DB: db},
		members: &mysql.MembershipRepository{DB: db},
		guard:   NewGuard(db),
		dec: decorator{
			users:   &mysql.UserRepository{DB: db},
			posts:   &mysql.PostRepository{DB: db},
			upvotes: &mysql.UpvoteRepository{DB: db},
		},
	}
}

// CreatePost 成员才能发帖；公告额外要求 PRESIDENT / VICE_PRESIDENT
func (s *PostService) CreatePost(ctx context.Context, userID, clubID uint64, title, content, typ string) (*model.Post, error) {
	if typ == "" {
		typ = model.PostGeneral
	}
	if typ != model.PostGeneral && typ != model.PostAnnouncement {
		return nil, fmt.Errorf("%w: unknown post type %q", ErrInvalidParam, typ)
	}
	if title == "" || len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title length must be 1-%d", ErrInvalidParam, maxTitleLen)
	}
	if content == "" || len(content) > maxContentLen {
		return nil, fmt.Errorf("%w: content length must be 1-%d", ErrInvalidParam, maxContentLen)
	}

	m, err := s.guard.RequireMembership(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if typ == model.PostAnnouncement {
		if err := s.guard.RequireAnnouncementRights(m); err != nil {
			return nil, err
		}
	}

	post := &model.Post{
		ClubID:   clubID,
		AuthorID: userID,
		Type:     typ,
		Title:    title,
		Content:  content,
	}
	if err := s.repo.CreateWithOutbox(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ForumPage 社团论坛（全部类型），带作者角色
func (s *PostService) ForumPage(ctx context.Context, viewerID, clubID uint64, limit int, cursor *uint64) (*PostPage, error) {
	if _, err := s.guard.RequireMembership(ctx, viewerID, clubID); err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, mysql.PostFilter{ClubIDs: []uint64{clubID}}, limit, cursor, clubID)
}

// AnnouncementPage 只看公告
func (s *PostService) AnnouncementPage(ctx context.Context, viewerID, clubID uint64, limit int, cursor *uint64) (*PostPage, error) {
	if _, err := s.guard.RequireMembership(ctx, viewerID, clubID); err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, mysql.PostFilter{
		ClubIDs: []uint64{clubID},
		Type:    model.PostAnnouncement,
	}, limit, cursor, 0)
}

// page 分页引擎：游标是上一页最后一条的 id。游标行被解析成
// (created_at, id) 再取严格靠后的 limit+1 行；游标行已不存在时
// 明确报 NotFound，不静默返回错位数据
func (s *PostService) page(ctx context.Context, viewerID uint64, f mysql.PostFilter, limit int, cursor *uint64, roleClubID uint64) (*PostPage, error) {
	limit, err := ResolveLimit(limit, DefaultPageSize, MaxPageSize)
	if err != nil {
		return nil, err
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

	list, err := s.repo.ListPage(ctx, f, after, limit+1)
	if err != nil {
		return nil, err
	}
	var next *uint64
	if len(list) > limit {
		list = list[:limit]
		id := list[len(list)-1].ID
		next = &id
	}

	dec, err := s.dec.load(ctx, viewerID, list)
	if err != nil {
		return nil, err
	}
	var roles map[uint64]string
	if roleClubID != 0 {
		authorIDs := make([]uint64, 0, len(list))
		for _, p := range list {
			authorIDs = append(authorIDs, p.AuthorID)
		}
		if roles, err = s.members.RolesByUsers(ctx, roleClubID, authorIDs); err != nil {
			return nil, err
		}
	}

	items := make([]PostItem, 0, len(list))
	for i := range list {
		it := dec.item(&list[i])
		if roles != nil {
			// 作者可能已退团，展示时兜底为 MEMBER
			if role, ok := roles[list[i].AuthorID]; ok {
				it.Role = role
			} else {
				it.Role = model.RoleMember
			}
		}
		items = append(items, it)
	}
	return &PostPage{Items: items, NextCursor: next}, nil
}

// ResolveLimit 未携带时用默认值；越界不兜底，按参数错误拒绝
func ResolveLimit(n, def, max int) (int, error) {
	if n == 0 {
		return def, nil
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("%w: limit must be 1-%d", ErrInvalidParam, max)
	}
	return n, nil
}
