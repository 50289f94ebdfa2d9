package service

import (
	"context"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"
)

// 帖子在客户端的渲染类型标签
const (
	KindAnnouncement = "announcement"
	KindDiscussion   = "discussion"
)

// PostItem 论坛/公告列表项
type PostItem struct {
	ID          uint64    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	AuthorID    uint64    `json:"author_id"`
	Role        string    `json:"role,omitempty"`
	UpvoteCount int64     `json:"upvote_count"`
	IsUpvoted   bool      `json:"is_upvoted"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClubRef Feed 和个人主页里的社团展示字段
type ClubRef struct {
	ID       uint64 `json:"id"`
	CRN      uint64 `json:"crn"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// decorator 列表装配共用的读侧：作者、附图、计数、当前用户的点赞状态。
// 四类数据在同一次装配里读同一个库，upvote_count 和 is_upvoted 不会分叉
type decorator struct {
	users   *mysql.UserRepository
	posts   *mysql.PostRepository
	upvotes *mysql.UpvoteRepository
}

type decoration struct {
	counts map[uint64]int64
	mine   map[uint64]bool
	users  map[uint64]model.User
	images map[uint64][]string
}

func (d *decorator) load(ctx context.Context, viewerID uint64, posts []model.Post) (*decoration, error) {
	postIDs := make([]uint64, 0, len(posts))
	authorSet := make(map[uint64]bool, len(posts))
	authorIDs := make([]uint64, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if !authorSet[p.AuthorID] {
			authorSet[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	counts, err := d.upvotes.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	mine, err := d.upvotes.UpvotedSet(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	users, err := d.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	images, err := d.posts.ImagesByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	return &decoration{counts: counts, mine: mine, users: users, images: images}, nil
}

func (dec *decoration) item(p *model.Post) PostItem {
	kind := KindDiscussion
	if p.Type == model.PostAnnouncement {
		kind = KindAnnouncement
	}
	author := dec.users[p.AuthorID]
	urls := dec.images[p.ID]
	if urls == nil {
		urls = []string{}
	}
	return PostItem{
		ID:          p.ID,
		Kind:        kind,
		Title:       p.Title,
		Content:     p.Content,
		Author:      author.FullName(),
		AuthorID:    p.AuthorID,
		UpvoteCount: dec.counts[p.ID],
		IsUpvoted:   dec.mine[p.ID],
		ImageURLs:   urls,
		CreatedAt:   p.CreatedAt,
	}
}
