// Package client AUB Clubs 的 Go 客户端。
// 除了各接口的类型化封装，还带一个消费侧的列表视图层：
// 点赞走乐观更新、失败回滚，换筛选后迟到的旧响应会被丢弃。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// APIError 服务端返回的稳定机器码
type APIError struct {
	Status int    `json:"-"`
	Code   string `json:"code"`
	Msg    string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Msg)
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

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

type PostPage struct {
	Items      []PostItem `json:"items"`
	NextCursor *uint64    `json:"next_cursor"`
}

type ClubRef struct {
	ID       uint64 `json:"id"`
	CRN      uint64 `json:"crn"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

type FeedItem struct {
	PostItem
	Club ClubRef `json:"club"`
}

type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextCursor *uint64    `json:"next_cursor"`
}

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

type Member struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

type CreatePostReq struct {
	ClubID  uint64 `json:"club_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

type CreatedPost struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	ID        uint64        `json:"id"`
	AubnetID  uint64        `json:"aubnet_id"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Bio       string        `json:"bio"`
	AvatarURL string        `json:"avatar_url"`
	Major     string        `json:"major"`
	Year      int           `json:"year"`
	Clubs     []ProfileClub `json:"registered_clubs"`
}

type ProfileClub struct {
	Role string  `json:"role"`
	Club ClubRef `json:"club"`
}

type ProfileUpdate struct {
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Major     *string `json:"major,omitempty"`
	Year      *int    `json:"year,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Code: "INTERNAL"}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func pageQuery(limit int, cursor *uint64) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != nil {
		q.Set("cursor", strconv.FormatUint(*cursor, 10))
	}
	return q
}

func (c *Client) GetClubs(ctx context.Context, page, limit int, search, typ string) (*ClubList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		q.Set("search", search)
	}
	if typ != "" {
		q.Set("type", typ)
	}
	var out ClubList
	if err := c.do(ctx, http.MethodGet, "/api/clubs", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetClubOverview(ctx context.Context, clubID uint64) (*ClubOverview, error) {
	var out struct {
		Club ClubOverview `json:"club"`
	}
	path := fmt.Sprintf("/api/clubs/%d/overview", clubID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Club, nil
}

func (c *Client) GetClubStats(ctx context.Context, clubID uint64) (*ClubStats, error) {
	var out ClubStats
	path := fmt.Sprintf("/api/clubs/%d/stats", clubID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMembership 非成员时 role 为 nil
func (c *Client) GetMembership(ctx context.Context, clubID uint64) (*string, error) {
	var out struct {
		Role *string `json:"role"`
	}
	path := fmt.Sprintf("/api/clubs/%d/membership", clubID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Role, nil
}

func (c *Client) GetMembers(ctx context.Context, clubID uint64, limit int) ([]Member, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Members []Member `json:"members"`
	}
	path := fmt.Sprintf("/api/clubs/%d/members", clubID)
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

func (c *Client) GetForumPosts(ctx context.Context, clubID uint64, limit int, cursor *uint64) (*PostPage, error) {
	var out PostPage
	path := fmt.Sprintf("/api/clubs/%d/forum", clubID)
	if err := c.do(ctx, http.MethodGet, path, pageQuery(limit, cursor), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAnnouncements(ctx context.Context, clubID uint64, limit int, cursor *uint64) (*PostPage, error) {
	var out PostPage
	path := fmt.Sprintf("/api/clubs/%d/announcements", clubID)
	if err := c.do(ctx, http.MethodGet, path, pageQuery(limit, cursor), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JoinClub(ctx context.Context, clubID uint64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/clubs/%d/join", clubID), nil, nil, nil)
}

func (c *Client) LeaveClub(ctx context.Context, clubID uint64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/clubs/%d/leave", clubID), nil, nil, nil)
}

func (c *Client) CreatePost(ctx context.Context, req CreatePostReq) (*CreatedPost, error) {
	var out CreatedPost
	if err := c.do(ctx, http.MethodPost, "/api/posts", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleUpvote(ctx context.Context, postID uint64) (bool, error) {
	var out struct {
		IsUpvoted bool `json:"is_upvoted"`
	}
	path := fmt.Sprintf("/api/posts/%d/upvote", postID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return false, err
	}
	return out.IsUpvoted, nil
}

func (c *Client) GetFeed(ctx context.Context, typ string, limit int, cursor *uint64) (*FeedPage, error) {
	q := pageQuery(limit, cursor)
	if typ != "" {
		q.Set("type", typ)
	}
	var out FeedPage
	if err := c.do(ctx, http.MethodGet, "/api/feed", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile", nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
