package client

import (
	"context"
	"sync"
)

// FetchFunc 一页帖子的来源（论坛、公告或 Feed 裁剪后都能适配）
type FetchFunc func(ctx context.Context, limit int, cursor *uint64) (*PostPage, error)

// PostListView 单个分页列表的本地视图。
// 每次请求带上发起时的代际号，Reset 之后迟到的旧响应直接丢弃，
// 不会把换筛选前的数据混进新列表。
type PostListView struct {
	mu         sync.Mutex
	fetch      FetchFunc
	limit      int
	gen        uint64
	items      []PostItem
	nextCursor *uint64
	exhausted  bool
}

func NewPostListView(fetch FetchFunc, limit int) *PostListView {
	return &PostListView{fetch: fetch, limit: limit}
}

// LoadMore 拉下一页。返回值表示这页有没有被采纳
// （过期响应和已到底的情况都返回 false）。
func (v *PostListView) LoadMore(ctx context.Context) (bool, error) {
	v.mu.Lock()
	if v.exhausted {
		v.mu.Unlock()
		return false, nil
	}
	gen := v.gen
	cursor := v.nextCursor
	limit := v.limit
	v.mu.Unlock()

	page, err := v.fetch(ctx, limit, cursor)
	if err != nil {
		return false, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		// 请求在途中视图被 Reset 过，这页已经不属于当前列表
		return false, nil
	}
	v.items = append(v.items, page.Items...)
	v.nextCursor = page.NextCursor
	if page.NextCursor == nil {
		v.exhausted = true
	}
	return true, nil
}

// Reset 清空列表并作废所有在途请求
func (v *PostListView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.items = nil
	v.nextCursor = nil
	v.exhausted = false
}

// Items 当前列表的快照副本
func (v *PostListView) Items() []PostItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]PostItem, len(v.items))
	copy(out, v.items)
	return out
}

// Exhausted 是否已翻到底
func (v *PostListView) Exhausted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.exhausted
}

// applyToggle 本地先翻转点赞态，返回回滚闭包（帖子不在本视图时为 nil）
func (v *PostListView) applyToggle(postID uint64) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID != postID {
			continue
		}
		gen := v.gen
		prevUpvoted := v.items[i].IsUpvoted
		prevCount := v.items[i].UpvoteCount
		if prevUpvoted {
			v.items[i].IsUpvoted = false
			v.items[i].UpvoteCount = prevCount - 1
		} else {
			v.items[i].IsUpvoted = true
			v.items[i].UpvoteCount = prevCount + 1
		}
		return func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if v.gen != gen {
				return
			}
			for j := range v.items {
				if v.items[j].ID == postID {
					v.items[j].IsUpvoted = prevUpvoted
					v.items[j].UpvoteCount = prevCount
					return
				}
			}
		}
	}
	return nil
}

// confirmToggle 按服务端裁定的终态对齐本地状态。
// 并发点赞下乐观预测可能和真实结果相反，这里纠偏计数
func (v *PostListView) confirmToggle(postID uint64, upvoted bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID != postID {
			continue
		}
		if v.items[i].IsUpvoted == upvoted {
			return
		}
		v.items[i].IsUpvoted = upvoted
		if upvoted {
			v.items[i].UpvoteCount++
		} else {
			v.items[i].UpvoteCount--
		}
		return
	}
}

// ViewSet 把展示同一批帖子的多个视图绑在一起：
// 一次点赞在所有视图上同步生效、同步回滚，保证多视图状态一致。
type ViewSet struct {
	mu     sync.Mutex
	client *Client
	views  []*PostListView
}

func NewViewSet(c *Client) *ViewSet {
	return &ViewSet{client: c}
}

// NewView 创建并注册一个视图
func (s *ViewSet) NewView(fetch FetchFunc, limit int) *PostListView {
	v := NewPostListView(fetch, limit)
	s.mu.Lock()
	s.views = append(s.views, v)
	s.mu.Unlock()
	return v
}

// ToggleUpvote 乐观更新所有视图后调服务端；
// 失败回滚到快照，成功则按服务端终态对齐
func (s *ViewSet) ToggleUpvote(ctx context.Context, postID uint64) (bool, error) {
	s.mu.Lock()
	views := make([]*PostListView, len(s.views))
	copy(views, s.views)
	s.mu.Unlock()

	var rollbacks []func()
	for _, v := range views {
		if rb := v.applyToggle(postID); rb != nil {
			rollbacks = append(rollbacks, rb)
		}
	}

	upvoted, err := s.client.ToggleUpvote(ctx, postID)
	if err != nil {
		for _, rb := range rollbacks {
			rb()
		}
		return false, err
	}
	for _, v := range views {
		v.confirmToggle(postID, upvoted)
	}
	return upvoted, nil
}
