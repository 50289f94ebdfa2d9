package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
)

// redis 未初始化时缓存全走 miss 路径，真相在 MySQL

func TestUpvoteToggleLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewUpvoteService(db)
	ctx := context.Background()

	seedUser(t, db, 1, "Lina", "Haddad")
	seedClub(t, db, 1, "Robotics Club")
	p := seedPost(t, db, 1, 1, model.PostGeneral, time.Now())

	upvoted, err := svc.Toggle(ctx, 1, p.ID)
	if err != nil || !upvoted {
		t.Fatalf("first toggle = %v, %v", upvoted, err)
	}
	n, err := svc.Count(ctx, 1, p.ID)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
	b, err := svc.IsUpvoted(ctx, 1, p.ID)
	if err != nil || !b {
		t.Fatalf("is upvoted = %v, %v", b, err)
	}

	upvoted, err = svc.Toggle(ctx, 1, p.ID)
	if err != nil || upvoted {
		t.Fatalf("second toggle = %v, %v", upvoted, err)
	}
	n, err = svc.Count(ctx, 1, p.ID)
	if err != nil || n != 0 {
		t.Fatalf("count after untoggle = %d, %v", n, err)
	}
}

func TestUpvoteToggleMissingPost(t *testing.T) {
	db := newTestDB(t)
	svc := NewUpvoteService(db)

	seedUser(t, db, 1, "Lina", "Haddad")

	_, err := svc.Toggle(context.Background(), 1, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpvoteToggleBadParams(t *testing.T) {
	db := newTestDB(t)
	svc := NewUpvoteService(db)
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, 0, 1); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
	if _, err := svc.IsUpvoted(ctx, 1, 0); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
	if _, err := svc.Count(ctx, 1, 0); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
}

// 计数和调用者状态必须出自同一份数据
func TestUpvoteStatusConsistent(t *testing.T) {
	db := newTestDB(t)
	svc := NewUpvoteService(db)
	ctx := context.Background()

	seedUser(t, db, 1, "Lina", "Haddad")
	seedUser(t, db, 2, "Omar", "Khalil")
	seedClub(t, db, 1, "Robotics Club")
	p := seedPost(t, db, 1, 1, model.PostGeneral, time.Now())

	if _, err := svc.Toggle(ctx, 1, p.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.Toggle(ctx, 2, p.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	n, upvoted, err := svc.Status(ctx, 1, p.ID)
	if err != nil || n != 2 || !upvoted {
		t.Fatalf("status = (%d, %v, %v), want (2, true, nil)", n, upvoted, err)
	}

	if _, err := svc.Toggle(ctx, 1, p.ID); err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	n, upvoted, err = svc.Status(ctx, 1, p.ID)
	if err != nil || n != 1 || upvoted {
		t.Fatalf("status = (%d, %v, %v), want (1, false, nil)", n, upvoted, err)
	}

	if _, _, err := svc.Status(ctx, 0, p.ID); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
}

func TestUpvoteCountMultipleUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewUpvoteService(db)
	ctx := context.Background()

	seedUser(t, db, 1, "Lina", "Haddad")
	seedUser(t, db, 2, "Omar", "Khalil")
	seedUser(t, db, 3, "Maya", "Saab")
	seedClub(t, db, 1, "Robotics Club")
	p := seedPost(t, db, 1, 1, model.PostGeneral, time.Now())

	for _, uid := range []uint64{1, 2, 3} {
		if _, err := svc.Toggle(ctx, uid, p.ID); err != nil {
			t.Fatalf("toggle %d: %v", uid, err)
		}
	}
	// user 2 取消
	if _, err := svc.Toggle(ctx, 2, p.ID); err != nil {
		t.Fatalf("untoggle: %v", err)
	}

	n, err := svc.Count(ctx, 1, p.ID)
	if err != nil || n != 2 {
		t.Fatalf("count = %d, %v", n, err)
	}
	b, _ := svc.IsUpvoted(ctx, 2, p.ID)
	if b {
		t.Fatal("user 2 should not be upvoted")
	}
	b, _ = svc.IsUpvoted(ctx, 3, p.ID)
	if !b {
		t.Fatal("user 3 should be upvoted")
	}
}
