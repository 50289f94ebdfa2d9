package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
)

func TestToggleFlipsState(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &UpvoteRepository{DB: db}

	seedUser(t, db, 1, "Lina", "Haddad")
	seedClub(t, db, 1, "Robotics Club")
	post := seedPost(t, db, 1, 1, model.PostGeneral, time.Now())

	upvoted, err := repo.Toggle(ctx, 1, post.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !upvoted {
		t.Fatal("first toggle should upvote")
	}

	upvoted, err = repo.Toggle(ctx, 1, post.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if upvoted {
		t.Fatal("second toggle should remove the upvote")
	}

	upvoted, err = repo.Toggle(ctx, 1, post.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !upvoted {
		t.Fatal("third toggle should upvote again")
	}
}

// 任意次翻转后 (user_id, post_id) 的行数只能是 0 或 1
func TestToggleRowInvariant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &UpvoteRepository{DB: db}

	seedUser(t, db, 1, "Lina", "Haddad")
	seedClub(t, db, 1, "Robotics Club")
	post := seedPost(t, db, 1, 1, model.PostGeneral, time.Now())

	for i := 0; i < 7; i++ {
		if _, err := repo.Toggle(ctx, 1, post.ID); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		var n int64
		db.Model(&model.Upvote{}).
			Where("user_id = ? AND post_id = ?", 1, post.ID).
			Count(&n)
		if n != 0 && n != 1 {
			t.Fatalf("after toggle %d got %d rows, want 0 or 1", i, n)
		}
	}
	// 奇数次翻转终态应为已点赞
	got, err := repo.IsUpvoted(ctx, 1, post.ID)
	if err != nil {
		t.Fatalf("is upvoted: %v", err)
	}
	if !got {
		t.Fatal("odd number of toggles should end upvoted")
	}
}

func TestCountAndUpvotedSet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &UpvoteRepository{DB: db}

	seedUser(t, db, 1, "Lina", "Haddad")
	seedUser(t, db, 2, "Omar", "Khalil")
	seedUser(t, db, 3, "Maya", "Saab")
	seedClub(t, db, 1, "Robotics Club")
	p1 := seedPost(t, db, 1, 1, model.PostGeneral, time.Now())
	p2 := seedPost(t, db, 1, 1, model.PostGeneral, time.Now())

	for _, uid := range []uint64{1, 2, 3} {
		if _, err := repo.Toggle(ctx, uid, p1.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	if _, err := repo.Toggle(ctx, 2, p2.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	counts, err := repo.CountByPostIDs(ctx, []uint64{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("count by ids: %v", err)
	}
	if counts[p1.ID] != 3 || counts[p2.ID] != 1 {
		t.Fatalf("counts = %v, want {p1:3 p2:1}", counts)
	}

	mine, err := repo.UpvotedSet(ctx, 2, []uint64{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("upvoted set: %v", err)
	}
	if !mine[p1.ID] || !mine[p2.ID] {
		t.Fatalf("user 2 upvoted set = %v, want both true", mine)
	}
	mine, err = repo.UpvotedSet(ctx, 3, []uint64{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("upvoted set: %v", err)
	}
	if !mine[p1.ID] || mine[p2.ID] {
		t.Fatalf("user 3 upvoted set = %v, want only p1", mine)
	}
}

func TestCountByPostIDsEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := &UpvoteRepository{DB: db}
	counts, err := repo.CountByPostIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("count by ids: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("want empty map, got %v", counts)
	}
}
