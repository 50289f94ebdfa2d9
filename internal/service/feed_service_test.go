package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
)

func TestFeedEmptyMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)

	seedUser(t, db, 1, "Lina", "Haddad")
	seedClub(t, db, 1, "Robotics Club")
	seedPost(t, db, 1, 1, model.PostGeneral, time.Now())

	page, err := svc.GetFeed(context.Background(), 1, "", 10, nil)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("items = %v, want empty non-nil slice", page.Items)
	}
	if page.NextCursor != nil {
		t.Fatalf("next cursor = %v, want nil", *page.NextCursor)
	}
}

// Feed 只含已加入社团的帖子
func TestFeedScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	seedUser(t, db, 1, "Lina", "Haddad")
	seedUser(t, db, 2, "Omar", "Khalil")
	seedClub(t, db, 1, "Robotics Club")
	seedClub(t, db, 2, "Chess Club")
	seedClub(t, db, 3, "Debate Society")
	seedMember(t, db, 1, 1, model.RoleMember)
	seedMember(t, db, 1, 2, model.RoleMember)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p1 := seedPost(t, db, 1, 2, model.PostGeneral, base.Add(2*time.Minute))
	p2 := seedPost(t, db, 2, 2, model.PostAnnouncement, base.Add(time.Minute))
	seedPost(t, db, 3, 2, model.PostGeneral, base.Add(3*time.Minute))

	page, err := svc.GetFeed(ctx, 1, "", 10, nil)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	if page.Items[0].ID != p1.ID || page.Items[1].ID != p2.ID {
		t.Fatalf("order = [%d %d], want [%d %d]", page.Items[0].ID, page.Items[1].ID, p1.ID, p2.ID)
	}
	// 每条都带来源社团
	if page.Items[0].Club.Title != "Robotics Club" || page.Items[1].Club.Title != "Chess Club" {
		t.Fatalf("clubs = [%s %s]", page.Items[0].Club.Title, page.Items[1].Club.Title)
	}
}

func TestFeedTypeFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	seedUser(t, db, 1, "Lina", "Haddad")
	seedClub(t, db, 1, "Robotics Club")
	seedMember(t, db, 1, 1, model.RoleMember)

	base := time.Now()
	seedPost(t, db, 1, 1, model.PostGeneral, base)
	a := seedPost(t, db, 1, 1, model.PostAnnouncement, base.Add(-time.Minute))

	page, err := svc.GetFeed(ctx, 1, model.PostAnnouncement, 10, nil)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != a.ID {
		t.Fatalf("items = %v", page.Items)
	}

	if _, err := svc.GetFeed(ctx, 1, "TRENDING", 10, nil); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("bad filter err = %v, want ErrInvalidParam", err)
	}
}

// 跨社团翻页不丢帖、不重复
func TestFeedPaginationAcrossClubs(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	seedUser(t, db, 1, "Lina", "Haddad")
	seedClub(t, db, 1, "Robotics Club")
	seedClub(t, db, 2, "Chess Club")
	seedMember(t, db, 1, 1, model.RoleMember)
	seedMember(t, db, 1, 2, model.RoleMember)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var want []uint64
	// 两个社团交替发帖，其中两帖同一时刻
	p1 := seedPost(t, db, 1, 1, model.PostGeneral, base.Add(3*time.Minute))
	p2 := seedPost(t, db, 2, 1, model.PostGeneral, base.Add(2*time.Minute))
	p3 := seedPost(t, db, 1, 1, model.PostGeneral, base.Add(2*time.Minute))
	p4 := seedPost(t, db, 2, 1, model.PostGeneral, base)
	want = []uint64{p1.ID, p3.ID, p2.ID, p4.ID}

	var got []uint64
	var cursor *uint64
	for {
		page, err := svc.GetFeed(ctx, 1, "", 2, cursor)
		if err != nil {
			t.Fatalf("feed: %v", err)
		}
		for _, it := range page.Items {
			got = append(got, it.ID)
		}
		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestFeedOversizedLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)

	seedUser(t, db, 1, "Lina", "Haddad")

	_, err := svc.GetFeed(context.Background(), 1, "", MaxPageSize+1, nil)
	if !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
}

func TestFeedBadCursor(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)

	seedUser(t, db, 1, "Lina", "Haddad")
	seedClub(t, db, 1, "Robotics Club")
	seedMember(t, db, 1, 1, model.RoleMember)

	bogus := uint64(424242)
	_, err := svc.GetFeed(context.Background(), 1, "", 10, &bogus)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
