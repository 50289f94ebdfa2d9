package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestProfileGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	seedUser(t, db, 1, "Lina", "Haddad")
	seedClub(t, db, 1, "Robotics Club")
	seedClub(t, db, 2, "Chess Club")
	seedMember(t, db, 1, 1, model.RolePresident)
	seedMember(t, db, 1, 2, model.RoleMember)

	p, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.FirstName != "Lina" || len(p.Clubs) != 2 {
		t.Fatalf("profile = %+v", p)
	}
	for _, pc := range p.Clubs {
		if pc.Club.ID == 1 && pc.Role != model.RolePresident {
			t.Fatalf("club 1 role = %s", pc.Role)
		}
	}

	if _, err := svc.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestProfileUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	u := seedUser(t, db, 1, "Lina", "Haddad")
	db.Model(u).Updates(map[string]any{"bio": "old bio", "major": "CS"})

	// 只带 bio，其余字段不动
	p, err := svc.Update(ctx, 1, ProfileUpdate{Bio: strPtr("robotics person")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Bio != "robotics person" || p.Major != "CS" {
		t.Fatalf("profile = bio %q major %q", p.Bio, p.Major)
	}

	// 空更新也合法，返回当前档案
	p, err = svc.Update(ctx, 1, ProfileUpdate{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if p.Bio != "robotics person" {
		t.Fatalf("bio = %q", p.Bio)
	}
}

func TestProfileUpdateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	seedUser(t, db, 1, "Lina", "Haddad")

	cases := []struct {
		name string
		upd  ProfileUpdate
	}{
		{"bio too long", ProfileUpdate{Bio: strPtr(strings.Repeat("x", maxBioLen+1))}},
		{"major too long", ProfileUpdate{Major: strPtr(strings.Repeat("x", maxMajorLen+1))}},
		{"bad avatar url", ProfileUpdate{AvatarURL: strPtr("::not a url")}},
		{"year too small", ProfileUpdate{Year: intPtr(0)}},
		{"year too big", ProfileUpdate{Year: intPtr(11)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(ctx, 1, tc.upd); !errors.Is(err, ErrInvalidParam) {
				t.Fatalf("err = %v, want ErrInvalidParam", err)
			}
		})
	}

	if _, err := svc.Update(ctx, 42, ProfileUpdate{Year: intPtr(3)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}
