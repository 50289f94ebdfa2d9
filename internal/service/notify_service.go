package service

import (
	"context"
	"errors"
	"log"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
	"github.com/AUB-Clubs/aub-clubs/internal/pkg"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/redis"

	"gorm.io/gorm"
)

// 扇出时一批读多少成员
const notifyBatchSize = 500

// NotifyService 公告事件落地成给成员的邮件通知。
// 去重靠 redis SetNX，同一 (成员, 帖子) 只发一次
type NotifyService struct {
	posts   *mysql.PostRepository
	clubs   *mysql.ClubRepository
	members *mysql.MembershipRepository
	dedup   *redis.NotifyRepository
	cfg     pkg.SMTPConfig
	batch   int
	send    func(cfg pkg.SMTPConfig, to, subject, html string) error
}

func NewNotifyService(db *gorm.DB, cfg pkg.SMTPConfig) *NotifyService {
	return &NotifyService{
		posts:   &mysql.PostRepository{DB: db},
		clubs:   &mysql.ClubRepository{DB: db},
		members: &mysql.MembershipRepository{DB: db},
		dedup:   &redis.NotifyRepository{},
		cfg:     cfg,
		batch:   notifyBatchSize,
		send:    pkg.SendEmail,
	}
}

// HandleEvent 只处理公告事件，其余直接放行
func (s *NotifyService) HandleEvent(ctx context.Context, ev *model.PostOutbox) error {
	if ev.EventType != "announcement" {
		return nil
	}
	post, err := s.posts.FindByID(ctx, ev.PostID)
	if err != nil {
		// 帖子没了就没有可通知的内容
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	club, err := s.clubs.FindByID(ctx, ev.ClubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	html := pkg.AnnouncementHTML(club.Title, post.Title, post.Content)
	subject := "[" + club.Title + "] " + post.Title

	// 分批遍历全部成员，扇出不受单页上限约束
	var failed int
	for offset := 0; ; offset += s.batch {
		rows, err := s.members.ListMembersPage(ctx, ev.ClubID, offset, s.batch)
		if err != nil {
			return err
		}
		for _, m := range rows {
			if m.UserID == post.AuthorID {
				continue
			}
			fresh, err := s.dedup.MarkNotified(ctx, m.UserID, post.ID)
			if err != nil || !fresh {
				continue
			}
			if err := s.send(s.cfg, m.Email, subject, html); err != nil {
				// 发送失败放开去重键，整个事件报错让 relayer 重投；
				// 已通知过的成员被去重键挡住，不会重复收信
				_ = s.dedup.ClearNotified(ctx, m.UserID, post.ID)
				log.Printf("announcement mail to %s err: %v", m.Email, err)
				failed++
			}
		}
		if len(rows) < s.batch {
			break
		}
	}
	if failed > 0 {
		return errors.New("announcement notify partially failed")
	}
	return nil
}
