package service

import (
	"context"
	"log"
	"time"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
	"github.com/AUB-Clubs/aub-clubs/internal/pkg"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"

	"gorm.io/gorm"
)

// Sender outbox 事件的投递出口，可替换（Kafka / 日志 / 测试桩）
type Sender func(ctx context.Context, ev *model.PostOutbox) error

// OutboxRelayer 轮询 post_outbox，把 pending 事件异步投递出去
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run 启动器，ctx 取消即退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 投递一批；失败的记 retry，下一轮再试
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.FetchPending(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ev := rows[i]
		if err = r.sender(ctx, &ev); err != nil {
			_ = r.repo.MarkFailed(ctx, ev.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ev.ID)
	}
}

// KafkaSender 把 outbox 事件发到社团事件 topic
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ev *model.PostOutbox) error {
		return p.PublishClubEvent(ctx, ev.ClubID, ev.EventType, []byte(ev.Payload))
	}
}

// LogSender 默认 sender（占位），没配 Kafka 时打印
func LogSender(ctx context.Context, ev *model.PostOutbox) error {
	log.Printf("OUTBOX SEND type=%s post=%d club=%d payload=%s", ev.EventType, ev.PostID, ev.ClubID, ev.Payload)
	return nil
}
