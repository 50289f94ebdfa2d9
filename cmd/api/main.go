package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/AUB-Clubs/aub-clubs/internal/model"
	"github.com/AUB-Clubs/aub-clubs/internal/pkg"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/mysql"
	"github.com/AUB-Clubs/aub-clubs/internal/repository/redis"
	"github.com/AUB-Clubs/aub-clubs/internal/router"
	"github.com/AUB-Clubs/aub-clubs/internal/service"

	"github.com/joho/godotenv"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env 可选，线上直接用环境变量
	_ = godotenv.Load()

	dsn := env("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/aub_clubs?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		log.Fatalf("mysql init: %v", err)
	}

	if secret := os.Getenv("IDENTITY_SECRET"); secret != "" {
		pkg.IdentitySecret = []byte(secret)
	}

	// redis 不可用时降级为纯 MySQL 读
	redisDB, _ := strconv.Atoi(env("REDIS_DB", "0"))
	if err := redis.Init(env("REDIS_ADDR", "127.0.0.1:6379"), os.Getenv("REDIS_PASSWORD"), redisDB); err != nil {
		log.Printf("redis init: %v (cache disabled)", err)
	}

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Club{},
		&model.ClubType{},
		&model.Membership{},
		&model.Post{},
		&model.PostImage{},
		&model.Upvote{},
		&model.PostOutbox{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// outbox 投递：Kafka + 公告邮件通知
	sender := service.LogSender
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   env("KAFKA_TOPIC", "club-events"),
		})
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}

	smtpPort, _ := strconv.Atoi(env("SMTP_PORT", "587"))
	notify := service.NewNotifyService(mysql.DB, pkg.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     env("SMTP_FROM", "AUB Clubs <no-reply@aub.edu.lb>"),
	})

	kafkaSender := sender
	relayer := service.NewOutboxRelayer(mysql.DB, func(ctx context.Context, ev *model.PostOutbox) error {
		if err := kafkaSender(ctx, ev); err != nil {
			return err
		}
		if os.Getenv("SMTP_HOST") == "" {
			return nil
		}
		return notify.HandleEvent(ctx, ev)
	})
	go relayer.Run(context.Background())

	r := router.InitRouter(mysql.DB)
	if err := r.Run(env("HTTP_ADDR", ":8080")); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
