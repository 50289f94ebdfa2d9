package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// AnnouncementHTML 社团公告通知邮件正文
func AnnouncementHTML(clubTitle, postTitle, content string) string {
	if len(content) > 280 {
		content = content[:280] + "…"
	}
	return fmt.Sprintf(
		`<p><b>%s</b> posted a new announcement:</p><p style="font-size:16px;"><b>%s</b></p><p>%s</p>`,
		html.EscapeString(clubTitle), html.EscapeString(postTitle), html.EscapeString(content))
}
