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

// Mailer 通知邮件
type Mailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewMailer(cfg SMTPConfig) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &Mailer{cfg: cfg, dialer: d}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

func NotificationHTML(name, title, message string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<p>Hi %s,</p><p><b>%s</b></p><p>%s</p><p style="color:#888">NexusFlow</p>`,
		html.EscapeString(name), html.EscapeString(title), html.EscapeString(message))
}
