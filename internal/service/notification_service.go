package service

import (
	"context"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mailer 通知邮件发送，未配置 SMTP 时为 nil
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type NotificationService struct {
	repo   *rdb.NotificationRepository
	users  *rdb.UserRepository
	mailer Mailer
	log    *zap.Logger
}

func NewNotificationService(db *gorm.DB, mailer Mailer, log *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   &rdb.NotificationRepository{DB: db},
		users:  &rdb.UserRepository{DB: db},
		mailer: mailer,
		log:    log.Named("notification"),
	}
}

// Notify 写站内通知并尽力发送邮件，失败只记日志，不影响主流程
func (s *NotificationService) Notify(ctx context.Context, userID, kind, title, message, relatedID string) {
	n := &model.Notification{UserID: userID, Type: kind, Title: title, Message: message}
	if relatedID != "" {
		n.RelatedID = &relatedID
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn("create notification failed", zap.String("user_id", userID), zap.String("type", kind), zap.Error(err))
		return
	}
	if s.mailer == nil {
		return
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user.Email == nil || *user.Email == "" {
		return
	}
	go func(to, name string) {
		if err := s.mailer.Send(to, title, pkg.NotificationHTML(name, title, message)); err != nil {
			s.log.Warn("send notification email failed", zap.String("user_id", userID), zap.Error(err))
		}
	}(*user.Email, user.FirstName)
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, id, userID)
}
