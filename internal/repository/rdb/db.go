package rdb

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"NexusFlow/internal/config"
	"NexusFlow/internal/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Open 按配置选择方言并配置连接池，返回前做一次 Ping
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm.DB: %w", err)
	}

	if cfg.Driver == "sqlite" && strings.Contains(cfg.DSN, ":memory:") {
		// 内存库每个连接都是独立的库，只能保留一个连接
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s connection: %w", cfg.Driver, err)
	}
	return db, nil
}

// AutoMigrate 建表（开发阶段 OK）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Post{},
		&model.PostLike{},
		&model.Comment{},
		&model.Event{},
		&model.EventRSVP{},
		&model.Notification{},
		&model.Session{},
		&model.OutboxEvent{},
	)
}

// lockByID 事务内 select for update，行不存在时返回 notFound
func lockByID(tx *gorm.DB, dest any, id string, notFound error) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func findByID(db *gorm.DB, dest any, id string, notFound error) error {
	err := db.Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

const decrementFloor = "CASE WHEN %[1]s > 0 THEN %[1]s - 1 ELSE 0 END"

// bump 计数 +1/-1，-1 时不会低于 0
func bump(tx *gorm.DB, m any, id, column string, delta int) error {
	expr := gorm.Expr(column + " + 1")
	if delta < 0 {
		expr = gorm.Expr(fmt.Sprintf(decrementFloor, column))
	}
	return tx.Model(m).Where("id = ?", id).UpdateColumn(column, expr).Error
}

// notify 与业务写在同一事务内的站内通知
func notify(tx *gorm.DB, userID, kind, title, message string, relatedID string) error {
	n := &model.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if relatedID != "" {
		n.RelatedID = &relatedID
	}
	return tx.Create(n).Error
}
