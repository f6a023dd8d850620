package service

import (
	"context"
	"fmt"
	"time"

	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reconcileLockName = "reconcile:counters"

// ReconcileTimeout 单次对账的上限，分布式锁至少持有这么久
const ReconcileTimeout = 5 * time.Minute

// Locker 多实例时保证同一时刻只有一个实例在对账
type Locker interface {
	Acquire(ctx context.Context, name, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name, token string) error
}

// CounterReconciler 冗余计数对账
type CounterReconciler struct {
	repo    *rdb.ReconcileRepository
	locker  Locker
	timeout time.Duration
	log     *zap.Logger
}

func NewCounterReconciler(db *gorm.DB, locker Locker, log *zap.Logger) *CounterReconciler {
	return &CounterReconciler{
		repo:    &rdb.ReconcileRepository{DB: db},
		locker:  locker,
		timeout: ReconcileTimeout,
		log:     log.Named("reconciler"),
	}
}

// RunOnce 对账一次，返回每种计数修正的行数
func (r *CounterReconciler) RunOnce(ctx context.Context) (rdb.CounterReport, error) {
	report, err := r.repo.Reconcile(ctx)
	for name, fixed := range report {
		if fixed > 0 {
			pkg.ReconcileFixed.WithLabelValues(name).Add(float64(fixed))
		}
	}
	if err != nil {
		return report, err
	}
	if total := report.Total(); total > 0 {
		r.log.Warn("counters repaired", zap.Int64("rows", total), zap.Any("report", report))
	}
	return report, nil
}

// Schedule 把定时对账注册到调用方的 cron 上
func (r *CounterReconciler) Schedule(ctx context.Context, c *cron.Cron, schedule string) error {
	_, err := c.AddFunc(schedule, func() {
		if _, err := r.RunExclusive(ctx); err != nil {
			r.log.Error("reconcile failed", zap.Error(err))
		}
	})
	return err
}

// RunExclusive 带超时对账一次；配置了锁时只有拿到锁的实例执行，没拿到返回 false
func (r *CounterReconciler) RunExclusive(parent context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	if r.locker != nil {
		token := uuid.NewString()
		ok, err := r.locker.Acquire(ctx, reconcileLockName, token, r.timeout)
		if err != nil {
			return false, fmt.Errorf("acquire reconcile lock: %w", err)
		}
		if !ok {
			return false, nil
		}
		defer func() {
			if err := r.locker.Release(context.WithoutCancel(ctx), reconcileLockName, token); err != nil {
				r.log.Warn("release reconcile lock failed", zap.Error(err))
			}
		}()
	}

	if _, err := r.RunOnce(ctx); err != nil {
		return true, err
	}
	return true, nil
}
