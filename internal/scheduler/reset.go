// Package scheduler 场馆每日维护任务
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// QueueResetter 清空等待队列
type QueueResetter interface {
	Reset(ctx context.Context) (int64, error)
}

// GamesResetter 清零当日场次
type GamesResetter interface {
	ResetDailyGames(ctx context.Context) error
}

// DailyReset 每天在场馆时区的固定时刻清空队列并清零当日场次
type DailyReset struct {
	queue  QueueResetter
	games  GamesResetter
	logger *logrus.Logger
	loc    *time.Location
	hour   int
	minute int
	now    func() time.Time
}

func NewDailyReset(queue QueueResetter, games GamesResetter, loc *time.Location, hour, minute int, logger *logrus.Logger) *DailyReset {
	if loc == nil {
		loc = time.Local
	}
	return &DailyReset{
		queue:  queue,
		games:  games,
		logger: logger,
		loc:    loc,
		hour:   hour,
		minute: minute,
		now:    time.Now,
	}
}

// NextRun 严格晚于 after 的下一次执行时刻
func (d *DailyReset) NextRun(after time.Time) time.Time {
	local := after.In(d.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, d.hour, d.minute, 0, 0, d.loc)
	}
	return next
}

// Start 后台运行直到 ctx 取消
func (d *DailyReset) Start(ctx context.Context) {
	go d.loop(ctx)
	d.logger.Infof("每日重置任务已启动，每天 %02d:%02d（%s）执行", d.hour, d.minute, d.loc)
}

func (d *DailyReset) loop(ctx context.Context) {
	for {
		// 每次重新计算，跨夏令时也按当地时刻执行
		wait := d.NextRun(d.now()).Sub(d.now())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Info("每日重置任务已停止")
			return
		case <-timer.C:
			if err := d.RunOnce(ctx); err != nil {
				d.logger.WithError(err).Error("每日重置失败")
			}
		}
	}
}

// RunOnce 立即执行一次：清空队列、清零当日场次
func (d *DailyReset) RunOnce(ctx context.Context) error {
	removed, err := d.queue.Reset(ctx)
	if err != nil {
		return err
	}
	if err := d.games.ResetDailyGames(ctx); err != nil {
		return err
	}
	d.logger.WithField("removed", removed).Info("每日重置完成")
	return nil
}
