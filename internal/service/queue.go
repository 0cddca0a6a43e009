package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/matchmaker"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/priority"

	"github.com/sirupsen/logrus"
)

// QueueService 等待队列：入队、改离场时间、离队、按优先级排序快照、每日重置
type QueueService struct {
	profiles interfaces.ProfileStore
	queue    interfaces.QueueStore
	matches  interfaces.MatchStore
	logger   *logrus.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewQueueService 创建队列服务；loc 为场馆时区（离场时间按该时区解析）
func NewQueueService(profiles interfaces.ProfileStore, queue interfaces.QueueStore, matches interfaces.MatchStore, logger *logrus.Logger, loc *time.Location) *QueueService {
	if loc == nil {
		loc = time.Local
	}
	return &QueueService{
		profiles: profiles,
		queue:    queue,
		matches:  matches,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// SetClock 替换时钟（测试用）
func (s *QueueService) SetClock(now func() time.Time) {
	s.now = now
}

// Now 场馆当地时间
func (s *QueueService) Now() time.Time {
	return s.now().In(s.loc)
}

// scoreOf 计算一名球员此刻的优先级；profile 为空时只计等待时长与离场加分
func scoreOf(p *model.Profile, joinedAt time.Time, departure string, gamesOffset int, now time.Time) int {
	c := priority.Candidate{JoinedAt: joinedAt, DepartureTime: departure}
	if p != nil {
		c.GamesPlayedToday = p.GamesPlayedToday + gamesOffset
		c.IsGuest = p.IsGuest
		c.BestRating = p.BestRating()
	}
	return priority.Score(c, now)
}

func normalizeDeparture(departure string) (string, error) {
	departure = strings.TrimSpace(departure)
	if departure == "" {
		return "", nil
	}
	h, m, ok := priority.ParseClock(departure)
	if !ok {
		return "", apperr.Validation("invalid_departure", "离场时间格式应为 HH:MM")
	}
	return formatClock(h, m), nil
}

func formatClock(h, m int) string {
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC).Format("15:04")
}

// Join 入队：球员须存在、未在队列中、且不在进行中的比赛里
func (s *QueueService) Join(ctx context.Context, playerID, departure string) (*model.QueueEntry, error) {
	departure, err := normalizeDeparture(departure)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, playerID)
	if err != nil {
		return nil, storeErr("查询球员", err)
	}
	live, err := s.matches.ListLiveByPlayer(ctx, playerID)
	if err != nil {
		return nil, storeErr("查询进行中比赛", err)
	}
	if len(live) > 0 {
		return nil, apperr.Conflict("player_in_match", "球员正在比赛中", nil)
	}

	now := s.Now()
	entry := &model.QueueEntry{
		PlayerID:      playerID,
		JoinedAt:      now,
		DepartureTime: departure,
		PriorityScore: scoreOf(p, now, departure, 0, now),
	}
	if err := s.queue.Insert(ctx, entry); err != nil {
		return nil, storeErr("入队", err)
	}
	entry.Profile = p

	s.logger.WithFields(logrus.Fields{
		"player_id": playerID,
		"score":     entry.PriorityScore,
	}).Info("球员入队")
	return entry, nil
}

// UpdateDeparture 修改离场时间；空字符串表示清除
func (s *QueueService) UpdateDeparture(ctx context.Context, playerID, departure string) (*model.QueueEntry, error) {
	departure, err := normalizeDeparture(departure)
	if err != nil {
		return nil, err
	}
	entry, err := s.queue.GetByPlayer(ctx, playerID)
	if err != nil {
		return nil, storeErr("查询排队记录", err)
	}
	if err := s.queue.Update(ctx, entry.ID, map[string]interface{}{"departure_time": departure}); err != nil {
		return nil, storeErr("更新离场时间", err)
	}
	entry.DepartureTime = departure
	return entry, nil
}

// Leave 离队
func (s *QueueService) Leave(ctx context.Context, playerID string) error {
	n, err := s.queue.DeleteByPlayerIDs(ctx, []string{playerID})
	if err != nil {
		return storeErr("离队", err)
	}
	if n == 0 {
		return apperr.NotFound("not_queued", "球员不在队列中")
	}
	s.logger.WithField("player_id", playerID).Info("球员离队")
	return nil
}

// Snapshot 当前队列按优先级降序（同分按入队先后），并回写分数供展示
func (s *QueueService) Snapshot(ctx context.Context) ([]*model.QueueEntry, error) {
	entries, err := s.queue.ListActive(ctx)
	if err != nil {
		return nil, storeErr("查询队列", err)
	}
	now := s.Now()
	scores := make(map[uint64]int, len(entries))
	for _, e := range entries {
		e.PriorityScore = scoreOf(e.Profile, e.JoinedAt, e.DepartureTime, 0, now)
		scores[e.ID] = e.PriorityScore
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].PriorityScore != entries[j].PriorityScore {
			return entries[i].PriorityScore > entries[j].PriorityScore
		}
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})

	// 分数只用于展示，写失败不影响本次快照
	if err := s.queue.UpdateScores(ctx, scores); err != nil {
		s.logger.WithError(err).Warn("回写优先级分数失败")
	}
	return entries, nil
}

// Reset 清空队列（每日定时或管理员手动）
func (s *QueueService) Reset(ctx context.Context) (int64, error) {
	n, err := s.queue.DeleteAll(ctx)
	if err != nil {
		return 0, storeErr("清空队列", err)
	}
	s.logger.WithField("removed", n).Info("队列已清空")
	return n, nil
}

// toEntries 快照 -> 生成器输入
func toEntries(snapshot []*model.QueueEntry) []matchmaker.Entry {
	out := make([]matchmaker.Entry, 0, len(snapshot))
	for _, e := range snapshot {
		out = append(out, matchmaker.Entry{Profile: e.Profile, Score: e.PriorityScore})
	}
	return out
}
