package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/config"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/matchmaker"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/rating"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	actionConfirm  = "confirm"
	actionCancel   = "cancel"
	actionRollback = "rollback"
	actionResolve  = "resolve"
)

// MatchService 比赛生命周期：建赛 -> 开始 -> 结束 -> 上报 -> 确认/驳回，以及取消、回滚、争议裁定
type MatchService struct {
	profiles interfaces.ProfileStore
	matches  interfaces.MatchStore
	tx       interfaces.Transactor
	queue    *QueueService
	venue    config.VenueConfig
	code     string // 比赛模式口令
	logger   *logrus.Logger

	confirmStrategy rating.Strategy
	resolveStrategy rating.Strategy
}

// NewMatchService 创建比赛服务
func NewMatchService(profiles interfaces.ProfileStore, matches interfaces.MatchStore, tx interfaces.Transactor, queue *QueueService, cfg *config.Config, logger *logrus.Logger) *MatchService {
	return &MatchService{
		profiles:        profiles,
		matches:         matches,
		tx:              tx,
		queue:           queue,
		venue:           cfg.Venue,
		code:            cfg.Tournament.Code,
		logger:          logger,
		confirmStrategy: rating.NewFlatK(),
		resolveStrategy: rating.DynamicK{},
	}
}

// CourtStatus 场地及其占用中的比赛（空闲时 Match 为 nil）
type CourtStatus struct {
	Name  string       `json:"name"`
	Match *model.Match `json:"match"`
}

func (s *MatchService) checkCourt(court string) error {
	if court == "" || !s.venue.HasCourt(court) {
		return apperr.Validation("unknown_court", fmt.Sprintf("未知场地: %q", court))
	}
	return nil
}

// AutoMatch 从当前队列快照自动生成一场比赛并占用场地
func (s *MatchService) AutoMatch(ctx context.Context, court string) (*model.Match, error) {
	if err := s.checkCourt(court); err != nil {
		return nil, err
	}
	snapshot, err := s.queue.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	proposal := matchmaker.Generate(toEntries(snapshot))
	if proposal == nil {
		return nil, apperr.Validation("not_enough_players", "队列中可匹配的球员不足4人")
	}

	m := &model.Match{
		CourtName:     &court,
		Status:        model.StatusDraft,
		MatchCategory: proposal.Category,
		MatchType:     model.MatchTypeRegular,
	}
	assignPlayers(m, idsOf(proposal.Team1), idsOf(proposal.Team2))
	if err := s.matches.CreateWithDequeue(ctx, m, proposal.PlayerIDs, true); err != nil {
		return nil, storeErr("创建比赛", err)
	}

	s.logger.WithFields(logrus.Fields{
		"match_id": m.ID,
		"court":    court,
		"category": m.MatchCategory,
		"players":  proposal.PlayerIDs,
	}).Info("自动匹配成功")
	return m, nil
}

// ManualMatch 由操作员指定球员建赛：2人为单打，4人按顺序前两人一队
func (s *MatchService) ManualMatch(ctx context.Context, court string, playerIDs []string, matchType string) (*model.Match, error) {
	if err := s.checkCourt(court); err != nil {
		return nil, err
	}
	if len(playerIDs) != 2 && len(playerIDs) != 4 {
		return nil, apperr.Validation("invalid_players", "需要2名或4名球员")
	}
	seen := make(map[string]bool, len(playerIDs))
	for _, id := range playerIDs {
		if id == "" || seen[id] {
			return nil, apperr.Validation("invalid_players", "球员为空或重复")
		}
		seen[id] = true
	}
	mt, err := parseMatchType(matchType)
	if err != nil {
		return nil, err
	}

	profiles, err := s.loadProfiles(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range playerIDs {
		live, err := s.matches.ListLiveByPlayer(ctx, id)
		if err != nil {
			return nil, storeErr("查询进行中比赛", err)
		}
		if len(live) > 0 {
			return nil, apperr.Conflict("player_in_match", fmt.Sprintf("球员 %s 正在比赛中", id), nil)
		}
	}

	m := &model.Match{
		CourtName:     &court,
		Status:        model.StatusDraft,
		MatchCategory: classify(playerIDs, profiles),
		MatchType:     mt,
	}
	half := len(playerIDs) / 2
	assignPlayers(m, playerIDs[:half], playerIDs[half:])
	if err := s.matches.CreateWithDequeue(ctx, m, playerIDs, false); err != nil {
		return nil, storeErr("创建比赛", err)
	}

	s.logger.WithFields(logrus.Fields{
		"match_id": m.ID,
		"court":    court,
		"category": m.MatchCategory,
		"players":  playerIDs,
	}).Info("手动建赛成功")
	return m, nil
}

// Start DRAFT -> PLAYING
func (s *MatchService) Start(ctx context.Context, id uint64) (*model.Match, error) {
	return s.transition(ctx, id, model.StatusDraft, map[string]interface{}{
		"status":     model.StatusPlaying,
		"start_time": s.queue.Now(),
	})
}

// End PLAYING -> SCORING
func (s *MatchService) End(ctx context.Context, id uint64) (*model.Match, error) {
	return s.transition(ctx, id, model.StatusPlaying, map[string]interface{}{
		"status": model.StatusScoring,
	})
}

func (s *MatchService) transition(ctx context.Context, id uint64, from model.MatchStatus, fields map[string]interface{}) (*model.Match, error) {
	if err := s.matches.UpdateIf(ctx, id, from, fields); err != nil {
		return nil, storeErr("更新比赛状态", err)
	}
	s.logger.WithFields(logrus.Fields{
		"match_id": id,
		"from":     from,
		"to":       fields["status"],
	}).Info("比赛状态变更")
	return s.Get(ctx, id)
}

// ReportScore SCORING -> PENDING：记录比分与胜方、释放场地、按性别确定积分类别
func (s *MatchService) ReportScore(ctx context.Context, actor string, id uint64, score1, score2 *int, code string) (*model.Match, error) {
	if score1 == nil || score2 == nil {
		return nil, apperr.Validation("score_required", "两队比分均不能为空")
	}
	if *score1 < 0 || *score2 < 0 {
		return nil, apperr.Validation("invalid_score", "比分不能为负数")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusScoring {
		return nil, apperr.Conflict("invalid_status", fmt.Sprintf("比赛状态为 %s，不能上报比分", m.Status), nil)
	}
	reporter, err := actorProfile(ctx, s.profiles, actor)
	if err != nil {
		return nil, err
	}
	if m.TeamOf(actor) == 0 && reporter.Role != model.RoleAdmin {
		return nil, apperr.Permission("not_participant", "只有参赛球员可以上报比分")
	}
	if m.MatchType == model.MatchTypeTournament {
		if s.code == "" {
			return nil, apperr.Validation("tournament_code_unset", "未配置比赛模式口令")
		}
		if subtle.ConstantTimeCompare([]byte(code), []byte(s.code)) != 1 {
			return nil, apperr.Validation("tournament_code_mismatch", "比赛模式口令错误")
		}
	}

	participants := m.Participants()
	profiles, err := s.loadProfiles(ctx, participants)
	if err != nil {
		return nil, err
	}
	winner := winnerOf(*score1, *score2)
	err = s.matches.UpdateIf(ctx, id, model.StatusScoring, map[string]interface{}{
		"status":          model.StatusPending,
		"score_1":         *score1,
		"score_2":         *score2,
		"winner_team":     winner,
		"reported_by":     actor,
		"court_name":      nil,
		"end_time":        s.queue.Now(),
		"rating_category": classify(participants, profiles),
	})
	if err != nil {
		return nil, storeErr("上报比分", err)
	}

	s.logger.WithFields(logrus.Fields{
		"match_id": id,
		"reporter": actor,
		"score":    fmt.Sprintf("%d:%d", *score1, *score2),
		"winner":   winner,
	}).Info("比分已上报")
	return s.Get(ctx, id)
}

// eligibleOpponent 确认/驳回资格：非上报方队伍的参赛球员，或管理员
func (s *MatchService) eligibleOpponent(ctx context.Context, m *model.Match, actor string) error {
	p, err := actorProfile(ctx, s.profiles, actor)
	if err != nil {
		return err
	}
	if p.Role == model.RoleAdmin {
		return nil
	}
	team := m.TeamOf(actor)
	if team == 0 {
		return apperr.Permission("not_participant", "只有参赛球员可以确认或驳回")
	}
	if m.ReportedBy != nil && m.TeamOf(*m.ReportedBy) == team {
		return apperr.Permission("own_report", "不能确认或驳回本队上报的比分")
	}
	return nil
}

// Confirm PENDING -> FINISHED：计算积分、写档案与历史、球员重新入队；requestID 去重，重放为空操作
func (s *MatchService) Confirm(ctx context.Context, actor string, id uint64, requestID string) (*model.Match, error) {
	if requestID == "" {
		return nil, apperr.Validation("request_id_required", "缺少请求ID")
	}
	if len(requestID) > model.RequestIDMaxLen {
		return nil, apperr.Validation("request_id_too_long", fmt.Sprintf("请求ID不能超过%d个字符", model.RequestIDMaxLen))
	}
	rec, err := s.tx.Confirmation(ctx, requestID)
	switch {
	case err == nil:
		if rec.MatchID != id {
			return nil, apperr.Conflict("request_id_reused", "请求ID已用于其他比赛", nil)
		}
		return s.Get(ctx, id)
	case !errors.Is(err, interfaces.ErrNotFound):
		return nil, storeErr("查询幂等记录", err)
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusPending {
		return nil, apperr.Conflict("invalid_status", fmt.Sprintf("比赛状态为 %s，不能确认", m.Status), nil)
	}
	if err := s.eligibleOpponent(ctx, m, actor); err != nil {
		return nil, err
	}

	participants := m.Participants()
	profiles, err := s.loadProfiles(ctx, participants)
	if err != nil {
		return nil, err
	}
	category := m.RatingCategory
	if _, ok := model.ParseCategory(string(category)); !ok {
		category = classify(participants, profiles)
	}
	changes := rating.NonZero(s.confirmStrategy.Changes(ratingMatch(m, profiles, category)))
	deltas, err := json.Marshal(changes)
	if err != nil {
		return nil, apperr.Dependency("encode", "序列化积分变化失败", err)
	}

	byPlayer := make(map[string]int, len(changes))
	batch := &interfaces.Batch{
		RequestID:  requestID,
		Action:     actionConfirm,
		ActorID:    actor,
		Result:     deltas,
		MatchID:    id,
		FromStatus: model.StatusPending,
		MatchFields: map[string]interface{}{
			"status":          model.StatusFinished,
			"confirmed_by":    actor,
			"rating_category": category,
			"rating_deltas":   datatypes.JSON(deltas),
		},
		Category: category,
	}
	for _, c := range changes {
		byPlayer[c.PlayerID] = c.Delta
		batch.History = append(batch.History, &model.RatingHistory{
			PlayerID: c.PlayerID,
			MatchID:  id,
			Category: category,
			Rating:   c.After,
			Delta:    c.Delta,
		})
	}
	for _, pid := range participants {
		batch.ProfileUpdates = append(batch.ProfileUpdates, interfaces.ProfileUpdate{
			PlayerID:       pid,
			RatingDelta:    byPlayer[pid],
			GamesIncrement: 1,
		})
	}
	requeue, err := s.requeueEntries(ctx, id, participants, profiles, 1, true)
	if err != nil {
		return nil, err
	}
	batch.QueueInserts = requeue

	if err := s.tx.Apply(ctx, batch); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateRequest) {
			return s.Get(ctx, id)
		}
		return nil, storeErr("确认比分", err)
	}

	s.logger.WithFields(logrus.Fields{
		"match_id":   id,
		"request_id": requestID,
		"confirmer":  actor,
		"category":   category,
		"changes":    len(changes),
	}).Info("比分已确认，积分已更新")
	return s.Get(ctx, id)
}

// Reject PENDING -> DISPUTED，不改积分
func (s *MatchService) Reject(ctx context.Context, actor string, id uint64) (*model.Match, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusPending {
		return nil, apperr.Conflict("invalid_status", fmt.Sprintf("比赛状态为 %s，不能驳回", m.Status), nil)
	}
	if err := s.eligibleOpponent(ctx, m, actor); err != nil {
		return nil, err
	}
	m2, err := s.transition(ctx, id, model.StatusPending, map[string]interface{}{
		"status":       model.StatusDisputed,
		"confirmed_by": nil,
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"match_id": id, "actor": actor}).Warn("比分被驳回，等待裁定")
	return m2, nil
}

// Cancel 删除 DRAFT 比赛，球员以中性分数重新入队
func (s *MatchService) Cancel(ctx context.Context, id uint64) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.Status != model.StatusDraft {
		return apperr.Conflict("invalid_status", fmt.Sprintf("比赛状态为 %s，不能取消", m.Status), nil)
	}
	participants := m.Participants()
	requeue, err := s.requeueEntries(ctx, id, participants, nil, 0, false)
	if err != nil {
		return err
	}
	err = s.tx.Apply(ctx, &interfaces.Batch{
		RequestID:    actionCancel + "-" + uuid.NewString(),
		Action:       actionCancel,
		MatchID:      id,
		FromStatus:   model.StatusDraft,
		DeleteMatch:  true,
		QueueInserts: requeue,
	})
	if err != nil {
		return storeErr("取消比赛", err)
	}
	s.logger.WithFields(logrus.Fields{"match_id": id, "players": participants}).Info("比赛已取消，球员重新入队")
	return nil
}

// Rollback 管理员回滚已完成比赛：积分反向补偿（平局跳过）、写补偿历史、删除比赛
func (s *MatchService) Rollback(ctx context.Context, actor string, id uint64) error {
	if _, err := requireAdmin(ctx, s.profiles, actor); err != nil {
		return err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.Status != model.StatusFinished {
		return apperr.Conflict("invalid_status", fmt.Sprintf("比赛状态为 %s，不能回滚", m.Status), nil)
	}

	batch := &interfaces.Batch{
		RequestID:   actionRollback + "-" + uuid.NewString(),
		Action:      actionRollback,
		ActorID:     actor,
		MatchID:     id,
		FromStatus:  model.StatusFinished,
		DeleteMatch: true,
		Category:    m.RatingCategory,
	}
	var applied []rating.Change
	if len(m.RatingDeltas) > 0 {
		if err := json.Unmarshal(m.RatingDeltas, &applied); err != nil {
			return apperr.Dependency("decode", "解析积分变化失败", err)
		}
	}
	if (m.WinnerTeam == nil || *m.WinnerTeam != model.WinnerDraw) && len(applied) > 0 {
		ids := make([]string, 0, len(applied))
		for _, c := range applied {
			ids = append(ids, c.PlayerID)
		}
		profiles, err := s.loadProfiles(ctx, ids)
		if err != nil {
			return err
		}
		for _, c := range rating.Invert(applied) {
			current := profiles[c.PlayerID].RatingFor(m.RatingCategory)
			batch.ProfileUpdates = append(batch.ProfileUpdates, interfaces.ProfileUpdate{PlayerID: c.PlayerID, RatingDelta: c.Delta})
			batch.History = append(batch.History, &model.RatingHistory{
				PlayerID: c.PlayerID,
				MatchID:  id,
				Category: m.RatingCategory,
				Rating:   current + c.Delta,
				Delta:    c.Delta,
			})
		}
	}

	if err := s.tx.Apply(ctx, batch); err != nil {
		return storeErr("回滚比赛", err)
	}
	s.logger.WithFields(logrus.Fields{
		"match_id": id,
		"admin":    actor,
		"reverted": len(batch.ProfileUpdates),
	}).Warn("比赛已回滚")
	return nil
}

// ResolveDispute 管理员裁定争议比赛 DISPUTED -> FINISHED，按动态K值计算积分，不计场次、不重新入队
func (s *MatchService) ResolveDispute(ctx context.Context, actor string, id uint64, score1, score2 *int) (*model.Match, error) {
	if _, err := requireAdmin(ctx, s.profiles, actor); err != nil {
		return nil, err
	}
	if score1 == nil || score2 == nil {
		return nil, apperr.Validation("score_required", "两队比分均不能为空")
	}
	if *score1 < 0 || *score2 < 0 {
		return nil, apperr.Validation("invalid_score", "比分不能为负数")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusDisputed {
		return nil, apperr.Conflict("invalid_status", fmt.Sprintf("比赛状态为 %s，不能裁定", m.Status), nil)
	}

	participants := m.Participants()
	profiles, err := s.loadProfiles(ctx, participants)
	if err != nil {
		return nil, err
	}
	category := m.RatingCategory
	if _, ok := model.ParseCategory(string(category)); !ok {
		category = classify(participants, profiles)
	}
	m.Score1, m.Score2 = score1, score2
	changes := rating.NonZero(s.resolveStrategy.Changes(ratingMatch(m, profiles, category)))
	deltas, err := json.Marshal(changes)
	if err != nil {
		return nil, apperr.Dependency("encode", "序列化积分变化失败", err)
	}

	winner := winnerOf(*score1, *score2)
	batch := &interfaces.Batch{
		RequestID:  actionResolve + "-" + uuid.NewString(),
		Action:     actionResolve,
		ActorID:    actor,
		Result:     deltas,
		MatchID:    id,
		FromStatus: model.StatusDisputed,
		MatchFields: map[string]interface{}{
			"status":          model.StatusFinished,
			"score_1":         *score1,
			"score_2":         *score2,
			"winner_team":     winner,
			"confirmed_by":    actor,
			"rating_category": category,
			"rating_deltas":   datatypes.JSON(deltas),
		},
		Category: category,
	}
	for _, c := range changes {
		batch.ProfileUpdates = append(batch.ProfileUpdates, interfaces.ProfileUpdate{PlayerID: c.PlayerID, RatingDelta: c.Delta})
		batch.History = append(batch.History, &model.RatingHistory{
			PlayerID: c.PlayerID,
			MatchID:  id,
			Category: category,
			Rating:   c.After,
			Delta:    c.Delta,
		})
	}
	if err := s.tx.Apply(ctx, batch); err != nil {
		return nil, storeErr("裁定争议", err)
	}

	s.logger.WithFields(logrus.Fields{
		"match_id": id,
		"admin":    actor,
		"strategy": s.resolveStrategy.Name(),
		"winner":   winner,
	}).Info("争议已裁定")
	return s.Get(ctx, id)
}

// Get 查询比赛
func (s *MatchService) Get(ctx context.Context, id uint64) (*model.Match, error) {
	m, err := s.matches.Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, apperr.NotFound("match_not_found", fmt.Sprintf("比赛不存在: %d", id))
	}
	if err != nil {
		return nil, storeErr("查询比赛", err)
	}
	return m, nil
}

// List 按状态列出比赛；statuses 为空时返回全部
func (s *MatchService) List(ctx context.Context, statuses []model.MatchStatus) ([]*model.Match, error) {
	list, err := s.matches.ListByStatus(ctx, statuses)
	if err != nil {
		return nil, storeErr("查询比赛列表", err)
	}
	return list, nil
}

// Courts 各场地当前占用情况，按配置顺序
func (s *MatchService) Courts(ctx context.Context) ([]CourtStatus, error) {
	live, err := s.matches.ListByStatus(ctx, model.LiveStatuses)
	if err != nil {
		return nil, storeErr("查询场地", err)
	}
	byCourt := make(map[string]*model.Match, len(live))
	for _, m := range live {
		if m.CourtName != nil {
			byCourt[*m.CourtName] = m
		}
	}
	out := make([]CourtStatus, 0, len(s.venue.Courts))
	for _, name := range s.venue.Courts {
		out = append(out, CourtStatus{Name: name, Match: byCourt[name]})
	}
	return out, nil
}

// loadProfiles 批量读取档案，缺任何一人即 NotFound
func (s *MatchService) loadProfiles(ctx context.Context, ids []string) (map[string]*model.Profile, error) {
	list, err := s.profiles.GetMany(ctx, ids)
	if err != nil {
		return nil, storeErr("查询球员档案", err)
	}
	out := make(map[string]*model.Profile, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	for _, id := range ids {
		if out[id] == nil {
			return nil, apperr.NotFound("player_not_found", fmt.Sprintf("球员不存在: %s", id))
		}
	}
	return out, nil
}

// requeueEntries 构造重新入队记录；scored 为 false 时用中性分数 0，跳过已在其他进行中比赛的球员
func (s *MatchService) requeueEntries(ctx context.Context, matchID uint64, ids []string, profiles map[string]*model.Profile, gamesOffset int, scored bool) ([]*model.QueueEntry, error) {
	now := s.queue.Now()
	out := make([]*model.QueueEntry, 0, len(ids))
	for _, id := range ids {
		busy, err := s.busyElsewhere(ctx, id, matchID)
		if err != nil {
			return nil, err
		}
		if busy {
			continue
		}
		e := &model.QueueEntry{PlayerID: id, JoinedAt: now, IsActive: true}
		if scored {
			e.PriorityScore = scoreOf(profiles[id], now, "", gamesOffset, now)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *MatchService) busyElsewhere(ctx context.Context, playerID string, matchID uint64) (bool, error) {
	live, err := s.matches.ListLiveByPlayer(ctx, playerID)
	if err != nil {
		return false, storeErr("查询进行中比赛", err)
	}
	for _, m := range live {
		if m.ID != matchID {
			return true, nil
		}
	}
	return false, nil
}

func ratingMatch(m *model.Match, profiles map[string]*model.Profile, category model.Category) rating.Match {
	team := func(ids []string) []rating.Player {
		out := make([]rating.Player, 0, len(ids))
		for _, id := range ids {
			p := profiles[id]
			out = append(out, rating.Player{
				ID:          id,
				Rating:      p.RatingFor(category),
				IsGuest:     p.IsGuest,
				Role:        p.Role,
				GamesPlayed: p.TotalGames,
			})
		}
		return out
	}
	rm := rating.Match{
		Team1:      team(m.Team1()),
		Team2:      team(m.Team2()),
		Tournament: m.MatchType == model.MatchTypeTournament,
	}
	if m.Score1 != nil {
		rm.Score1 = *m.Score1
	}
	if m.Score2 != nil {
		rm.Score2 = *m.Score2
	}
	return rm
}

// classify 2人为单打；否则按男性人数：4 -> 男双，0 -> 女双，其余混双
func classify(ids []string, profiles map[string]*model.Profile) model.Category {
	if len(ids) == 2 {
		return model.CategorySingles
	}
	males := 0
	for _, id := range ids {
		if p := profiles[id]; p != nil && model.NormalizeGender(string(p.Gender)) == model.GenderMale {
			males++
		}
	}
	switch males {
	case len(ids):
		return model.CategoryMenDoubles
	case 0:
		return model.CategoryWomenDoubles
	}
	return model.CategoryMixed
}

func winnerOf(score1, score2 int) model.WinnerTeam {
	switch {
	case score1 > score2:
		return model.WinnerTeam1
	case score2 > score1:
		return model.WinnerTeam2
	}
	return model.WinnerDraw
}

func parseMatchType(s string) (model.MatchType, error) {
	switch model.MatchType(s) {
	case "", model.MatchTypeRegular:
		return model.MatchTypeRegular, nil
	case model.MatchTypeTournament:
		return model.MatchTypeTournament, nil
	}
	return "", apperr.Validation("invalid_match_type", fmt.Sprintf("未知比赛类型: %q", s))
}

func assignPlayers(m *model.Match, team1, team2 []string) {
	slot := func(ids []string, i int) *string {
		if i < len(ids) {
			id := ids[i]
			return &id
		}
		return nil
	}
	m.Player1, m.Player2 = slot(team1, 0), slot(team1, 1)
	m.Player3, m.Player4 = slot(team2, 0), slot(team2, 1)
}

func idsOf(entries []matchmaker.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Profile.ID)
	}
	return out
}
