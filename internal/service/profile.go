package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultRankingLimit = 50
	maxRankingLimit     = 200
)

// ProfileService 球员档案：注册、查询、排行榜、积分历史、访客清理
type ProfileService struct {
	profiles interfaces.ProfileStore
	history  interfaces.RatingHistoryStore
	logger   *logrus.Logger
}

func NewProfileService(profiles interfaces.ProfileStore, history interfaces.RatingHistoryStore, logger *logrus.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, history: history, logger: logger}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Name    string  `json:"name"`
	Gender  string  `json:"gender"`
	IsGuest bool    `json:"is_guest"`
	NTRP    float64 `json:"ntrp"`
}

// Register 新建球员档案，各项积分从 1200 起
func (s *ProfileService) Register(ctx context.Context, in RegisterInput) (*model.Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name_required", "姓名不能为空")
	}
	if in.NTRP < 0 || in.NTRP > 7 {
		return nil, apperr.Validation("invalid_ntrp", "NTRP 应在 0 到 7 之间")
	}
	p := &model.Profile{
		ID:            uuid.NewString(),
		Name:          name,
		IsGuest:       in.IsGuest,
		NTRP:          in.NTRP,
		RatingMenD:    model.DefaultRating,
		RatingWomenD:  model.DefaultRating,
		RatingMixed:   model.DefaultRating,
		RatingSingles: model.DefaultRating,
	}
	if g := strings.TrimSpace(in.Gender); g != "" {
		p.Gender = model.NormalizeGender(g)
	}
	if err := s.profiles.Insert(ctx, p); err != nil {
		return nil, storeErr("注册球员", err)
	}
	s.logger.WithFields(logrus.Fields{"player_id": p.ID, "guest": p.IsGuest}).Info("球员注册成功")
	return p, nil
}

// Get 查询档案
func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, apperr.NotFound("player_not_found", fmt.Sprintf("球员不存在: %s", id))
	}
	if err != nil {
		return nil, storeErr("查询球员", err)
	}
	return p, nil
}

// Rankings 按类别积分排行；guestsOnly 只看访客
func (s *ProfileService) Rankings(ctx context.Context, category string, guestsOnly bool, limit int) ([]*model.Profile, error) {
	c, ok := model.ParseCategory(category)
	if !ok {
		return nil, apperr.Validation("invalid_category", fmt.Sprintf("未知积分类别: %q", category))
	}
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	if limit > maxRankingLimit {
		limit = maxRankingLimit
	}
	filter := interfaces.ProfileFilter{SortBy: c, Limit: limit}
	if guestsOnly {
		filter.Guest = &guestsOnly
	}
	list, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, storeErr("查询排行榜", err)
	}
	return list, nil
}

// History 球员积分历史，最新在前
func (s *ProfileService) History(ctx context.Context, id string, limit int) ([]*model.RatingHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	list, err := s.history.ListByPlayer(ctx, id, limit)
	if err != nil {
		return nil, storeErr("查询积分历史", err)
	}
	return list, nil
}

// PurgeGuests 管理员清理全部访客档案
func (s *ProfileService) PurgeGuests(ctx context.Context, actor string) (int64, error) {
	if _, err := requireAdmin(ctx, s.profiles, actor); err != nil {
		return 0, err
	}
	n, err := s.profiles.DeleteGuests(ctx)
	if err != nil {
		return 0, storeErr("清理访客", err)
	}
	s.logger.WithFields(logrus.Fields{"admin": actor, "removed": n}).Warn("访客档案已清理")
	return n, nil
}

// ResetDailyGames 清零当日场次
func (s *ProfileService) ResetDailyGames(ctx context.Context) error {
	if err := s.profiles.ResetDailyGames(ctx); err != nil {
		return storeErr("重置当日场次", err)
	}
	return nil
}

// RequireAdmin 校验管理员身份（供管理端清空队列等操作使用）
func (s *ProfileService) RequireAdmin(ctx context.Context, actor string) error {
	_, err := requireAdmin(ctx, s.profiles, actor)
	return err
}
