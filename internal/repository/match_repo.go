package repository

import (
	"context"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository 创建比赛仓储
func NewMatchRepository(db *gorm.DB) interfaces.MatchStore {
	return &matchRepository{db: db}
}

func (r *matchRepository) Get(ctx context.Context, id uint64) (*model.Match, error) {
	var m model.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *matchRepository) ListByStatus(ctx context.Context, statuses []model.MatchStatus) ([]*model.Match, error) {
	db := r.db.WithContext(ctx).Model(&model.Match{})
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	var list []*model.Match
	if err := db.Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListLiveByPlayer 球员当前仍占用场地的比赛
func (r *matchRepository) ListLiveByPlayer(ctx context.Context, playerID string) ([]*model.Match, error) {
	var list []*model.Match
	if err := r.db.WithContext(ctx).
		Where("status IN ?", model.LiveStatuses).
		Where("player_1 = ? OR player_2 = ? OR player_3 = ? OR player_4 = ?", playerID, playerID, playerID, playerID).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *matchRepository) InsertIfCourtFree(ctx context.Context, m *model.Match) error {
	return r.CreateWithDequeue(ctx, m, nil, false)
}

// CreateWithDequeue 建赛与出队在同一事务：场地被占、球员已在其他比赛或已离队则整体回滚
func (r *matchRepository) CreateWithDequeue(ctx context.Context, m *model.Match, playerIDs []string, requireQueued bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(playerIDs) > 0 {
			if err := lockPlayersFree(tx, playerIDs); err != nil {
				return err
			}
		}
		if m.CourtName != nil {
			var live int64
			if err := tx.Model(&model.Match{}).Where("court_name = ?", *m.CourtName).Count(&live).Error; err != nil {
				return err
			}
			if live > 0 {
				return interfaces.ErrCourtOccupied
			}
		}
		if err := tx.Create(m).Error; err != nil {
			if isDuplicate(err) {
				return interfaces.ErrCourtOccupied
			}
			return err
		}
		if len(playerIDs) == 0 {
			return nil
		}
		res := tx.Where("player_id IN ? AND is_active = ?", playerIDs, true).Delete(&model.QueueEntry{})
		if res.Error != nil {
			return res.Error
		}
		if requireQueued && res.RowsAffected != int64(len(playerIDs)) {
			return interfaces.ErrPlayerNotQueued
		}
		return nil
	})
}

// lockPlayersFree 按 id 顺序锁住球员档案行，再确认其中无人处于进行中的比赛
func lockPlayersFree(tx *gorm.DB, playerIDs []string) error {
	var locked []model.Profile
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", playerIDs).
		Order("id").
		Find(&locked).Error; err != nil {
		return err
	}
	var busy int64
	if err := tx.Model(&model.Match{}).
		Where("status IN ?", model.LiveStatuses).
		Where("player_1 IN ? OR player_2 IN ? OR player_3 IN ? OR player_4 IN ?", playerIDs, playerIDs, playerIDs, playerIDs).
		Count(&busy).Error; err != nil {
		return err
	}
	if busy > 0 {
		return interfaces.ErrPlayerInMatch
	}
	return nil
}

func (r *matchRepository) UpdateIf(ctx context.Context, id uint64, from model.MatchStatus, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrStale(ctx, id)
	}
	return nil
}

func (r *matchRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Match{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *matchRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Match{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *matchRepository) missingOrStale(ctx context.Context, id uint64) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Match{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return interfaces.ErrNotFound
	}
	return interfaces.ErrStaleState
}
