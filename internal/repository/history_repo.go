package repository

import (
	"context"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"

	"gorm.io/gorm"
)

type historyRepository struct {
	db *gorm.DB
}

// NewRatingHistoryRepository 创建积分历史仓储
func NewRatingHistoryRepository(db *gorm.DB) interfaces.RatingHistoryStore {
	return &historyRepository{db: db}
}

func (r *historyRepository) Insert(ctx context.Context, e *model.RatingHistory) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *historyRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*model.RatingHistory, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []*model.RatingHistory
	if err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
