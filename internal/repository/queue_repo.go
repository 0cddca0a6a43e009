package repository

import (
	"context"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"

	"gorm.io/gorm"
)

type queueRepository struct {
	db *gorm.DB
}

// NewQueueRepository 创建队列仓储
func NewQueueRepository(db *gorm.DB) interfaces.QueueStore {
	return &queueRepository{db: db}
}

// ListActive 全部有效排队记录（含档案），按入队时间升序
func (r *queueRepository) ListActive(ctx context.Context) ([]*model.QueueEntry, error) {
	var list []*model.QueueEntry
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("is_active = ?", true).
		Order("joined_at ASC").Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *queueRepository) GetByPlayer(ctx context.Context, playerID string) (*model.QueueEntry, error) {
	var e model.QueueEntry
	if err := r.db.WithContext(ctx).Where("player_id = ? AND is_active = ?", playerID, true).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *queueRepository) Insert(ctx context.Context, e *model.QueueEntry) error {
	e.IsActive = true
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if isDuplicate(err) {
			return interfaces.ErrAlreadyQueued
		}
		return err
	}
	return nil
}

func (r *queueRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.QueueEntry{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// UpdateScores 批量回写展示用优先级分数
func (r *queueRepository) UpdateScores(ctx context.Context, scores map[uint64]int) error {
	if len(scores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, score := range scores {
			if err := tx.Model(&model.QueueEntry{}).Where("id = ?", id).
				UpdateColumn("priority_score", score).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *queueRepository) DeleteByIDs(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.QueueEntry{}).Error
}

func (r *queueRepository) DeleteByPlayerIDs(ctx context.Context, playerIDs []string) (int64, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("player_id IN ?", playerIDs).Delete(&model.QueueEntry{})
	return res.RowsAffected, res.Error
}

// DeleteAll 清空队列（定时重置）
func (r *queueRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.QueueEntry{})
	return res.RowsAffected, res.Error
}
