package repository

import (
	"context"
	"fmt"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"

	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建档案仓储
func NewProfileRepository(db *gorm.DB) interfaces.ProfileStore {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *profileRepository) GetMany(ctx context.Context, ids []string) ([]*model.Profile, error) {
	var list []*model.Profile
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *profileRepository) List(ctx context.Context, filter interfaces.ProfileFilter) ([]*model.Profile, error) {
	db := r.db.WithContext(ctx).Model(&model.Profile{})
	if filter.Guest != nil {
		db = db.Where("is_guest = ?", *filter.Guest)
	}
	if col, ok := model.RatingColumn(filter.SortBy); ok {
		db = db.Order(fmt.Sprintf("%s DESC", col)).Order("name ASC")
	} else {
		db = db.Order("name ASC")
	}
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}
	var list []*model.Profile
	if err := db.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *profileRepository) Insert(ctx context.Context, p *model.Profile) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("profile %s: %w", p.ID, gorm.ErrDuplicatedKey)
		}
		return err
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", id).Delete(&model.QueueEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Profile{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return interfaces.ErrNotFound
		}
		return nil
	})
}

// DeleteGuests 清理全部访客档案（连同其排队记录）
func (r *profileRepository) DeleteGuests(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guests := tx.Model(&model.Profile{}).Select("id").Where("is_guest = ?", true)
		if err := tx.Where("player_id IN (?)", guests).Delete(&model.QueueEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("is_guest = ?", true).Delete(&model.Profile{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

// ResetDailyGames 每日清零 games_played_today
func (r *profileRepository) ResetDailyGames(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("games_played_today <> ?", 0).
		Update("games_played_today", 0).Error
}
