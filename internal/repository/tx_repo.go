package repository

import (
	"context"
	"fmt"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactor struct {
	db *gorm.DB
}

// NewTransactor 创建原子多写执行器
func NewTransactor(db *gorm.DB) interfaces.Transactor {
	return &transactor{db: db}
}

// Apply 在一个事务里完成：幂等记录 -> 比赛状态迁移 -> 档案增量 -> 历史 -> 重新排队
// 任一步失败整体回滚；RequestID 已存在返回 ErrDuplicateRequest
func (t *transactor) Apply(ctx context.Context, b *interfaces.Batch) error {
	if b == nil {
		return fmt.Errorf("batch is nil")
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 幂等记录（request_id 唯一）
		if b.RequestID != "" {
			rec := &model.MatchConfirmation{
				RequestID: b.RequestID,
				MatchID:   b.MatchID,
				Action:    b.Action,
				ActorID:   b.ActorID,
				Result:    b.Result,
			}
			if err := tx.Create(rec).Error; err != nil {
				if isDuplicate(err) {
					return interfaces.ErrDuplicateRequest
				}
				return fmt.Errorf("保存幂等记录失败: %w", err)
			}
		}

		// 2. 比赛状态迁移（条件更新，防并发重复迁移）
		var res *gorm.DB
		if b.DeleteMatch {
			res = tx.Where("id = ? AND status = ?", b.MatchID, b.FromStatus).Delete(&model.Match{})
		} else {
			res = tx.Model(&model.Match{}).Where("id = ? AND status = ?", b.MatchID, b.FromStatus).Updates(b.MatchFields)
		}
		if res.Error != nil {
			return fmt.Errorf("更新比赛失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return interfaces.ErrStaleState
		}

		// 3. 档案增量
		if len(b.ProfileUpdates) > 0 {
			col, ok := model.RatingColumn(b.Category)
			for _, u := range b.ProfileUpdates {
				fields := map[string]interface{}{}
				if u.RatingDelta != 0 {
					if !ok {
						return fmt.Errorf("未知积分类别: %s", b.Category)
					}
					fields[col] = gorm.Expr(col+" + ?", u.RatingDelta)
				}
				if u.GamesIncrement != 0 {
					fields["games_played_today"] = gorm.Expr("games_played_today + ?", u.GamesIncrement)
					fields["total_games"] = gorm.Expr("total_games + ?", u.GamesIncrement)
				}
				if len(fields) == 0 {
					continue
				}
				res := tx.Model(&model.Profile{}).Where("id = ?", u.PlayerID).Updates(fields)
				if res.Error != nil {
					return fmt.Errorf("更新档案失败 player_id=%s: %w", u.PlayerID, res.Error)
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("档案不存在 player_id=%s: %w", u.PlayerID, interfaces.ErrNotFound)
				}
			}
		}

		// 4. 积分历史（积分取事务内更新后的值）
		if len(b.History) > 0 {
			for _, h := range b.History {
				if err := settleHistoryRating(tx, h); err != nil {
					return err
				}
			}
			if err := tx.Create(&b.History).Error; err != nil {
				return fmt.Errorf("写入积分历史失败: %w", err)
			}
		}

		// 5. 重新排队（已在队列中的球员跳过）
		if len(b.QueueInserts) > 0 {
			for _, e := range b.QueueInserts {
				e.IsActive = true
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&b.QueueInserts).Error; err != nil {
				return fmt.Errorf("重新排队失败: %w", err)
			}
		}
		return nil
	})
}

func settleHistoryRating(tx *gorm.DB, h *model.RatingHistory) error {
	col, ok := model.RatingColumn(h.Category)
	if !ok {
		return fmt.Errorf("未知积分类别: %s", h.Category)
	}
	var ratings []int
	if err := tx.Model(&model.Profile{}).Where("id = ?", h.PlayerID).Pluck(col, &ratings).Error; err != nil {
		return fmt.Errorf("读取积分失败 player_id=%s: %w", h.PlayerID, err)
	}
	if len(ratings) == 0 {
		return fmt.Errorf("档案不存在 player_id=%s: %w", h.PlayerID, interfaces.ErrNotFound)
	}
	h.Rating = ratings[0]
	return nil
}

func (t *transactor) Confirmation(ctx context.Context, requestID string) (*model.MatchConfirmation, error) {
	var rec model.MatchConfirmation
	if err := t.db.WithContext(ctx).Where("request_id = ?", requestID).First(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}
