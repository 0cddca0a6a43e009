package repository

import (
	"errors"
	"strings"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"

	"gorm.io/gorm"
)

// Migrate 库表不存在则自动创建（按依赖顺序）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

// isDuplicate 唯一约束冲突（postgres 报索引名，sqlite 报 UNIQUE constraint failed）
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "uk_matches_live_court") ||
		strings.Contains(msg, "uk_queue_active_player")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return interfaces.ErrNotFound
	}
	return err
}
