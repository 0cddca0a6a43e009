package service

import (
	"errors"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"

	"gorm.io/gorm"
)

// storeErr 把存储层错误归类为业务错误；op 描述失败的操作
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		return apperr.NotFound("not_found", op+": 记录不存在")
	case errors.Is(err, interfaces.ErrCourtOccupied):
		return apperr.Conflict("court_occupied", "场地已有进行中的比赛", err)
	case errors.Is(err, interfaces.ErrPlayerNotQueued):
		return apperr.Conflict("player_not_queued", "有球员已离开队列，请刷新后重试", err)
	case errors.Is(err, interfaces.ErrPlayerInMatch):
		return apperr.Conflict("player_in_match", "有球员正在其他比赛中", err)
	case errors.Is(err, interfaces.ErrAlreadyQueued):
		return apperr.Conflict("already_queued", "球员已在队列中", err)
	case errors.Is(err, interfaces.ErrStaleState):
		return apperr.Conflict("invalid_status", "比赛状态已变化，请刷新后重试", err)
	case errors.Is(err, interfaces.ErrDuplicateRequest):
		return apperr.Conflict("duplicate_request", "请求已处理", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("duplicate", op+": 记录已存在", err)
	}
	return apperr.Dependency("storage", op, err)
}
