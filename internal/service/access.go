package service

import (
	"context"
	"errors"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
)

// actorProfile 读取操作人档案；未登录或档案不存在均视为无权限
func actorProfile(ctx context.Context, profiles interfaces.ProfileStore, actor string) (*model.Profile, error) {
	if actor == "" {
		return nil, apperr.Permission("actor_required", "缺少操作人身份")
	}
	p, err := profiles.Get(ctx, actor)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, apperr.Permission("unknown_actor", "操作人不存在")
	}
	if err != nil {
		return nil, storeErr("查询操作人", err)
	}
	return p, nil
}

// requireAdmin 仅管理员可执行
func requireAdmin(ctx context.Context, profiles interfaces.ProfileStore, actor string) (*model.Profile, error) {
	p, err := actorProfile(ctx, profiles, actor)
	if err != nil {
		return nil, err
	}
	if p.Role != model.RoleAdmin {
		return nil, apperr.Permission("admin_only", "仅管理员可执行该操作")
	}
	return p, nil
}
