package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ActorHeader 上游网关注入的调用方球员ID
const ActorHeader = "X-Player-ID"

// statusOf 错误类别 -> HTTP 状态码
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindPermission:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindDependency:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError 统一错误响应 {"error","code"}；5xx 记 Error 日志（含堆栈），4xx 记 Warn
func respondError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	status := statusOf(err)
	entry := logger.WithFields(logrus.Fields{
		"op":     op,
		"status": status,
		"code":   apperr.CodeOf(err),
		"path":   c.FullPath(),
	})
	if status >= http.StatusInternalServerError {
		entry.WithField("detail", apperr.Detail(err)).Error(op + " failed")
	} else {
		entry.WithError(err).Warn(op + " rejected")
	}
	msg := err.Error()
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	c.JSON(status, gin.H{"error": msg, "code": apperr.CodeOf(err)})
}

// actorOf 读取调用方身份；缺失时返回 Permission
func actorOf(c *gin.Context) (string, error) {
	actor := strings.TrimSpace(c.GetHeader(ActorHeader))
	if actor == "" {
		return "", apperr.Permission("actor_required", "缺少 "+ActorHeader+" 请求头")
	}
	return actor, nil
}

func matchID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid_id", "比赛ID无效")
	}
	return id, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("invalid_"+key, key+" 必须为整数")
	}
	return v, nil
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("invalid_body", "请求体格式错误: "+err.Error())
	}
	return nil
}
