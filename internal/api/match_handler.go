package api

import (
	"net/http"
	"strings"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// IdempotencyHeader 确认请求的去重令牌（也可放在请求体 request_id）
const IdempotencyHeader = "Idempotency-Key"

// MatchHandler 场地与比赛生命周期接口
type MatchHandler struct {
	matches *service.MatchService
	logger  *logrus.Logger
}

// NewMatchHandler 创建 MatchHandler
func NewMatchHandler(matches *service.MatchService, logger *logrus.Logger) *MatchHandler {
	return &MatchHandler{matches: matches, logger: logger}
}

type manualMatchRequest struct {
	PlayerIDs []string `json:"player_ids"`
	MatchType string   `json:"match_type"`
}

type scoreRequest struct {
	Score1 *int   `json:"score_1"`
	Score2 *int   `json:"score_2"`
	Code   string `json:"code"`
}

type confirmRequest struct {
	RequestID string `json:"request_id"`
}

// Courts 各场地占用情况
// GET /api/courts
func (h *MatchHandler) Courts(c *gin.Context) {
	courts, err := h.matches.Courts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListCourts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courts": courts})
}

// AutoMatch 从队列自动匹配
// POST /api/courts/:court/auto-match
func (h *MatchHandler) AutoMatch(c *gin.Context) {
	m, err := h.matches.AutoMatch(c.Request.Context(), c.Param("court"))
	if err != nil {
		respondError(c, h.logger, "AutoMatch", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ManualMatch 指定球员建赛
// POST /api/courts/:court/matches {"player_ids":[...],"match_type":"REGULAR"}
func (h *MatchHandler) ManualMatch(c *gin.Context) {
	var req manualMatchRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "ManualMatch", err)
		return
	}
	m, err := h.matches.ManualMatch(c.Request.Context(), c.Param("court"), req.PlayerIDs, strings.ToUpper(req.MatchType))
	if err != nil {
		respondError(c, h.logger, "ManualMatch", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// List 比赛列表
// GET /api/matches?status=PENDING,DISPUTED
func (h *MatchHandler) List(c *gin.Context) {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		respondError(c, h.logger, "ListMatches", err)
		return
	}
	list, err := h.matches.List(c.Request.Context(), statuses)
	if err != nil {
		respondError(c, h.logger, "ListMatches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": list})
}

// Get 比赛详情
// GET /api/matches/:id
func (h *MatchHandler) Get(c *gin.Context) {
	id, err := matchID(c)
	if err != nil {
		respondError(c, h.logger, "GetMatch", err)
		return
	}
	m, err := h.matches.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetMatch", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Start POST /api/matches/:id/start
func (h *MatchHandler) Start(c *gin.Context) {
	id, err := matchID(c)
	if err != nil {
		respondError(c, h.logger, "StartMatch", err)
		return
	}
	m, err := h.matches.Start(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "StartMatch", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// End POST /api/matches/:id/end
func (h *MatchHandler) End(c *gin.Context) {
	id, err := matchID(c)
	if err != nil {
		respondError(c, h.logger, "EndMatch", err)
		return
	}
	m, err := h.matches.End(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "EndMatch", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Report 上报比分
// POST /api/matches/:id/report {"score_1":21,"score_2":15,"code":""}
func (h *MatchHandler) Report(c *gin.Context) {
	actor, id, ok := h.actorAndID(c, "ReportScore")
	if !ok {
		return
	}
	var req scoreRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "ReportScore", err)
		return
	}
	m, err := h.matches.ReportScore(c.Request.Context(), actor, id, req.Score1, req.Score2, req.Code)
	if err != nil {
		respondError(c, h.logger, "ReportScore", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Confirm 确认比分；请求头 Idempotency-Key 或请求体 request_id 去重
// POST /api/matches/:id/confirm
func (h *MatchHandler) Confirm(c *gin.Context) {
	actor, id, ok := h.actorAndID(c, "ConfirmMatch")
	if !ok {
		return
	}
	var req confirmRequest
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &req); err != nil {
			respondError(c, h.logger, "ConfirmMatch", err)
			return
		}
	}
	requestID := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if requestID == "" {
		requestID = strings.TrimSpace(req.RequestID)
	}
	m, err := h.matches.Confirm(c.Request.Context(), actor, id, requestID)
	if err != nil {
		respondError(c, h.logger, "ConfirmMatch", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Reject POST /api/matches/:id/reject
func (h *MatchHandler) Reject(c *gin.Context) {
	actor, id, ok := h.actorAndID(c, "RejectMatch")
	if !ok {
		return
	}
	m, err := h.matches.Reject(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, "RejectMatch", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Cancel POST /api/matches/:id/cancel
func (h *MatchHandler) Cancel(c *gin.Context) {
	id, err := matchID(c)
	if err != nil {
		respondError(c, h.logger, "CancelMatch", err)
		return
	}
	if err := h.matches.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "CancelMatch", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Rollback 管理员回滚
// POST /api/matches/:id/rollback
func (h *MatchHandler) Rollback(c *gin.Context) {
	actor, id, ok := h.actorAndID(c, "RollbackMatch")
	if !ok {
		return
	}
	if err := h.matches.Rollback(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.logger, "RollbackMatch", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resolve 管理员裁定争议
// POST /api/matches/:id/resolve {"score_1":6,"score_2":3}
func (h *MatchHandler) Resolve(c *gin.Context) {
	actor, id, ok := h.actorAndID(c, "ResolveDispute")
	if !ok {
		return
	}
	var req scoreRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "ResolveDispute", err)
		return
	}
	m, err := h.matches.ResolveDispute(c.Request.Context(), actor, id, req.Score1, req.Score2)
	if err != nil {
		respondError(c, h.logger, "ResolveDispute", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MatchHandler) actorAndID(c *gin.Context, op string) (string, uint64, bool) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.logger, op, err)
		return "", 0, false
	}
	id, err := matchID(c)
	if err != nil {
		respondError(c, h.logger, op, err)
		return "", 0, false
	}
	return actor, id, true
}

func parseStatuses(raw string) ([]model.MatchStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []model.MatchStatus
	for _, part := range strings.Split(raw, ",") {
		s := model.MatchStatus(strings.ToUpper(strings.TrimSpace(part)))
		switch s {
		case model.StatusDraft, model.StatusPlaying, model.StatusScoring,
			model.StatusPending, model.StatusFinished, model.StatusDisputed:
			out = append(out, s)
		default:
			return nil, apperr.Validation("invalid_status", "未知比赛状态: "+part)
		}
	}
	return out, nil
}
