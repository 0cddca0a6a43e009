package api

import (
	"net/http"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// QueueHandler 等待队列接口
type QueueHandler struct {
	queue  *service.QueueService
	logger *logrus.Logger
}

// NewQueueHandler 创建 QueueHandler
func NewQueueHandler(queue *service.QueueService, logger *logrus.Logger) *QueueHandler {
	return &QueueHandler{queue: queue, logger: logger}
}

type departureRequest struct {
	DepartureTime string `json:"departure_time"`
}

// List 当前队列（按优先级排序）
// GET /api/queue
func (h *QueueHandler) List(c *gin.Context) {
	snap, err := h.queue.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListQueue", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": snap, "count": len(snap)})
}

// Join 调用方入队，可带离场时间
// POST /api/queue {"departure_time":"21:30"}
func (h *QueueHandler) Join(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.logger, "JoinQueue", err)
		return
	}
	var req departureRequest
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &req); err != nil {
			respondError(c, h.logger, "JoinQueue", err)
			return
		}
	}
	entry, err := h.queue.Join(c.Request.Context(), actor, req.DepartureTime)
	if err != nil {
		respondError(c, h.logger, "JoinQueue", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UpdateDeparture 修改离场时间
// PATCH /api/queue/me {"departure_time":"22:00"}
func (h *QueueHandler) UpdateDeparture(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.logger, "UpdateDeparture", err)
		return
	}
	var req departureRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "UpdateDeparture", err)
		return
	}
	entry, err := h.queue.UpdateDeparture(c.Request.Context(), actor, req.DepartureTime)
	if err != nil {
		respondError(c, h.logger, "UpdateDeparture", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Leave 调用方离队
// DELETE /api/queue/me
func (h *QueueHandler) Leave(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.logger, "LeaveQueue", err)
		return
	}
	if err := h.queue.Leave(c.Request.Context(), actor); err != nil {
		respondError(c, h.logger, "LeaveQueue", err)
		return
	}
	c.Status(http.StatusNoContent)
}
