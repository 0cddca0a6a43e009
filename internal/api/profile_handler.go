package api

import (
	"net/http"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProfileHandler 球员档案、排行榜与管理端接口
type ProfileHandler struct {
	profiles *service.ProfileService
	queue    *service.QueueService
	logger   *logrus.Logger
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profiles *service.ProfileService, queue *service.QueueService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, queue: queue, logger: logger}
}

// Register POST /api/profiles
func (h *ProfileHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "RegisterProfile", err)
		return
	}
	p, err := h.profiles.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "RegisterProfile", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get GET /api/profiles/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "GetProfile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// History GET /api/profiles/:id/history?limit=50
func (h *ProfileHandler) History(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		respondError(c, h.logger, "RatingHistory", err)
		return
	}
	list, err := h.profiles.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, h.logger, "RatingHistory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": list})
}

// Rankings GET /api/rankings?category=MIXED&guest=true&limit=20
func (h *ProfileHandler) Rankings(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		respondError(c, h.logger, "Rankings", err)
		return
	}
	category := c.DefaultQuery("category", "MIXED")
	list, err := h.profiles.Rankings(c.Request.Context(), category, c.Query("guest") == "true", limit)
	if err != nil {
		respondError(c, h.logger, "Rankings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "players": list})
}

// PurgeGuests DELETE /api/admin/guests
func (h *ProfileHandler) PurgeGuests(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.logger, "PurgeGuests", err)
		return
	}
	n, err := h.profiles.PurgeGuests(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, "PurgeGuests", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

// ResetQueue DELETE /api/admin/queue
func (h *ProfileHandler) ResetQueue(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.logger, "ResetQueue", err)
		return
	}
	if err := h.profiles.RequireAdmin(c.Request.Context(), actor); err != nil {
		respondError(c, h.logger, "ResetQueue", err)
		return
	}
	n, err := h.queue.Reset(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ResetQueue", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
