package api

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册全部 /api 路由
func RegisterRoutes(r gin.IRouter, queue *QueueHandler, matches *MatchHandler, profiles *ProfileHandler) {
	g := r.Group("/api")

	g.POST("/profiles", profiles.Register)
	g.GET("/profiles/:id", profiles.Get)
	g.GET("/profiles/:id/history", profiles.History)
	g.GET("/rankings", profiles.Rankings)

	g.DELETE("/admin/guests", profiles.PurgeGuests)
	g.DELETE("/admin/queue", profiles.ResetQueue)

	g.GET("/queue", queue.List)
	g.POST("/queue", queue.Join)
	g.PATCH("/queue/me", queue.UpdateDeparture)
	g.DELETE("/queue/me", queue.Leave)

	g.GET("/courts", matches.Courts)
	g.POST("/courts/:court/auto-match", matches.AutoMatch)
	g.POST("/courts/:court/matches", matches.ManualMatch)

	g.GET("/matches", matches.List)
	g.GET("/matches/:id", matches.Get)
	g.POST("/matches/:id/start", matches.Start)
	g.POST("/matches/:id/end", matches.End)
	g.POST("/matches/:id/report", matches.Report)
	g.POST("/matches/:id/confirm", matches.Confirm)
	g.POST("/matches/:id/reject", matches.Reject)
	g.POST("/matches/:id/cancel", matches.Cancel)
	g.POST("/matches/:id/rollback", matches.Rollback)
	g.POST("/matches/:id/resolve", matches.Resolve)
}
