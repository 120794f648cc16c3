package api

import (
	"github.com/gin-gonic/gin"
)

// Register mounts /health and the /api/v1 routes.
func Register(r gin.IRouter, h *Handler) {
	r.GET("/health", h.GetHealth)

	v1 := r.Group("/api/v1")
	v1.POST("/auth", h.ObtainToken)
	v1.GET("/schema", h.GetSchema)

	private := v1.Group("", h.RequireToken())
	private.GET("/feed.xml", h.GetFeed)

	categories := private.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", h.CreateCategory)
	categories.GET("/:id", h.GetCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.PATCH("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)

	periods := private.Group("/periods", deprecated)
	periods.GET("", h.ListPeriods)
	periods.POST("", h.CreatePeriod)
	periods.GET("/:id", h.GetPeriod)
	periods.PUT("/:id", h.UpdatePeriod)
	periods.PATCH("/:id", h.UpdatePeriod)
	periods.DELETE("/:id", h.DeletePeriod)

	answers := private.Group("/answers")
	answers.GET("", h.ListAnswers)
	answers.POST("", h.CreateAnswer)
	answers.GET("/:id", h.GetAnswer)
	answers.PUT("/:id", h.UpdateAnswer)
	answers.PATCH("/:id", h.UpdateAnswer)
	answers.DELETE("/:id", h.DeleteAnswer)
}
