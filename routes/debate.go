package routes

import (
	"github.com/gin-gonic/gin"

	"contendo/controllers"
)

// SetupDebateRoutes registers the debate endpoints on an authenticated group.
func SetupDebateRoutes(router *gin.RouterGroup, dc *controllers.DebateController) {
	router.GET("/personas", dc.ListPersonas)
	router.GET("/usage", dc.GetUsage)

	debates := router.Group("/debates")
	{
		debates.POST("", dc.CreateDebate)
		debates.GET("", dc.ListDebates)
		debates.GET("/:id", dc.GetDebate)
		debates.POST("/:id/like", dc.LikeDebate)
	}
}
