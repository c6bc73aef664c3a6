package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-craft-catalog/http/controller"
	middlewares "github.com/tnqbao/gau-craft-catalog/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.New()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(gin.Recovery(), middles.TelemetryMiddleware, middles.CORSMiddleware)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/images/:name", ctrl.GetImage)

	apiRoutes := r.Group("/api")
	{
		apiRoutes.GET("/crafts", ctrl.ListCrafts)
		apiRoutes.PUT("/crafts/:name", middles.UploadLimitMiddleware, ctrl.UpdateCraft)
		apiRoutes.DELETE("/crafts/:name", ctrl.DeleteCraft)
		apiRoutes.POST("/addItem", middles.UploadLimitMiddleware, ctrl.AddCraft)
		apiRoutes.POST("/uploadImage", middles.UploadLimitMiddleware, ctrl.UploadImage)
	}

	// Static gallery page
	if publicDir := ctrl.Config.EnvConfig.HTTP.PublicDir; publicDir != "" {
		fileServer := http.FileServer(http.Dir(publicDir))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.Status(http.StatusNotFound)
				return
			}
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
	}

	return r
}
