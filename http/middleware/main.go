package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-craft-catalog/http/controller"
)

type Middlewares struct {
	CORSMiddleware        gin.HandlerFunc
	TelemetryMiddleware   gin.HandlerFunc
	UploadLimitMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	telemetry := TelemetryMiddleware(ctrl.Infra.Logger)
	uploadLimit := UploadLimitMiddleware(ctrl.Infra.UploadService.MaxBytes())

	return &Middlewares{
		CORSMiddleware:        cors,
		TelemetryMiddleware:   telemetry,
		UploadLimitMiddleware: uploadLimit,
	}, nil
}
