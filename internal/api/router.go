package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stitts-dev/match-explainer/internal/api/handlers"
	"github.com/stitts-dev/match-explainer/internal/services"
	"github.com/stitts-dev/match-explainer/internal/store"
	"github.com/stitts-dev/match-explainer/pkg/utils"
	"github.com/stitts-dev/match-explainer/web"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Explanations *services.ExplanationService
	Charts       *services.ChartRenderer
	Predictions  *services.PredictionService
	Store        store.Store
	HistoryLimit int
}

// SetupRoutes configures all routes on the given engine
func SetupRoutes(router *gin.Engine, deps Dependencies) error {
	templates, err := web.Templates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(templates)

	pageHandler := handlers.NewPageHandler()
	explanationHandler := handlers.NewExplanationHandler(deps.Explanations)
	chartHandler := handlers.NewChartHandler(deps.Charts)
	predictionHandler := handlers.NewPredictionHandler(deps.Predictions, deps.HistoryLimit)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	// Frontend
	router.GET("/", pageHandler.Index)
	router.StaticFS("/static", http.FS(web.Static()))

	// Prediction endpoints
	router.POST("/get_explanation", explanationHandler.GetExplanation)
	router.POST("/generate_chart", chartHandler.GenerateChart)
	router.POST("/save_prediction", predictionHandler.SavePrediction)
	router.GET("/get_historical", predictionHandler.GetHistorical)

	// Operations
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		utils.SendNotFound(c, utils.MsgRouteNotFound)
	})

	return nil
}
