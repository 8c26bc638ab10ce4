package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/match-explainer/internal/api"
	"github.com/stitts-dev/match-explainer/internal/api/middleware"
	"github.com/stitts-dev/match-explainer/internal/services"
	"github.com/stitts-dev/match-explainer/internal/store"
)

func newRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	fileStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(logger), middleware.Recovery(logger))

	err = api.SetupRoutes(router, api.Dependencies{
		Explanations: services.NewExplanationService(nil, services.ExplanationOptions{Models: []string{"m"}}, logger),
		Charts:       services.NewChartRenderer(logger),
		Predictions:  services.NewPredictionService(fileStore, logger),
		Store:        fileStore,
		HistoryLimit: 10,
	})
	require.NoError(t, err)
	return router
}

func TestSetupRoutes_Index(t *testing.T) {
	router := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<title>Match Prediction Explainer</title>")
	assert.Contains(t, w.Body.String(), "/static/app.js")
}

func TestSetupRoutes_StaticAssets(t *testing.T) {
	router := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/get_explanation")
}

func TestSetupRoutes_NotFound(t *testing.T) {
	router := newRouter(t)

	for _, path := range []string{"/nope", "/api/v1/anything"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "route not found"}`, w.Body.String())
	}
}

func TestSetupRoutes_Metrics(t *testing.T) {
	router := newRouter(t)

	// generate at least one labeled sample
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "match_explainer_http_requests_total")
}
