package wire

import (
	"SentimentTech/internal/api/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildApplication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := BuildApplication(config.Default())
	require.NoError(t, err)
	require.NotNil(t, app.Router)
	require.NoError(t, app.CronMgr.RegisterJobs())

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildApplicationRejectsUnknownPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Feed.TimestampPolicy = "ignore"
	_, err := BuildApplication(cfg)
	assert.Error(t, err)
}
