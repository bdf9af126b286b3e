//go:build integration
// +build integration

package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newHealthHandlerForTest(t *testing.T) HealthHandler {
	t.Helper()

	dbContext := persistence.SetupTestDB(t, config.SqliteDbType)
	log := testutil.SetupTestLogger(t)

	cfg := &config.RestConfig{
		Server: config.ServerSettings{
			Port:        "8000",
			Environment: config.EnvironmentDev,
			FrontendURL: "https://agentic-dentist.vercel.app",
		},
		LLM: config.LLMSettings{
			Provider:     "openai",
			BaseURL:      "https://api.openai.com/v1",
			APIKey:       "test-key",
			PrimaryModel: "gpt-4o",
			FastModel:    "gpt-4o-mini",
			Temperature:  0.1,
			MaxTokens:    2000,
		},
	}

	return NewHealthHandler(dbContext.DB, cfg, log)
}

func TestHealthHandler_Health(t *testing.T) {
	handler := newHealthHandlerForTest(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "healthy", response.Status)
	assert.True(t, response.DatabaseConnected)
	assert.Equal(t, "dev", response.Environment)
	assert.Equal(t, "gpt-4o", response.LLMModelPrimary)
	assert.Equal(t, "gpt-4o-mini", response.LLMModelFast)
	assert.Len(t, response.Agents, 4)
}

func TestHealthHandler_Root(t *testing.T) {
	handler := newHealthHandlerForTest(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Root(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response RootResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Agentic Dentist API", response.Name)
	assert.Equal(t, "running", response.Status)
	assert.Contains(t, response.Agents, "concierge")
}
