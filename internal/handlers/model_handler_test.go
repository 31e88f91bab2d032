package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htm-project/htm-core/internal/domain/htm"
	"github.com/htm-project/htm-core/internal/services"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	handler := NewModelHandler(services.NewModelService(nil))
	engine.POST("/models", handler.CreateModel)
	engine.GET("/models", handler.ListModels)
	engine.GET("/models/:id", handler.GetModel)
	engine.DELETE("/models/:id", handler.DeleteModel)
	engine.POST("/models/:id/compute", handler.Compute)
	engine.POST("/models/:id/reset", handler.Reset)
	engine.GET("/models/:id/metrics", handler.Metrics)
	return engine
}

func testModelConfig() *htm.ModelConfig {
	sp := htm.DefaultSpatialPoolerConfig([]int{10}, []int{100})
	sp.PotentialRadius = 3
	sp.GlobalInhibition = true
	sp.NumActiveColumnsPerInhArea = 2
	sp.CompatibilityMode = true
	return &htm.ModelConfig{Name: "api-test", SpatialPooler: sp}
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)
	return recorder
}

func TestCreateComputeDeleteFlow(t *testing.T) {
	engine := newTestRouter()

	created := doJSON(t, engine, http.MethodPost, "/models", testModelConfig())
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	var info htm.ModelInfo
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &info))
	require.NotEmpty(t, info.ID)

	compute := doJSON(t, engine, http.MethodPost, "/models/"+info.ID+"/compute", &htm.ComputeRequest{
		ActiveBits: []int{3},
		Learn:      true,
	})
	require.Equal(t, http.StatusOK, compute.Code, compute.Body.String())

	var response htm.ComputeResponse
	require.NoError(t, json.Unmarshal(compute.Body.Bytes(), &response))
	assert.Equal(t, info.ID, response.ModelID)
	assert.NotEmpty(t, response.WinnerColumns)

	metrics := doJSON(t, engine, http.MethodGet, "/models/"+info.ID+"/metrics", nil)
	require.Equal(t, http.StatusOK, metrics.Code)

	reset := doJSON(t, engine, http.MethodPost, "/models/"+info.ID+"/reset", nil)
	require.Equal(t, http.StatusNoContent, reset.Code)

	deleted := doJSON(t, engine, http.MethodDelete, "/models/"+info.ID, nil)
	require.Equal(t, http.StatusNoContent, deleted.Code)

	missing := doJSON(t, engine, http.MethodGet, "/models/"+info.ID, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestCreateModelBadConfig(t *testing.T) {
	engine := newTestRouter()

	config := testModelConfig()
	config.SpatialPooler.NumActiveColumnsPerInhArea = 0
	config.SpatialPooler.LocalAreaDensity = 0

	recorder := doJSON(t, engine, http.MethodPost, "/models", config)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var domainErr htm.Error
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &domainErr))
	assert.Equal(t, htm.ErrorInvalidInhibition, domainErr.Type)
}

func TestCreateModelMalformedJSON(t *testing.T) {
	engine := newTestRouter()
	request := httptest.NewRequest(http.MethodPost, "/models", bytes.NewReader([]byte("{not json")))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestComputeUnknownModel(t *testing.T) {
	engine := newTestRouter()
	recorder := doJSON(t, engine, http.MethodPost, "/models/8a6e0804-2bd0-4672-b79d-d97027f9071a/compute",
		&htm.ComputeRequest{ActiveBits: []int{1}})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListModels(t *testing.T) {
	engine := newTestRouter()
	doJSON(t, engine, http.MethodPost, "/models", testModelConfig())
	doJSON(t, engine, http.MethodPost, "/models", testModelConfig())

	recorder := doJSON(t, engine, http.MethodGet, "/models", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Models []htm.ModelInfo `json:"models"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Models, 2)
}
