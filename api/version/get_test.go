package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		version        string
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name:           "default version",
			version:        "1.0.0",
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"name":    "TranscriptFlow API",
				"version": "1.0.0",
				"status":  "running",
			},
		},
		{
			name:           "stamped version",
			version:        "2.3.1-rc1",
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"version": "2.3.1-rc1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := Version
			Version = tt.version
			defer func() { Version = previous }()

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Get()(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			for key, expectedValue := range tt.expectedBody {
				assert.Equal(t, expectedValue, response[key], "Key: %s", key)
			}
			assert.NotEmpty(t, response["description"])
		})
	}
}
