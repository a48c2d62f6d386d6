package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	return c, w
}

func TestSuccess_Envelope(t *testing.T) {
	c, w := newContext()
	Write(c, Success(c, http.StatusCreated, map[string]string{"email": "a@b.com"}, "created", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, CodeSuccess, body["code"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, float64(http.StatusCreated), body["status"])
	assert.Equal(t, "a@b.com", body["data"].(map[string]any)["email"])
	assert.NotContains(t, body, "error")
}

func TestSuccess_DefaultsTo200(t *testing.T) {
	c, _ := newContext()
	assert.Equal(t, http.StatusOK, Success(c, 0, "x", "", nil).Status)
}

func TestError_Envelope(t *testing.T) {
	c, w := newContext()
	Abort(c, Error[any](c, 0, "USER_001", "email is required", gin.H{"reason": "EMAIL_REQUIRED"}))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "USER_001", body["code"])
	assert.Equal(t, "email is required", body["message"])
	assert.Equal(t, "EMAIL_REQUIRED", body["error"].(map[string]any)["reason"])
	assert.NotContains(t, body, "data")
}
