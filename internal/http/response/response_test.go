package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	return body
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	NotFound(c, "文章不存在")

	if w.Code != http.StatusOK {
		t.Fatalf("expected http 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status_code"].(float64) != CodeNotFound {
		t.Fatalf("unexpected status_code %v", body["status_code"])
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok || data["request_id"] != "req-1" {
		t.Fatalf("expected request_id in data, got %v", body["data"])
	}
}

func TestErrorWithoutRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorWithData(c, CodeBadRequest, "参数错误", gin.H{"field": "content"})

	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]interface{})
	if !ok || data["field"] != "content" {
		t.Fatalf("unexpected data %v", body["data"])
	}
	if _, exists := data["request_id"]; exists {
		t.Fatalf("request_id should be absent")
	}
}

func TestSuccessWithWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithWindow(c, []string{"a", "b"}, Window{Limit: 2, Offset: 4, Count: 2})

	body := decodeBody(t, w)
	window, ok := body["window"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing window: %v", body)
	}
	if window["limit"].(float64) != 2 || window["offset"].(float64) != 4 || window["count"].(float64) != 2 {
		t.Fatalf("unexpected window %v", window)
	}
}
