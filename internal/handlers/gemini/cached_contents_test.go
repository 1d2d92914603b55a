package gemini

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"openai2gemini-go/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCaller struct {
	method string
	path   string
	body   []byte
	resp   []byte
	status int
	err    error
}

func (f *fakeCaller) RawCall(_ context.Context, method, path string, body []byte) ([]byte, int, error) {
	f.method = method
	f.path = path
	f.body = body
	if f.status == 0 {
		f.status = http.StatusOK
	}
	return f.resp, f.status, f.err
}

func perform(t *testing.T, h *Handler, method, target, name, body string, handle gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if name != "" {
		c.Params = gin.Params{{Key: "name", Value: name}}
	}
	handle(c)
	return w
}

func TestCreateCachedContentNormalizesModel(t *testing.T) {
	caller := &fakeCaller{resp: []byte(`{"name":"cachedContents/abc"}`)}
	h := newWithClient(&config.Config{}, caller)

	w := perform(t, h, "POST", "/v1beta/cachedContents", "",
		`{"model":"gemini-2.5-flash","contents":[]}`, h.CreateCachedContent)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.MethodPost, caller.method)
	assert.Equal(t, "/v1beta/cachedContents", caller.path)
	assert.Equal(t, "models/gemini-2.5-flash", gjson.GetBytes(caller.body, "model").String())
	assert.Equal(t, "cachedContents/abc", gjson.Get(w.Body.String(), "name").String())
}

func TestCreateCachedContentKeepsQualifiedModel(t *testing.T) {
	caller := &fakeCaller{resp: []byte(`{}`)}
	h := newWithClient(&config.Config{}, caller)

	perform(t, h, "POST", "/v1beta/cachedContents", "",
		`{"model":"models/gemini-2.5-pro"}`, h.CreateCachedContent)

	assert.Equal(t, "models/gemini-2.5-pro", gjson.GetBytes(caller.body, "model").String())
}

func TestDeleteCachedContent(t *testing.T) {
	caller := &fakeCaller{resp: []byte(`{}`)}
	h := newWithClient(&config.Config{}, caller)

	w := perform(t, h, "DELETE", "/v1beta/cachedContents/abc", "abc", "", h.DeleteCachedContent)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.MethodDelete, caller.method)
	assert.Equal(t, "/v1beta/cachedContents/abc", caller.path)
}

func TestForwardUpstreamErrorKeepsGeminiShape(t *testing.T) {
	caller := &fakeCaller{status: http.StatusNotFound, resp: []byte(`{"error":{"code":404,"message":"gone","status":"NOT_FOUND"}}`)}
	h := newWithClient(&config.Config{}, caller)

	w := perform(t, h, "GET", "/v1beta/cachedContents/abc", "abc", "", h.GetCachedContent)

	require.Equal(t, http.StatusNotFound, w.Code)
	body := w.Body.String()
	assert.Equal(t, int64(http.StatusNotFound), gjson.Get(body, "error.code").Int())
	assert.Equal(t, "NOT_FOUND", gjson.Get(body, "error.status").String())
}

func TestListCachedContentsForwardsQuery(t *testing.T) {
	caller := &fakeCaller{resp: []byte(`{"cachedContents":[]}`)}
	h := newWithClient(&config.Config{}, caller)

	perform(t, h, "GET", "/v1beta/cachedContents?pageSize=5", "", "", h.ListCachedContents)

	assert.Equal(t, "/v1beta/cachedContents?pageSize=5", caller.path)
}
