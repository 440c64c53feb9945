package trivia

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(completer *stubCompleter) *HTTPHandlers {
	return NewHTTPHandlers(newTestService(completer), zerolog.New(io.Discard))
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestBulkEndpoint(t *testing.T) {
	completer := &stubCompleter{questionResp: validResponse(), namerResp: "Nice"}
	h := newTestHandlers(completer)

	rec := postJSON(t, h.Bulk, "/v1/questions/bulk", BulkRequest{
		Categories: []BulkCategory{
			{Name: "Wine", Expert: "Ana", Round: 1},
			{Name: "Cheese", Expert: "Ben", Round: 1},
		},
		Players: []string{"Ana", "Ben"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp BulkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.QuestionsByCategory, 2)
	assert.Equal(t, 2*len(Tiers), resp.TotalQuestions)
}

func TestBulkEndpointRejectsEmptyCategories(t *testing.T) {
	h := newTestHandlers(&stubCompleter{})

	rec := postJSON(t, h.Bulk, "/v1/questions/bulk", BulkRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkEndpointRejectsUnnamedCategory(t *testing.T) {
	h := newTestHandlers(&stubCompleter{})

	rec := postJSON(t, h.Bulk, "/v1/questions/bulk", BulkRequest{
		Categories: []BulkCategory{{Name: ""}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkEndpointRejectsInvalidJSON(t *testing.T) {
	h := newTestHandlers(&stubCompleter{})

	req := httptest.NewRequest(http.MethodPost, "/v1/questions/bulk", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	h.Bulk(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkEndpointMethodNotAllowed(t *testing.T) {
	h := newTestHandlers(&stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/v1/questions/bulk", nil)
	rec := httptest.NewRecorder()
	h.Bulk(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSingleEndpoint(t *testing.T) {
	completer := &stubCompleter{questionResp: validResponse(), namerResp: "Nice"}
	h := newTestHandlers(completer)

	rec := postJSON(t, h.Single, "/v1/questions/single", SingleRequest{
		Category:   "Wine",
		ExpertName: "Ana",
		Round:      2,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SingleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Questions, len(Tiers))
	assert.Equal(t, 2, resp.Round)
}

func TestSingleEndpointRequiresCategory(t *testing.T) {
	h := newTestHandlers(&stubCompleter{})

	rec := postJSON(t, h.Single, "/v1/questions/single", SingleRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
