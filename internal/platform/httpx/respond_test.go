package httpx

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProblemUsesProblemMediaType(t *testing.T) {
	rec := httptest.NewRecorder()

	Problem(rec, 404, "Not Found", "no such product")

	require.Equal(t, 404, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Not Found", body.Title)
	require.Equal(t, 404, body.Status)
	require.Equal(t, "no such product", body.Detail)
}

func TestJSONUsesPlainMediaType(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, 201, map[string]string{"id": "p-1"})

	require.Equal(t, 201, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestDecodeJSONCapsBodySize(t *testing.T) {
	oversized := `{"name":"` + strings.Repeat("x", 1<<20) + `"}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(oversized))

	var target struct {
		Name string `json:"name"`
	}
	require.Error(t, DecodeJSON(req, &target))
}
