package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-relevance/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-relevance/internal/app"
	"github.com/fairyhunter13/resume-relevance/internal/config"
	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/usecase"
)

const resumeText = `Jane Doe
jane.doe@example.com

Skills
Python, Go, PostgreSQL, Docker

Experience
Software Engineer at Initech
2019 - Present
- Built Python services
`

const jobText = `Backend Engineer
Requirements
- Python and Go
- PostgreSQL
`

type fakeRepo struct {
	mu      sync.Mutex
	records map[string]domain.EvaluationRecord
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]domain.EvaluationRecord{}}
}

func (r *fakeRepo) Create(_ context.Context, rec domain.EvaluationRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec.ID = "eval-" + string(rune('0'+r.nextID))
	r.records[rec.ID] = rec
	return rec.ID, nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (domain.EvaluationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return domain.EvaluationRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (r *fakeRepo) List(_ context.Context, _, _ int) ([]domain.EvaluationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EvaluationRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

func testHandler(t *testing.T, repo domain.EvaluationRepository) http.Handler {
	t.Helper()
	cfg := config.Config{
		AppEnv:          "test",
		Port:            8080,
		MaxUploadMB:     2,
		RateLimitPerMin: 1000,
		EvaluateTimeout: 10 * time.Second,
		Weights:         domain.DefaultWeights(),
		Thresholds:      domain.DefaultThresholds(),
	}
	svc := usecase.NewEvaluateService(usecase.Options{Repo: repo})
	srv := httpserver.NewServer(cfg, svc, nil, nil)
	return app.BuildRouter(cfg, srv, nil)
}

func postJSON(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestEvaluateJSONSuccess(t *testing.T) {
	h := testHandler(t, newFakeRepo())

	rr := postJSON(t, h, map[string]any{"resume_text": resumeText, "job_text": jobText})
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.NotEmpty(t, out["id"])
	score := out["score"].(map[string]any)
	assert.Contains(t, score, "overall_score")
	assert.Contains(t, []any{"High", "Medium", "Low"}, score["suitability"])
	verdict := out["verdict"].(map[string]any)
	assert.NotEmpty(t, verdict["verdict"])
	assert.NotEmpty(t, verdict["action"])
}

func TestEvaluateJSONValidation(t *testing.T) {
	h := testHandler(t, nil)

	rr := postJSON(t, h, map[string]any{"resume_text": resumeText})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var out map[string]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "INVALID_ARGUMENT", out["error"]["code"])
	assert.Contains(t, out["error"]["message"], "jobtext")
}

func TestEvaluateRejectsNonJSONAccept(t *testing.T) {
	h := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", strings.NewReader("{}"))
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotAcceptable, rr.Code)
}

func TestEvaluateMultipart(t *testing.T) {
	h := testHandler(t, newFakeRepo())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(resumeText))
	fw, err = mw.CreateFormFile("job", "job.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(jobText))
	require.NoError(t, mw.WriteField("title", "Staff Engineer"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	job := out["job"].(map[string]any)
	assert.Equal(t, "Staff Engineer", job["title"])
}

func TestEvaluateMultipartMissingFile(t *testing.T) {
	h := testHandler(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(resumeText))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEvaluateUnsupportedUpload(t *testing.T) {
	h := testHandler(t, nil)

	// PNG magic bytes sniff to image/png, which no strategy accepts.
	rr := postImage(t, h)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	var out map[string]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "UNSUPPORTED_FORMAT", out["error"]["code"])
}

func postImage(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", "resume.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a})
	fw, err = mw.CreateFormFile("job", "job.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(jobText))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetNotFound(t *testing.T) {
	h := testHandler(t, newFakeRepo())

	req := httptest.NewRequest(http.MethodGet, "/v1/evaluations/missing", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var out map[string]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "NOT_FOUND", out["error"]["code"])
}

func TestGetAfterEvaluate(t *testing.T) {
	h := testHandler(t, newFakeRepo())

	rr := postJSON(t, h, map[string]any{"resume_text": resumeText, "job_text": jobText})
	require.Equal(t, http.StatusOK, rr.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	id := created["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/v1/evaluations/"+id, nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, id, got["id"])
}

func TestListEvaluations(t *testing.T) {
	h := testHandler(t, newFakeRepo())

	rr := postJSON(t, h, map[string]any{"resume_text": resumeText, "job_text": jobText})
	require.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/evaluations?limit=5", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out["evaluations"], 1)
	assert.Equal(t, float64(5), out["limit"])
}

func TestHealthAndReadiness(t *testing.T) {
	h := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	checks := out["checks"].(map[string]any)
	assert.Equal(t, "disabled", checks["postgres"])
	assert.Equal(t, "disabled", checks["redis"])
}

func TestRequestIDHeader(t *testing.T) {
	h := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "fixed-id", rr.Header().Get("X-Request-Id"))
}
