package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/resume-relevance/internal/config"
	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Evaluate   *usecase.EvaluateService
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, eval *usecase.EvaluateService, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Evaluate: eval, DBCheck: dbCheck, RedisCheck: redisCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type evaluateRequest struct {
	ResumeText string             `json:"resume_text" validate:"required,max=200000"`
	JobText    string             `json:"job_text" validate:"required,max=100000"`
	Metadata   domain.JobMetadata `json:"metadata"`
}

type evaluateResponse struct {
	ID       string                      `json:"id,omitempty"`
	Resume   domain.ParsedResume         `json:"resume"`
	Job      domain.ParsedJobDescription `json:"job"`
	Match    domain.SemanticMatchResult  `json:"match"`
	Score    domain.FinalScore           `json:"score"`
	Verdict  domain.VerdictDetails       `json:"verdict"`
	Feedback domain.Feedback             `json:"feedback"`
}

func toResponse(rec domain.EvaluationRecord) evaluateResponse {
	return evaluateResponse{
		ID:       rec.ID,
		Resume:   rec.Resume,
		Job:      rec.Job,
		Match:    rec.Match,
		Score:    rec.Score,
		Verdict:  rec.Score.VerdictDetails(),
		Feedback: rec.Feedback,
	}
}

// EvaluateHandler runs one evaluation. It accepts either a JSON body with
// plain-text documents or multipart/form-data with resume and job files.
func (s *Server) EvaluateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
			writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a}}})
			return
		}
		maxBytes := int64(s.Cfg.MaxUploadMB) * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes*2)

		var in usecase.EvaluateInput
		var err error
		switch {
		case strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data"):
			in, err = s.parseMultipart(w, r, maxBytes)
		default:
			in, err = parseJSONBody(r)
		}
		if err != nil {
			if !errors.Is(err, errHandled) {
				writeError(w, r, err, nil)
			}
			return
		}

		rec, err := s.Evaluate.Evaluate(r.Context(), in)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(rec))
	}
}

func parseJSONBody(r *http.Request) (usecase.EvaluateInput, error) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return usecase.EvaluateInput{}, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument)
	}
	if err := getValidator().Struct(req); err != nil {
		verrs := map[string]string{}
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				verrs[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return usecase.EvaluateInput{}, fmt.Errorf("%w: validation failed: %v", domain.ErrInvalidArgument, verrs)
	}
	return usecase.EvaluateInput{
		ResumeData: []byte(req.ResumeText),
		ResumeMime: "text/plain",
		JobData:    []byte(req.JobText),
		JobMime:    "text/plain",
		Metadata:   req.Metadata,
	}, nil
}

func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) (usecase.EvaluateInput, error) {
	if err := r.ParseMultipartForm(maxBytes * 2); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "payload too large", Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB}}})
			return usecase.EvaluateInput{}, errHandled
		}
		return usecase.EvaluateInput{}, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	resumeData, resumeMime, err := readPart(r, "resume", maxBytes)
	if err != nil {
		return usecase.EvaluateInput{}, err
	}
	jobData, jobMime, err := readPart(r, "job", maxBytes)
	if err != nil {
		return usecase.EvaluateInput{}, err
	}
	return usecase.EvaluateInput{
		ResumeData: resumeData,
		ResumeMime: resumeMime,
		JobData:    jobData,
		JobMime:    jobMime,
		Metadata: domain.JobMetadata{
			Title:              r.FormValue("title"),
			Company:            r.FormValue("company"),
			Location:           r.FormValue("location"),
			Department:         r.FormValue("department"),
			JobType:            r.FormValue("job_type"),
			ExperienceRequired: r.FormValue("experience_required"),
			SalaryRange:        r.FormValue("salary_range"),
		},
	}, nil
}

func readPart(r *http.Request, field string, maxBytes int64) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s file required", domain.ErrInvalidArgument, field)
	}
	defer func() { _ = file.Close() }()
	if header.Size > maxBytes {
		return nil, "", fmt.Errorf("%w: %s exceeds upload limit", domain.ErrInvalidArgument, field)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s read: %v", domain.ErrInvalidArgument, field, err)
	}
	return data, partMime(header), nil
}

// partMime returns the declared content type, leaving sniffing to the
// extraction stage when the client did not declare one.
func partMime(h *multipart.FileHeader) string {
	ct := h.Header.Get("Content-Type")
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}

// errHandled marks errors whose response was already written.
var errHandled = errors.New("handled")

// GetHandler returns one stored evaluation.
func (s *Server) GetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id missing", domain.ErrInvalidArgument), nil)
			return
		}
		rec, err := s.Evaluate.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(rec))
	}
}

// ListHandler pages stored evaluations, newest first.
func (s *Server) ListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20)
		offset := queryInt(r, "offset", 0)
		recs, err := s.Evaluate.List(r.Context(), limit, offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := make([]evaluateResponse, 0, len(recs))
		for _, rec := range recs {
			out = append(out, toResponse(rec))
		}
		writeJSON(w, http.StatusOK, map[string]any{"evaluations": out, "limit": limit, "offset": offset})
	}
}

// ReadyzHandler reports readiness of the backing stores.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]func(context.Context) error{
			"postgres": s.DBCheck,
			"redis":    s.RedisCheck,
		}
		status := http.StatusOK
		detail := map[string]string{}
		for name, check := range checks {
			if check == nil {
				detail[name] = "disabled"
				continue
			}
			if err := check(r.Context()); err != nil {
				detail[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			detail[name] = "ok"
		}
		writeJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": detail})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
