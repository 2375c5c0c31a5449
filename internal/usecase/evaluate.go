// Package usecase orchestrates the evaluation pipeline: extraction,
// structuring, skill extraction, matching, scoring and feedback, wrapped
// with caching, persistence and a wall-clock budget.
package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/observability"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/extract"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/feedback"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/job"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/match"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/resume"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/score"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/skills"
)

const defaultTimeout = 30 * time.Second

// EvaluateInput carries one evaluation request.
type EvaluateInput struct {
	ResumeData []byte
	ResumeMime string
	JobData    []byte
	JobMime    string
	Metadata   domain.JobMetadata
}

// EvaluateService runs the full pipeline for one (resume, job) pair.
type EvaluateService struct {
	extractor *extract.Extractor
	resumes   *resume.Structurer
	jobs      *job.Structurer
	skills    *skills.Extractor
	matcher   *match.Matcher
	engine    *score.Engine
	feedback  *feedback.Generator

	repo    domain.EvaluationRepository
	cache   domain.ResultCache
	metrics *observability.Metrics
	pool    *Pool

	weights  domain.ScoringWeights
	timeout  time.Duration
	cacheTTL time.Duration
}

// Options configure the optional service collaborators.
type Options struct {
	NLP       domain.NLPBackend
	Embedding domain.EmbeddingBackend
	LLM       domain.LLMBackend

	Repo    domain.EvaluationRepository
	Cache   domain.ResultCache
	Metrics *observability.Metrics

	Weights    domain.ScoringWeights
	Thresholds domain.Thresholds
	Workers    int
	Timeout    time.Duration
	CacheTTL   time.Duration
}

// NewEvaluateService wires the pipeline stages around a shared dictionary.
func NewEvaluateService(opts Options) *EvaluateService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Weights == (domain.ScoringWeights{}) {
		opts.Weights = domain.DefaultWeights()
	}
	if opts.Thresholds == (domain.Thresholds{}) {
		opts.Thresholds = domain.DefaultThresholds()
	}
	dict := skills.NewDictionary()
	return &EvaluateService{
		extractor: extract.New(),
		resumes:   resume.NewStructurer(dict),
		jobs:      job.NewStructurer(dict),
		skills:    skills.NewExtractor(dict, opts.NLP),
		matcher:   match.NewMatcher(opts.Embedding),
		engine:    score.NewEngine(opts.Weights, opts.Thresholds, dict),
		feedback:  feedback.NewGenerator(opts.LLM),
		repo:      opts.Repo,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		pool:      NewPool(opts.Workers),
		weights:   opts.Weights,
		timeout:   opts.Timeout,
		cacheTTL:  opts.CacheTTL,
	}
}

// Evaluate runs the pipeline under the wall-clock budget. Identical inputs
// are served from cache.
func (s *EvaluateService) Evaluate(ctx context.Context, in EvaluateInput) (domain.EvaluationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.pool.Acquire(ctx); err != nil {
		return domain.EvaluationRecord{}, err
	}
	defer s.pool.Release()

	lg := observability.LoggerFromContext(ctx)
	started := time.Now()

	key := s.cacheKey(in)
	if s.cache != nil {
		if rec, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			s.countCache("hit")
			lg.Info("evaluation served from cache", "id", rec.ID)
			return rec, nil
		}
		s.countCache("miss")
	}

	resumeDoc, err := s.stageExtract("extract_resume", in.ResumeData, in.ResumeMime)
	if err != nil {
		return domain.EvaluationRecord{}, err
	}
	jobDoc, err := s.stageExtract("extract_job", in.JobData, in.JobMime)
	if err != nil {
		return domain.EvaluationRecord{}, err
	}

	parsedResume := s.stageResume(resumeDoc)
	parsedJob := s.stageJob(jobDoc, in.Metadata)
	parsedResume.Skills = s.stageSkills(resumeDoc.Text)

	matchResult := s.stageMatch(ctx, parsedResume.Skills, parsedJob, resumeDoc.Text, jobDoc.Text)

	finalScore, err := s.stageScore(parsedResume, matchResult, parsedJob)
	if err != nil {
		return domain.EvaluationRecord{}, err
	}
	fb := s.stageFeedback(ctx, parsedResume, finalScore, matchResult, parsedJob)

	rec := domain.EvaluationRecord{
		ResumeHash: hashOf(in.ResumeData),
		JobHash:    hashOf(in.JobData),
		Resume:     parsedResume,
		Job:        parsedJob,
		Match:      matchResult,
		Score:      finalScore,
		Feedback:   fb,
		CreatedAt:  time.Now().UTC(),
	}
	if s.repo != nil {
		id, err := s.repo.Create(ctx, rec)
		if err != nil {
			return domain.EvaluationRecord{}, err
		}
		rec.ID = id
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rec, s.cacheTTL); err != nil {
			lg.Warn("result cache store failed", "error", err)
		}
	}
	if s.metrics != nil {
		s.metrics.EvaluationsTotal.WithLabelValues(rec.Score.Suitability).Inc()
		s.metrics.EvaluationDuration.Observe(time.Since(started).Seconds())
	}
	lg.Info("evaluation completed",
		"id", rec.ID,
		"overall", float64(rec.Score.OverallScore),
		"suitability", rec.Score.Suitability,
		"elapsed", time.Since(started).String())
	return rec, nil
}

// Get loads a stored evaluation.
func (s *EvaluateService) Get(ctx context.Context, id string) (domain.EvaluationRecord, error) {
	if s.repo == nil {
		return domain.EvaluationRecord{}, domain.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// List pages stored evaluations, newest first.
func (s *EvaluateService) List(ctx context.Context, limit, offset int) ([]domain.EvaluationRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *EvaluateService) stageExtract(stage string, data []byte, mime string) (domain.Document, error) {
	defer s.observe(stage)()
	return s.extractor.Extract(data, mime)
}

func (s *EvaluateService) stageResume(doc domain.Document) domain.ParsedResume {
	defer s.observe("structure_resume")()
	return s.resumes.Structure(doc.Text, doc.Confidence)
}

func (s *EvaluateService) stageJob(doc domain.Document, meta domain.JobMetadata) domain.ParsedJobDescription {
	defer s.observe("structure_job")()
	return s.jobs.Structure(doc.Text, meta)
}

func (s *EvaluateService) stageSkills(text string) domain.SkillProfile {
	defer s.observe("extract_skills")()
	return s.skills.Extract(text)
}

func (s *EvaluateService) stageMatch(ctx context.Context, profile domain.SkillProfile, jd domain.ParsedJobDescription, resumeText, jdText string) domain.SemanticMatchResult {
	defer s.observe("match")()
	return s.matcher.Match(ctx, profile, jd, resumeText, jdText)
}

func (s *EvaluateService) stageScore(parsedResume domain.ParsedResume, matchResult domain.SemanticMatchResult, parsedJob domain.ParsedJobDescription) (domain.FinalScore, error) {
	defer s.observe("score")()
	return s.engine.Score(parsedResume, parsedResume.Skills, matchResult, parsedJob)
}

func (s *EvaluateService) stageFeedback(ctx context.Context, parsedResume domain.ParsedResume, finalScore domain.FinalScore, matchResult domain.SemanticMatchResult, parsedJob domain.ParsedJobDescription) domain.Feedback {
	defer s.observe("feedback")()
	return s.feedback.Generate(ctx, parsedResume, finalScore, matchResult, parsedJob)
}

func (s *EvaluateService) observe(stage string) func() {
	if s.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() { s.metrics.ObserveStage(stage, time.Since(start)) }
}

func (s *EvaluateService) countCache(outcome string) {
	if s.metrics != nil {
		s.metrics.CacheHitsTotal.WithLabelValues(outcome).Inc()
	}
}

// cacheKey hashes both documents plus the active weights, so a weights
// change never serves a stale verdict.
func (s *EvaluateService) cacheKey(in EvaluateInput) string {
	h := sha256.New()
	h.Write(in.ResumeData)
	h.Write([]byte{0})
	h.Write(in.JobData)
	h.Write([]byte{0})
	w, _ := json.Marshal(s.weights)
	h.Write(w)
	return hex.EncodeToString(h.Sum(nil))
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
