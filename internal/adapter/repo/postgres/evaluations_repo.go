package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

// EvaluationsRepo implements domain.EvaluationRepository.
type EvaluationsRepo struct {
	pool PgxPool
}

// NewEvaluationsRepo builds the repository over a pool.
func NewEvaluationsRepo(pool PgxPool) *EvaluationsRepo {
	return &EvaluationsRepo{pool: pool}
}

// Create inserts a record, assigning a ULID and timestamp when unset.
func (r *EvaluationsRepo) Create(ctx context.Context, rec domain.EvaluationRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	resume, err := json.Marshal(rec.Resume)
	if err != nil {
		return "", fmt.Errorf("op=repo.create: encode resume: %w", err)
	}
	job, err := json.Marshal(rec.Job)
	if err != nil {
		return "", fmt.Errorf("op=repo.create: encode job: %w", err)
	}
	match, err := json.Marshal(rec.Match)
	if err != nil {
		return "", fmt.Errorf("op=repo.create: encode match: %w", err)
	}
	score, err := json.Marshal(rec.Score)
	if err != nil {
		return "", fmt.Errorf("op=repo.create: encode score: %w", err)
	}
	feedback, err := json.Marshal(rec.Feedback)
	if err != nil {
		return "", fmt.Errorf("op=repo.create: encode feedback: %w", err)
	}

	const q = `INSERT INTO evaluations (id, resume_hash, job_hash, resume, job, match, score, feedback, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.pool.Exec(ctx, q, rec.ID, rec.ResumeHash, rec.JobHash, resume, job, match, score, feedback, rec.CreatedAt); err != nil {
		return "", fmt.Errorf("op=repo.create: %w", err)
	}
	return rec.ID, nil
}

// Get loads one record by id.
func (r *EvaluationsRepo) Get(ctx context.Context, id string) (domain.EvaluationRecord, error) {
	const q = `SELECT id, resume_hash, job_hash, resume, job, match, score, feedback, created_at
FROM evaluations WHERE id = $1`
	rec, err := scanRecord(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.EvaluationRecord{}, fmt.Errorf("op=repo.get: id=%s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.EvaluationRecord{}, fmt.Errorf("op=repo.get: %w", err)
	}
	return rec, nil
}

// List returns records newest first.
func (r *EvaluationsRepo) List(ctx context.Context, limit, offset int) ([]domain.EvaluationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT id, resume_hash, job_hash, resume, job, match, score, feedback, created_at
FROM evaluations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("op=repo.list: %w", err)
	}
	defer rows.Close()

	var out []domain.EvaluationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("op=repo.list: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=repo.list: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (domain.EvaluationRecord, error) {
	var (
		rec                                     domain.EvaluationRecord
		resume, job, match, score, feedbackData []byte
	)
	if err := row.Scan(&rec.ID, &rec.ResumeHash, &rec.JobHash, &resume, &job, &match, &score, &feedbackData, &rec.CreatedAt); err != nil {
		return domain.EvaluationRecord{}, err
	}
	if err := json.Unmarshal(resume, &rec.Resume); err != nil {
		return domain.EvaluationRecord{}, fmt.Errorf("decode resume: %w", err)
	}
	if err := json.Unmarshal(job, &rec.Job); err != nil {
		return domain.EvaluationRecord{}, fmt.Errorf("decode job: %w", err)
	}
	if err := json.Unmarshal(match, &rec.Match); err != nil {
		return domain.EvaluationRecord{}, fmt.Errorf("decode match: %w", err)
	}
	if err := json.Unmarshal(score, &rec.Score); err != nil {
		return domain.EvaluationRecord{}, fmt.Errorf("decode score: %w", err)
	}
	if err := json.Unmarshal(feedbackData, &rec.Feedback); err != nil {
		return domain.EvaluationRecord{}, fmt.Errorf("decode feedback: %w", err)
	}
	return rec, nil
}
