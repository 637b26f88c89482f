// Package registry persists completed assessments to SQLite so past results
// can be listed and retrieved. Persistence failures are reported to the
// caller but never block an assessment from being returned.
package registry

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seclens/seclens/internal/interfaces"
	"github.com/seclens/seclens/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

var ErrAssessmentNotFound = errors.New("assessment not found")

// Registry stores assessment results in SQLite. The full result is kept as
// JSON alongside the columns the list endpoint needs.
type Registry struct {
	db     *sql.DB
	logger interfaces.Logger
}

// NewRegistry runs migrations from schema.sql and returns a ready Registry.
func NewRegistry(db *sql.DB, logger interfaces.Logger) (*Registry, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}
	return &Registry{db: db, logger: logger}, nil
}

// Summary is the list-endpoint view of a stored assessment.
type Summary struct {
	ID               string          `json:"id"`
	OrganizationName string          `json:"organization_name"`
	ProjectName      string          `json:"project_name"`
	Timestamp        time.Time       `json:"timestamp"`
	OverallScore     float64         `json:"overall_score"`
	OverallRiskLevel model.RiskLevel `json:"overall_risk_level"`
}

// Save stores a result and returns its id, assigning a fresh UUID when the
// result has none. The stored JSON includes the assigned id.
func (r *Registry) Save(ctx context.Context, res *model.AssessmentResult) (string, error) {
	if res == nil {
		return "", fmt.Errorf("result is nil")
	}
	if res.ID == "" {
		res.ID = uuid.New().String()
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO assessments
             (id, organization_name, project_name, created_at, overall_score, overall_risk_level, ai_model_used, result_json)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.OrganizationName, res.ProjectName, res.Timestamp.Unix(),
		res.OverallScore, string(res.OverallRiskLevel), res.AIModelUsed, string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}
	return res.ID, nil
}

// Get returns the full stored result by id.
func (r *Registry) Get(ctx context.Context, id string) (*model.AssessmentResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT result_json FROM assessments WHERE id = ? LIMIT 1`, id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	var res model.AssessmentResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("unmarshal stored assessment %s: %w", id, err)
	}
	return &res, nil
}

// List returns stored assessment summaries, newest first. limit <= 0 means
// no limit.
func (r *Registry) List(ctx context.Context, limit int) ([]Summary, error) {
	q := `SELECT id, organization_name, project_name, created_at, overall_score, overall_risk_level
          FROM assessments
          ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		var createdAt int64
		var risk string
		if err := rows.Scan(&s.ID, &s.OrganizationName, &s.ProjectName, &createdAt, &s.OverallScore, &risk); err != nil {
			return nil, err
		}
		s.Timestamp = time.Unix(createdAt, 0).UTC()
		s.OverallRiskLevel = model.RiskLevel(risk)
		out = append(out, s)
	}
	return out, rows.Err()
}
