package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dverbeek/cogent/pkg/models"
)

// SaveAgentStats upserts the rolling statistics for one agent.
func (db *DB) SaveAgentStats(name string, stats models.AgentStats) error {
	var last any
	if !stats.LastExecution.IsZero() {
		last = formatTime(stats.LastExecution)
	}

	_, err := db.Exec(`
		INSERT INTO agent_stats (agent, execution_count, success_rate, avg_execution_ms, last_execution)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(agent) DO UPDATE SET
			execution_count = excluded.execution_count,
			success_rate = excluded.success_rate,
			avg_execution_ms = excluded.avg_execution_ms,
			last_execution = excluded.last_execution
	`, name, stats.ExecutionCount, stats.SuccessRate, stats.AvgExecutionTime.Milliseconds(), last)
	if err != nil {
		return fmt.Errorf("save agent stats for %s: %w", name, err)
	}
	return nil
}

// LoadAgentStats returns the persisted statistics for every agent.
func (db *DB) LoadAgentStats() (map[string]models.AgentStats, error) {
	rows, err := db.Query(`
		SELECT agent, execution_count, success_rate, avg_execution_ms, last_execution
		FROM agent_stats
	`)
	if err != nil {
		return nil, fmt.Errorf("load agent stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.AgentStats)
	for rows.Next() {
		var (
			name  string
			stats models.AgentStats
			ms    int64
			last  sql.NullString
		)
		if err := rows.Scan(&name, &stats.ExecutionCount, &stats.SuccessRate, &ms, &last); err != nil {
			return nil, fmt.Errorf("scan agent stats: %w", err)
		}
		stats.AvgExecutionTime = time.Duration(ms) * time.Millisecond
		if last.Valid {
			if t, err := parseTime(last.String); err == nil {
				stats.LastExecution = t
			}
		}
		out[name] = stats
	}
	return out, rows.Err()
}

// TaskRecord is one row of the persisted task history.
type TaskRecord struct {
	ID           string
	Description  string
	Priority     models.TaskPriority
	Status       models.TaskStatus
	Confidence   float64
	Completeness models.Completeness
	Error        string
	AgentCount   int
	Result       string
	CreatedAt    time.Time
	FinishedAt   time.Time
}

// RecordTask upserts a finished task into the history.
func (db *DB) RecordTask(task models.Task) error {
	confidence := 0.0
	completeness := ""
	finalResult := ""
	if task.Result != nil {
		confidence = task.Result.OverallConfidence
		completeness = string(task.Result.Completeness)
		finalResult = task.Result.FinalResult
	}
	lastErr := ""
	if len(task.Errors) > 0 {
		lastErr = task.Errors[len(task.Errors)-1]
	}

	_, err := db.Exec(`
		INSERT INTO task_history (id, description, priority, status, confidence, completeness, error, agent_count, result, created_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			confidence = excluded.confidence,
			completeness = excluded.completeness,
			error = excluded.error,
			agent_count = excluded.agent_count,
			result = excluded.result,
			finished_at = excluded.finished_at
	`, task.ID, task.Description, string(task.Priority), string(task.Status),
		confidence, completeness, lastErr, len(task.Records), finalResult,
		formatTime(task.CreatedAt), formatTime(task.UpdatedAt))
	if err != nil {
		return fmt.Errorf("record task %s: %w", task.ID, err)
	}
	return nil
}

// RecentTasks returns the most recently created tasks, newest first.
func (db *DB) RecentTasks(limit int) ([]TaskRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, description, priority, status, confidence, completeness, error, agent_count, result, created_at, finished_at
		FROM task_history
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent tasks: %w", err)
	}
	defer rows.Close()

	var records []TaskRecord
	for rows.Next() {
		r, err := scanTaskRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ErrTaskNotFound is returned when no history row exists for a task ID.
var ErrTaskNotFound = errors.New("task not found in history")

// TaskByID returns one task history row.
func (db *DB) TaskByID(id string) (TaskRecord, error) {
	row := db.QueryRow(`
		SELECT id, description, priority, status, confidence, completeness, error, agent_count, result, created_at, finished_at
		FROM task_history
		WHERE id = ?
	`, id)

	r, err := scanTaskRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return TaskRecord{}, ErrTaskNotFound
	}
	return r, err
}

// scanTaskRecord reads one history row from a Scan function.
func scanTaskRecord(scan func(dest ...any) error) (TaskRecord, error) {
	var (
		r                 TaskRecord
		created, finished sql.NullString
		result            sql.NullString
		priority, status  string
		completeness      string
	)
	if err := scan(&r.ID, &r.Description, &priority, &status, &r.Confidence,
		&completeness, &r.Error, &r.AgentCount, &result, &created, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TaskRecord{}, err
		}
		return TaskRecord{}, fmt.Errorf("scan task history: %w", err)
	}
	r.Priority = models.TaskPriority(priority)
	r.Status = models.TaskStatus(status)
	r.Completeness = models.Completeness(completeness)
	r.Result = result.String
	if created.Valid {
		if t, err := parseTime(created.String); err == nil {
			r.CreatedAt = t
		}
	}
	if finished.Valid {
		if t, err := parseTime(finished.String); err == nil {
			r.FinishedAt = t
		}
	}
	return r, nil
}

// PurgeOldTasks deletes history rows older than the given age.
// Returns the number of rows deleted.
func (db *DB) PurgeOldTasks(olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))

	result, err := db.Exec(`DELETE FROM task_history WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old tasks: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}
