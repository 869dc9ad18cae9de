package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobType identifies one of the enrichment jobs fanned out for a new short URL.
// The set is closed; dispatch switches over it exhaustively.
type JobType string

// Possible job types, in fan-out order.
const (
	JobTypeQRCode     JobType = "qr_code"
	JobTypeScreenshot JobType = "screenshot"
	JobTypeMetadata   JobType = "metadata"
)

// AllJobTypes returns every job type in the fixed fan-out order.
func AllJobTypes() []JobType {
	return []JobType{JobTypeQRCode, JobTypeScreenshot, JobTypeMetadata}
}

// Valid reports whether t is a member of the closed job type set.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeQRCode, JobTypeScreenshot, JobTypeMetadata:
		return true
	default:
		return false
	}
}

// ParseJobType converts a wire value into a JobType.
func ParseJobType(s string) (JobType, error) {
	t := JobType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidJobType, s)
	}
	return t, nil
}

// JobStatus is the terminal outcome of a processed job.
type JobStatus string

// Possible job status values. Both are terminal.
const (
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Valid reports whether s is a terminal job status.
func (s JobStatus) Valid() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobItem is a unit of background work carried on the job queue.
// It is consumed by exactly one worker and never re-queued.
type JobItem struct {
	ID         uuid.UUID `json:"id"`
	Type       JobType   `json:"type"`
	ShortCode  string    `json:"short_code"`
	URL        string    `json:"url"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJobItem creates a JobItem for the given short URL.
func NewJobItem(jobType JobType, shortCode, originalURL string) JobItem {
	return JobItem{
		ID:         uuid.New(),
		Type:       jobType,
		ShortCode:  shortCode,
		URL:        originalURL,
		EnqueuedAt: time.Now().UTC(),
	}
}

// JobFailure is the payload stored for every failed job, whatever its type.
type JobFailure struct {
	Error string `json:"error"`
}

// JobResult is the append-only record of a processed job.
// Several results may exist for the same short code and job type.
type JobResult struct {
	ID         int64           `json:"-"`
	ShortCode  string          `json:"short_code"`
	JobType    JobType         `json:"type"`
	Status     JobStatus       `json:"status"`
	Result     json.RawMessage `json:"result"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// NewCompletedResult records a successful job with the processor's payload.
func NewCompletedResult(item JobItem, payload any) (*JobResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", item.Type, err)
	}

	return &JobResult{
		ShortCode:  item.ShortCode,
		JobType:    item.Type,
		Status:     JobStatusCompleted,
		Result:     raw,
		RecordedAt: time.Now().UTC(),
	}, nil
}

// NewFailedResult records a failed job. The payload is always a JobFailure.
func NewFailedResult(item JobItem, cause error) *JobResult {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}

	// A struct with a single string field cannot fail to marshal.
	raw, _ := json.Marshal(JobFailure{Error: msg})

	return &JobResult{
		ShortCode:  item.ShortCode,
		JobType:    item.Type,
		Status:     JobStatusFailed,
		Result:     raw,
		RecordedAt: time.Now().UTC(),
	}
}

// Validate checks that the result can be persisted.
func (r *JobResult) Validate() error {
	if err := ValidateShortCode(r.ShortCode); err != nil {
		return err
	}
	if !r.JobType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidJobType, r.JobType)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidJobStatus, r.Status)
	}
	if !json.Valid(r.Result) {
		return fmt.Errorf("%w: result is not valid JSON", ErrValidation)
	}
	return nil
}
