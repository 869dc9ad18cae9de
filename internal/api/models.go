package api

import (
	"encoding/json"
	"time"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// ShortenRequest defines the payload for POST /shorten.
type ShortenRequest struct {
	URL        string `json:"url"                   validate:"required,url"`
	CustomCode string `json:"custom_code,omitempty" validate:"omitempty,max=10,shortcode"`
}

// ShortenResponse defines the successful response for POST /shorten.
type ShortenResponse struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code"`
}

// RedirectResponse defines the successful response for GET /{short_code}.
type RedirectResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// JobResponse is one recorded job outcome within StatsResponse.
type JobResponse struct {
	Type   domain.JobType   `json:"type"`
	Status domain.JobStatus `json:"status"`
	Result json.RawMessage  `json:"result"`
}

// StatsResponse defines the successful response for GET /stats/{short_code}.
type StatsResponse struct {
	ShortCode   string        `json:"short_code"`
	OriginalURL string        `json:"original_url"`
	Clicks      int64         `json:"clicks"`
	CreatedAt   time.Time     `json:"created_at"`
	Jobs        []JobResponse `json:"jobs"`
}

// StatusResponse is the body of the health and readiness probes.
type StatusResponse struct {
	Status string `json:"status"`
}

func statsToResponse(stats *domain.URLStats) StatsResponse {
	jobs := make([]JobResponse, 0, len(stats.Jobs))
	for _, j := range stats.Jobs {
		jobs = append(jobs, JobResponse{
			Type:   j.JobType,
			Status: j.Status,
			Result: j.Result,
		})
	}
	return StatsResponse{
		ShortCode:   stats.ShortCode,
		OriginalURL: stats.OriginalURL,
		Clicks:      stats.Clicks,
		CreatedAt:   stats.CreatedAt,
		Jobs:        jobs,
	}
}
