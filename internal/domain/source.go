package domain

// SourceStats is the dashboard summary served by the job source's /stats.
type SourceStats struct {
	TotalJobs      int     `json:"total_jobs"`
	AboveThreshold int     `json:"above_threshold"`
	AvgScore       float64 `json:"avg_score"`
	Threshold      float64 `json:"threshold"`
	RecentJobs24h  int     `json:"recent_jobs_24h"`
	Error          string  `json:"error,omitempty"`
}

// ScrapeStatus reports the job source's most recent scrape run.
type ScrapeStatus struct {
	Status       string `json:"status"`
	JobsFound    int    `json:"jobs_found,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	StartedAt    string `json:"started_at,omitempty"`
	CompletedAt  string `json:"completed_at,omitempty"`
	Error        string `json:"error,omitempty"`
}
