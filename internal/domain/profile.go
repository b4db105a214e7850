package domain

import "encoding/json"

// ProfilePreferences is owned by the preference store; the engine forwards it unchanged.
type ProfilePreferences struct {
	GithubUsername   *string  `json:"github_username"`
	UpworkProfileURL *string  `json:"upwork_profile_url"`
	Skills           []string `json:"skills"` // priority order
	RateMin          int      `json:"rate_min"`
	RateMax          int      `json:"rate_max"`
	ScoreThreshold   float64  `json:"score_threshold"`
	ScrapeFrequency  string   `json:"scrape_frequency,omitempty"` // 5min | 30min | 1hour
	// GithubData is filled in by the store after a username change. Opaque here.
	GithubData json.RawMessage `json:"github_data,omitempty"`
}
