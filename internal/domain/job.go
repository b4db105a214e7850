package domain

// JobRecord is one opportunity as served by the remote job source.
// Score and AboveThreshold are computed upstream and taken as-is.
type JobRecord struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Posted          string      `json:"posted"` // relative phrase or timestamp
	URL             string      `json:"url,omitempty"`
	Budget          string      `json:"budget,omitempty"`
	Duration        string      `json:"duration,omitempty"`
	ExperienceLevel string      `json:"experienceLevel,omitempty"`
	Skills          []string    `json:"skills"`
	Client          *ClientInfo `json:"client,omitempty"`
	Proposals       *int        `json:"proposals,omitempty"`
	Score           float64     `json:"score"`
	AboveThreshold  bool        `json:"aboveThreshold"`
}

type ClientInfo struct {
	Rating          float64 `json:"rating"`
	Location        string  `json:"location"`
	Verified        bool    `json:"verified"`
	TotalSpent      string  `json:"totalSpent,omitempty"`
	PaymentVerified bool    `json:"paymentVerified"`
}
