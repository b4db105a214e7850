package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus hard errors (the same
// ones Validate reports) and soft warnings.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Source.BaseURL = strings.TrimRight(strings.TrimSpace(out.Source.BaseURL), "/")
	out.Source.TokenAccount = strings.TrimSpace(out.Source.TokenAccount)
	if out.App.DataDir == "" {
		out.App.DataDir = "."
	}
	if out.Source.Burst <= 0 && out.Source.RatePerSec > 0 {
		out.Source.Burst = 1
	}

	if err := Validate(out); err != nil {
		for _, line := range strings.Split(err.Error(), "\n- ")[1:] {
			res.addErr("%s", line)
		}
	}

	// ---- Warnings ----

	if out.Feed.PollSeconds > 0 && out.Feed.PollSeconds < 10 {
		res.addWarn("feed.poll_seconds is very low (%d) and may hammer the job source.", out.Feed.PollSeconds)
	}
	if out.Source.RatePerSec == 0 {
		res.addWarn("source.rate_per_sec is 0; outbound requests are not rate limited.")
	}
	if strings.HasPrefix(out.Source.BaseURL, "http://") && !isLocal(out.Source.BaseURL) && out.Source.TokenAccount != "" {
		res.addWarn("source.base_url is plain http to a remote host; the bearer token is sent unencrypted.")
	}
	if out.Store.SnapshotRetentionHours == 0 {
		res.addWarn("store.snapshot_retention_hours is 0; snapshots are pruned as soon as the pruner runs.")
	}
	if out.Feed.ScoreThreshold == 0 {
		res.addWarn("feed.score_threshold is 0; every job counts as a high match.")
	}

	return out, res
}

func isLocal(u string) bool {
	for _, h := range []string{"://localhost", "://127.0.0.1", "://[::1]"} {
		if strings.Contains(u, h) {
			return true
		}
	}
	return false
}
