package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/source"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Read or update matching preferences in the job source",
}

var profileGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.SourceTimeout()+5*time.Second)
		defer cancel()

		p, err := e.client.GetProfile(ctx)
		if err != nil {
			return &profileError{op: "load", err: err}
		}
		return writeJSON(os.Stdout, p)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences; unset flags keep their stored value",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*e.cfg.SourceTimeout()+5*time.Second)
		defer cancel()

		p, err := e.client.GetProfile(ctx)
		if err != nil {
			return &profileError{op: "load", err: err}
		}
		if p, err = applyProfileFlags(cmd, p); err != nil {
			return err
		}

		saved, err := e.client.SaveProfile(ctx, p)
		if err != nil {
			return &profileError{op: "update", err: err}
		}
		return writeJSON(os.Stdout, saved)
	},
}

func init() {
	addProfileSetFlags(profileSetCmd)

	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileSetCmd)
}

func addProfileSetFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("skills", nil, "skills in priority order, comma separated")
	cmd.Flags().Int("rate-min", 0, "minimum hourly rate")
	cmd.Flags().Int("rate-max", 0, "maximum hourly rate")
	cmd.Flags().Float64("threshold", 0, "score threshold for high matches (0..1)")
}

// applyProfileFlags overlays the flags given on the command line onto p.
// Fields whose flag was not set keep their stored value.
func applyProfileFlags(cmd *cobra.Command, p domain.ProfilePreferences) (domain.ProfilePreferences, error) {
	flags := cmd.Flags()
	if flags.Changed("skills") {
		raw, err := flags.GetStringSlice("skills")
		if err != nil {
			return p, err
		}
		skills := []string{}
		for _, s := range raw {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		p.Skills = skills
	}
	if flags.Changed("rate-min") {
		n, err := flags.GetInt("rate-min")
		if err != nil {
			return p, err
		}
		p.RateMin = n
	}
	if flags.Changed("rate-max") {
		n, err := flags.GetInt("rate-max")
		if err != nil {
			return p, err
		}
		p.RateMax = n
	}
	if flags.Changed("threshold") {
		th, err := flags.GetFloat64("threshold")
		if err != nil {
			return p, err
		}
		if th < 0 || th > 1 {
			return p, fmt.Errorf("--threshold must be within 0..1, got %v", th)
		}
		p.ScoreThreshold = th
	}
	return p, nil
}

// profileError names the preference operation that failed.
type profileError struct {
	op  string // load | update
	err error
}

func (e *profileError) Error() string { return e.op + " profile: " + e.err.Error() }

func (e *profileError) Unwrap() error { return e.err }

// userMessage is what the CLI prints for err. Preference failures read
// "Failed to <op> profile: <source message>".
func userMessage(err error) string {
	var pe *profileError
	if !errors.As(err, &pe) {
		return err.Error()
	}
	msg := pe.err.Error()
	var te *source.TransportError
	if errors.As(pe.err, &te) {
		msg = te.Message
	}
	return fmt.Sprintf("Failed to %s profile: %s", pe.op, msg)
}
