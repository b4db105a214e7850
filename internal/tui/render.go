package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/feed"
	"jobfeed-engine/internal/format"
	"jobfeed-engine/internal/paginate"
)

const (
	descriptionWidth = 160
	maxSkills        = 6
	hints            = " a all  h high match  s sort  ←/→ page  1-9 jump  g/G first/last  r refresh  q quit "
)

func renderHeader(v feed.View, width int) string {
	filter := "All jobs"
	if v.Query.ShowAboveThresholdOnly {
		filter = "High match only"
	}
	sortLabel := "newest first"
	if v.Query.SortBy == domain.SortByScore {
		sortLabel = "best match first"
	}
	left := headerStyle.Render("Job Feed")
	right := headerMetaStyle.Render(fmt.Sprintf("%s · %s ", filter, sortLabel))

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func renderStats(v feed.View) string {
	card := func(value, label string) string {
		return cardStyle.Render(cardValueStyle.Render(value) + "\n" + cardLabelStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card(humanize.Comma(int64(v.Stats.TotalAllJobs)), "Total Jobs"),
		card(humanize.Comma(int64(v.Stats.TotalAboveThreshold)), "High Match"),
		card(fmt.Sprintf("%d%%", format.Percent(v.Stats.AvgScore)), "Avg Score"),
	)
}

func renderError(v feed.View, width int) string {
	if v.Error == "" {
		return ""
	}
	msg := "Error loading jobs: " + v.Error
	if v.Degraded {
		msg += " (showing placeholder, retrying automatically)"
	}
	return errorBannerStyle.Width(max(width, 20)).Render(msg)
}

func renderJob(j feed.JobView, width int) string {
	var b strings.Builder

	badge := badgeStyle(j.Band).Render(fmt.Sprintf("%d%%", j.Percent))
	title := jobTitleStyle.Render(format.Truncate(j.Title, max(width-10, 20)))
	b.WriteString(badge + "  " + title + "\n")

	meta := []string{j.PostedDisplay, j.Band.Label() + " match"}
	if j.Budget != "" {
		meta = append(meta, j.Budget)
	}
	if j.ExperienceLevel != "" {
		meta = append(meta, j.ExperienceLevel)
	}
	if j.Proposals != nil {
		meta = append(meta, fmt.Sprintf("%d proposals", *j.Proposals))
	}
	if j.Client != nil && j.Client.PaymentVerified {
		meta = append(meta, "payment verified")
	}
	b.WriteString(jobBodyStyle.Render(jobMetaStyle.Render(strings.Join(meta, " · "))) + "\n")

	if len(j.Skills) > 0 {
		skills := j.Skills
		extra := ""
		if len(skills) > maxSkills {
			extra = fmt.Sprintf(" +%d more", len(skills)-maxSkills)
			skills = skills[:maxSkills]
		}
		b.WriteString(jobBodyStyle.Render(strings.Join(skills, ", ")+extra) + "\n")
	}
	if j.DescriptionText != "" {
		b.WriteString(jobBodyStyle.Render(format.Truncate(j.DescriptionText, descriptionWidth)) + "\n")
	}
	return b.String()
}

// renderPages draws the selector row, e.g. "‹ 1 … 4 [5] 6 … 10 ›".
func renderPages(v feed.View) string {
	if len(v.Pages) == 0 || v.Pagination.TotalPages <= 1 {
		return ""
	}
	parts := make([]string, 0, len(v.Pages)+2)
	if v.Pagination.HasPrev {
		parts = append(parts, pageStyle.Render("‹"))
	}
	for _, s := range v.Pages {
		switch {
		case s.Kind == paginate.KindEllipsis:
			parts = append(parts, pageStyle.Render("…"))
		case s.Current:
			parts = append(parts, pageCurrentStyle.Render(fmt.Sprint(s.Page)))
		default:
			parts = append(parts, pageStyle.Render(fmt.Sprint(s.Page)))
		}
	}
	if v.Pagination.HasNext {
		parts = append(parts, pageStyle.Render("›"))
	}
	return strings.Join(parts, "")
}

func renderStatusBar(v feed.View, width int, loading string) string {
	left := fmt.Sprintf(" page %d of %d", v.Pagination.CurrentPage, v.Pagination.TotalPages)
	if v.Stats.FilteredCount > 0 {
		left += fmt.Sprintf(" · %s shown", humanize.Comma(int64(v.Stats.FilteredCount)))
	}
	if v.UpdatedAt != nil {
		left += " · updated " + humanize.Time(*v.UpdatedAt)
	}
	if v.Stale {
		left += " (cached)"
	}
	if loading != "" {
		left += " " + loading
	}
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(hints), 0)
	return statusBarStyle.Width(max(width, 1)).Render(left + strings.Repeat(" ", gap) + hints)
}

// render draws the whole screen for v. loading is the spinner frame shown
// while a fetch is in flight.
func render(v feed.View, width int, loading string, note string) string {
	if width <= 0 {
		width = 100
	}
	sections := []string{renderHeader(v, width), renderStats(v)}
	if e := renderError(v, width); e != "" {
		sections = append(sections, e)
	}
	if note != "" {
		sections = append(sections, jobMetaStyle.Render(" "+note))
	}

	switch {
	case !v.HasResult && v.IsLoading:
		sections = append(sections, " Loading jobs...")
	case len(v.Jobs) == 0:
		sections = append(sections, " No jobs found. Try adjusting your filters.")
	default:
		for _, j := range v.Jobs {
			sections = append(sections, renderJob(j, width))
		}
	}
	if p := renderPages(v); p != "" {
		sections = append(sections, p)
	}
	sections = append(sections, renderStatusBar(v, width, loading))
	return strings.Join(sections, "\n")
}
