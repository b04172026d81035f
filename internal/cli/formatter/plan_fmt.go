package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/plancraft/internal/domain"
)

const goalWidth = 48

// FormatPlanList renders the plans table, newest first as given.
func FormatPlanList(plans []*domain.PlanRecord, now time.Time) string {
	if len(plans) == 0 {
		return Dim("No plans yet. Start one with: plancraft plan <goal>") + "\n"
	}

	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			Bold(p.Name),
			StatusPill(p.Status),
			RenderProgress(p.AnsweredCount, p.QuestionCount, 8),
			RelativeTimeFrom(p.UpdatedAt, now),
			Truncate(p.Goal, goalWidth),
		})
	}

	var b strings.Builder
	b.WriteString(Header("Plans"))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"NAME", "STATUS", "ANSWERED", "UPDATED", "GOAL"}, rows))
	return b.String()
}

// FormatHistory renders the run log of one plan, oldest first.
func FormatHistory(name string, runs []*domain.PlanRun) string {
	if len(runs) == 0 {
		return Dim("No recorded runs for "+name) + "\n"
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		took := "--"
		if r.EndedAt != nil {
			took = FormatDuration(r.EndedAt.Sub(r.StartedAt))
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			took,
			OutcomeLabel(r.Outcome),
		})
	}

	var b strings.Builder
	b.WriteString(Header("History: " + name))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"RUN", "STARTED", "TOOK", "OUTCOME"}, rows))
	return b.String()
}

// FormatReply styles a command reply: failures in red, the success
// headline in green, everything else plain.
func FormatReply(text string, failed bool) string {
	if failed {
		return StyleRed.Render(text)
	}
	head, rest, found := strings.Cut(text, "\n")
	if strings.HasPrefix(head, "✅") {
		head = StyleGreen.Render(head)
	}
	if !found {
		return head
	}
	return head + "\n" + rest
}
