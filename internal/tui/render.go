package tui

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/growthplan/internal/pipeline"
)

const dateLayout = "2006-01-02"

// RenderReport renders the human-readable form of a report.
func RenderReport(r *pipeline.Report, styles Styles) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("Growth plan for %s", learnerName(r))))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s · generated %s · invocation %s",
		r.Context.Domain, r.GeneratedAt.Format(dateLayout), r.InvocationID)))
	b.WriteString("\n\n")

	b.WriteString(styles.Border.Render(r.Synthesis.ExecutiveSummary))
	b.WriteString("\n\n")

	renderList(&b, styles, "Key insights", r.Synthesis.KeyInsights)
	renderList(&b, styles, "Roadmap", r.Synthesis.PersonalizedRoadmap)
	renderList(&b, styles, "Immediate actions", r.Synthesis.ImmediateActions)

	if r.Plan != nil {
		renderPlan(&b, styles, r)
	}

	b.WriteString(styles.Section.Render("Diagnostic"))
	b.WriteString("\n")
	renderField(&b, styles, "Readiness", fmt.Sprintf("%.0f%%", r.Diagnostic.ReadinessScore*100))
	renderField(&b, styles, "Timeline", r.Diagnostic.TimelineEstimation)
	renderField(&b, styles, "Approach", r.Diagnostic.RecommendedApproach)
	b.WriteString("\n")
	for _, gap := range r.Diagnostic.GapDetails {
		fmt.Fprintf(&b, "%s %s (%s): %s\n", styles.Bullet.Render("•"), styles.Label.Render(gap.Gap), gap.Priority, gap.Summary)
	}
	if len(r.Diagnostic.GapDetails) > 0 {
		b.WriteString("\n")
	}

	renderList(&b, styles, "Potential obstacles", r.Synthesis.PotentialObstacles)
	renderList(&b, styles, "Recommended resources", r.Synthesis.RecommendedResources)
	renderList(&b, styles, "Follow-up schedule", r.Synthesis.FollowUpSchedule)

	if r.Understanding.NeedsMoreInfo && len(r.Understanding.FollowUpQuestions) > 0 {
		renderList(&b, styles, "Questions for the learner", r.Understanding.FollowUpQuestions)
	}

	renderStatus(&b, styles, r)
	return b.String()
}

func renderPlan(b *strings.Builder, styles Styles, r *pipeline.Report) {
	plan := r.Plan
	b.WriteString(styles.Section.Render("Tasks"))
	b.WriteString("\n")
	for i, task := range plan.Tasks {
		due := ""
		if task.DueDate != nil {
			due = " due " + task.DueDate.Format(dateLayout)
		}
		fmt.Fprintf(b, "%2d. %s %s\n", i+1, styles.Label.Render(task.Name),
			styles.Muted.Render(fmt.Sprintf("[%s, %s, %d min%s]", task.Priority, task.Complexity, task.ScheduledDuration, due)))
		if task.DeadlockBreak {
			fmt.Fprintf(b, "    %s\n", styles.Warning.Render("scheduled before: "+strings.Join(task.UnresolvedDependencies, ", ")))
		}
	}
	b.WriteString("\n")

	if len(plan.Milestones) > 0 {
		b.WriteString(styles.Section.Render("Milestones"))
		b.WriteString("\n")
		for _, m := range plan.Milestones {
			fmt.Fprintf(b, "%s %s %s\n", styles.Bullet.Render("•"), m.TargetDate.Format(dateLayout), m.Name)
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.Section.Render("Outlook"))
	b.WriteString("\n")
	renderField(b, styles, "Estimated completion", plan.EstimatedCompletion.Format(dateLayout))
	renderField(b, styles, "Success probability", probability(styles, plan.SuccessProbability))
	renderField(b, styles, "Overall risk", string(plan.RiskAssessment.OverallRiskLevel))
	b.WriteString("\n")
}

func renderStatus(b *strings.Builder, styles Styles, r *pipeline.Report) {
	switch {
	case !r.AdvisoryAvailable:
		b.WriteString(styles.Warning.Render("Advisory service unavailable: every phase used its default output."))
	case len(r.Fallbacks) > 0:
		b.WriteString(styles.Warning.Render(fmt.Sprintf("Defaults used for: %s", strings.Join(r.Fallbacks, ", "))))
	default:
		b.WriteString(styles.Success.Render("All phases completed with advisory output."))
	}
	b.WriteString("\n")
}

func renderList(b *strings.Builder, styles Styles, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(styles.Section.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(b, "%s %s\n", styles.Bullet.Render("•"), item)
	}
	b.WriteString("\n")
}

func renderField(b *strings.Builder, styles Styles, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s %s\n", styles.Label.Render(label+":"), value)
}

func probability(styles Styles, p float64) string {
	text := fmt.Sprintf("%.0f%%", p*100)
	switch {
	case p >= 0.7:
		return styles.Success.Render(text)
	case p >= 0.4:
		return styles.Warning.Render(text)
	default:
		return styles.Error.Render(text)
	}
}

func learnerName(r *pipeline.Report) string {
	if r.Context.Name != "" {
		return r.Context.Name
	}
	return r.LearnerID
}
