package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/upscprep/prepdesk/internal/domain"
)

// Status filters for the assessment list.
const (
	FilterAll        = "all"
	FilterCompleted  = "completed"
	FilterInProgress = "in_progress"
)

// filterAssessments keeps assessments with the given status whose subject or
// topic contains query (case-insensitive).
func filterAssessments(list []domain.Assessment, status, query string) []domain.Assessment {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []domain.Assessment
	for _, as := range list {
		switch status {
		case FilterCompleted:
			if !as.Completed() {
				continue
			}
		case FilterInProgress:
			if as.Completed() {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(as.Subject), query) &&
			!strings.Contains(strings.ToLower(subjectName(as.Subject)), query) &&
			!strings.Contains(strings.ToLower(as.Topic), query) {
			continue
		}
		out = append(out, as)
	}
	return out
}

func (a *App) assessments(ctx context.Context, route Route) error {
	a.heading("My assessments")

	list, err := a.Client.Assessments.List(ctx)
	if err != nil {
		if err := a.degrade("assessments", err); err != nil {
			return err
		}
	}

	completed, inProgress := countByStatus(list)
	var sum float64
	var scored int
	for _, as := range list {
		if as.Completed() && as.TotalScore != nil {
			sum += *as.TotalScore
			scored++
		}
	}
	fmt.Fprintf(a.Out, "Total: %d  Completed: %d  In progress: %d", len(list), completed, inProgress)
	if scored > 0 {
		fmt.Fprintf(a.Out, "  Average score: %.1f%%", sum/float64(scored))
	}
	fmt.Fprintln(a.Out)

	status := route.Param("status")
	if status == "" {
		status = FilterAll
	}
	shown := filterAssessments(list, status, route.Param("q"))
	if len(shown) == 0 {
		fmt.Fprintln(a.Out, "No assessments match.")
		return nil
	}
	sortNewestFirst(shown)
	return a.assessmentTable(shown)
}

func (a *App) assessment(ctx context.Context, route Route) error {
	as, err := a.Client.Assessments.Get(ctx, route.Param("id"))
	if err != nil {
		return err
	}

	a.heading(fmt.Sprintf("%s: %s", subjectName(as.Subject), as.Topic))
	fmt.Fprintf(a.Out, "Difficulty: %s\nStatus: %s\nCreated: %s\n",
		as.DifficultyLevel, statusLabel(as.Status), as.CreatedAt.Local().Format("2 Jan 2006 15:04"))
	if as.CompletedAt != nil {
		fmt.Fprintf(a.Out, "Completed: %s\n", as.CompletedAt.Local().Format("2 Jan 2006 15:04"))
	}
	if as.TotalScore != nil {
		fmt.Fprintf(a.Out, "Score: %.1f%%\n", *as.TotalScore)
	}

	var marks int
	for _, q := range as.Questions {
		marks += q.MaxMarks
	}
	fmt.Fprintf(a.Out, "Questions: %d (%d marks)\n", len(as.Questions), marks)
	for i, q := range as.Questions {
		fmt.Fprintf(a.Out, "  %d. [%s, %d marks] %s\n", i+1, questionKind(q.Type), q.MaxMarks, q.Text)
	}

	if as.Completed() {
		fmt.Fprintf(a.Out, "\nSee feedback with: prepdesk feedback %s\n", as.ID)
	} else {
		fmt.Fprintf(a.Out, "\nContinue with: prepdesk take %s\n", as.ID)
	}
	return nil
}

func questionKind(t domain.QuestionType) string {
	if t == domain.QuestionSingleChoice {
		return "MCQ"
	}
	return "Subjective"
}
