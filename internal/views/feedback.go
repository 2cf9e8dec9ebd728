package views

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/upscprep/prepdesk/internal/domain"
)

func (a *App) feedback(ctx context.Context, route Route) error {
	id := route.Param("id")
	ev, err := a.Client.Evaluation.Feedback(ctx, id)
	if err != nil {
		return err
	}

	a.heading("Feedback")
	fmt.Fprintf(a.Out, "Score: %.1f%% (%s)\n", ev.Score, grade(ev.Score))
	fmt.Fprintln(a.Out, ev.FeedbackText)

	a.bullets("Strengths", ev.Strengths)
	a.bullets("Areas to improve", ev.Weaknesses)

	if len(ev.SkillAnalysis) > 0 {
		fmt.Fprintln(a.Out, "\nSkills")
		skills := make([]string, 0, len(ev.SkillAnalysis))
		for k := range ev.SkillAnalysis {
			skills = append(skills, k)
		}
		sort.Strings(skills)
		for _, k := range skills {
			fmt.Fprintf(a.Out, "  %-18s %3.0f  %s\n", skillLabel(k), ev.SkillAnalysis[k], bar(ev.SkillAnalysis[k]))
		}
	}

	if len(ev.ConceptGaps) > 0 {
		fmt.Fprintln(a.Out, "\nConcept gaps")
		for i, g := range ev.ConceptGaps {
			fmt.Fprintf(a.Out, "  %d. %s [%s] %s\n", i+1, g.Concept, g.Severity, g.Description)
		}
	}

	if len(ev.Recommendations) > 0 {
		fmt.Fprintln(a.Out, "\nRecommended study")
		for _, r := range ev.Recommendations {
			fmt.Fprintf(a.Out, "  - %s\n", recommendationLine(r))
		}
	}

	return a.conceptCards(ctx, ev.ConceptGaps)
}

// conceptCards shows revision cards for concept gaps on request.
func (a *App) conceptCards(ctx context.Context, gaps []domain.ConceptGap) error {
	if len(gaps) == 0 {
		return nil
	}
	for {
		answer, err := a.Prompter.Ask(fmt.Sprintf("\nConcept card for gap [1-%d] (blank to finish)", len(gaps)))
		if err != nil || answer == "" {
			return err
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(gaps) {
			fmt.Fprintln(a.Out, "Please pick one of the listed numbers.")
			continue
		}
		card, err := a.Client.Recommendations.ConceptCard(ctx, gaps[n-1].Concept)
		if err != nil {
			if err := a.degrade("concept card", err); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(a.Out, "\n%s\n%s\n", card.Title, card.Summary)
		for _, p := range card.KeyPoints {
			fmt.Fprintf(a.Out, "  * %s\n", p)
		}
	}
}

func (a *App) bullets(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(a.Out, "\n%s\n", title)
	for _, s := range items {
		fmt.Fprintf(a.Out, "  - %s\n", s)
	}
}

func grade(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs work"
	}
}

func skillLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func bar(v float64) string {
	n := int(v / 10)
	n = max(0, min(10, n))
	return strings.Repeat("#", n) + strings.Repeat(".", 10-n)
}

func recommendationLine(r domain.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", r.Type, r.Title)
	if r.Chapter != "" {
		fmt.Fprintf(&b, ", %s", r.Chapter)
	}
	if r.Pages != "" {
		fmt.Fprintf(&b, " (pp. %s)", r.Pages)
	}
	if r.Year != 0 {
		fmt.Fprintf(&b, " %d", r.Year)
	}
	if r.Question != "" {
		fmt.Fprintf(&b, " %s", r.Question)
	}
	if r.Priority != "" {
		fmt.Fprintf(&b, " - %s priority", r.Priority)
	}
	return b.String()
}
