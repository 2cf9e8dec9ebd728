package views

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/upscprep/prepdesk/internal/domain"
	"github.com/upscprep/prepdesk/internal/report"
)

func (a *App) progress(ctx context.Context, route Route) error {
	id, _ := a.Session.Identity()
	p, err := a.Client.Progress.ForUser(ctx, id.ID)
	if err != nil {
		return err
	}

	a.heading("Progress")
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Current score\t%.1f%%\n", p.CurrentScore)
	fmt.Fprintf(tw, "Previous score\t%.1f%%\n", p.PreviousScore)
	fmt.Fprintf(tw, "Improvement\t%+.1f\n", p.Improvement)
	fmt.Fprintf(tw, "Assessments\t%d\n", p.TotalAssessments)
	fmt.Fprintf(tw, "Study streak\t%d days\n", p.StudyStreak)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(p.SubjectProgress) > 0 {
		fmt.Fprintln(a.Out, "\nBy subject")
		tw = tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SUBJECT\tCURRENT\tPREVIOUS\tCHANGE\tTESTS")
		for _, s := range p.SubjectProgress {
			fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%+.1f\t%d\n", subjectName(s.Subject), s.Current, s.Previous, s.Improvement, s.Tests)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	var cmp *domain.Comparison
	if subject, topic := route.Param("subject"), route.Param("topic"); subject != "" && topic != "" {
		cmp, err = a.Client.Progress.Compare(ctx, subject, topic)
		if err != nil {
			if err := a.degrade("comparison", err); err != nil {
				return err
			}
		} else {
			a.printComparison(cmp)
		}
	}

	if path := route.Param("pdf"); path != "" {
		if err := a.exportProgress(path, id, p, cmp); err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "\nReport written to %s\n", path)
	}
	return nil
}

func (a *App) printComparison(cmp *domain.Comparison) {
	fmt.Fprintln(a.Out, "\nComparison")
	if !cmp.Comparable() {
		fmt.Fprintf(a.Out, "  %s (have %d)\n", cmp.Message, cmp.Assessments)
		return
	}
	fmt.Fprintf(a.Out, "  %s / %s over %d attempts\n", subjectName(cmp.Subject), cmp.Topic, cmp.TotalAttempts)
	fmt.Fprintf(a.Out, "  First:  %.1f%% on %s\n", cmp.FirstAttempt.Score, cmp.FirstAttempt.Date.Local().Format("2 Jan 2006"))
	fmt.Fprintf(a.Out, "  Latest: %.1f%% on %s\n", cmp.LatestAttempt.Score, cmp.LatestAttempt.Date.Local().Format("2 Jan 2006"))
	fmt.Fprintf(a.Out, "  Change: %+.1f\n", cmp.Improvement)
}

func (a *App) exportProgress(path string, who domain.Identity, p *domain.Progress, cmp *domain.Comparison) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report: %w", closeErr)
		}
	}()
	return report.WriteProgress(f, who, p, cmp, a.Now())
}
