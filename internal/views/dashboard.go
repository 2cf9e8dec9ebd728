package views

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/upscprep/prepdesk/internal/domain"
)

const recentLimit = 5

func (a *App) dashboard(ctx context.Context, _ Route) error {
	id, _ := a.Session.Identity()
	a.heading("Dashboard")
	fmt.Fprintf(a.Out, "Welcome back, %s! (%s)\n", firstName(id.FullName), id.Role.Label())

	progress, err := a.Client.Progress.ForUser(ctx, id.ID)
	if err != nil {
		if err := a.degrade("progress", err); err != nil {
			return err
		}
	}
	list, err := a.Client.Assessments.List(ctx)
	if err != nil {
		if err := a.degrade("assessments", err); err != nil {
			return err
		}
	}
	bookings, err := a.Client.Bookings.Mine(ctx)
	if err != nil {
		if err := a.degrade("bookings", err); err != nil {
			return err
		}
	}

	completed, _ := countByStatus(list)
	upcoming := upcomingBookings(bookings, a.Now())

	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	if progress != nil {
		fmt.Fprintf(tw, "Current score\t%.1f%%\t(%+.1f)\n", progress.CurrentScore, progress.Improvement)
		fmt.Fprintf(tw, "Study streak\t%d days\n", progress.StudyStreak)
	}
	fmt.Fprintf(tw, "Tests completed\t%d of %d\n", completed, len(list))
	fmt.Fprintf(tw, "Upcoming sessions\t%d\n", len(upcoming))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(upcoming) > 0 {
		next := upcoming[0]
		fmt.Fprintf(a.Out, "Next session: %s (mentor %s, %s)\n",
			next.ScheduledAt.Local().Format("Mon 2 Jan 15:04"), next.MentorID, next.Status)
	}

	fmt.Fprintln(a.Out, "\nRecent assessments")
	if len(list) == 0 {
		fmt.Fprintln(a.Out, "  No assessments yet. Start one with: prepdesk new")
		return nil
	}
	sortNewestFirst(list)
	return a.assessmentTable(list[:min(recentLimit, len(list))])
}

func firstName(full string) string {
	if f := strings.Fields(full); len(f) > 0 {
		return f[0]
	}
	return "there"
}

func countByStatus(list []domain.Assessment) (completed, inProgress int) {
	for _, a := range list {
		if a.Completed() {
			completed++
		} else {
			inProgress++
		}
	}
	return completed, inProgress
}

// upcomingBookings returns bookings still to happen, soonest first.
func upcomingBookings(list []domain.Booking, now time.Time) []domain.Booking {
	var out []domain.Booking
	for _, b := range list {
		if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
			continue
		}
		if b.ScheduledAt.After(now) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}

func sortNewestFirst(list []domain.Assessment) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

func (a *App) assessmentTable(list []domain.Assessment) error {
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBJECT\tTOPIC\tDIFFICULTY\tSTATUS\tSCORE\tCREATED")
	for _, as := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			as.ID, subjectName(as.Subject), as.Topic, as.DifficultyLevel,
			statusLabel(as.Status), scoreLabel(as.TotalScore), as.CreatedAt.Local().Format(time.DateOnly))
	}
	return tw.Flush()
}

func subjectName(id string) string {
	if s, ok := domain.SubjectByID(id); ok {
		return s.Name
	}
	return id
}

func statusLabel(s domain.AssessmentStatus) string {
	if s == domain.StatusCompleted {
		return "Completed"
	}
	return "In progress"
}

func scoreLabel(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *score)
}
