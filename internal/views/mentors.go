package views

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/upscprep/prepdesk/internal/apiclient"
	"github.com/upscprep/prepdesk/internal/domain"
	"github.com/upscprep/prepdesk/internal/forms"
)

// slotLayout parses a date and a slot label such as "2:00 PM".
const slotLayout = "2006-01-02 3:04 PM"

// searchMentors keeps mentors whose name or bio contains query and sorts the
// result by rating, then by number of sessions.
func searchMentors(list []domain.Mentor, query string) []domain.Mentor {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []domain.Mentor
	for _, m := range list {
		if query == "" ||
			strings.Contains(strings.ToLower(m.Name), query) ||
			strings.Contains(strings.ToLower(m.Bio), query) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].TotalSessions > out[j].TotalSessions
	})
	return out
}

func (a *App) mentors(ctx context.Context, route Route) error {
	a.heading("Find a mentor")

	filter := apiclient.MentorFilter{Subject: route.Param("subject")}
	if raw := route.Param("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("min rating %q is not a number", raw)
		}
		filter.MinRating = v
	}

	found, err := a.Client.Mentors.List(ctx, filter)
	if err != nil {
		if err := a.degrade("mentors", err); err != nil {
			return err
		}
	}
	shown := searchMentors(found, route.Param("q"))
	if len(shown) == 0 {
		fmt.Fprintln(a.Out, "No mentors match.")
		return nil
	}

	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSUBJECTS\tRATING\tSESSIONS\tEXPERIENCE\tRATE")
	for _, m := range shown {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%d\t%d yrs\t%s/hr\n",
			m.ID, m.Name, strings.Join(m.Subjects, ", "), m.Rating, m.TotalSessions, m.ExperienceYears, rupees(m.HourlyRate))
	}
	return tw.Flush()
}

func (a *App) mentor(ctx context.Context, route Route) error {
	m, err := a.Client.Mentors.Get(ctx, route.Param("id"))
	if err != nil {
		return err
	}

	a.heading(m.Name)
	fmt.Fprintf(a.Out, "Rating %.1f (%d sessions), %d years experience", m.Rating, m.TotalSessions, m.ExperienceYears)
	if m.Location != "" {
		fmt.Fprintf(a.Out, ", %s", m.Location)
	}
	fmt.Fprintf(a.Out, "\n%s/hour\n\n%s\n", rupees(m.HourlyRate), m.Bio)
	a.bullets("Expertise", m.Expertise)
	a.bullets("Achievements", m.Achievements)
	a.bullets("Education", m.Education)
	if len(m.Languages) > 0 {
		fmt.Fprintf(a.Out, "\nLanguages: %s\n", strings.Join(m.Languages, ", "))
	}

	avail, err := a.Client.Mentors.Availability(ctx, m.ID)
	if err != nil {
		return a.degrade("availability", err)
	}
	dates := make([]string, 0, len(avail.Availability))
	for d := range avail.Availability {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) == 0 {
		fmt.Fprintln(a.Out, "\nNo open slots this week.")
		return nil
	}

	fmt.Fprintln(a.Out, "\nAvailable slots")
	for _, d := range dates {
		fmt.Fprintf(a.Out, "  %s  %s\n", dayLabel(d), strings.Join(avail.Availability[d], ", "))
	}

	book, err := a.Prompter.Confirm("\nBook a session?")
	if err != nil || !book {
		return err
	}
	return a.bookSession(ctx, m, dates, avail.Availability)
}

func (a *App) bookSession(ctx context.Context, m *domain.Mentor, dates []string, slots map[string][]string) error {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = dayLabel(d)
	}
	for {
		di, err := a.Prompter.Choose("Date", labels, false)
		if err != nil {
			return err
		}
		date := dates[di]
		si, err := a.Prompter.Choose("Time", slots[date], true)
		if errors.Is(err, errBack) {
			continue
		}
		if err != nil {
			return err
		}

		at, err := time.ParseInLocation(slotLayout, date+" "+slots[date][si], time.Local)
		if err != nil {
			return fmt.Errorf("parse slot: %w", err)
		}
		form := forms.Booking{MentorID: m.ID, ScheduledAt: at, DurationMinutes: 60}
		if err := forms.Validate(form); err != nil {
			if a.printValidation(err) {
				continue
			}
			return err
		}

		b, err := a.Client.Bookings.Create(ctx, form.NewBooking())
		if err != nil {
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
				fmt.Fprintf(a.Out, "Booking failed: %s\n", apiErr.Message)
				return nil
			}
			return err
		}
		a.Logger.Info("Session booked", "booking_id", b.ID, "mentor_id", m.ID)
		fmt.Fprintf(a.Out, "Booked %s with %s (%s).\n", at.Format("Mon 2 Jan 3:04 PM"), m.Name, b.Status)
		a.Router.Navigate(RouteBookings)
		return nil
	}
}

func (a *App) bookings(ctx context.Context, route Route) error {
	if id := route.Param("cancel"); id != "" {
		if err := a.Client.Bookings.Cancel(ctx, id); err != nil {
			return err
		}
		a.Logger.Info("Booking cancelled", "booking_id", id)
		fmt.Fprintln(a.Out, "Booking cancelled.")
	}

	a.heading("My sessions")
	mine, err := a.Client.Bookings.Mine(ctx)
	if err != nil {
		if err := a.degrade("bookings", err); err != nil {
			return err
		}
	}
	if len(mine) == 0 {
		fmt.Fprintln(a.Out, "No sessions booked. Browse mentors with: prepdesk mentors")
		return nil
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].ScheduledAt.Before(mine[j].ScheduledAt) })

	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMENTOR\tWHEN\tMINUTES\tSTATUS\tLINK")
	for _, b := range mine {
		link := b.MeetingLink
		if link == "" {
			link = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			b.ID, b.MentorID, b.ScheduledAt.Local().Format("Mon 2 Jan 2006 3:04 PM"), b.DurationMinutes, b.Status, link)
	}
	return tw.Flush()
}

func dayLabel(date string) string {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return d.Format("Mon 2 Jan")
}

func rupees(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	if len(s) > 3 {
		s = s[:len(s)-3] + "," + s[len(s)-3:]
	}
	return "₹" + s
}
