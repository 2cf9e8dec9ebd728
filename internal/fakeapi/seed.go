package fakeapi

import (
	"fmt"
	"time"

	"github.com/upscprep/prepdesk/internal/domain"
)

// weeklySlots are the bookable hours per weekday shared by every mentor.
var weeklySlots = map[time.Weekday][]string{
	time.Monday:    {"10:00 AM", "2:00 PM", "4:00 PM", "6:00 PM"},
	time.Tuesday:   {"10:00 AM", "11:00 AM", "3:00 PM", "5:00 PM"},
	time.Wednesday: {"9:00 AM", "2:00 PM", "4:00 PM"},
	time.Thursday:  {"10:00 AM", "1:00 PM", "3:00 PM", "6:00 PM"},
	time.Friday:    {"10:00 AM", "2:00 PM", "5:00 PM"},
}

// availabilityFrom lists slots for the next five weekdays after from, keyed by date.
func availabilityFrom(from time.Time) map[string][]string {
	out := make(map[string][]string, 5)
	day := from
	for len(out) < 5 {
		day = day.AddDate(0, 0, 1)
		if slots, ok := weeklySlots[day.Weekday()]; ok {
			out[day.Format(time.DateOnly)] = slots
		}
	}
	return out
}

func seedMentors() []domain.Mentor {
	return []domain.Mentor{
		{
			ID:              "1",
			Name:            "Dr. Rajesh Sharma",
			Bio:             "Former IAS officer with extensive experience in UPSC coaching. Specialized in Ancient and Medieval Indian History.",
			Subjects:        []string{"History", "Culture"},
			Expertise:       []string{"Ancient India", "Medieval History", "Art & Culture"},
			ExperienceYears: 15,
			Rating:          4.9,
			TotalSessions:   245,
			HourlyRate:      2500,
			Achievements: []string{
				"Mentored 50+ successful UPSC candidates",
				`Author of "Mastering Indian History"`,
				"15 years teaching experience",
			},
			Education: []string{
				"PhD in History - Jawaharlal Nehru University",
				"MA in Ancient Indian History - Delhi University",
			},
			Languages: []string{"English", "Hindi"},
			Location:  "Delhi",
		},
		{
			ID:              "2",
			Name:            "Prof. Anita Verma",
			Bio:             "Geography professor with a PhD in Environmental Studies. Helps students master physical and human geography concepts.",
			Subjects:        []string{"Geography", "Environment"},
			Expertise:       []string{"Physical Geography", "Climate Change", "Map Reading"},
			ExperienceYears: 12,
			Rating:          4.8,
			TotalSessions:   189,
			HourlyRate:      2000,
			Achievements: []string{
				"PhD in Environmental Studies",
				"40+ students cleared Mains",
				"Published researcher",
			},
			Languages: []string{"English", "Hindi"},
			Location:  "Pune",
		},
		{
			ID:              "3",
			Name:            "Mr. Vikram Singh",
			Bio:             "Economist and policy analyst. Simplifies complex economic concepts for UPSC aspirants.",
			Subjects:        []string{"Economics", "Current Affairs"},
			Expertise:       []string{"Indian Economy", "Economic Survey", "Budget Analysis"},
			ExperienceYears: 10,
			Rating:          4.7,
			TotalSessions:   156,
			HourlyRate:      1800,
			Achievements: []string{
				"Top economics mentor 2024",
				"Ex-policy advisor",
				"100+ success stories",
			},
			Languages: []string{"English"},
			Location:  "Mumbai",
		},
		{
			ID:              "4",
			Name:            "Dr. Priya Malhotra",
			Bio:             "Constitutional expert and former bureaucrat. Deep expertise in Indian Polity and Governance.",
			Subjects:        []string{"Polity", "Governance"},
			Expertise:       []string{"Constitution", "Judiciary", "Public Administration"},
			ExperienceYears: 18,
			Rating:          4.9,
			TotalSessions:   312,
			HourlyRate:      3000,
			Achievements: []string{
				"Former IAS officer",
				"Constitutional law expert",
				"Guest faculty at top institutes",
			},
			Languages: []string{"English", "Hindi", "Punjabi"},
			Location:  "Chandigarh",
		},
	}
}

// conceptCard builds a revision card for topic.
func conceptCard(topic string) domain.ConceptCard {
	return domain.ConceptCard{
		Topic:   topic,
		Title:   topic + ": key concepts",
		Summary: fmt.Sprintf("A quick revision of %s covering definitions, causes and consequences frequently asked in the exam.", topic),
		KeyPoints: []string{
			"Core definitions and terminology of " + topic,
			"Chronology and major turning points",
			"Links to current affairs and previous year questions",
		},
	}
}

// seedDemo registers the demo account and gives it two completed attempts
// on the same topic so progress and comparison have data.
func (d *dataset) seedDemo() (domain.Identity, error) {
	id, err := d.register(domain.Registration{
		Email:    DemoEmail,
		Password: DemoPassword,
		FullName: "Demo Aspirant",
		Role:     domain.RoleCandidate,
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("seed demo user: %w", err)
	}

	in := domain.NewAssessment{Subject: "history", Topic: "Modern India", DifficultyLevel: domain.DifficultyMedium}
	answers := [][]string{{"A", "D"}, {"B", "D"}}
	for _, picks := range answers {
		a := d.createAssessment(id.ID, in)
		var responses []domain.Response
		for i, q := range a.questions {
			r := domain.Response{QuestionID: q.ID, Answer: "Answered in the notebook."}
			if i < len(picks) {
				r.Answer = picks[i]
			}
			responses = append(responses, r)
		}
		if err := d.submit(id.ID, a.ID, responses); err != nil {
			return domain.Identity{}, fmt.Errorf("seed demo attempt: %w", err)
		}
	}
	return id, nil
}
