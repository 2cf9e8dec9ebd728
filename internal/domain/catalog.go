package domain

// Subject is an entry of the subject catalogue offered by the new-assessment wizard.
type Subject struct {
	ID     string
	Name   string
	Topics []string
}

// Subjects is the catalogue of subjects and their topics.
var Subjects = []Subject{
	{ID: "history", Name: "History", Topics: []string{"Ancient India", "Medieval India", "Modern India", "World History"}},
	{ID: "geography", Name: "Geography", Topics: []string{"Physical Geography", "Human Geography", "Indian Geography", "World Geography"}},
	{ID: "economics", Name: "Economics", Topics: []string{"Microeconomics", "Macroeconomics", "Indian Economy", "Development Economics"}},
	{ID: "polity", Name: "Polity", Topics: []string{"Constitution", "Governance", "Political Theory", "International Relations"}},
	{ID: "environment", Name: "Environment", Topics: []string{"Ecology", "Climate Change", "Biodiversity", "Environmental Laws"}},
}

// Difficulties lists the selectable difficulty levels in order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// SubjectByID looks up a catalogue subject.
func SubjectByID(id string) (Subject, bool) {
	for _, s := range Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}
