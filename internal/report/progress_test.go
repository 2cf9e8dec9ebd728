package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upscprep/prepdesk/internal/domain"
)

func TestWriteProgress(t *testing.T) {
	who := domain.Identity{FullName: "Asha Rao", Email: "asha@example.com"}
	p := &domain.Progress{
		CurrentScore:     72.5,
		PreviousScore:    60,
		Improvement:      12.5,
		TotalAssessments: 6,
		StudyStreak:      15,
		SubjectProgress: []domain.SubjectProgress{
			{Subject: "history", Current: 78, Previous: 65, Tests: 3, Improvement: 13},
		},
	}
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cmp := &domain.Comparison{
		Subject:       "history",
		Topic:         "Modern India",
		FirstAttempt:  &domain.Attempt{Date: day, Score: 55},
		LatestAttempt: &domain.Attempt{Date: day.AddDate(0, 1, 0), Score: 80},
		Improvement:   25,
		TotalAttempts: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProgress(&buf, who, p, cmp, day))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteProgressWithoutComparison(t *testing.T) {
	var buf bytes.Buffer
	err := WriteProgress(&buf, domain.Identity{FullName: "New User"}, &domain.Progress{},
		&domain.Comparison{Message: "Need at least 2 completed assessments to compare"}, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
