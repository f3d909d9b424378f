package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fringe-app/fringe/internal/app/models"
)

func coachList() []models.Profile {
	return []models.Profile{
		{ID: 1, FullName: "Sarah Chen", Role: models.RoleCoach},
		{ID: 2, FullName: "Marcus Webb", Role: models.RoleCoach},
		{ID: 3, FullName: "Elena Ortiz", Role: models.RoleCoach},
	}
}

func TestFilterMatchesCaseInsensitive(t *testing.T) {
	s := NewCoachService(nil, zerolog.Nop())
	coaches := coachList()

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"empty query returns all", "", []int64{1, 2, 3}},
		{"whitespace only returns all", "   ", []int64{1, 2, 3}},
		{"lowercase substring", "chen", []int64{1}},
		{"uppercase substring", "MARCUS", []int64{2}},
		{"partial first name", "el", []int64{3}},
		{"no match", "tiger", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Filter(coaches, tt.query)
			ids := make([]int64, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.want, ids)
			}
		})
	}
}

func TestLessonTypesCatalogue(t *testing.T) {
	s := NewCoachService(nil, zerolog.Nop())

	types := s.LessonTypes()
	require.Len(t, types, 3)
	assert.Equal(t, "Single Lesson", types[0].Name)
	assert.Equal(t, 60, types[0].Duration)
	assert.Equal(t, 85.0, types[0].Price)
	assert.Equal(t, "5 Lesson Package", types[1].Name)
	assert.Equal(t, 375.0, types[1].Price)
	assert.Equal(t, "Playing Lesson", types[2].Name)
	assert.Equal(t, 120, types[2].Duration)

	// callers cannot mutate the catalogue
	types[0].Price = 1
	assert.Equal(t, 85.0, s.LessonTypes()[0].Price)
}
