package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fringe-app/fringe/internal/app/models"
)

func TestSplitPartitionsByDateAndStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{ID: 1, Date: now.Add(48 * time.Hour), Status: models.BookingPending},
		{ID: 2, Date: now.Add(-24 * time.Hour), Status: models.BookingPending},
		{ID: 3, Date: now.Add(24 * time.Hour), Status: models.BookingCancelled},
		{ID: 4, Date: now, Status: models.BookingPending},
	}

	s := &BookingService{}
	upcoming, past := s.Split(bookings, now)

	upcomingIDs := make([]int64, 0, len(upcoming))
	for _, b := range upcoming {
		upcomingIDs = append(upcomingIDs, b.ID)
	}
	pastIDs := make([]int64, 0, len(past))
	for _, b := range past {
		pastIDs = append(pastIDs, b.ID)
	}

	assert.Equal(t, []int64{1, 4}, upcomingIDs, "a booking starting right now is still upcoming")
	assert.Equal(t, []int64{2, 3}, pastIDs, "cancelled bookings sort to past even with a future date")
}

func TestSplitEmpty(t *testing.T) {
	s := &BookingService{}
	upcoming, past := s.Split(nil, time.Now())
	assert.Empty(t, upcoming)
	assert.Empty(t, past)
}

func TestLessonByName(t *testing.T) {
	lesson, ok := lessonByName("Playing Lesson")
	require.True(t, ok)
	assert.Equal(t, 120, lesson.Duration)
	assert.Equal(t, 150.0, lesson.Price)

	_, ok = lessonByName("Trick Shot Clinic")
	assert.False(t, ok)
}
