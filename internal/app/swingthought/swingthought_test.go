package swingthought

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForDateIsDeterministic(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	morning := ForDate(day.Add(6 * time.Hour))
	evening := ForDate(day.Add(22 * time.Hour))
	assert.Equal(t, morning, evening, "same day, same thought")

	assert.NotEmpty(t, ForDate(day))
}

func TestForDateCoversPool(t *testing.T) {
	seen := map[string]bool{}
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		seen[ForDate(day.AddDate(0, 0, i))] = true
	}
	assert.Greater(t, len(seen), 1, "the pool rotates over time")
}
