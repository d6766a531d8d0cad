package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	// Amman -> Zarqa is roughly 22 km
	d := CalculateDistance(31.9539, 35.9106, 32.0728, 36.0880)
	assert.InDelta(t, 22, d, 3)

	assert.Zero(t, CalculateDistance(10, 10, 10, 10))
}

func TestHasLocation(t *testing.T) {
	assert.False(t, HasLocation(0, 0))
	assert.True(t, HasLocation(0, 12.5))
}

func TestAgeOn(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		dob    string
		want   int
		wantOK bool
	}{
		{"birthday passed", "2000-01-15", 26, true},
		{"birthday today", "2000-03-10", 26, true},
		{"birthday tomorrow", "2000-03-11", 25, true},
		{"garbage", "not-a-date", 0, false},
		{"future", "2030-01-01", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AgeOn(tt.dob, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompositeKey(t *testing.T) {
	key := CompositeKey(UserPK("u1"), InteractionSK("u2"))
	assert.Equal(t, "USER#u1", ExtractString(key, "PK"))
	assert.Equal(t, "INTERACTION#u2", ExtractString(key, "SK"))
	assert.Equal(t, "SEEN#u3", SeenSK("u3"))
}
