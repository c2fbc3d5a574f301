package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2025-02-28"))
	assert.False(t, ValidDate("2025-02-30"))
	assert.False(t, ValidDate("28/02/2025"))
}

func TestTimestampUsesClock(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	Now = func() time.Time { return fixed }
	t.Cleanup(func() { Now = time.Now })

	assert.Equal(t, "2025-01-02T03:04:05Z", Timestamp())
}

func TestHumanTimestampPassThrough(t *testing.T) {
	assert.Equal(t, "garbage", HumanTimestamp("garbage"))
}
