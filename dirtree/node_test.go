package dirtree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ldson/fatview/dirtree"
)

// TestDecodeDateTime checks spec.md §8 testable property 6 (date/time
// decoding). The packed date used here, 0x5235, is the value the
// documented formula (year = 1980 + ((date>>9)&0x7F), month =
// (date>>5)&0x0F, day = date&0x1F) actually produces for 2021-01-21. It
// differs from the literal 0x5215 named in the spec text, which that same
// formula decodes to month 0.
func TestDecodeDateTime(t *testing.T) {
	dt := dirtree.DecodeDateTime(0x5235, 0x6000)

	assert.Equal(t, 2021, dt.Year)
	assert.Equal(t, 1, dt.Month)
	assert.Equal(t, 21, dt.Day)
	assert.Equal(t, 12, dt.Hour)
	assert.Equal(t, 0, dt.Minute)
	assert.Equal(t, 0, dt.Second)
}

func TestDecodeDateTimeZeroValueIsZero(t *testing.T) {
	var dt dirtree.DateTime
	assert.True(t, dt.IsZero())
}
