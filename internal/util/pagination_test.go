package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		page, size  int
		offset, lim int
	}{
		{0, 0, 0, DefaultPageSize},
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{2, 500, DefaultPageSize, DefaultPageSize},
	}
	for _, tc := range cases {
		off, lim := Calculate(tc.page, tc.size)
		assert.Equal(t, tc.offset, off)
		assert.Equal(t, tc.lim, lim)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("7", 1))
	assert.Equal(t, 1, ParseIntDefault("seven", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
}
