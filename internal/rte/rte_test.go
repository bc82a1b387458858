package rte

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrevisionTypeNormalizes(t *testing.T) {
	for in, want := range map[string]PrevisionType{
		"REALISED":  Realised,
		"realised":  Realised,
		" d-1 ":     DayMinus1,
		"ID":        Intraday,
		"CORRECTED": Corrected,
	} {
		got, err := ParsePrevisionType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePrevisionType("WEEKLY")
	assert.ErrorContains(t, err, "unknown prevision type")
}

func TestParsePrevisionTypesSplitsList(t *testing.T) {
	types, err := ParsePrevisionTypes("REALISED, d-1,,D-2")
	require.NoError(t, err)
	assert.Equal(t, []PrevisionType{Realised, DayMinus1, DayMinus2}, types)

	_, err = ParsePrevisionTypes(" , ")
	assert.ErrorContains(t, err, "no prevision types")

	_, err = ParsePrevisionTypes("REALISED,WEEKLY")
	assert.Error(t, err)
}
