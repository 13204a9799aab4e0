package votes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTallyPercentages(t *testing.T) {
	cases := []struct {
		name   string
		tally  Tally
		gercek int
		efsane int
	}{
		{"empty poll reads even", Tally{}, 50, 50},
		{"three to one", Tally{Gercek: 3, Efsane: 1}, 75, 25},
		{"one sided", Tally{Gercek: 5, Efsane: 0}, 100, 0},
		{"rounds up", Tally{Gercek: 2, Efsane: 1}, 67, 33},
		{"rounds half away from zero", Tally{Gercek: 1, Efsane: 7}, 13, 87},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.gercek, tc.tally.GercekPercentage())
			assert.Equal(t, tc.efsane, tc.tally.EfsanePercentage())
			assert.Equal(t, 100, tc.tally.GercekPercentage()+tc.tally.EfsanePercentage())
		})
	}
}

func TestChoice(t *testing.T) {
	assert.True(t, ChoiceGercek.Valid())
	assert.True(t, ChoiceEfsane.Valid())
	assert.False(t, Choice("").Valid())
	assert.False(t, Choice("yes").Valid())

	assert.Equal(t, ChoiceEfsane, ChoiceGercek.Other())
	assert.Equal(t, ChoiceGercek, ChoiceEfsane.Other())
}
