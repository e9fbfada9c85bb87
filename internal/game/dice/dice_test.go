package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// seqSource returns scripted values, wrapping when exhausted.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func TestParseDie(t *testing.T) {
	cases := map[string]dice.Die{
		"d4":   dice.D4,
		"D6":   dice.D6,
		" d20": dice.D20,
	}
	for in, want := range cases {
		got, err := dice.ParseDie(in)
		require.NoError(t, err, "ParseDie(%q)", in)
		assert.Equal(t, want, got)
	}

	_, err := dice.ParseDie("d7")
	assert.Error(t, err, "d7 is not a supported die")
	_, err = dice.ParseDie("six")
	assert.Error(t, err)
}

func TestDie_Roll_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		die := rapid.SampledFrom([]dice.Die{dice.D4, dice.D6, dice.D20}).Draw(rt, "die")
		raw := rapid.IntRange(0, 1000).Draw(rt, "raw")
		v := die.Roll(&seqSource{vals: []int{raw}})
		assert.GreaterOrEqual(rt, v, 1)
		assert.LessOrEqual(rt, v, int(die))
	})
}

// TestRollResult_Total verifies the postcondition Total() == Value + Modifier.
func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Die: dice.D6, Value: 4, Modifier: 2}
	assert.Equal(t, 6, r.Total())

	r = dice.RollResult{Die: dice.D4, Value: 3, Modifier: -5}
	assert.Equal(t, -2, r.Total())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Die: dice.D6, Value: 4, Modifier: 2}
	s := r.String()
	require.Contains(t, s, "d6")
	require.Contains(t, s, "+2")
	require.Contains(t, s, "= 6")
}

// TestShuffle_Permutation verifies the shuffle always yields a permutation
// of the input regardless of the values the Source produces.
func TestShuffle_Permutation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 32).Draw(rt, "n")
		raws := rapid.SliceOfN(rapid.IntRange(0, 1<<30), 1, 64).Draw(rt, "raws")

		elems := make([]int, n)
		for i := range elems {
			elems[i] = i
		}
		dice.Shuffle(n, &seqSource{vals: raws}, func(i, j int) {
			elems[i], elems[j] = elems[j], elems[i]
		})

		seen := make(map[int]bool, n)
		for _, e := range elems {
			assert.False(rt, seen[e], "duplicate element %d", e)
			seen[e] = true
		}
		assert.Len(rt, seen, n)
	})
}

func TestShuffle_Deterministic(t *testing.T) {
	// A zero source swaps every element to index 0, step by step.
	elems := []string{"a", "b", "c"}
	dice.Shuffle(len(elems), &seqSource{vals: []int{0}}, func(i, j int) {
		elems[i], elems[j] = elems[j], elems[i]
	})
	assert.Equal(t, []string{"b", "c", "a"}, elems)
}

func TestBetween(t *testing.T) {
	assert.Equal(t, 5, dice.Between(5, 5, &seqSource{vals: []int{99}}))
	assert.Equal(t, 3, dice.Between(3, 7, &seqSource{vals: []int{0}}))
	assert.Equal(t, 7, dice.Between(3, 7, &seqSource{vals: []int{4}}))
}
