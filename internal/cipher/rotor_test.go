package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRotor(t *testing.T, wiring string) *Rotor {
	t.Helper()
	p, err := ParsePermutation(LatinAlphabet(), wiring)
	require.NoError(t, err)
	return NewRotor(p)
}

func lookupString(r *Rotor, backward bool) string {
	out := make([]byte, 26)
	for i := 0; i < 26; i++ {
		if backward {
			out[i] = Latin[r.Backward(i)]
		} else {
			out[i] = Latin[r.Forward(i)]
		}
	}
	return string(out)
}

func TestRotor_StartsAtZero(t *testing.T) {
	r := newTestRotor(t, rotorIII)
	assert.Equal(t, 0, r.Offset())
	assert.Equal(t, 26, r.Size())
	assert.Equal(t, rotorIII, lookupString(r, false), "offset 0 forward is the raw wiring")
}

func TestRotor_ForwardBackwardAtOffset(t *testing.T) {
	r := newTestRotor(t, rotorIII)
	assert.False(t, r.Advance())
	require.Equal(t, 1, r.Offset())

	assert.Equal(t, "CEGIKBOQSWUYMXDHVFZJLTRPNA", lookupString(r, false))
	assert.Equal(t, "ZFAOBRCPDTEUMYGXHWIVKQJNLS", lookupString(r, true))
}

func TestRotor_ConjugationSymmetry(t *testing.T) {
	for _, wiring := range []string{rotorI, rotorII, rotorIII} {
		r := newTestRotor(t, wiring)
		for o := 0; o < 26; o++ {
			require.NoError(t, r.SetOffset(o))
			for i := 0; i < 26; i++ {
				assert.Equal(t, i, r.Backward(r.Forward(i)), "wiring %s offset %d index %d", wiring, o, i)
				assert.Equal(t, i, r.Forward(r.Backward(i)), "wiring %s offset %d index %d", wiring, o, i)
			}
		}
	}
}

func TestRotor_AdvanceCarry(t *testing.T) {
	r := newTestRotor(t, rotorI)

	carries := 0
	for i := 0; i < 26; i++ {
		if r.Advance() {
			carries++
			assert.Equal(t, 25, i, "carry must happen on the 26th step")
		}
	}

	assert.Equal(t, 1, carries)
	assert.Equal(t, 0, r.Offset(), "26 steps return the rotor to 0")
}

func TestRotor_OdometerCascade(t *testing.T) {
	slow := newTestRotor(t, rotorI)
	medium := newTestRotor(t, rotorII)
	fast := newTestRotor(t, rotorIII)

	mediumCarries := 0
	slowCarries := 0
	for i := 0; i < 26*26; i++ {
		if fast.Advance() {
			mediumCarries++
			if medium.Advance() {
				slowCarries++
				slow.Advance()
			}
		}
	}

	assert.Equal(t, 26, mediumCarries)
	assert.Equal(t, 1, slowCarries, "26*26 fast steps carry exactly once into the slow rotor")
	assert.Equal(t, 1, slow.Offset())
	assert.Equal(t, 0, medium.Offset())
	assert.Equal(t, 0, fast.Offset())
}

func TestRotor_SetOffset(t *testing.T) {
	r := newTestRotor(t, rotorI)

	require.NoError(t, r.SetOffset(25))
	assert.Equal(t, 25, r.Offset())
	assert.True(t, r.Advance(), "25 -> 0 is a carry")

	err := r.SetOffset(26)
	assert.True(t, IsIndexOutOfRange(err))
	err = r.SetOffset(-1)
	assert.True(t, IsIndexOutOfRange(err))
	assert.Equal(t, 0, r.Offset(), "rejected SetOffset must not move the rotor")
}

func TestRotor_IndexTakenModuloN(t *testing.T) {
	r := newTestRotor(t, rotorI)
	assert.Equal(t, r.Forward(0), r.Forward(26))
	assert.Equal(t, r.Backward(25), r.Backward(-1))
}

func TestReflector(t *testing.T) {
	p, err := ParsePermutation(LatinAlphabet(), reflector)
	require.NoError(t, err)
	refl := NewReflector(p)

	assert.True(t, refl.IsInvolution())
	assert.Equal(t, 24, refl.Reflect(0), "A -> Y")
	assert.Equal(t, 0, refl.Reflect(24), "Y -> A")
	for i := 0; i < refl.Size(); i++ {
		assert.Equal(t, i, refl.Reflect(refl.Reflect(i)))
	}
}
