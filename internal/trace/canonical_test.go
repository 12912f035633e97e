package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"seq":  int64(1),
		"kind": "start",
		"a":    []any{true, false, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,false,3],"kind":"start","seq":1}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute accent becomes the precomposed form.
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+FF61 sorts before U+1F600 in UTF-8 but after it in UTF-16,
	// where the emoji is a surrogate pair starting 0xD83D.
	got, err := MarshalCanonical(map[string]any{
		"\U0001F600": 1,
		"\uff61":     2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":1,\"\uff61\":2}", string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"null", nil},
		{"float", 1.5},
		{"nested float", map[string]any{"x": []any{0.1}}},
		{"struct", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.v)
			assert.Error(t, err)
		})
	}
}

func TestEventObject_OmitsInapplicableFields(t *testing.T) {
	tests := []struct {
		name string
		e    Event
		want string
	}{
		{
			name: "start",
			e:    Event{Seq: 1, Kind: KindStart, Rotor: -1, Positions: "AAA"},
			want: `{"kind":"start","positions":"AAA","seq":1}`,
		},
		{
			name: "press",
			e:    Event{Seq: 2, Kind: KindPress, Letter: "A", Lit: "B", Rotor: -1, Positions: "AAB"},
			want: `{"kind":"press","letter":"A","lit":"B","positions":"AAB","seq":2}`,
		},
		{
			name: "release",
			e:    Event{Seq: 3, Kind: KindRelease, Letter: "A", Rotor: -1, Positions: "AAB"},
			want: `{"kind":"release","letter":"A","positions":"AAB","seq":3}`,
		},
		{
			name: "click rotor zero",
			e:    Event{Seq: 4, Kind: KindClick, Rotor: 0, Positions: "BAB"},
			want: `{"kind":"click","positions":"BAB","rotor":0,"seq":4}`,
		},
		{
			name: "set",
			e:    Event{Seq: 5, Kind: KindSet, Rotor: -1, Positions: "QEV"},
			want: `{"kind":"set","positions":"QEV","seq":5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.e.Object())
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFingerprint(t *testing.T) {
	events := []Event{
		{Seq: 1, Kind: KindStart, Rotor: -1, Positions: "AAA"},
		{Seq: 2, Kind: KindPress, Letter: "A", Lit: "B", Rotor: -1, Positions: "AAB"},
		{Seq: 3, Kind: KindRelease, Letter: "A", Rotor: -1, Positions: "AAB"},
	}

	fp, err := Fingerprint(events)
	require.NoError(t, err)
	assert.Equal(t, "f73ac24cf9804f3e6c493c4d334e975634ec2d97edf05991b02d729ce2418df3", fp)

	again, err := Fingerprint(events)
	require.NoError(t, err)
	assert.Equal(t, fp, again, "fingerprint must be deterministic")

	changed := append([]Event(nil), events...)
	changed[1].Lit = "C"
	other, err := Fingerprint(changed)
	require.NoError(t, err)
	assert.NotEqual(t, fp, other)
}

func TestFingerprint_Empty(t *testing.T) {
	fp, err := Fingerprint(nil)
	require.NoError(t, err)
	assert.Equal(t, "08cfa7d15f43e6ba23e0a87a9f366879a7a099acbf6aee239b850a969c27640d", fp)
}
