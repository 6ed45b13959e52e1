package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder_CodesFollowSortedOrder(t *testing.T) {
	// Input order must not matter: codes follow the sorted vocabulary,
	// matching the training-side encoder.
	enc, err := NewLabelEncoder([]string{"section_3", "section_1", "section_2"})
	require.NoError(t, err)

	for i, label := range []string{"section_1", "section_2", "section_3"} {
		code, ok := enc.Encode(label)
		assert.True(t, ok, "label %q should be known", label)
		assert.Equal(t, i, code, "code for %q", label)
	}
	assert.Equal(t, []string{"section_1", "section_2", "section_3"}, enc.Labels())
	assert.Equal(t, 3, enc.Len())
}

func TestLabelEncoder_UnknownLabel(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"idle", "spraying"})
	require.NoError(t, err)

	_, ok := enc.Encode("calibrating")
	assert.False(t, ok)
}

func TestNewLabelEncoder_Rejects(t *testing.T) {
	t.Run("empty vocabulary", func(t *testing.T) {
		_, err := NewLabelEncoder(nil)
		assert.Error(t, err)
	})
	t.Run("duplicate labels", func(t *testing.T) {
		_, err := NewLabelEncoder([]string{"idle", "idle"})
		assert.Error(t, err)
	})
}

func TestUnmarshalLabelEncoder(t *testing.T) {
	enc, err := UnmarshalLabelEncoder([]byte(`{"labels": ["transport", "idle", "spraying"]}`))
	require.NoError(t, err)

	code, ok := enc.Encode("idle")
	assert.True(t, ok)
	assert.Equal(t, 0, code)

	code, ok = enc.Encode("transport")
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	_, err = UnmarshalLabelEncoder([]byte(`{not json`))
	assert.Error(t, err)
}
