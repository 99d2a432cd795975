package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundloom/soundloom/internal/composition"
)

func TestPayloadFlattensSnapshot(t *testing.T) {
	store := composition.New()
	inst := store.RegisterInstrument("lead", "Synth", struct{ internal string }{"never leaves"})
	store.RegisterSequence(inst.ID, "note", []any{60.0}, []float64{0.25})

	payload := Payload(store.Snapshot())

	assert.Equal(t, float64(composition.DefaultTempoBPM), payload["tempoBpm"])
	assert.Equal(t, true, payload["playing"])

	instruments, ok := payload["instruments"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, instruments, 1)
	assert.Equal(t, inst.ID, instruments[0]["id"])
	assert.Equal(t, "lead", instruments[0]["name"])
	// The runtime object reference must not be part of the wire shape.
	assert.NotContains(t, instruments[0], "ref")

	sequences, ok := payload["sequences"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, sequences, 1)
	assert.Equal(t, inst.ID, sequences[0]["instrumentId"])
	assert.Equal(t, "note", sequences[0]["target"])
}

func TestPayloadEmptySnapshot(t *testing.T) {
	payload := Payload(composition.New().Snapshot())
	assert.Empty(t, payload["instruments"])
	assert.Empty(t, payload["sequences"])
	assert.Equal(t, false, payload["playing"])
}
