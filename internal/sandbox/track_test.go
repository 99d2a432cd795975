package sandbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackRegistersDeclaredInstruments(t *testing.T) {
	core, _ := newTestCore(t)

	source := `
const lead = Synth();
let bass = FM();
pad = Pluck();
`
	outcome := core.Execute(context.Background(), source, DefaultOptions())
	require.True(t, outcome.Succeeded)

	snap := core.Store().Snapshot()
	require.Len(t, snap.Instruments, 3)
	byName := map[string]string{}
	for _, inst := range snap.Instruments {
		byName[inst.Name] = inst.Kind
	}
	assert.Equal(t, "Synth", byName["lead"])
	assert.Equal(t, "FM", byName["bass"])
	assert.Equal(t, "Pluck", byName["pad"])
}

func TestTrackRegistersSequences(t *testing.T) {
	core, _ := newTestCore(t)

	source := `
const lead = Synth();
lead.note.seq([60, 62, 64], [1/4, 1/4, 1/2]);
`
	outcome := core.Execute(context.Background(), source, DefaultOptions())
	require.True(t, outcome.Succeeded)

	snap := core.Store().Snapshot()
	require.Len(t, snap.Instruments, 1)
	require.Len(t, snap.Sequences, 1)

	seq := snap.Sequences[0]
	assert.Equal(t, snap.Instruments[0].ID, seq.InstrumentID)
	assert.Equal(t, "note", seq.Target)
	assert.Equal(t, []any{60.0, 62.0, 64.0}, seq.Values)
	assert.Equal(t, []float64{0.25, 0.25, 0.5}, seq.Timings)
	assert.True(t, seq.Playing)
	assert.True(t, snap.Playing)
}

func TestTrackKeepsStringValuesOpaque(t *testing.T) {
	core, _ := newTestCore(t)

	source := `
var drums = Sampler();
drums.note.seq(['kick', 'snare'], [0.5, 0.5]);
`
	outcome := core.Execute(context.Background(), source, DefaultOptions())
	require.True(t, outcome.Succeeded)

	snap := core.Store().Snapshot()
	require.Len(t, snap.Sequences, 1)
	assert.Equal(t, []any{"kick", "snare"}, snap.Sequences[0].Values)
}

func TestTrackSkipsSequencesForUnknownNames(t *testing.T) {
	core, _ := newTestCore(t)

	// makeVoice hides the constructor behind a helper, so the declaration
	// scan cannot attribute the seq call and must skip it.
	source := `
function makeVoice() { return Synth(); }
var hidden = makeVoice();
hidden.note.seq([60], [1]);
`
	outcome := core.Execute(context.Background(), source, DefaultOptions())
	require.True(t, outcome.Succeeded)

	snap := core.Store().Snapshot()
	assert.Empty(t, snap.Instruments)
	assert.Empty(t, snap.Sequences)
}

func TestTrackSkipsUnparseableSeqArguments(t *testing.T) {
	core, _ := newTestCore(t)

	source := `
var lead = Synth();
var pattern = [60];
lead.note.seq(pattern, [1]);
`
	outcome := core.Execute(context.Background(), source, DefaultOptions())
	require.True(t, outcome.Succeeded)

	snap := core.Store().Snapshot()
	assert.Len(t, snap.Instruments, 1)
	assert.Empty(t, snap.Sequences)
}

func TestTrackDisabled(t *testing.T) {
	core, _ := newTestCore(t)

	opts := DefaultOptions()
	opts.Track = false
	outcome := core.Execute(context.Background(), "var lead = Synth();", opts)
	require.True(t, outcome.Succeeded)
	assert.Empty(t, core.Store().Snapshot().Instruments)
}

func TestTrackOnlyRunsOnSuccess(t *testing.T) {
	core, _ := newTestCore(t)

	source := "var lead = Synth(); undefinedFunction();"
	outcome := core.Execute(context.Background(), source, DefaultOptions())
	require.False(t, outcome.Succeeded)
	assert.Empty(t, core.Store().Snapshot().Instruments)
}

func TestParseSeqArgumentFractions(t *testing.T) {
	values, timings, ok := parseSeqArguments("[60, 'c4', 1/2], [1/4, 0.75])")
	require.True(t, ok)
	assert.Equal(t, []any{60.0, "c4", 0.5}, values)
	assert.Equal(t, []float64{0.25, 0.75}, timings)
}

func TestParseSeqArgumentsRejectsMissingArrays(t *testing.T) {
	_, _, ok := parseSeqArguments("[60])")
	assert.False(t, ok)

	_, _, ok = parseSeqArguments("pattern, [1])")
	assert.False(t, ok)
}
