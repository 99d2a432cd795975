package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundloom/soundloom/internal/stubengine"
)

func TestRegisterInstrumentAllocatesUniqueIDs(t *testing.T) {
	s := New()
	a := s.RegisterInstrument("a", "Synth", nil)
	b := s.RegisterInstrument("b", "FM", nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())

	snap := s.Snapshot()
	require.Len(t, snap.Instruments, 2)
	assert.Equal(t, "a", snap.Instruments[0].Name)
	assert.Equal(t, "Synth", snap.Instruments[0].Kind)
}

func TestUnregisterInstrumentCascadesOwnSequencesOnly(t *testing.T) {
	s := New()
	a := s.RegisterInstrument("a", "Synth", nil)
	b := s.RegisterInstrument("b", "Synth", nil)
	s.RegisterSequence(a.ID, "note", []any{60.0}, []float64{0.25})
	seqB := s.RegisterSequence(b.ID, "note", []any{62.0}, []float64{0.5})

	s.UnregisterInstrument(a.ID)

	snap := s.Snapshot()
	require.Len(t, snap.Instruments, 1)
	assert.Equal(t, b.ID, snap.Instruments[0].ID)
	require.Len(t, snap.Sequences, 1)
	assert.Equal(t, seqB.ID, snap.Sequences[0].ID)
}

func TestUnregisterUnknownIDsAreNoOps(t *testing.T) {
	s := New()
	s.RegisterInstrument("a", "Synth", nil)

	s.UnregisterInstrument("no-such-id")
	s.UnregisterSequence("no-such-id")

	assert.Len(t, s.Snapshot().Instruments, 1)
}

func TestSequenceStartsPlaying(t *testing.T) {
	s := New()
	inst := s.RegisterInstrument("a", "Synth", nil)
	seq := s.RegisterSequence(inst.ID, "note", []any{60.0}, []float64{0.25})

	assert.True(t, seq.Playing)
	snap := s.Snapshot()
	assert.True(t, snap.Playing)

	s.UnregisterSequence(seq.ID)
	assert.False(t, s.Snapshot().Playing)
}

func TestRegisterSequenceDoesNotValidateInstrument(t *testing.T) {
	s := New()
	seq := s.RegisterSequence("dangling", "note", []any{60.0}, []float64{0.25})
	assert.Equal(t, "dangling", seq.InstrumentID)
	assert.Len(t, s.Snapshot().Sequences, 1)
}

func TestResetRestoresDefaults(t *testing.T) {
	s := New()
	inst := s.RegisterInstrument("a", "Synth", nil)
	s.RegisterSequence(inst.ID, "note", []any{60.0}, []float64{0.25})
	s.SetTempo(174)

	s.Reset()

	snap := s.Snapshot()
	assert.Empty(t, snap.Instruments)
	assert.Empty(t, snap.Sequences)
	assert.InDelta(t, DefaultTempoBPM, snap.TempoBPM, 0.0001)
	assert.False(t, snap.Playing)
}

func TestSetTempoPushesToAttachedHandle(t *testing.T) {
	s := New()
	eng := stubengine.New()
	s.AttachHandle(eng)

	s.SetTempo(140)
	assert.InDelta(t, 140, s.Tempo(), 0.0001)
	assert.InDelta(t, 140, eng.Tempo(), 0.0001)

	// Non-positive tempo is rejected.
	s.SetTempo(0)
	assert.InDelta(t, 140, s.Tempo(), 0.0001)
}

func TestSnapshotIsImmutable(t *testing.T) {
	s := New()
	inst := s.RegisterInstrument("a", "Synth", nil)
	s.RegisterSequence(inst.ID, "note", []any{60.0}, []float64{0.25})

	snap := s.Snapshot()
	snap.Instruments[0].Name = "mutated"
	snap.Sequences[0].Values[0] = 99.0
	snap.Sequences[0].Timings[0] = 9

	fresh := s.Snapshot()
	assert.Equal(t, "a", fresh.Instruments[0].Name)
	assert.Equal(t, 60.0, fresh.Sequences[0].Values[0])
	assert.InDelta(t, 0.25, fresh.Sequences[0].Timings[0], 0.0001)
}

func TestSubscribeDeliversOnEveryTransition(t *testing.T) {
	s := New()
	var snaps []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		snaps = append(snaps, snap)
	})

	inst := s.RegisterInstrument("a", "Synth", nil)
	s.RegisterSequence(inst.ID, "note", []any{60.0}, []float64{0.25})
	s.SetTempo(90)
	s.Reset()

	require.Len(t, snaps, 4)
	assert.Len(t, snaps[0].Instruments, 1)
	assert.Len(t, snaps[1].Sequences, 1)
	assert.InDelta(t, 90, snaps[2].TempoBPM, 0.0001)
	assert.Empty(t, snaps[3].Instruments)

	unsubscribe()
	s.RegisterInstrument("b", "FM", nil)
	assert.Len(t, snaps, 4)

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func TestPanickingListenerDoesNotStarveOthers(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func(Snapshot) { panic("listener bug") })
	s.Subscribe(func(Snapshot) { calls++ })

	s.RegisterInstrument("a", "Synth", nil)
	assert.Equal(t, 1, calls)
}

func TestListenersMayCallBackIntoStore(t *testing.T) {
	s := New()
	var observed float64
	s.Subscribe(func(Snapshot) {
		observed = s.Tempo()
	})
	s.SetTempo(133)
	assert.InDelta(t, 133, observed, 0.0001)
}
