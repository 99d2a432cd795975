package composition

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soundloom/soundloom/internal/engine"
)

// DefaultTempoBPM is the transport tempo a fresh or reset store reports.
const DefaultTempoBPM = 120

// Store is the in-memory record of what is currently live: every instrument
// and sequence an accepted script created, plus the transport tempo.
//
// The store is shared between the execution core, subscribers, and any UI
// layer, so a mutex guards it. Each documented operation is individually
// atomic. Reset clears both collections and the tempo in a single critical
// section.
type Store struct {
	mu          sync.RWMutex
	tempo       float64
	instruments []Instrument
	sequences   []Sequence
	handle      engine.Handle

	listenerMu sync.Mutex
	listeners  map[int]func(Snapshot)
	nextToken  int
}

// New creates an empty store at the default tempo.
func New() *Store {
	return &Store{
		tempo:     DefaultTempoBPM,
		listeners: make(map[int]func(Snapshot)),
	}
}

// AttachHandle gives the store an engine handle so tempo changes reach the
// transport. A nil handle detaches.
func (s *Store) AttachHandle(h engine.Handle) {
	s.mu.Lock()
	s.handle = h
	s.mu.Unlock()
}

// RegisterInstrument stores a new instrument under a fresh unique id and
// returns the stored entity.
func (s *Store) RegisterInstrument(name, kind string, ref any) Instrument {
	inst := Instrument{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		CreatedAt: time.Now(),
		Ref:       ref,
	}
	s.mu.Lock()
	s.instruments = append(s.instruments, inst)
	s.mu.Unlock()

	s.notify()
	return inst
}

// UnregisterInstrument removes the instrument if present and cascades
// removal of every sequence keyed to it. Removing an unknown id is a no-op:
// callers are best-effort cleanup paths.
func (s *Store) UnregisterInstrument(id string) {
	s.mu.Lock()
	found := false
	kept := s.instruments[:0]
	for _, inst := range s.instruments {
		if inst.ID == id {
			found = true
			continue
		}
		kept = append(kept, inst)
	}
	s.instruments = kept

	if found {
		keptSeqs := s.sequences[:0]
		for _, seq := range s.sequences {
			if seq.InstrumentID != id {
				keptSeqs = append(keptSeqs, seq)
			}
		}
		s.sequences = keptSeqs
	}
	s.mu.Unlock()

	if found {
		s.notify()
	}
}

// RegisterSequence stores a new playing sequence under a fresh unique id.
// The instrument id is deliberately not checked against the live set:
// tracking is best-effort metadata and the caller may be racing a removal.
func (s *Store) RegisterSequence(instrumentID, target string, values []any, timings []float64) Sequence {
	seq := Sequence{
		ID:           uuid.NewString(),
		InstrumentID: instrumentID,
		Target:       target,
		Values:       append([]any(nil), values...),
		Timings:      append([]float64(nil), timings...),
		Playing:      true,
	}
	s.mu.Lock()
	s.sequences = append(s.sequences, seq)
	s.mu.Unlock()

	s.notify()
	return seq
}

// UnregisterSequence removes the sequence if present; unknown ids are a no-op.
func (s *Store) UnregisterSequence(id string) {
	s.mu.Lock()
	found := false
	kept := s.sequences[:0]
	for _, seq := range s.sequences {
		if seq.ID == id {
			found = true
			continue
		}
		kept = append(kept, seq)
	}
	s.sequences = kept
	s.mu.Unlock()

	if found {
		s.notify()
	}
}

// Snapshot produces an immutable point-in-time view of the composition.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	playing := false
	for _, seq := range s.sequences {
		if seq.Playing {
			playing = true
			break
		}
	}
	snap := Snapshot{
		TempoBPM:    s.tempo,
		Instruments: append([]Instrument(nil), s.instruments...),
		Sequences:   make([]Sequence, len(s.sequences)),
		Playing:     playing,
		TakenAt:     time.Now(),
	}
	for i, seq := range s.sequences {
		seq.Values = append([]any(nil), seq.Values...)
		seq.Timings = append([]float64(nil), seq.Timings...)
		snap.Sequences[i] = seq
	}
	return snap
}

// SetTempo updates the transport tempo and pushes it into the engine handle
// when one is attached. Non-positive values are ignored.
func (s *Store) SetTempo(bpm float64) {
	if bpm <= 0 {
		return
	}
	s.mu.Lock()
	s.tempo = bpm
	h := s.handle
	s.mu.Unlock()

	if h != nil {
		h.SetTempo(bpm)
	}
	s.notify()
}

// Tempo reads the current transport tempo.
func (s *Store) Tempo() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tempo
}

// Reset clears both collections and restores the default tempo in one
// logically atomic step, then notifies subscribers.
func (s *Store) Reset() {
	s.mu.Lock()
	s.instruments = nil
	s.sequences = nil
	s.tempo = DefaultTempoBPM
	h := s.handle
	s.mu.Unlock()

	if h != nil {
		h.SetTempo(DefaultTempoBPM)
	}
	s.notify()
}

// Subscribe registers a listener invoked synchronously with a fresh snapshot
// on every state transition. The returned function removes the listener and
// is safe to call more than once. Listeners are independent: one panicking
// must not starve the rest.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.listenerMu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, token)
		s.listenerMu.Unlock()
	}
}

// notify fans a snapshot out to every listener. The snapshot is taken after
// the mutation, outside the store lock, so listeners may call back into the
// store freely.
func (s *Store) notify() {
	snap := s.Snapshot()

	s.listenerMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		invoke(fn, snap)
	}
}

func invoke(fn func(Snapshot), snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Composition listener panicked.", "panic", r)
		}
	}()
	fn(snap)
}
