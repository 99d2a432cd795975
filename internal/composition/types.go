package composition

import "time"

// Instrument is one live voice a script created. The registry owns the entry
// from registration to removal; Ref points at the underlying runtime object,
// which is never copied.
type Instrument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	Ref       any       `json:"-"`
}

// Sequence is one running pattern driving a property of an Instrument.
type Sequence struct {
	ID           string    `json:"id"`
	InstrumentID string    `json:"instrumentId"`
	Target       string    `json:"target"`
	Values       []any     `json:"values"`
	Timings      []float64 `json:"timings"`
	Playing      bool      `json:"playing"`
}

// Snapshot is an immutable, point-in-time view of the composition. It is
// safe to retain: the slices are copies and are never mutated after the
// snapshot is taken.
type Snapshot struct {
	TempoBPM    float64      `json:"tempoBpm"`
	Instruments []Instrument `json:"instruments"`
	Sequences   []Sequence   `json:"sequences"`
	Playing     bool         `json:"playing"`
	TakenAt     time.Time    `json:"takenAt"`
}
