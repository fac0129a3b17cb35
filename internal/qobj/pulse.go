package qobj

import (
	"encoding/json"
	"fmt"
)

// Complex is a complex sample serialized as [re, im].
type Complex complex128

// MarshalJSON implements json.Marshaler.
func (c Complex) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{real(c), imag(c)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Complex) UnmarshalJSON(data []byte) error {
	var parts []float64
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("complex: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("complex: expected [re, im], got %d elements", len(parts))
	}
	*c = Complex(complex(parts[0], parts[1]))
	return nil
}

// QobjMeasurementOption selects a kernel or discriminator by name.
type QobjMeasurementOption struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// MarshalJSON implements json.Marshaler. Nil params are written as {}.
func (o QobjMeasurementOption) MarshalJSON() ([]byte, error) {
	type plain QobjMeasurementOption
	if o.Params == nil {
		o.Params = map[string]any{}
	}
	return json.Marshal(plain(o))
}

// PulseLibraryItem is a named sampled waveform.
type PulseLibraryItem struct {
	Name    string    `json:"name"`
	Samples []Complex `json:"samples"`
}

// MarshalJSON implements json.Marshaler. Nil samples are written as [].
func (p PulseLibraryItem) MarshalJSON() ([]byte, error) {
	type plain PulseLibraryItem
	if p.Samples == nil {
		p.Samples = []Complex{}
	}
	return json.Marshal(plain(p))
}

// PulseQobjInstruction is one scheduled pulse-level instruction.
type PulseQobjInstruction struct {
	Name           string                  `json:"name"`
	T0             int                     `json:"t0"`
	Ch             string                  `json:"ch,omitempty"`
	Conditional    *int                    `json:"conditional,omitempty"`
	Val            *Complex                `json:"val,omitempty"`
	Phase          *float64                `json:"phase,omitempty"`
	Duration       int                     `json:"duration,omitempty"`
	Qubits         []int                   `json:"qubits,omitempty"`
	MemorySlot     []int                   `json:"memory_slot,omitempty"`
	RegisterSlot   []int                   `json:"register_slot,omitempty"`
	Kernels        []QobjMeasurementOption `json:"kernels,omitempty"`
	Discriminators []QobjMeasurementOption `json:"discriminators,omitempty"`
	Label          string                  `json:"label,omitempty"`
	Type           string                  `json:"type,omitempty"`
	PulseShape     string                  `json:"pulse_shape,omitempty"`
	Parameters     map[string]any          `json:"parameters,omitempty"`
}

// PulseQobjConfig is the run configuration of a pulse-level payload.
type PulseQobjConfig struct {
	MeasLevel      int                `json:"meas_level"`
	MeasReturn     string             `json:"meas_return"`
	PulseLibrary   []PulseLibraryItem `json:"pulse_library"`
	QubitLoFreq    []float64          `json:"qubit_lo_freq"`
	MeasLoFreq     []float64          `json:"meas_lo_freq"`
	MemorySlotSize int                `json:"memory_slot_size,omitempty"`
	RepTime        int                `json:"rep_time,omitempty"`
	Shots          int                `json:"shots,omitempty"`
	MaxCredits     int                `json:"max_credits,omitempty"`
	Seed           *int64             `json:"seed,omitempty"`
	MemorySlots    int                `json:"memory_slots,omitempty"`

	Extra map[string]any `json:"-"`
}

type plainPulseConfig PulseQobjConfig

// MarshalJSON implements json.Marshaler, merging Extra fields. Nil lists
// are written as empty arrays.
func (c PulseQobjConfig) MarshalJSON() ([]byte, error) {
	if c.PulseLibrary == nil {
		c.PulseLibrary = []PulseLibraryItem{}
	}
	if c.QubitLoFreq == nil {
		c.QubitLoFreq = []float64{}
	}
	if c.MeasLoFreq == nil {
		c.MeasLoFreq = []float64{}
	}
	return marshalWithExtra(plainPulseConfig(c), c.Extra)
}

// UnmarshalJSON implements json.Unmarshaler, collecting unknown fields into Extra.
func (c *PulseQobjConfig) UnmarshalJSON(data []byte) error {
	var p plainPulseConfig
	extra, err := unmarshalExtra(data, &p)
	if err != nil {
		return err
	}
	*c = PulseQobjConfig(p)
	c.Extra = extra
	return nil
}

// PulseQobjExperimentConfig overrides LO frequencies per experiment.
type PulseQobjExperimentConfig struct {
	QubitLoFreq []float64 `json:"qubit_lo_freq,omitempty"`
	MeasLoFreq  []float64 `json:"meas_lo_freq,omitempty"`

	Extra map[string]any `json:"-"`
}

type plainPulseExperimentConfig PulseQobjExperimentConfig

// MarshalJSON implements json.Marshaler, merging Extra fields.
func (c PulseQobjExperimentConfig) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(plainPulseExperimentConfig(c), c.Extra)
}

// UnmarshalJSON implements json.Unmarshaler, collecting unknown fields into Extra.
func (c *PulseQobjExperimentConfig) UnmarshalJSON(data []byte) error {
	var p plainPulseExperimentConfig
	extra, err := unmarshalExtra(data, &p)
	if err != nil {
		return err
	}
	*c = PulseQobjExperimentConfig(p)
	c.Extra = extra
	return nil
}

// PulseQobjExperiment is one pulse schedule.
type PulseQobjExperiment struct {
	Header       *QobjExperimentHeader      `json:"header,omitempty"`
	Config       *PulseQobjExperimentConfig `json:"config,omitempty"`
	Instructions []PulseQobjInstruction     `json:"instructions"`
}

// NewPulseQobjExperiment builds an experiment from its parts.
func NewPulseQobjExperiment(header *QobjExperimentHeader, config *PulseQobjExperimentConfig, instructions ...PulseQobjInstruction) PulseQobjExperiment {
	e := PulseQobjExperiment{Header: header, Config: config}
	e.Instructions = append([]PulseQobjInstruction{}, instructions...)
	return e
}

// Append adds instructions to the end of the schedule.
func (e *PulseQobjExperiment) Append(instructions ...PulseQobjInstruction) {
	e.Instructions = append(e.Instructions, instructions...)
}

// MarshalJSON implements json.Marshaler. A nil instruction list is
// written as an empty array.
func (e PulseQobjExperiment) MarshalJSON() ([]byte, error) {
	type plain PulseQobjExperiment
	if e.Instructions == nil {
		e.Instructions = []PulseQobjInstruction{}
	}
	return json.Marshal(plain(e))
}

// PulseQobj is a pulse-level execution payload.
type PulseQobj struct {
	QobjID        string                `json:"qobj_id"`
	SchemaVersion string                `json:"schema_version"`
	Type          Kind                  `json:"type"`
	Header        QobjHeader            `json:"header"`
	Config        PulseQobjConfig       `json:"config"`
	Experiments   []PulseQobjExperiment `json:"experiments"`
}

// NewPulseQobj assembles a pulse-level payload. No cross-field checks are
// made; call ValidateQobjAgainstSchema for that.
func NewPulseQobj(qobjID string, config PulseQobjConfig, experiments []PulseQobjExperiment, header QobjHeader) *PulseQobj {
	return &PulseQobj{
		QobjID:        qobjID,
		SchemaVersion: DefaultSchemaVersion,
		Type:          KindPulse,
		Header:        header,
		Config:        config,
		Experiments:   append([]PulseQobjExperiment{}, experiments...),
	}
}

// Kind implements Qobj.
func (q *PulseQobj) Kind() Kind { return KindPulse }

// ID implements Qobj.
func (q *PulseQobj) ID() string { return q.QobjID }

// ToDict implements Qobj.
func (q *PulseQobj) ToDict() (map[string]any, error) { return toDict(q) }

func (q *PulseQobj) qobj() {}

// MarshalJSON implements json.Marshaler. A nil experiment list is written
// as an empty array.
func (q PulseQobj) MarshalJSON() ([]byte, error) {
	type plain PulseQobj
	if q.Experiments == nil {
		q.Experiments = []PulseQobjExperiment{}
	}
	return json.Marshal(plain(q))
}
