package qobj

import "encoding/json"

// QasmQobjConfig is the run configuration of a gate-level payload.
type QasmQobjConfig struct {
	Shots       int    `json:"shots,omitempty"`
	MaxCredits  int    `json:"max_credits,omitempty"`
	Seed        *int64 `json:"seed,omitempty"`
	MemorySlots int    `json:"memory_slots,omitempty"`
	Memory      bool   `json:"memory,omitempty"`
	NQubits     int    `json:"n_qubits,omitempty"`

	Extra map[string]any `json:"-"`
}

type plainQasmConfig QasmQobjConfig

// MarshalJSON implements json.Marshaler, merging Extra fields.
func (c QasmQobjConfig) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(plainQasmConfig(c), c.Extra)
}

// UnmarshalJSON implements json.Unmarshaler, collecting unknown fields into Extra.
func (c *QasmQobjConfig) UnmarshalJSON(data []byte) error {
	var p plainQasmConfig
	extra, err := unmarshalExtra(data, &p)
	if err != nil {
		return err
	}
	*c = QasmQobjConfig(p)
	c.Extra = extra
	return nil
}

// QasmQobjExperimentConfig overrides run configuration per experiment.
type QasmQobjExperimentConfig struct {
	MemorySlots int    `json:"memory_slots,omitempty"`
	NQubits     int    `json:"n_qubits,omitempty"`
	Seed        *int64 `json:"seed,omitempty"`

	Extra map[string]any `json:"-"`
}

type plainQasmExperimentConfig QasmQobjExperimentConfig

// MarshalJSON implements json.Marshaler, merging Extra fields.
func (c QasmQobjExperimentConfig) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(plainQasmExperimentConfig(c), c.Extra)
}

// UnmarshalJSON implements json.Unmarshaler, collecting unknown fields into Extra.
func (c *QasmQobjExperimentConfig) UnmarshalJSON(data []byte) error {
	var p plainQasmExperimentConfig
	extra, err := unmarshalExtra(data, &p)
	if err != nil {
		return err
	}
	*c = QasmQobjExperimentConfig(p)
	c.Extra = extra
	return nil
}

// QobjConditional gates an instruction on classical memory:
// the instruction runs when (memory & Mask) == Val.
type QobjConditional struct {
	Mask string `json:"mask"` // hex, e.g. "0x3"
	Type string `json:"type"` // always "equals"
	Val  string `json:"val"`  // hex
}

// QasmQobjInstruction is one gate-level instruction.
type QasmQobjInstruction struct {
	Name        string           `json:"name"`
	Qubits      []int            `json:"qubits,omitempty"`
	Params      []float64        `json:"params,omitempty"`
	Memory      []int            `json:"memory,omitempty"`
	Register    []int            `json:"register,omitempty"`
	Conditional *QobjConditional `json:"conditional,omitempty"`
}

// QasmQobjExperiment is one gate-level program.
type QasmQobjExperiment struct {
	Header       *QobjExperimentHeader     `json:"header,omitempty"`
	Config       *QasmQobjExperimentConfig `json:"config,omitempty"`
	Instructions []QasmQobjInstruction     `json:"instructions"`
}

// NewQasmQobjExperiment builds an experiment from its parts.
func NewQasmQobjExperiment(header *QobjExperimentHeader, config *QasmQobjExperimentConfig, instructions ...QasmQobjInstruction) QasmQobjExperiment {
	e := QasmQobjExperiment{Header: header, Config: config}
	e.Instructions = append([]QasmQobjInstruction{}, instructions...)
	return e
}

// Append adds instructions to the end of the experiment.
func (e *QasmQobjExperiment) Append(instructions ...QasmQobjInstruction) {
	e.Instructions = append(e.Instructions, instructions...)
}

// MarshalJSON implements json.Marshaler. A nil instruction list is
// written as an empty array.
func (e QasmQobjExperiment) MarshalJSON() ([]byte, error) {
	type plain QasmQobjExperiment
	if e.Instructions == nil {
		e.Instructions = []QasmQobjInstruction{}
	}
	return json.Marshal(plain(e))
}

// QasmQobj is a gate-level execution payload.
type QasmQobj struct {
	QobjID        string               `json:"qobj_id"`
	SchemaVersion string               `json:"schema_version"`
	Type          Kind                 `json:"type"`
	Header        QobjHeader           `json:"header"`
	Config        QasmQobjConfig       `json:"config"`
	Experiments   []QasmQobjExperiment `json:"experiments"`
}

// NewQasmQobj assembles a gate-level payload. No cross-field checks are
// made; call ValidateQobjAgainstSchema for that.
func NewQasmQobj(qobjID string, config QasmQobjConfig, experiments []QasmQobjExperiment, header QobjHeader) *QasmQobj {
	return &QasmQobj{
		QobjID:        qobjID,
		SchemaVersion: DefaultSchemaVersion,
		Type:          KindQASM,
		Header:        header,
		Config:        config,
		Experiments:   append([]QasmQobjExperiment{}, experiments...),
	}
}

// Kind implements Qobj.
func (q *QasmQobj) Kind() Kind { return KindQASM }

// ID implements Qobj.
func (q *QasmQobj) ID() string { return q.QobjID }

// ToDict implements Qobj.
func (q *QasmQobj) ToDict() (map[string]any, error) { return toDict(q) }

func (q *QasmQobj) qobj() {}

// MarshalJSON implements json.Marshaler. A nil experiment list is written
// as an empty array.
func (q QasmQobj) MarshalJSON() ([]byte, error) {
	type plain QasmQobj
	if q.Experiments == nil {
		q.Experiments = []QasmQobjExperiment{}
	}
	return json.Marshal(plain(q))
}
