package qobj

import (
	"encoding/json"
	"fmt"
)

// QobjHeader describes the payload as a whole.
type QobjHeader struct {
	BackendName    string `json:"backend_name,omitempty"`
	BackendVersion string `json:"backend_version,omitempty"`

	// Extra holds user-defined header fields.
	Extra map[string]any `json:"-"`
}

type plainQobjHeader QobjHeader

// MarshalJSON implements json.Marshaler, merging Extra fields.
func (h QobjHeader) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(plainQobjHeader(h), h.Extra)
}

// UnmarshalJSON implements json.Unmarshaler, collecting unknown fields into Extra.
func (h *QobjHeader) UnmarshalJSON(data []byte) error {
	var p plainQobjHeader
	extra, err := unmarshalExtra(data, &p)
	if err != nil {
		return err
	}
	*h = QobjHeader(p)
	h.Extra = extra
	return nil
}

// Label is a (register name, number) pair, serialized as a two-element
// array. The number is a bit index in *_labels and a size in *_sizes.
type Label struct {
	Register string
	Value    int
}

// MarshalJSON implements json.Marshaler.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Register, l.Value})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("label: expected 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &l.Register); err != nil {
		return fmt.Errorf("label register: %w", err)
	}
	if err := json.Unmarshal(raw[1], &l.Value); err != nil {
		return fmt.Errorf("label value: %w", err)
	}
	return nil
}

// QobjExperimentHeader describes a single experiment.
type QobjExperimentHeader struct {
	Name                string  `json:"name,omitempty"`
	QubitLabels         []Label `json:"qubit_labels,omitempty"`
	NQubits             int     `json:"n_qubits,omitempty"`
	QregSizes           []Label `json:"qreg_sizes,omitempty"`
	ClbitLabels         []Label `json:"clbit_labels,omitempty"`
	MemorySlots         int     `json:"memory_slots,omitempty"`
	CregSizes           []Label `json:"creg_sizes,omitempty"`
	CompiledCircuitQASM string  `json:"compiled_circuit_qasm,omitempty"`

	Extra map[string]any `json:"-"`
}

type plainExperimentHeader QobjExperimentHeader

// MarshalJSON implements json.Marshaler, merging Extra fields.
func (h QobjExperimentHeader) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(plainExperimentHeader(h), h.Extra)
}

// UnmarshalJSON implements json.Unmarshaler, collecting unknown fields into Extra.
func (h *QobjExperimentHeader) UnmarshalJSON(data []byte) error {
	var p plainExperimentHeader
	extra, err := unmarshalExtra(data, &p)
	if err != nil {
		return err
	}
	*h = QobjExperimentHeader(p)
	h.Extra = extra
	return nil
}
