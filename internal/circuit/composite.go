package circuit

import (
	"fmt"
	"slices"
	"strings"
)

// CompositeGate groups instructions under a name. Its registers are those
// of the owning circuit, but only the gate's own argument qubits are
// registered on it.
type CompositeGate struct {
	base
	circuit *QuantumCircuit
	data    []Instruction
}

// NewCompositeGate creates a composite over args, owned by circuit. The
// gate is not attached; pass it to Attach on any container.
func NewCompositeGate(name string, params []float64, args []Qubit, circuit *QuantumCircuit) (*CompositeGate, error) {
	if circuit == nil {
		return nil, fmt.Errorf("composite gate %s: nil circuit", name)
	}
	if err := checkTargets(circuit, name, args); err != nil {
		return nil, err
	}
	return &CompositeGate{
		base:    base{name: name, params: slices.Clone(params), qubits: slices.Clone(args)},
		circuit: circuit,
	}, nil
}

// Kind implements Instruction.
func (cg *CompositeGate) Kind() Kind { return KindGate }

// Circuit returns the owning circuit.
func (cg *CompositeGate) Circuit() *QuantumCircuit { return cg.circuit }

// QuantumRegisters implements QubitTargetable.
func (cg *CompositeGate) QuantumRegisters() []*QuantumRegister {
	return cg.circuit.QuantumRegisters()
}

// RegisteredQubits implements QubitTargetable: the gate's arguments in
// register order then index order.
func (cg *CompositeGate) RegisteredQubits() []Qubit {
	var out []Qubit
	for _, q := range cg.circuit.RegisteredQubits() {
		if cg.HasQubit(q) {
			out = append(out, q)
		}
	}
	return out
}

// HasQubit implements QubitTargetable: q must be on the owning circuit and
// be one of the gate's arguments.
func (cg *CompositeGate) HasQubit(q Qubit) bool {
	if !cg.circuit.HasQubit(q) {
		return false
	}
	return slices.ContainsFunc(cg.qubits, func(a Qubit) bool {
		return a.key() == q.key()
	})
}

// Attach implements QubitTargetable.
func (cg *CompositeGate) Attach(inst Instruction) Instruction {
	cg.data = append(cg.data, inst)
	return inst
}

// Data returns the gate's instruction stream.
func (cg *CompositeGate) Data() []Instruction {
	return slices.Clone(cg.data)
}

// Barrier attaches a barrier inside the gate; see AttachBarrier.
func (cg *CompositeGate) Barrier(args ...Target) (*Barrier, error) {
	return AttachBarrier(cg, args...)
}

// H applies a Hadamard gate inside the composite.
func (cg *CompositeGate) H(q Qubit) (*Gate, error) {
	return AttachGate(cg, "h", nil, q)
}

// X applies a Pauli-X gate inside the composite.
func (cg *CompositeGate) X(q Qubit) (*Gate, error) {
	return AttachGate(cg, "x", nil, q)
}

// CX applies a controlled-X gate inside the composite.
func (cg *CompositeGate) CX(ctl, tgt Qubit) (*Gate, error) {
	return AttachGate(cg, "cx", nil, ctl, tgt)
}

// RZ applies a Z rotation inside the composite.
func (cg *CompositeGate) RZ(phi float64, q Qubit) (*Gate, error) {
	return AttachGate(cg, "rz", []float64{phi}, q)
}

// QASM renders each contained instruction on its own line.
func (cg *CompositeGate) QASM() string {
	lines := make([]string, len(cg.data))
	for i, inst := range cg.data {
		lines[i] = inst.QASM()
	}
	return strings.Join(lines, "\n")
}

// Inverse returns a new composite with each instruction inverted, in
// reverse order.
func (cg *CompositeGate) Inverse() (Instruction, error) {
	inv := &CompositeGate{
		base:    base{name: cg.name + "_dg", params: slices.Clone(cg.params), qubits: slices.Clone(cg.qubits)},
		circuit: cg.circuit,
	}
	cg.copyModifiers(&inv.base)
	for i := len(cg.data) - 1; i >= 0; i-- {
		ii, err := cg.data[i].Inverse()
		if err != nil {
			return nil, fmt.Errorf("invert %s: %w", cg.name, err)
		}
		inv.data = append(inv.data, ii)
	}
	return inv, nil
}

// Reapply rebuilds the composite against target's circuit and attaches it
// to target. Target must be a *QuantumCircuit or *CompositeGate.
func (cg *CompositeGate) Reapply(target QubitTargetable) (Instruction, error) {
	var owner *QuantumCircuit
	switch t := target.(type) {
	case *QuantumCircuit:
		owner = t
	case *CompositeGate:
		owner = t.circuit
	default:
		return nil, fmt.Errorf("composite on %T: %w", target, ErrUnsupportedContainer)
	}
	if err := checkTargets(target, cg.name, cg.qubits); err != nil {
		return nil, err
	}

	ng, err := NewCompositeGate(cg.name, cg.params, cg.qubits, owner)
	if err != nil {
		return nil, err
	}
	cg.copyModifiers(&ng.base)
	for _, inst := range cg.data {
		if _, err := inst.Reapply(ng); err != nil {
			return nil, err
		}
	}
	target.Attach(ng)
	return ng, nil
}
