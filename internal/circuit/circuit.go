package circuit

import (
	"fmt"
	"slices"
	"strings"
)

// QASMHeader opens every OPENQASM 2.0 program.
const QASMHeader = "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n"

// QuantumCircuit is an ordered instruction stream over named registers.
type QuantumCircuit struct {
	name string
	regs []Register
	data []Instruction
}

// NewQuantumCircuit creates a circuit with the given registers.
func NewQuantumCircuit(name string, regs ...Register) (*QuantumCircuit, error) {
	qc := &QuantumCircuit{name: name}
	for _, r := range regs {
		if err := qc.AddRegister(r); err != nil {
			return nil, err
		}
	}
	return qc, nil
}

// Name returns the circuit name.
func (qc *QuantumCircuit) Name() string { return qc.name }

// AddRegister adds a register. Names are unique across quantum and
// classical registers.
func (qc *QuantumCircuit) AddRegister(r Register) error {
	if r == nil {
		return fmt.Errorf("add register: nil register")
	}
	for _, existing := range qc.regs {
		if existing.RegisterName() == r.RegisterName() {
			return fmt.Errorf("add register %s: %w", r.RegisterName(), ErrRegisterExists)
		}
	}
	qc.regs = append(qc.regs, r)
	return nil
}

// QuantumRegisters implements QubitTargetable.
func (qc *QuantumCircuit) QuantumRegisters() []*QuantumRegister {
	var out []*QuantumRegister
	for _, r := range qc.regs {
		if qr, ok := r.(*QuantumRegister); ok {
			out = append(out, qr)
		}
	}
	return out
}

// ClassicalRegisters returns classical registers in registration order.
func (qc *QuantumCircuit) ClassicalRegisters() []*ClassicalRegister {
	var out []*ClassicalRegister
	for _, r := range qc.regs {
		if cr, ok := r.(*ClassicalRegister); ok {
			out = append(out, cr)
		}
	}
	return out
}

// NumQubits is the total size of all quantum registers.
func (qc *QuantumCircuit) NumQubits() int {
	n := 0
	for _, r := range qc.QuantumRegisters() {
		n += r.Size
	}
	return n
}

// NumClbits is the total size of all classical registers.
func (qc *QuantumCircuit) NumClbits() int {
	n := 0
	for _, r := range qc.ClassicalRegisters() {
		n += r.Size
	}
	return n
}

// RegisteredQubits implements QubitTargetable.
func (qc *QuantumCircuit) RegisteredQubits() []Qubit {
	var out []Qubit
	for _, r := range qc.QuantumRegisters() {
		out = append(out, r.Expand()...)
	}
	return out
}

// HasQubit implements QubitTargetable. A qubit is registered when a
// quantum register of the same name and size is on the circuit and the
// index is in range.
func (qc *QuantumCircuit) HasQubit(q Qubit) bool {
	if q.Register == nil || q.Index < 0 || q.Index >= q.Register.Size {
		return false
	}
	for _, r := range qc.QuantumRegisters() {
		if r.Name == q.Register.Name {
			return r.Size == q.Register.Size
		}
	}
	return false
}

// HasClbit reports whether c is a bit of a register on the circuit.
func (qc *QuantumCircuit) HasClbit(c Clbit) bool {
	if c.Register == nil || c.Index < 0 || c.Index >= c.Register.Size {
		return false
	}
	for _, r := range qc.ClassicalRegisters() {
		if r.Name == c.Register.Name {
			return r.Size == c.Register.Size
		}
	}
	return false
}

// Attach implements QubitTargetable.
func (qc *QuantumCircuit) Attach(inst Instruction) Instruction {
	qc.data = append(qc.data, inst)
	return inst
}

// Data returns the instruction stream.
func (qc *QuantumCircuit) Data() []Instruction {
	return slices.Clone(qc.data)
}

// Barrier attaches a barrier; see AttachBarrier.
func (qc *QuantumCircuit) Barrier(args ...Target) (*Barrier, error) {
	return AttachBarrier(qc, args...)
}

// H applies a Hadamard gate.
func (qc *QuantumCircuit) H(q Qubit) (*Gate, error) {
	return AttachGate(qc, "h", nil, q)
}

// X applies a Pauli-X gate.
func (qc *QuantumCircuit) X(q Qubit) (*Gate, error) {
	return AttachGate(qc, "x", nil, q)
}

// CX applies a controlled-X gate.
func (qc *QuantumCircuit) CX(ctl, tgt Qubit) (*Gate, error) {
	return AttachGate(qc, "cx", nil, ctl, tgt)
}

// RZ applies a Z rotation by phi.
func (qc *QuantumCircuit) RZ(phi float64, q Qubit) (*Gate, error) {
	return AttachGate(qc, "rz", []float64{phi}, q)
}

// Measure measures q into c.
func (qc *QuantumCircuit) Measure(q Qubit, c Clbit) (*Measure, error) {
	if err := checkTargets(qc, "measure", []Qubit{q}); err != nil {
		return nil, err
	}
	if !qc.HasClbit(c) {
		return nil, fmt.Errorf("measure %s -> %s: %w", q, c, ErrInvalidClbit)
	}
	m := &Measure{
		base:  base{name: "measure", qubits: []Qubit{q}},
		clbit: c,
	}
	qc.Attach(m)
	return m, nil
}

// Inverse returns a new circuit with the instruction stream inverted and
// reversed. Fails if any instruction has no inverse.
func (qc *QuantumCircuit) Inverse() (*QuantumCircuit, error) {
	inv := &QuantumCircuit{name: qc.name + "_dg", regs: slices.Clone(qc.regs)}
	for i := len(qc.data) - 1; i >= 0; i-- {
		ii, err := qc.data[i].Inverse()
		if err != nil {
			return nil, fmt.Errorf("invert %s: %w", qc.name, err)
		}
		inv.data = append(inv.data, ii)
	}
	return inv, nil
}

// QASM renders the circuit as an OPENQASM 2.0 program.
func (qc *QuantumCircuit) QASM() string {
	var sb strings.Builder
	sb.WriteString(QASMHeader)
	for _, r := range qc.regs {
		sb.WriteString(r.declaration())
		sb.WriteByte('\n')
	}
	for _, inst := range qc.data {
		sb.WriteString(inst.QASM())
		sb.WriteByte('\n')
	}
	return sb.String()
}
