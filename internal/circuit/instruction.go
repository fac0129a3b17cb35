package circuit

import (
	"fmt"
	"slices"
)

// Kind tags each instruction with its semantics.
type Kind int

const (
	// KindGate is a unitary gate.
	KindGate Kind = iota
	// KindMeasure is a projective measurement into a classical bit.
	KindMeasure
	// KindBarrier is an ordering constraint with no effect on state.
	KindBarrier
)

func (k Kind) String() string {
	switch k {
	case KindGate:
		return "gate"
	case KindMeasure:
		return "measure"
	case KindBarrier:
		return "barrier"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// InverseIsIdentity reports whether instructions of this kind are their
// own inverse without any transformation.
func (k Kind) InverseIsIdentity() bool {
	return k == KindBarrier
}

// Instruction is an element of a circuit's instruction stream.
type Instruction interface {
	Name() string
	Kind() Kind
	Params() []float64
	Qubits() []Qubit

	// Condition returns the classical condition modifier, or nil.
	Condition() *Condition

	// QASM renders the instruction as OPENQASM 2.0 text without a
	// trailing newline.
	QASM() string

	// Inverse returns the inverse instruction. Barriers return themselves.
	Inverse() (Instruction, error)

	// Reapply rebuilds the instruction on another container with the same
	// targets and modifiers.
	Reapply(target QubitTargetable) (Instruction, error)
}

// Condition gates an instruction on a classical register value.
type Condition struct {
	Register *ClassicalRegister
	Value    int
}

// newCondition checks that val is representable in reg: 0 <= val < 2^size.
func newCondition(reg *ClassicalRegister, val int) (*Condition, error) {
	if reg == nil {
		return nil, fmt.Errorf("condition has no register: %w", ErrInvalidCondition)
	}
	if val < 0 || (reg.Size < 63 && val >= 1<<reg.Size) {
		return nil, fmt.Errorf("condition %s==%d does not fit %d bit(s): %w",
			reg.Name, val, reg.Size, ErrInvalidCondition)
	}
	return &Condition{Register: reg, Value: val}, nil
}

func (c *Condition) qasmPrefix() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("if(%s==%d) ", c.Register.Name, c.Value)
}

// base carries the fields every instruction has.
type base struct {
	name   string
	params []float64
	qubits []Qubit
	cond   *Condition
}

func (b *base) Name() string          { return b.name }
func (b *base) Params() []float64     { return slices.Clone(b.params) }
func (b *base) Qubits() []Qubit       { return slices.Clone(b.qubits) }
func (b *base) Condition() *Condition { return b.cond }

// copyModifiers carries modifiers from b onto dst.
func (b *base) copyModifiers(dst *base) {
	if b.cond != nil {
		c := *b.cond
		dst.cond = &c
	}
}

// checkTargets rejects empty, duplicate and unregistered qubits. Duplicates
// are checked before registration.
func checkTargets(target QubitTargetable, name string, qubits []Qubit) error {
	if len(qubits) == 0 {
		return &QubitError{Code: ErrCodeEmptyTarget, Instruction: name, Message: "no qubits to act on"}
	}
	for _, q := range qubits {
		if q.Register == nil {
			return &QubitError{Code: ErrCodeInvalidQubit, Instruction: name, Qubit: q, Message: "qubit has no register"}
		}
	}

	seen := make(map[bitKey]bool, len(qubits))
	for _, q := range qubits {
		if seen[q.key()] {
			return &QubitError{
				Code:        ErrCodeDuplicateQubit,
				Instruction: name,
				Qubit:       q,
				Message:     fmt.Sprintf("duplicate qubit %s", q),
			}
		}
		seen[q.key()] = true
	}

	for _, q := range qubits {
		if !target.HasQubit(q) {
			return &QubitError{
				Code:        ErrCodeInvalidQubit,
				Instruction: name,
				Qubit:       q,
				Message:     fmt.Sprintf("qubit %s not registered", q),
			}
		}
	}
	return nil
}
