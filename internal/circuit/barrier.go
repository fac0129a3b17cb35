package circuit

import (
	"fmt"
	"slices"
	"strings"
)

// QubitTargetable is a container that instructions can be attached to.
type QubitTargetable interface {
	// QuantumRegisters returns the registers currently on the container,
	// in registration order.
	QuantumRegisters() []*QuantumRegister

	// RegisteredQubits returns every qubit that may be targeted, in
	// register order then index order.
	RegisteredQubits() []Qubit

	// HasQubit reports whether q may be targeted by instructions.
	HasQubit(q Qubit) bool

	// Attach appends inst to the container's instruction stream.
	Attach(inst Instruction) Instruction
}

// Barrier keeps the builder from reordering operations across it on its
// target qubits.
type Barrier struct {
	base
	targets []Target
}

// Kind implements Instruction.
func (b *Barrier) Kind() Kind { return KindBarrier }

// Targets returns the arguments the barrier was built with; a no-argument
// barrier records the registered qubits, folded into registers where a
// whole register is covered.
func (b *Barrier) Targets() []Target {
	return slices.Clone(b.targets)
}

// CIf sets a classical condition. Barriers ignore it when rendering but
// carry it through Reapply.
func (b *Barrier) CIf(reg *ClassicalRegister, val int) (*Barrier, error) {
	cond, err := newCondition(reg, val)
	if err != nil {
		return nil, fmt.Errorf("barrier: %w", err)
	}
	b.cond = cond
	return b, nil
}

// Inverse returns b itself.
func (b *Barrier) Inverse() (Instruction, error) {
	return b, nil
}

// QASM renders "barrier q[0],r;". No condition prefix is ever emitted.
func (b *Barrier) QASM() string {
	refs := make([]string, len(b.targets))
	for i, t := range b.targets {
		refs[i] = t.qasmRef()
	}
	return "barrier " + strings.Join(refs, ",") + ";"
}

// Reapply builds the same barrier on target and copies modifiers.
func (b *Barrier) Reapply(target QubitTargetable) (Instruction, error) {
	nb, err := AttachBarrier(target, b.targets...)
	if err != nil {
		return nil, err
	}
	b.copyModifiers(&nb.base)
	return nb, nil
}

// AttachBarrier builds a barrier over args and attaches it to target.
//
// With no args every qubit currently registered on target is used, in
// register order then index order; a register whose qubits are all
// registered is recorded as one full-register target. Registers expand to
// all their qubits; single qubits pass through. The target list must not
// repeat a qubit and every qubit must be registered on target; otherwise a
// *QubitError is returned and nothing is attached.
func AttachBarrier(target QubitTargetable, args ...Target) (*Barrier, error) {
	targets := slices.Clone(args)
	if len(targets) == 0 {
		targets = registeredTargets(target)
	}

	var qubits []Qubit
	for _, t := range targets {
		if reg, ok := t.(*QuantumRegister); t == nil || (ok && reg == nil) {
			return nil, &QubitError{Code: ErrCodeInvalidQubit, Instruction: "barrier", Message: "nil target"}
		}
		qubits = append(qubits, t.Expand()...)
	}

	if err := checkTargets(target, "barrier", qubits); err != nil {
		return nil, err
	}

	b := &Barrier{
		base:    base{name: "barrier", params: []float64{}, qubits: qubits},
		targets: targets,
	}
	target.Attach(b)
	return b, nil
}

// registeredTargets snapshots target's registered qubits, folding fully
// covered registers into register targets.
func registeredTargets(target QubitTargetable) []Target {
	byReg := make(map[string][]Qubit)
	for _, q := range target.RegisteredQubits() {
		byReg[q.Register.Name] = append(byReg[q.Register.Name], q)
	}

	var targets []Target
	for _, reg := range target.QuantumRegisters() {
		qubits := byReg[reg.Name]
		if len(qubits) == reg.Size {
			targets = append(targets, reg)
			continue
		}
		for _, q := range qubits {
			targets = append(targets, q)
		}
	}
	return targets
}
