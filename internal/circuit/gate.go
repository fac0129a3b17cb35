package circuit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// gateDef describes a standard gate from qelib1.inc.
type gateDef struct {
	numQubits int
	numParams int
	// inverse maps parameters to those of the inverse gate.
	inverse func(params []float64) []float64
}

func selfInverse(p []float64) []float64 { return p }

func negate(p []float64) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = -v
	}
	return out
}

var standardGates = map[string]gateDef{
	"h":  {numQubits: 1, inverse: selfInverse},
	"x":  {numQubits: 1, inverse: selfInverse},
	"cx": {numQubits: 2, inverse: selfInverse},
	"rz": {numQubits: 1, numParams: 1, inverse: negate},
}

// Gate is a standard unitary gate.
type Gate struct {
	base
}

// Kind implements Instruction.
func (g *Gate) Kind() Kind { return KindGate }

// CIf sets a classical condition rendered as an if(...) prefix. val must
// fit in reg.
func (g *Gate) CIf(reg *ClassicalRegister, val int) (*Gate, error) {
	cond, err := newCondition(reg, val)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.name, err)
	}
	g.cond = cond
	return g, nil
}

// QASM renders e.g. "rz(0.5) q[0];" or "if(c==1) x q[1];".
func (g *Gate) QASM() string {
	var sb strings.Builder
	sb.WriteString(g.cond.qasmPrefix())
	sb.WriteString(g.name)
	if len(g.params) > 0 {
		ps := make([]string, len(g.params))
		for i, p := range g.params {
			ps[i] = strconv.FormatFloat(p, 'g', -1, 64)
		}
		sb.WriteString("(" + strings.Join(ps, ",") + ")")
	}
	sb.WriteString(" ")
	sb.WriteString(joinQubits(g.qubits))
	sb.WriteString(";")
	return sb.String()
}

// Inverse returns a new gate implementing the inverse transformation.
func (g *Gate) Inverse() (Instruction, error) {
	def := standardGates[g.name]
	ng := &Gate{base: base{
		name:   g.name,
		params: def.inverse(slices.Clone(g.params)),
		qubits: slices.Clone(g.qubits),
	}}
	g.copyModifiers(&ng.base)
	return ng, nil
}

// Reapply builds the same gate on target and copies modifiers.
func (g *Gate) Reapply(target QubitTargetable) (Instruction, error) {
	ng, err := AttachGate(target, g.name, g.params, g.qubits...)
	if err != nil {
		return nil, err
	}
	g.copyModifiers(&ng.base)
	return ng, nil
}

// AttachGate builds a standard gate and attaches it to target.
func AttachGate(target QubitTargetable, name string, params []float64, qubits ...Qubit) (*Gate, error) {
	def, ok := standardGates[name]
	if !ok {
		return nil, fmt.Errorf("unknown gate %q", name)
	}
	if len(qubits) != def.numQubits {
		return nil, fmt.Errorf("gate %s: expected %d qubits, got %d", name, def.numQubits, len(qubits))
	}
	if len(params) != def.numParams {
		return nil, fmt.Errorf("gate %s: expected %d params, got %d", name, def.numParams, len(params))
	}
	if err := checkTargets(target, name, qubits); err != nil {
		return nil, err
	}

	g := &Gate{base: base{
		name:   name,
		params: slices.Clone(params),
		qubits: slices.Clone(qubits),
	}}
	target.Attach(g)
	return g, nil
}

// IsStandardGate reports whether name is a gate AttachGate accepts.
func IsStandardGate(name string) bool {
	_, ok := standardGates[name]
	return ok
}

// Measure records a qubit into a classical bit.
type Measure struct {
	base
	clbit Clbit
}

// Kind implements Instruction.
func (m *Measure) Kind() Kind { return KindMeasure }

// Clbit returns the destination bit.
func (m *Measure) Clbit() Clbit { return m.clbit }

// CIf sets a classical condition rendered as an if(...) prefix. val must
// fit in reg.
func (m *Measure) CIf(reg *ClassicalRegister, val int) (*Measure, error) {
	cond, err := newCondition(reg, val)
	if err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}
	m.cond = cond
	return m, nil
}

// QASM renders "measure q[0] -> c[0];".
func (m *Measure) QASM() string {
	return fmt.Sprintf("%smeasure %s -> %s;", m.cond.qasmPrefix(), m.qubits[0], m.clbit)
}

// Inverse always fails: measurement is not unitary.
func (m *Measure) Inverse() (Instruction, error) {
	return nil, fmt.Errorf("measure: %w", ErrNoInverse)
}

// Reapply measures the same qubit into the same bit on another circuit.
func (m *Measure) Reapply(target QubitTargetable) (Instruction, error) {
	qc, ok := target.(*QuantumCircuit)
	if !ok {
		return nil, fmt.Errorf("measure on %T: %w", target, ErrUnsupportedContainer)
	}
	nm, err := qc.Measure(m.qubits[0], m.clbit)
	if err != nil {
		return nil, err
	}
	m.copyModifiers(&nm.base)
	return nm, nil
}

func joinQubits(qubits []Qubit) string {
	refs := make([]string, len(qubits))
	for i, q := range qubits {
		refs[i] = q.String()
	}
	return strings.Join(refs, ",")
}
