// Package assemble lowers circuits into gate-level execution payloads.
//
// Registers are flattened to global bit indices: quantum registers in
// registration order give qubits 0..n-1, classical registers give memory
// slots 0..m-1. Composite gates are inlined.
package assemble

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/qobj/internal/circuit"
	"github.com/roach88/qobj/internal/qobj"
)

// Defaults applied to zero RunConfig fields.
const (
	DefaultShots      = 1024
	DefaultMaxCredits = 10
)

// ErrNoCircuits is returned when Assemble is called with nothing to run.
var ErrNoCircuits = errors.New("no circuits to assemble")

// RunConfig carries the payload-wide run options.
type RunConfig struct {
	QobjID         string
	Shots          int
	MaxCredits     int
	Seed           *int64
	Memory         bool
	BackendName    string
	BackendVersion string
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Shots == 0 {
		c.Shots = DefaultShots
	}
	if c.MaxCredits == 0 {
		c.MaxCredits = DefaultMaxCredits
	}
	if c.QobjID == "" {
		c.QobjID = qobj.NewQobjID()
	}
	return c
}

// Assemble builds one experiment per circuit. The result is not validated;
// pass it to qobj.ValidateQobjAgainstSchema before submission.
func Assemble(circuits []*circuit.QuantumCircuit, cfg RunConfig) (*qobj.QasmQobj, error) {
	if len(circuits) == 0 {
		return nil, ErrNoCircuits
	}
	cfg = cfg.withDefaults()
	if cfg.Shots < 0 || cfg.MaxCredits < 0 {
		return nil, fmt.Errorf("assemble: shots and max_credits must be positive")
	}

	experiments := make([]qobj.QasmQobjExperiment, 0, len(circuits))
	maxQubits, maxSlots := 0, 0
	for i, qc := range circuits {
		if qc == nil {
			return nil, fmt.Errorf("assemble: circuit %d is nil", i)
		}
		exp, err := assembleCircuit(qc)
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", qc.Name(), err)
		}
		maxQubits = max(maxQubits, qc.NumQubits())
		maxSlots = max(maxSlots, qc.NumClbits())
		experiments = append(experiments, exp)

		slog.Debug("experiment assembled",
			"name", qc.Name(),
			"instructions", len(exp.Instructions),
			"n_qubits", qc.NumQubits(),
		)
	}

	config := qobj.QasmQobjConfig{
		Shots:       cfg.Shots,
		MaxCredits:  cfg.MaxCredits,
		Seed:        cfg.Seed,
		Memory:      cfg.Memory,
		MemorySlots: maxSlots,
		NQubits:     maxQubits,
	}
	header := qobj.QobjHeader{
		BackendName:    cfg.BackendName,
		BackendVersion: cfg.BackendVersion,
	}
	return qobj.NewQasmQobj(cfg.QobjID, config, experiments, header), nil
}

// layout maps register names to their first global index.
type layout struct {
	qubitOffset map[string]int
	clbitOffset map[string]int
	cregSize    map[string]int
}

func newLayout(qc *circuit.QuantumCircuit) layout {
	l := layout{
		qubitOffset: map[string]int{},
		clbitOffset: map[string]int{},
		cregSize:    map[string]int{},
	}
	n := 0
	for _, r := range qc.QuantumRegisters() {
		l.qubitOffset[r.Name] = n
		n += r.Size
	}
	n = 0
	for _, r := range qc.ClassicalRegisters() {
		l.clbitOffset[r.Name] = n
		l.cregSize[r.Name] = r.Size
		n += r.Size
	}
	return l
}

func (l layout) qubits(qs []circuit.Qubit) ([]int, error) {
	out := make([]int, len(qs))
	for i, q := range qs {
		if q.Register == nil {
			return nil, fmt.Errorf("qubit %s has no register", q)
		}
		off, ok := l.qubitOffset[q.Register.Name]
		if !ok {
			return nil, fmt.Errorf("qubit %s: register not on circuit", q)
		}
		out[i] = off + q.Index
	}
	return out, nil
}

func (l layout) clbit(c circuit.Clbit) (int, error) {
	if c.Register == nil {
		return 0, fmt.Errorf("clbit %s has no register", c)
	}
	off, ok := l.clbitOffset[c.Register.Name]
	if !ok {
		return 0, fmt.Errorf("clbit %s: register not on circuit", c)
	}
	return off + c.Index, nil
}

// conditional converts a register comparison into a mask over the full
// classical memory.
func (l layout) conditional(cond *circuit.Condition) (*qobj.QobjConditional, error) {
	if cond == nil {
		return nil, nil
	}
	if cond.Register == nil {
		return nil, fmt.Errorf("condition has no register")
	}
	off, ok := l.clbitOffset[cond.Register.Name]
	if !ok {
		return nil, fmt.Errorf("condition register %s not on circuit", cond.Register.Name)
	}
	size := l.cregSize[cond.Register.Name]
	if off+size > 64 {
		return nil, fmt.Errorf("condition register %s spans clbits %d..%d; masks are limited to 64 bits",
			cond.Register.Name, off, off+size-1)
	}
	if cond.Value < 0 || (size < 64 && uint64(cond.Value) >= uint64(1)<<size) {
		return nil, fmt.Errorf("condition %s==%d does not fit %d bit(s): %w",
			cond.Register.Name, cond.Value, size, circuit.ErrInvalidCondition)
	}
	mask := ((uint64(1) << size) - 1) << off
	val := uint64(cond.Value) << off
	return &qobj.QobjConditional{
		Mask: fmt.Sprintf("0x%x", mask),
		Type: "equals",
		Val:  fmt.Sprintf("0x%x", val),
	}, nil
}

func assembleCircuit(qc *circuit.QuantumCircuit) (qobj.QasmQobjExperiment, error) {
	l := newLayout(qc)

	insts, err := l.lower(qc.Data())
	if err != nil {
		return qobj.QasmQobjExperiment{}, err
	}

	header := &qobj.QobjExperimentHeader{
		Name:                qc.Name(),
		NQubits:             qc.NumQubits(),
		MemorySlots:         qc.NumClbits(),
		CompiledCircuitQASM: qc.QASM(),
	}
	for _, r := range qc.QuantumRegisters() {
		header.QregSizes = append(header.QregSizes, qobj.Label{Register: r.Name, Value: r.Size})
		for i := 0; i < r.Size; i++ {
			header.QubitLabels = append(header.QubitLabels, qobj.Label{Register: r.Name, Value: i})
		}
	}
	for _, r := range qc.ClassicalRegisters() {
		header.CregSizes = append(header.CregSizes, qobj.Label{Register: r.Name, Value: r.Size})
		for i := 0; i < r.Size; i++ {
			header.ClbitLabels = append(header.ClbitLabels, qobj.Label{Register: r.Name, Value: i})
		}
	}

	config := &qobj.QasmQobjExperimentConfig{
		MemorySlots: qc.NumClbits(),
		NQubits:     qc.NumQubits(),
	}
	return qobj.NewQasmQobjExperiment(header, config, insts...), nil
}

// lower converts an instruction stream, inlining composites depth-first.
func (l layout) lower(data []circuit.Instruction) ([]qobj.QasmQobjInstruction, error) {
	var out []qobj.QasmQobjInstruction
	for _, inst := range data {
		if cg, ok := inst.(*circuit.CompositeGate); ok {
			sub, err := l.lower(cg.Data())
			if err != nil {
				return nil, fmt.Errorf("composite %s: %w", cg.Name(), err)
			}
			out = append(out, sub...)
			continue
		}

		qubits, err := l.qubits(inst.Qubits())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", inst.Name(), err)
		}
		qi := qobj.QasmQobjInstruction{
			Name:   inst.Name(),
			Qubits: qubits,
			Params: inst.Params(),
		}

		switch v := inst.(type) {
		case *circuit.Measure:
			slot, err := l.clbit(v.Clbit())
			if err != nil {
				return nil, fmt.Errorf("measure: %w", err)
			}
			qi.Memory = []int{slot}
		case *circuit.Barrier:
			// Barriers carry no classical condition on the wire.
			qi.Params = nil
			out = append(out, qi)
			continue
		}

		qi.Conditional, err = l.conditional(inst.Condition())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", inst.Name(), err)
		}
		out = append(out, qi)
	}
	return out, nil
}
