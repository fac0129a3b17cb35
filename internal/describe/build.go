package describe

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/roach88/qobj/internal/assemble"
	"github.com/roach88/qobj/internal/circuit"
)

var refPattern = regexp.MustCompile(`^([a-z][a-zA-Z0-9_]*)(?:\[([0-9]+)\])?$`)

// RunConfig converts the run section for assemble.
func (r Run) RunConfig() assemble.RunConfig {
	return assemble.RunConfig{
		QobjID:         r.QobjID,
		Shots:          r.Shots,
		MaxCredits:     r.MaxCredits,
		Seed:           r.Seed,
		Memory:         r.Memory,
		BackendName:    r.BackendName,
		BackendVersion: r.BackendVersion,
	}
}

// Build builds every circuit in document order.
func (f *File) Build() ([]*circuit.QuantumCircuit, error) {
	out := make([]*circuit.QuantumCircuit, 0, len(f.Circuits))
	for _, c := range f.Circuits {
		qc, err := c.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, qc)
	}
	return out, nil
}

// Build creates the circuit and applies its ops. Errors from the circuit
// package are wrapped, so circuit.IsDuplicateQubit and friends still match.
func (c Circuit) Build() (*circuit.QuantumCircuit, error) {
	qc, err := circuit.NewQuantumCircuit(c.Name)
	if err != nil {
		return nil, fmt.Errorf("circuit %s: %w", c.Name, err)
	}

	res := resolver{
		qregs: map[string]*circuit.QuantumRegister{},
		cregs: map[string]*circuit.ClassicalRegister{},
	}
	for _, r := range c.Registers {
		var reg circuit.Register
		switch r.Kind {
		case KindQuantum:
			qr, err := circuit.NewQuantumRegister(r.Name, r.Size)
			if err != nil {
				return nil, fmt.Errorf("circuit %s: %w", c.Name, err)
			}
			res.qregs[r.Name] = qr
			reg = qr
		case KindClassical:
			cr, err := circuit.NewClassicalRegister(r.Name, r.Size)
			if err != nil {
				return nil, fmt.Errorf("circuit %s: %w", c.Name, err)
			}
			res.cregs[r.Name] = cr
			reg = cr
		default:
			return nil, fmt.Errorf("circuit %s: unknown register kind %q", c.Name, r.Kind)
		}
		if err := qc.AddRegister(reg); err != nil {
			return nil, fmt.Errorf("circuit %s: %w", c.Name, err)
		}
	}

	if err := res.apply(qc, qc, c.Name+".ops", c.Ops); err != nil {
		return nil, fmt.Errorf("circuit %s: %w", c.Name, err)
	}
	slog.Debug("circuit built", "name", c.Name, "instructions", len(qc.Data()))
	return qc, nil
}

type resolver struct {
	qregs map[string]*circuit.QuantumRegister
	cregs map[string]*circuit.ClassicalRegister
}

func parseRef(ref string) (name string, index int, indexed bool, err error) {
	m := refPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", 0, false, fmt.Errorf("malformed reference %q", ref)
	}
	if m[2] == "" {
		return m[1], 0, false, nil
	}
	index, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false, fmt.Errorf("reference %q: %w", ref, err)
	}
	return m[1], index, true, nil
}

func (r resolver) qubit(ref string) (circuit.Qubit, error) {
	name, idx, indexed, err := parseRef(ref)
	if err != nil {
		return circuit.Qubit{}, err
	}
	if !indexed {
		return circuit.Qubit{}, fmt.Errorf("%q must name a single qubit", ref)
	}
	qr, ok := r.qregs[name]
	if !ok {
		return circuit.Qubit{}, fmt.Errorf("unknown quantum register %q", name)
	}
	return qr.Qubit(idx), nil
}

func (r resolver) qubits(refs []string) ([]circuit.Qubit, error) {
	out := make([]circuit.Qubit, len(refs))
	for i, ref := range refs {
		q, err := r.qubit(ref)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}

func (r resolver) target(ref string) (circuit.Target, error) {
	name, idx, indexed, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	qr, ok := r.qregs[name]
	if !ok {
		return nil, fmt.Errorf("unknown quantum register %q", name)
	}
	if !indexed {
		return qr, nil
	}
	return qr.Qubit(idx), nil
}

func (r resolver) clbit(ref string) (circuit.Clbit, error) {
	name, idx, indexed, err := parseRef(ref)
	if err != nil {
		return circuit.Clbit{}, err
	}
	if !indexed {
		return circuit.Clbit{}, fmt.Errorf("%q must name a single bit", ref)
	}
	cr, ok := r.cregs[name]
	if !ok {
		return circuit.Clbit{}, fmt.Errorf("unknown classical register %q", name)
	}
	return cr.Clbit(idx), nil
}

func (r resolver) cond(c *Cond) (*circuit.ClassicalRegister, error) {
	cr, ok := r.cregs[c.Register]
	if !ok {
		return nil, fmt.Errorf("condition: unknown classical register %q", c.Register)
	}
	return cr, nil
}

// apply builds ops onto target. Composites are always owned by qc.
func (r resolver) apply(target circuit.QubitTargetable, qc *circuit.QuantumCircuit, path string, ops []Op) error {
	for i, op := range ops {
		at := fmt.Sprintf("%s[%d]", path, i)
		if err := r.applyOp(target, qc, at, op); err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}
	}
	return nil
}

func (r resolver) applyOp(target circuit.QubitTargetable, qc *circuit.QuantumCircuit, at string, op Op) error {
	var cond *circuit.ClassicalRegister
	if op.If != nil {
		cr, err := r.cond(op.If)
		if err != nil {
			return err
		}
		cond = cr
	}

	if op.Composite != nil {
		if cond != nil {
			return fmt.Errorf("composite %s cannot be conditioned", op.Composite.Name)
		}
		args, err := r.qubits(op.Composite.Args)
		if err != nil {
			return err
		}
		cg, err := circuit.NewCompositeGate(op.Composite.Name, nil, args, qc)
		if err != nil {
			return err
		}
		if err := r.apply(cg, qc, at+".composite.ops", op.Composite.Ops); err != nil {
			return err
		}
		target.Attach(cg)
		return nil
	}

	switch op.Gate {
	case "barrier":
		targets := make([]circuit.Target, len(op.Targets))
		for i, ref := range op.Targets {
			t, err := r.target(ref)
			if err != nil {
				return err
			}
			targets[i] = t
		}
		b, err := circuit.AttachBarrier(target, targets...)
		if err != nil {
			return err
		}
		if cond != nil {
			if _, err := b.CIf(cond, op.If.Value); err != nil {
				return err
			}
		}

	case "measure":
		owner, ok := target.(*circuit.QuantumCircuit)
		if !ok {
			return fmt.Errorf("measure: %w", circuit.ErrUnsupportedContainer)
		}
		if len(op.Qubits) != 1 || op.Clbit == "" {
			return fmt.Errorf("measure needs one qubit and a clbit")
		}
		q, err := r.qubit(op.Qubits[0])
		if err != nil {
			return err
		}
		c, err := r.clbit(op.Clbit)
		if err != nil {
			return err
		}
		m, err := owner.Measure(q, c)
		if err != nil {
			return err
		}
		if cond != nil {
			if _, err := m.CIf(cond, op.If.Value); err != nil {
				return err
			}
		}

	default:
		qubits, err := r.qubits(op.Qubits)
		if err != nil {
			return err
		}
		g, err := circuit.AttachGate(target, op.Gate, op.Params, qubits...)
		if err != nil {
			return err
		}
		if cond != nil {
			if _, err := g.CIf(cond, op.If.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
