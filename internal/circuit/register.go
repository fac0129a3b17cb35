package circuit

import (
	"fmt"
	"regexp"
)

// OPENQASM identifiers start with a lowercase letter.
var registerNamePattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9_]*$`)

// Register is a named, fixed-size bit container.
// Only *QuantumRegister and *ClassicalRegister implement it.
type Register interface {
	RegisterName() string
	RegisterSize() int
	declaration() string
}

// QuantumRegister is a named array of qubits.
type QuantumRegister struct {
	Name string
	Size int
}

// NewQuantumRegister validates name and size.
func NewQuantumRegister(name string, size int) (*QuantumRegister, error) {
	if err := checkRegister(name, size); err != nil {
		return nil, err
	}
	return &QuantumRegister{Name: name, Size: size}, nil
}

// MustQuantumRegister is like NewQuantumRegister but panics on error.
func MustQuantumRegister(name string, size int) *QuantumRegister {
	r, err := NewQuantumRegister(name, size)
	if err != nil {
		panic(err)
	}
	return r
}

// RegisterName implements Register.
func (r *QuantumRegister) RegisterName() string { return r.Name }

// RegisterSize implements Register.
func (r *QuantumRegister) RegisterSize() int { return r.Size }

func (r *QuantumRegister) declaration() string {
	return fmt.Sprintf("qreg %s[%d];", r.Name, r.Size)
}

// Qubit returns the i-th qubit of the register. The index is not checked
// here; containers reject out-of-range qubits when building.
func (r *QuantumRegister) Qubit(i int) Qubit {
	return Qubit{Register: r, Index: i}
}

// Expand implements Target: every qubit in index order.
func (r *QuantumRegister) Expand() []Qubit {
	qubits := make([]Qubit, r.Size)
	for i := range qubits {
		qubits[i] = Qubit{Register: r, Index: i}
	}
	return qubits
}

func (r *QuantumRegister) qasmRef() string { return r.Name }

// ClassicalRegister is a named array of classical bits.
type ClassicalRegister struct {
	Name string
	Size int
}

// NewClassicalRegister validates name and size.
func NewClassicalRegister(name string, size int) (*ClassicalRegister, error) {
	if err := checkRegister(name, size); err != nil {
		return nil, err
	}
	return &ClassicalRegister{Name: name, Size: size}, nil
}

// MustClassicalRegister is like NewClassicalRegister but panics on error.
func MustClassicalRegister(name string, size int) *ClassicalRegister {
	r, err := NewClassicalRegister(name, size)
	if err != nil {
		panic(err)
	}
	return r
}

// RegisterName implements Register.
func (r *ClassicalRegister) RegisterName() string { return r.Name }

// RegisterSize implements Register.
func (r *ClassicalRegister) RegisterSize() int { return r.Size }

func (r *ClassicalRegister) declaration() string {
	return fmt.Sprintf("creg %s[%d];", r.Name, r.Size)
}

// Clbit returns the i-th bit of the register.
func (r *ClassicalRegister) Clbit(i int) Clbit {
	return Clbit{Register: r, Index: i}
}

func checkRegister(name string, size int) error {
	if !registerNamePattern.MatchString(name) {
		return fmt.Errorf("invalid register name %q", name)
	}
	if size <= 0 {
		return fmt.Errorf("register %s: size must be positive, got %d", name, size)
	}
	return nil
}

// Target is a barrier argument: a full register or a single qubit.
// Only *QuantumRegister and Qubit implement it.
type Target interface {
	// Expand returns the qubits the target covers, in index order.
	Expand() []Qubit
	qasmRef() string
}

// Qubit references one qubit of a quantum register.
type Qubit struct {
	Register *QuantumRegister
	Index    int
}

// Expand implements Target.
func (q Qubit) Expand() []Qubit { return []Qubit{q} }

func (q Qubit) qasmRef() string { return q.String() }

// String renders the qubit as it appears in OPENQASM, e.g. "q[0]".
func (q Qubit) String() string {
	if q.Register == nil {
		return fmt.Sprintf("?[%d]", q.Index)
	}
	return fmt.Sprintf("%s[%d]", q.Register.Name, q.Index)
}

// key identifies the physical qubit independent of register pointer identity.
func (q Qubit) key() bitKey {
	return bitKey{name: q.Register.Name, index: q.Index}
}

// Clbit references one bit of a classical register.
type Clbit struct {
	Register *ClassicalRegister
	Index    int
}

// String renders the bit as it appears in OPENQASM, e.g. "c[0]".
func (c Clbit) String() string {
	if c.Register == nil {
		return fmt.Sprintf("?[%d]", c.Index)
	}
	return fmt.Sprintf("%s[%d]", c.Register.Name, c.Index)
}

type bitKey struct {
	name  string
	index int
}
