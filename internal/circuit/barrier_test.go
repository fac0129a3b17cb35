package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCircuit(t *testing.T, regs ...Register) *QuantumCircuit {
	t.Helper()
	qc, err := NewQuantumCircuit("test", regs...)
	require.NoError(t, err)
	return qc
}

func TestBarrierNoArgsTargetsAllQubits(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	r := MustQuantumRegister("r", 3)
	qc := newTestCircuit(t, q, MustClassicalRegister("c", 2), r)

	b, err := qc.Barrier()
	require.NoError(t, err)

	expected := []Qubit{q.Qubit(0), q.Qubit(1), r.Qubit(0), r.Qubit(1), r.Qubit(2)}
	assert.Equal(t, expected, b.Qubits())
	assert.Equal(t, "barrier q,r;", b.QASM())
	assert.Equal(t, []Instruction{b}, qc.Data())
}

func TestBarrierFields(t *testing.T) {
	q := MustQuantumRegister("q", 1)
	qc := newTestCircuit(t, q)

	b, err := qc.Barrier()
	require.NoError(t, err)

	assert.Equal(t, "barrier", b.Name())
	assert.Empty(t, b.Params())
	assert.Equal(t, KindBarrier, b.Kind())
	assert.Nil(t, b.Condition())
}

func TestBarrierQASMFullRegister(t *testing.T) {
	q := MustQuantumRegister("q", 3)
	qc := newTestCircuit(t, q)

	b, err := qc.Barrier(q)
	require.NoError(t, err)

	assert.Equal(t, "barrier q;", b.QASM())
	assert.Equal(t, q.Expand(), b.Qubits())
}

func TestBarrierQASMSingleQubits(t *testing.T) {
	r := MustQuantumRegister("r", 3)
	qc := newTestCircuit(t, r)

	b, err := qc.Barrier(r.Qubit(0), r.Qubit(2))
	require.NoError(t, err)

	assert.Equal(t, "barrier r[0],r[2];", b.QASM())
}

func TestBarrierQASMMixedTargets(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	r := MustQuantumRegister("r", 2)
	qc := newTestCircuit(t, q, r)

	b, err := qc.Barrier(q.Qubit(0), r)
	require.NoError(t, err)

	assert.Equal(t, "barrier q[0],r;", b.QASM())
	assert.Equal(t, []Qubit{q.Qubit(0), r.Qubit(0), r.Qubit(1)}, b.Qubits())
	assert.Equal(t, []Target{q.Qubit(0), r}, b.Targets())
}

func TestBarrierNeverEmitsCondition(t *testing.T) {
	q := MustQuantumRegister("q", 1)
	c := MustClassicalRegister("c", 1)
	qc := newTestCircuit(t, q, c)

	b, err := qc.Barrier(q)
	require.NoError(t, err)
	_, err = b.CIf(c, 1)
	require.NoError(t, err)

	require.NotNil(t, b.Condition())
	assert.Equal(t, "barrier q;", b.QASM())
}

func TestBarrierDuplicateQubit(t *testing.T) {
	tests := []struct {
		name string
		args func(q *QuantumRegister) []Target
	}{
		{"repeated single qubit", func(q *QuantumRegister) []Target {
			return []Target{q.Qubit(0), q.Qubit(0)}
		}},
		{"register overlaps qubit", func(q *QuantumRegister) []Target {
			return []Target{q, q.Qubit(1)}
		}},
		{"register twice", func(q *QuantumRegister) []Target {
			return []Target{q, q}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := MustQuantumRegister("q", 2)
			qc := newTestCircuit(t, q)

			b, err := qc.Barrier(tt.args(q)...)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, IsDuplicateQubit(err), "expected duplicate qubit error, got %v", err)
			assert.Empty(t, qc.Data(), "nothing may be attached on failure")
		})
	}
}

func TestBarrierDuplicateByNameAcrossRegisterValues(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	alias := &QuantumRegister{Name: "q", Size: 2}
	qc := newTestCircuit(t, q)

	_, err := qc.Barrier(q.Qubit(0), alias.Qubit(0))
	assert.True(t, IsDuplicateQubit(err))
}

func TestBarrierDuplicateCheckedBeforeRegistration(t *testing.T) {
	other := MustQuantumRegister("other", 1)
	qc := newTestCircuit(t, MustQuantumRegister("q", 1))

	_, err := qc.Barrier(other.Qubit(0), other.Qubit(0))
	assert.True(t, IsDuplicateQubit(err))
}

func TestBarrierInvalidQubit(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	other := MustQuantumRegister("other", 2)
	qc := newTestCircuit(t, q)

	tests := []struct {
		name string
		args []Target
	}{
		{"unregistered register", []Target{other}},
		{"unregistered qubit", []Target{q.Qubit(0), other.Qubit(1)}},
		{"index out of range", []Target{q.Qubit(2)}},
		{"negative index", []Target{q.Qubit(-1)}},
		{"size mismatch", []Target{&QuantumRegister{Name: "q", Size: 3}}},
		{"nil register qubit", []Target{Qubit{Index: 0}}},
		{"nil target", []Target{nil}},
		{"nil register target", []Target{(*QuantumRegister)(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := qc.Barrier(tt.args...)
			require.Error(t, err)
			assert.True(t, IsInvalidQubit(err), "expected invalid qubit error, got %v", err)
			assert.Empty(t, qc.Data())
		})
	}
}

func TestBarrierOnEmptyCircuit(t *testing.T) {
	qc := newTestCircuit(t)

	_, err := qc.Barrier()
	var qe *QubitError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, ErrCodeEmptyTarget, qe.Code)
}

func TestBarrierSnapshotsRegistersAtCallTime(t *testing.T) {
	q := MustQuantumRegister("q", 1)
	qc := newTestCircuit(t, q)

	b, err := qc.Barrier()
	require.NoError(t, err)

	require.NoError(t, qc.AddRegister(MustQuantumRegister("late", 2)))
	assert.Equal(t, []Qubit{q.Qubit(0)}, b.Qubits())
	assert.Equal(t, "barrier q;", b.QASM())

	b2, err := qc.Barrier()
	require.NoError(t, err)
	assert.Equal(t, "barrier q,late;", b2.QASM())
}

func TestBarrierInverseIsSameInstance(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	qc := newTestCircuit(t, q)

	b, err := qc.Barrier(q.Qubit(1))
	require.NoError(t, err)

	inv, err := b.Inverse()
	require.NoError(t, err)
	assert.Same(t, b, inv)
	assert.True(t, b.Kind().InverseIsIdentity())
}

func TestBarrierReapplyPreservesTargetsAndModifiers(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	r := MustQuantumRegister("r", 1)
	c := MustClassicalRegister("c", 1)
	src := newTestCircuit(t, q, r, c)
	dst := newTestCircuit(t, r, q, c)

	b, err := src.Barrier(r, q.Qubit(1))
	require.NoError(t, err)
	_, err = b.CIf(c, 1)
	require.NoError(t, err)

	re, err := b.Reapply(dst)
	require.NoError(t, err)

	nb := re.(*Barrier)
	assert.NotSame(t, b, nb)
	assert.Equal(t, "barrier r,q[1];", nb.QASM())
	assert.Equal(t, b.Qubits(), nb.Qubits())
	require.NotNil(t, nb.Condition())
	assert.Equal(t, 1, nb.Condition().Value)
	assert.Equal(t, []Instruction{nb}, dst.Data())
}

func TestBarrierReapplyNoArgKeepsCapturedOrder(t *testing.T) {
	q := MustQuantumRegister("q", 1)
	r := MustQuantumRegister("r", 1)
	src := newTestCircuit(t, q, r)
	dst := newTestCircuit(t, r, q)

	b, err := src.Barrier()
	require.NoError(t, err)

	re, err := b.Reapply(dst)
	require.NoError(t, err)
	assert.Equal(t, "barrier q,r;", re.QASM())
}

func TestBarrierReapplyToCircuitMissingRegister(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	src := newTestCircuit(t, q)
	dst := newTestCircuit(t, MustQuantumRegister("other", 2))

	b, err := src.Barrier()
	require.NoError(t, err)

	_, err = b.Reapply(dst)
	assert.True(t, IsInvalidQubit(err))
	assert.Empty(t, dst.Data())
}

func TestBarrierOnCompositeGate(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	qc := newTestCircuit(t, q)

	cg, err := NewCompositeGate("pair", nil, q.Expand(), qc)
	require.NoError(t, err)

	b, err := cg.Barrier()
	require.NoError(t, err)
	assert.Equal(t, q.Expand(), b.Qubits())
	assert.Equal(t, []Instruction{b}, cg.Data())
	assert.Empty(t, qc.Data(), "composite barriers stay inside the composite")
}

func TestBarrierOnCompositeGateCoversArguments(t *testing.T) {
	q := MustQuantumRegister("q", 3)
	r := MustQuantumRegister("r", 1)
	qc := newTestCircuit(t, q, r)

	cg, err := NewCompositeGate("pair", nil, []Qubit{q.Qubit(1), q.Qubit(0)}, qc)
	require.NoError(t, err)
	assert.Equal(t, []Qubit{q.Qubit(0), q.Qubit(1)}, cg.RegisteredQubits())

	b, err := cg.Barrier()
	require.NoError(t, err)
	assert.Equal(t, []Qubit{q.Qubit(0), q.Qubit(1)}, b.Qubits())
	assert.Equal(t, "barrier q[0],q[1];", b.QASM())
}

func TestBarrierOnCompositeGateFoldsCoveredRegisters(t *testing.T) {
	q := MustQuantumRegister("q", 3)
	r := MustQuantumRegister("r", 2)
	qc := newTestCircuit(t, q, r)

	cg, err := NewCompositeGate("g", nil, append(q.Expand(), r.Qubit(1)), qc)
	require.NoError(t, err)

	b, err := cg.Barrier()
	require.NoError(t, err)
	assert.Equal(t, "barrier q,r[1];", b.QASM())
	assert.Equal(t, []Target{q, r.Qubit(1)}, b.Targets())
}

func TestBarrierOnCompositeGateRejectsNonArguments(t *testing.T) {
	q := MustQuantumRegister("q", 3)
	qc := newTestCircuit(t, q)

	cg, err := NewCompositeGate("pair", nil, []Qubit{q.Qubit(0), q.Qubit(1)}, qc)
	require.NoError(t, err)

	_, err = cg.Barrier(q)
	assert.True(t, IsInvalidQubit(err), "q[2] is on the circuit but not a gate argument")
	assert.Empty(t, cg.Data())

	b, err := cg.Barrier(q.Qubit(1), q.Qubit(0))
	require.NoError(t, err)
	assert.Equal(t, "barrier q[1],q[0];", b.QASM())
}

func TestCircuitRegisteredQubits(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	r := MustQuantumRegister("r", 1)
	qc := newTestCircuit(t, q, MustClassicalRegister("c", 1), r)

	assert.Equal(t, []Qubit{q.Qubit(0), q.Qubit(1), r.Qubit(0)}, qc.RegisteredQubits())
}

func TestAttachBarrierSharedAcrossContainers(t *testing.T) {
	q := MustQuantumRegister("q", 2)
	qc := newTestCircuit(t, q)
	cg, err := NewCompositeGate("g", nil, q.Expand(), qc)
	require.NoError(t, err)

	for _, target := range []QubitTargetable{qc, cg} {
		b, err := AttachBarrier(target, q.Qubit(0))
		require.NoError(t, err)
		assert.Equal(t, "barrier q[0];", b.QASM())
	}
}
