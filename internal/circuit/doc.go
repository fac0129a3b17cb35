// Package circuit builds gate-level circuits and renders them as OPENQASM 2.0.
//
// Two container types accept instructions: QuantumCircuit and CompositeGate.
// They share builder operations through the QubitTargetable contract rather
// than a common base type; free functions such as AttachBarrier operate on
// the contract and each container exposes a thin method that calls them.
//
// Instruction kinds are a closed set (Kind). A kind states its own inverse
// semantics: a barrier is inverse-is-identity, so Inverse returns the same
// instance.
//
// Containers are not safe for concurrent mutation.
package circuit
