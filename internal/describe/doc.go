// Package describe loads circuit descriptions from YAML and builds them.
//
// A description file lists circuits, each with registers and an op list:
//
//	run:
//	  shots: 1024
//	  backend_name: qasm_simulator
//	circuits:
//	  - name: bell
//	    registers:
//	      - {name: q, kind: quantum, size: 2}
//	      - {name: c, kind: classical, size: 2}
//	    ops:
//	      - {gate: h, qubits: ["q[0]"]}
//	      - {gate: cx, qubits: ["q[0]", "q[1]"]}
//	      - {gate: barrier, targets: ["q"]}
//	      - {gate: measure, qubits: ["q[0]"], clbit: "c[0]"}
//
// Ops are applied in order through the circuit package, so duplicate or
// unregistered qubits fail exactly as they would in code.
package describe
