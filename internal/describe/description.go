package describe

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a circuit description document.
type File struct {
	// Run holds payload-wide options used by assemble.
	Run Run `yaml:"run,omitempty"`

	// Circuits are built in document order.
	Circuits []Circuit `yaml:"circuits"`
}

// Run mirrors assemble.RunConfig.
type Run struct {
	QobjID         string `yaml:"qobj_id,omitempty"`
	Shots          int    `yaml:"shots,omitempty"`
	MaxCredits     int    `yaml:"max_credits,omitempty"`
	Seed           *int64 `yaml:"seed,omitempty"`
	Memory         bool   `yaml:"memory,omitempty"`
	BackendName    string `yaml:"backend_name,omitempty"`
	BackendVersion string `yaml:"backend_version,omitempty"`
}

// Circuit describes one quantum circuit.
type Circuit struct {
	Name      string     `yaml:"name"`
	Registers []Register `yaml:"registers"`
	Ops       []Op       `yaml:"ops"`
}

// Register kinds.
const (
	KindQuantum   = "quantum"
	KindClassical = "classical"
)

// Register declares a quantum or classical register.
type Register struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Size int    `yaml:"size"`
}

// Op is one instruction. Exactly one of Gate or Composite is set.
//
// Qubit and bit references are written "q[0]"; barrier targets may also
// name a whole register, e.g. "q". A barrier with no targets covers every
// qubit of its container.
type Op struct {
	Gate      string     `yaml:"gate,omitempty"`
	Qubits    []string   `yaml:"qubits,omitempty"`
	Params    []float64  `yaml:"params,omitempty"`
	Clbit     string     `yaml:"clbit,omitempty"`
	Targets   []string   `yaml:"targets,omitempty"`
	If        *Cond      `yaml:"if,omitempty"`
	Composite *Composite `yaml:"composite,omitempty"`
}

// Cond is a classical condition on a whole register.
type Cond struct {
	Register string `yaml:"register"`
	Value    int    `yaml:"value"`
}

// Composite groups ops into a named gate over Args.
type Composite struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
	Ops  []Op     `yaml:"ops"`
}

// Load reads and parses a description file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a description. Unknown fields are rejected so typos
// surface as errors.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateFile(&f); err != nil {
		return nil, fmt.Errorf("invalid description: %w", err)
	}
	return &f, nil
}

// validateFile checks structure only; register and qubit semantics are
// checked by the circuit builder.
func validateFile(f *File) error {
	if len(f.Circuits) == 0 {
		return fmt.Errorf("circuits list is required and must be non-empty")
	}

	seen := map[string]bool{}
	for i, c := range f.Circuits {
		if c.Name == "" {
			return fmt.Errorf("circuits[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("circuits[%d]: duplicate circuit name %q", i, c.Name)
		}
		seen[c.Name] = true

		for j, r := range c.Registers {
			if r.Kind != KindQuantum && r.Kind != KindClassical {
				return fmt.Errorf("%s.registers[%d]: kind must be %q or %q, got %q",
					c.Name, j, KindQuantum, KindClassical, r.Kind)
			}
		}
		if err := validateOps(c.Name+".ops", c.Ops); err != nil {
			return err
		}
	}
	return nil
}

func validateOps(path string, ops []Op) error {
	for i, op := range ops {
		at := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case op.Gate == "" && op.Composite == nil:
			return fmt.Errorf("%s: gate or composite is required", at)
		case op.Gate != "" && op.Composite != nil:
			return fmt.Errorf("%s: gate and composite are mutually exclusive", at)
		case op.Composite != nil:
			if op.Composite.Name == "" {
				return fmt.Errorf("%s: composite name is required", at)
			}
			if op.If != nil {
				return fmt.Errorf("%s: composite %s cannot be conditioned; condition its ops instead", at, op.Composite.Name)
			}
			if err := validateOps(at+".composite.ops", op.Composite.Ops); err != nil {
				return err
			}
		}
	}
	return nil
}
