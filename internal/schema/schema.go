package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"golang.org/x/mod/semver"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// LatestVersion is the newest embedded schema version.
const LatestVersion = "1.1.0"

// definitions maps a payload kind to its CUE definition.
var definitions = map[string]string{
	"QASM":  "#QasmQobj",
	"PULSE": "#PulseQobj",
}

// Schema is one compiled version of the Qobj contract.
type Schema struct {
	version string
	ctx     *cue.Context
	root    cue.Value
}

// Version returns the schema version, e.g. "1.1.0".
func (s *Schema) Version() string {
	return s.version
}

// Kinds returns the payload kinds this version defines, sorted.
func (s *Schema) Kinds() []string {
	var kinds []string
	for kind, def := range definitions {
		if s.root.LookupPath(cue.ParsePath(def)).Exists() {
			kinds = append(kinds, kind)
		}
	}
	slices.Sort(kinds)
	return kinds
}

// Versions lists embedded schema versions in ascending semver order.
func Versions() []string {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil
	}
	var versions []string
	for _, e := range entries {
		if v, ok := strings.CutSuffix(e.Name(), ".cue"); ok {
			versions = append(versions, v)
		}
	}
	slices.SortFunc(versions, func(a, b string) int {
		return semver.Compare("v"+a, "v"+b)
	})
	return versions
}

// Load compiles the embedded schema for version.
func Load(version string) (*Schema, error) {
	src, err := schemaFS.ReadFile("schemas/" + version + ".cue")
	if err != nil {
		return nil, fmt.Errorf("unknown qobj schema version %q (available: %s)",
			version, strings.Join(Versions(), ", "))
	}
	return Compile(version, string(src))
}

// Default loads LatestVersion.
func Default() (*Schema, error) {
	return Load(LatestVersion)
}

// MustLoad is like Load but panics on error. Intended for tests and
// package-level initialization with embedded versions.
func MustLoad(version string) *Schema {
	s, err := Load(version)
	if err != nil {
		panic(err)
	}
	return s
}

// Compile builds a Schema from CUE source. The source must declare at
// least one of #QasmQobj or #PulseQobj.
func Compile(version, src string) (*Schema, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(src, cue.Filename(version+".cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile qobj schema %s: %w", version, err)
	}

	s := &Schema{version: version, ctx: ctx, root: root}
	if len(s.Kinds()) == 0 {
		return nil, fmt.Errorf("compile qobj schema %s: no payload definitions found", version)
	}
	return s, nil
}

// ValidateJSON checks a JSON payload document of the given kind.
// Returns nil when the document conforms and *SchemaValidationError when it
// does not.
func (s *Schema) ValidateJSON(kind string, doc []byte) error {
	def, ok := definitions[kind]
	if !ok {
		return newFieldError(s.version, kind, "type", fmt.Sprintf("unknown payload type %q", kind))
	}
	defVal := s.root.LookupPath(cue.ParsePath(def))
	if !defVal.Exists() {
		return newFieldError(s.version, kind, "type",
			fmt.Sprintf("payload type %q is not defined by schema %s", kind, s.version))
	}

	expr, err := cuejson.Extract("qobj.json", doc)
	if err != nil {
		return newFieldError(s.version, kind, "", fmt.Sprintf("invalid JSON: %v", err))
	}
	data := s.ctx.BuildExpr(expr)
	if err := data.Err(); err != nil {
		return fromCUE(s.version, kind, def, err)
	}

	unified := defVal.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fromCUE(s.version, kind, def, err)
	}
	return nil
}
