package wiring

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/unixpickle/essentials"
)

//go:embed schema.cue
var schemaCUE string

// Load reads one wiring set from a CUE file.
//
// The file is unified with the embedded #Set schema, so unknown fields and
// wrong types are rejected by CUE before the wirings themselves are checked
// for bijectivity. Name defaults to the file name without extension.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, essentials.AddCtx("load wiring", err)
	}

	set, err := Parse(data, path)
	if err != nil {
		return Set{}, essentials.AddCtx("load wiring "+path, err)
	}
	if set.Name == "" {
		set.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return set, nil
}

// Parse decodes and validates one wiring set from CUE source.
// filename is only used in error positions.
func Parse(data []byte, filename string) (Set, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Set{}, fmt.Errorf("compile schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Set{}, fmt.Errorf("compile: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Set")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Set{}, fmt.Errorf("schema: %w", err)
	}

	var set Set
	if err := unified.Decode(&set); err != nil {
		return Set{}, fmt.Errorf("decode: %w", err)
	}

	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// Resolve returns the built-in set called ref, or loads ref as a CUE file.
// An empty ref means the default set.
func Resolve(ref string) (Set, error) {
	if ref == "" {
		return Default(), nil
	}
	if s, ok := Lookup(ref); ok {
		return s, nil
	}
	if filepath.Ext(ref) == ".cue" {
		return Load(ref)
	}
	return Set{}, fmt.Errorf("unknown wiring set %q (built-in: %s)", ref, strings.Join(Names(), ", "))
}
