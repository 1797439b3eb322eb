package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/scatter/pkg/geom"
	"github.com/chazu/scatter/pkg/kernel"
	"github.com/chazu/scatter/pkg/place"
	"github.com/chazu/scatter/pkg/provider"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scatter-script source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: max-trials -> max_trials
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel.Solid so it can be passed between builtins.
type sexpSolid struct {
	s kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	min, max := s.s.BoundingBox()
	return fmt.Sprintf("(solid [%.1f %.1f %.1f]..[%.1f %.1f %.1f])",
		min[0], min[1], min[2], max[0], max[1], max[2])
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpBase wraps resolved base geometry so it can be returned from `base`
// and consumed by `scatter`.
type sexpBase struct {
	desc *geom.Descriptor
	name string // provider name, empty for modeled solids
}

func (b *sexpBase) SexpString(ps *zygo.PrintState) string {
	if b.name != "" {
		return fmt.Sprintf("(base %q)", b.name)
	}
	return fmt.Sprintf("(base %d-triangle mesh)", b.desc.TriangleCount())
}
func (b *sexpBase) Type() *zygo.RegisteredType { return nil }

// sexpBounds wraps a place.Bounds.
type sexpBounds struct {
	b place.Bounds
}

func (b *sexpBounds) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(bounds %.1f %.1f %.1f %.1f)",
		b.b.HalfExtentX, b.b.HalfExtentY, b.b.ZMin, b.b.ZMax)
}
func (b *sexpBounds) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel.Solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toBounds extracts a place.Bounds from a sexpBounds.
func toBounds(s zygo.Sexp) (place.Bounds, error) {
	if v, ok := s.(*sexpBounds); ok {
		return v.b, nil
	}
	return place.Bounds{}, fmt.Errorf("expected bounds, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// defaultMaxTrials is the retry budget used when a script omits :max-trials.
const defaultMaxTrials = 10

// registerBuiltins installs the scatter DSL builtins into a zygomys
// environment. The builtins append runs to the provided plan during
// evaluation; solids are modeled with k and named meshes resolved via p.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, k kernel.Kernel, p provider.Provider, plan *Plan) {

	solid2 := func(name string, fn func(a, b kernel.Solid) kernel.Solid) {
		env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 solid arguments, got %d", name, len(args))
			}
			a, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: first: %w", name, err)
			}
			b, err := toSolid(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: second: %w", name, err)
			}
			return &sexpSolid{s: fn(a, b)}, nil
		})
	}

	floats := func(name string, args []zygo.Sexp, want int) ([]float64, error) {
		if len(args) != want {
			return nil, fmt.Errorf("%s requires exactly %d numbers, got %d", name, want, len(args))
		}
		vals := make([]float64, want)
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
			}
			vals[i] = f
		}
		return vals, nil
	}

	// -----------------------------------------------------------------------
	// (box 10 20 5) - dimensions, centered at the origin
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floats("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: k.Box(v[0], v[1], v[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere 5)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floats("sphere", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: k.Sphere(v[0])}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder 20 5) - height, radius
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floats("cylinder", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: k.Cylinder(v[0], v[1], 0)}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b), (difference a b), (intersection a b)
	// -----------------------------------------------------------------------
	solid2("union", k.Union)
	solid2("difference", k.Difference)
	solid2("intersection", k.Intersection)

	// -----------------------------------------------------------------------
	// (translate solid x y z), (rotate solid rx ry rz) - radians
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid and 3 numbers, got %d arguments", len(args))
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		v, err := floats("translate", args[1:], 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: k.Translate(s, v[0], v[1], v[2])}, nil
	})

	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a solid and 3 numbers, got %d arguments", len(args))
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		v, err := floats("rotate", args[1:], 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: k.Rotate(s, v[0], v[1], v[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (base (box 1 1 1)) or (base "suzanne.stl")
	// Resolves base geometry: a modeled solid is tessellated, a string name
	// goes through the mesh provider.
	// -----------------------------------------------------------------------
	env.AddFunction("base", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("base requires exactly 1 argument, got %d", len(args))
		}
		switch v := args[0].(type) {
		case *sexpSolid:
			mesh, err := k.ToMesh(v.s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("base: %w", err)
			}
			if mesh.IsEmpty() {
				return zygo.SexpNull, fmt.Errorf("base: tessellation produced no geometry")
			}
			return &sexpBase{desc: provider.FromKernelMesh(mesh)}, nil
		case *zygo.SexpStr:
			if p == nil {
				return zygo.SexpNull, fmt.Errorf("base: no mesh provider configured")
			}
			desc, err := p.Get(v.S)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("base: %w", err)
			}
			return &sexpBase{desc: desc, name: v.S}, nil
		}
		return zygo.SexpNull, fmt.Errorf("base: expected solid or mesh name, got %T (%s)",
			args[0], args[0].SexpString(nil))
	})

	// -----------------------------------------------------------------------
	// (bounds half-x half-y z-min z-max)
	// -----------------------------------------------------------------------
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floats("bounds", args, 4)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpBounds{b: place.Bounds{
			HalfExtentX: v[0],
			HalfExtentY: v[1],
			ZMin:        v[2],
			ZMax:        v[3],
		}}, nil
	})

	// -----------------------------------------------------------------------
	// (scatter (base (box 1 1 1)) :copies 20 :max-trials 10 :seed 7
	//          :bounds (bounds 5 5 2 10) :into "copied")
	// -----------------------------------------------------------------------
	env.AddFunction("scatter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("scatter requires a base as first argument")
		}
		base, ok := pa.positional[0].(*sexpBase)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("scatter: expected base expression, got %T (%s)",
				pa.positional[0], pa.positional[0].SexpString(nil))
		}

		run := &Run{
			Base:       base.desc,
			BaseName:   base.name,
			Collection: "copied",
			Config:     place.Config{MaxTrials: defaultMaxTrials},
		}

		v, ok := pa.kw["copies"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("scatter: :copies is required")
		}
		n, err := toInt(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scatter: copies: %w", err)
		}
		run.Config.Copies = n

		v, ok = pa.kw["bounds"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("scatter: :bounds is required")
		}
		b, err := toBounds(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scatter: bounds: %w", err)
		}
		run.Config.Bounds = b

		if v, ok := pa.kw["max-trials"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scatter: max-trials: %w", err)
			}
			run.Config.MaxTrials = n
		}
		if v, ok := pa.kw["seed"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scatter: seed: %w", err)
			}
			run.Config.Seed = int64(n)
		}
		if v, ok := pa.kw["into"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scatter: into: %w", err)
			}
			run.Collection = s
		}

		if err := run.Config.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("scatter: %w", err)
		}

		plan.Runs = append(plan.Runs, run)
		return zygo.SexpNull, nil
	})
}
