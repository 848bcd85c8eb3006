package engine

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/colors"
	"github.com/chazu/shapekit/pkg/shapes"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms shapekit Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: dashed-line -> dashed_line
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

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpActor wraps a registered actor so mutators can find it again.
type sexpActor struct {
	a *actor.Actor
}

func (s *sexpActor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(actor %s %s)", s.a.Name, s.a.ID.String()[:8])
}
func (s *sexpActor) Type() *zygo.RegisteredType { return nil }

// sexpAnnotation wraps a registered screen-space annotation.
type sexpAnnotation struct {
	an *actor.Annotation
}

func (s *sexpAnnotation) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(annotation %q)", s.an.Text)
}
func (s *sexpAnnotation) Type() *zygo.RegisteredType { return nil }

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
// A keyword followed directly by another keyword, or ending the list, is a
// flag and gets a nil value.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next || isValueKeyword(name) {
				result.kw[name] = args[i+1]
				i += 2
				continue
			}
		}
		result.kw[name] = zygo.SexpNull
		i++
	}
	return result
}

// isValueKeyword reports keywords whose value is itself a keyword, like
// (marker :symbol :star) or (text "t" :corner :top-right).
func isValueKeyword(name string) bool {
	switch name {
	case "corner", "justify", "source", "lighting", "font", "symbol":
		return true
	}
	return false
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

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBool accepts true/false, numbers (non-zero is true) and the nil value
// a bare flag keyword carries.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a point from a vec3 value or a 2 or 3 element list of
// numbers.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
	}
	if len(items) != 2 && len(items) != 3 {
		return v3.Vec{}, fmt.Errorf("expected 2 or 3 coordinates, got %d", len(items))
	}
	var c [3]float64
	for i, it := range items {
		if c[i], err = toFloat64(it); err != nil {
			return v3.Vec{}, fmt.Errorf("coordinate %d: %w", i, err)
		}
	}
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

// toVecs extracts a list of points.
func toVecs(s zygo.Sexp) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]v3.Vec, len(items))
	for i, it := range items {
		if out[i], err = toVec3(it); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}
	return out, nil
}

// toFloats extracts a list of numbers.
func toFloats(s zygo.Sexp) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, it := range items {
		if out[i], err = toFloat64(it); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return out, nil
}

// toColor accepts a colour name, a hex string or a palette index.
func toColor(s zygo.Sexp) (color.NRGBA, error) {
	if _, ok := s.(*zygo.SexpInt); ok {
		i, _ := toFloat64(s)
		return colors.Index(int(i)), nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	return colors.Parse(name)
}

// toColors extracts a list of colours.
func toColors(s zygo.Sexp) ([]color.NRGBA, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]color.NRGBA, len(items))
	for i, it := range items {
		if out[i], err = toColor(it); err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
	}
	return out, nil
}

// toActor extracts the actor behind a shape value.
func toActor(s zygo.Sexp) (*actor.Actor, error) {
	if v, ok := s.(*sexpActor); ok {
		return v.a, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Argument reader
// ---------------------------------------------------------------------------

// args reads keyword and positional arguments of one builtin call. The
// first failure is kept and reported by done; later reads are no-ops.
type args struct {
	fn  string
	pa  kwArgs
	err error
}

func newArgs(fn string, raw []zygo.Sexp) *args {
	return &args{fn: fn, pa: parseArgs(raw)}
}

func (a *args) fail(key string, err error) {
	if a.err == nil {
		a.err = fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
}

func (a *args) has(key string) bool {
	_, ok := a.pa.kw[key]
	return ok
}

func (a *args) float(key string, dst *float64) {
	if v, ok := a.pa.kw[key]; ok && a.err == nil {
		f, err := toFloat64(v)
		if err != nil {
			a.fail(key, err)
			return
		}
		*dst = f
	}
}

func (a *args) int(key string, dst *int) {
	f := float64(*dst)
	a.float(key, &f)
	*dst = int(f)
}

func (a *args) bool(key string, dst *bool) {
	if v, ok := a.pa.kw[key]; ok && a.err == nil {
		b, err := toBool(v)
		if err != nil {
			a.fail(key, err)
			return
		}
		*dst = b
	}
}

func (a *args) str(key string, dst *string) {
	if v, ok := a.pa.kw[key]; ok && a.err == nil {
		s, err := toKeywordString(v)
		if err != nil {
			a.fail(key, err)
			return
		}
		*dst = s
	}
}

func (a *args) vec(key string, dst *v3.Vec) {
	if v, ok := a.pa.kw[key]; ok && a.err == nil {
		p, err := toVec3(v)
		if err != nil {
			a.fail(key, err)
			return
		}
		*dst = p
	}
}

// vecPtr returns nil when key is absent.
func (a *args) vecPtr(key string) *v3.Vec {
	if !a.has(key) {
		return nil
	}
	var p v3.Vec
	a.vec(key, &p)
	return &p
}

func (a *args) vecs(key string, dst *[]v3.Vec) {
	if v, ok := a.pa.kw[key]; ok && a.err == nil {
		ps, err := toVecs(v)
		if err != nil {
			a.fail(key, err)
			return
		}
		*dst = ps
	}
}

func (a *args) floats(key string, dst *[]float64) {
	if v, ok := a.pa.kw[key]; ok && a.err == nil {
		fs, err := toFloats(v)
		if err != nil {
			a.fail(key, err)
			return
		}
		*dst = fs
	}
}

func (a *args) color(key string, dst *color.NRGBA) {
	if v, ok := a.pa.kw[key]; ok && a.err == nil {
		c, err := toColor(v)
		if err != nil {
			a.fail(key, err)
			return
		}
		*dst = c
	}
}

func (a *args) colors(key string, dst *[]color.NRGBA) {
	if v, ok := a.pa.kw[key]; ok && a.err == nil {
		cs, err := toColors(v)
		if err != nil {
			a.fail(key, err)
			return
		}
		*dst = cs
	}
}

// style reads the :c and :alpha keywords every shape accepts.
func (a *args) style() shapes.Style {
	var s shapes.Style
	a.color("c", &s.Color)
	a.float("alpha", &s.Alpha)
	return s
}

// ok reports whether every read so far succeeded.
func (a *args) ok() bool { return a.err == nil }

// positional returns the i-th positional argument, failing when absent.
func (a *args) positional(i int, what string) zygo.Sexp {
	if i < len(a.pa.positional) {
		return a.pa.positional[i]
	}
	a.fail(what, fmt.Errorf("missing argument %d", i+1))
	return zygo.SexpNull
}

func (a *args) posVec(i int, what string, dst *v3.Vec) {
	v := a.positional(i, what)
	if a.err != nil {
		return
	}
	p, err := toVec3(v)
	if err != nil {
		a.fail(what, err)
		return
	}
	*dst = p
}

// posVecOr reads an optional positional point, falling back to key.
func (a *args) posVecOr(i int, key string, dst *v3.Vec) {
	if i < len(a.pa.positional) {
		a.posVec(i, key, dst)
		return
	}
	a.vec(key, dst)
}

func (a *args) posVecs(i int, what string) shapes.Vecs {
	v := a.positional(i, what)
	if a.err != nil {
		return nil
	}
	ps, err := toVecs(v)
	if err != nil {
		a.fail(what, err)
		return nil
	}
	return ps
}

func (a *args) posString(i int, what string) string {
	v := a.positional(i, what)
	if a.err != nil {
		return ""
	}
	s, err := toKeywordString(v)
	if err != nil {
		a.fail(what, err)
	}
	return s
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder carries what the builtins of one evaluation share.
type builder struct {
	ctx context.Context
	f   *shapes.Factory
}

// shapeFn builds one actor from its parsed arguments.
type shapeFn func(b *builder, a *args) (*actor.Actor, error)

// registerBuiltins installs every shapekit DSL builtin into a zygomys
// environment. Shapes are built through b.f and land in its collection.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, arg := range args {
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	for name, fn := range shapeBuiltins {
		registerShape(env, b, name, fn)
	}
	registerText(env, b)
	registerMutators(env, b)
}

// registerShape wraps a shapeFn as a zygomys function.
func registerShape(env *zygo.Zlisp, b *builder, name string, fn shapeFn) {
	display := kebab(name)
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, raw []zygo.Sexp) (zygo.Sexp, error) {
		a := newArgs(display, raw)
		act, err := fn(b, a)
		if a.err != nil {
			return zygo.SexpNull, a.err
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		return &sexpActor{a: act}, nil
	})
}
