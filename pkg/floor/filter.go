package floor

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"golang.org/x/text/cases"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// Filter decides which variables of a floor are shown.
type Filter struct {
	// Types lists the enabled data types. A nil map enables every type;
	// otherwise a type must map to true.
	Types map[models.DataType]bool
	// Keyword is matched case-insensitively against the name, and against
	// the value of scalar variables.
	Keyword string
	// Predicate is an optional expression AND-ed with the other checks.
	Predicate *Predicate
}

// DefaultFilter enables every type with no keyword.
func DefaultFilter() Filter {
	types := make(map[models.DataType]bool)
	for _, t := range models.AllDataTypes() {
		types[t] = true
	}
	return Filter{Types: types}
}

// FilterSource supplies the filter state at the start of each render.
type FilterSource interface {
	Filter() Filter
}

// StaticFilter is a FilterSource that never changes.
type StaticFilter Filter

func (s StaticFilter) Filter() Filter { return Filter(s) }

// FilterFunc adapts a function to the FilterSource interface.
type FilterFunc func() Filter

func (f FilterFunc) Filter() Filter { return f() }

// Allows reports whether variables of type t pass the type filter.
func (f Filter) Allows(t models.DataType) bool {
	if f.Types == nil {
		return true
	}
	return f.Types[t]
}

// Match reports whether item on floor passes the filter. An error means the
// predicate could not be evaluated; the item is then not shown.
func (f Filter) Match(floor int, item models.VariableItem) (bool, error) {
	if !f.Allows(item.DataType) {
		return false, nil
	}
	if f.Keyword != "" {
		keyword := fold(f.Keyword)
		nameMatch := strings.Contains(fold(item.Name), keyword)
		valueMatch := false
		if item.DataType.IsScalar() {
			valueMatch = strings.Contains(fold(value.Stringify(item.Value)), keyword)
		}
		if !nameMatch && !valueMatch {
			return false, nil
		}
	}
	if f.Predicate != nil {
		return f.Predicate.Eval(floor, item)
	}
	return true, nil
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Predicate is a compiled boolean expression over one variable. The
// expression sees name, type, value and floor.
type Predicate struct {
	source  string
	program *vm.Program
}

type predicateEnv struct {
	Name  string `expr:"name"`
	Type  string `expr:"type"`
	Value any    `expr:"value"`
	Floor int    `expr:"floor"`
}

func envFor(floor int, item models.VariableItem) predicateEnv {
	return predicateEnv{
		Name:  item.Name,
		Type:  string(item.DataType),
		Value: value.Plain(item.Value),
		Floor: floor,
	}
}

// CompilePredicate compiles src. An empty source yields a nil predicate.
func CompilePredicate(src string) (*Predicate, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src,
		expr.Env(predicateEnv{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Predicate{source: src, program: program}, nil
}

// Eval runs the predicate for one variable.
func (p *Predicate) Eval(floor int, item models.VariableItem) (bool, error) {
	out, err := expr.Run(p.program, envFor(floor, item))
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q on %q: %w", p.source, item.Name, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return p.source
}
