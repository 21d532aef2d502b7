// Package filter compiles boolean expressions over games using the
// expr language, so library listings can be narrowed with criteria like
//
//	Playtime > hours(10) && contains(Name, "civilization")
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/naguirre11/gamesync/steam"
)

// CompiledFilter is a compiled expression ready to test games.
type CompiledFilter interface {
	// Match reports whether a game satisfies the filter. An expression
	// that fails at runtime matches nothing.
	Match(game steam.Game) bool

	// Expression returns the original filter expression.
	Expression() string
}

// Compiler compiles filter expressions.
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// Option configures a compiler.
type Option func(*exprCompiler)

// WithCache caches compiled programs, keyed by expression, up to size
// entries.
func WithCache(size int) Option {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// NewCompiler creates an expr-based filter compiler.
func NewCompiler(opts ...Option) Compiler {
	c := &exprCompiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type exprCompiler struct {
	cache *lruCache
}

// Compile parses and compiles a filter expression.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // game fields are bound at run time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	compiled := &exprFilter{expression: expression, program: program}

	if c.cache != nil {
		c.cache.Put(expression, compiled)
	}

	return compiled, nil
}

type exprFilter struct {
	expression string
	program    *vm.Program
}

func (f *exprFilter) Match(game steam.Game) bool {
	env := helperFunctions()
	env["AppID"] = game.AppID
	env["Name"] = game.Name
	env["Playtime"] = game.Playtime
	env["RecentPlaytime"] = game.RecentPlaytime
	env["Hours"] = game.Hours()
	env["HasStats"] = game.HasStats

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	matched, ok := result.(bool)
	return ok && matched
}

func (f *exprFilter) Expression() string {
	return f.expression
}

// helperFunctions builds the helpers available inside expressions.
// Playtime fields are minutes, so hours(n) converts for comparisons.
func helperFunctions() map[string]any {
	return map[string]any{
		"hours": func(h float64) int {
			return int(h * 60)
		},
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

// Apply returns the games matching the filter, preserving input order.
func Apply(f CompiledFilter, games []steam.Game) []steam.Game {
	var matched []steam.Game
	for _, game := range games {
		if f.Match(game) {
			matched = append(matched, game)
		}
	}
	return matched
}
