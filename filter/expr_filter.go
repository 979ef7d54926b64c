package filter

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// programs caches compiled expressions per record type
var programs = newLRUCache[*vm.Program](128)

// Filter is a compiled boolean expression over records of type T.
//
// Record fields are referenced by their Go names, e.g. for subscriptions:
//
//	Status == "ACTIVE" and daysUntil(ExpiresAt) < 30
type Filter[T any] struct {
	program *vm.Program
	expr    string
}

// Compile compiles expression against the fields of T
func Compile[T any](expression string) (*Filter[T], error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Err: ErrEmptyExpression}
	}

	var zero T
	key := fmt.Sprintf("%T\x00%s", zero, expression)
	if program, ok := programs.Get(key); ok {
		return &Filter[T]{program: program, expr: expression}, nil
	}

	opts := append([]expr.Option{expr.Env(zero), expr.AsBool()}, helpers()...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Err: err}
	}
	programs.Put(key, program)

	return &Filter[T]{program: program, expr: expression}, nil
}

// Match evaluates the filter against a single record
func (f *Filter[T]) Match(record T) (bool, error) {
	result, err := expr.Run(f.program, record)
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, Record: describe(record), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{Expression: f.expr, Record: describe(record), Err: fmt.Errorf("expected bool result, got %T", result)}
	}
	return matched, nil
}

// Apply returns the records matching the filter, in their original order
func (f *Filter[T]) Apply(records []T) ([]T, error) {
	matched := make([]T, 0, len(records))
	for _, record := range records {
		ok, err := f.Match(record)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// String returns the original expression
func (f *Filter[T]) String() string {
	return f.expr
}

// helpers are functions available in every expression
func helpers() []expr.Option {
	return []expr.Option{
		expr.Function("daysSince", func(params ...any) (any, error) {
			return int(math.Floor(time.Since(params[0].(time.Time)).Hours() / 24)), nil
		}, new(func(time.Time) int)),
		expr.Function("daysUntil", func(params ...any) (any, error) {
			return int(math.Floor(time.Until(params[0].(time.Time)).Hours() / 24)), nil
		}, new(func(time.Time) int)),
		expr.Function("daysAgo", func(params ...any) (any, error) {
			return time.Now().AddDate(0, 0, -params[0].(int)), nil
		}, new(func(int) time.Time)),
		expr.Function("parseDate", func(params ...any) (any, error) {
			return time.Parse("2006-01-02", params[0].(string))
		}, new(func(string) time.Time)),
		expr.Function("containsFold", func(params ...any) (any, error) {
			return strings.Contains(strings.ToLower(params[0].(string)), strings.ToLower(params[1].(string))), nil
		}, new(func(string, string) bool)),
	}
}

// describe names a record in error messages
func describe(record any) string {
	v := reflect.Indirect(reflect.ValueOf(record))
	if v.Kind() == reflect.Struct {
		if name := v.FieldByName("Name"); name.IsValid() && name.Kind() == reflect.String {
			return fmt.Sprintf("%s %q", v.Type().Name(), name.String())
		}
	}
	return fmt.Sprintf("%T", record)
}
