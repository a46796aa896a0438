package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
)

// Check evaluates a boolean expr-lang program over the resolved values of
// every declaration. The program may also call the math functions sin, cos,
// tan, asin, acos, sqrt, atan2, hypot, and pow, and the expr-lang builtins
// such as abs, min, and max.
//
// A program that does not compile, or does not yield a boolean, fails with
// ErrInvalidSyntax. A program that fails at run time fails with
// ErrCheckFailed.
func (s *Session) Check(ctx context.Context, source string) (bool, error) {
	env, err := s.checkEnv()
	if err != nil {
		return false, err
	}

	opts := append([]expr.Option{
		expr.Env(env),
		expr.AsBool(),
	}, mathFunctions...)

	program, err := expr.Compile(source, opts...)
	if err != nil {
		return false, ErrInvalidSyntax.Wrap(err).
			With(slog.String("check", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, ErrCheckFailed.Wrap(err).
			With(slog.String("check", source))
	}

	ok, _ := out.(bool)

	s.logger.DebugContext(ctx, "check",
		slog.String("check", source),
		slog.Bool("ok", ok),
	)

	return ok, nil
}

// CheckAll runs every check in order and fails with ErrCheckFailed at the
// first one that does not hold.
func (s *Session) CheckAll(ctx context.Context, checks []string) error {
	for _, src := range checks {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := s.Check(ctx, src)
		if err != nil {
			return err
		}

		if !ok {
			return ErrCheckFailed.With(slog.String("check", src))
		}
	}

	return nil
}

func (s *Session) checkEnv() (map[string]any, error) {
	env := make(map[string]any, len(s.decls))

	for d := range s.All() {
		n, err := s.Resolve(d)
		if err != nil {
			return nil, err
		}

		env[d.name] = n.Native()
	}

	return env, nil
}

var mathFunctions = []expr.Option{
	unaryFunction("sin", math.Sin),
	unaryFunction("cos", math.Cos),
	unaryFunction("tan", math.Tan),
	unaryFunction("asin", math.Asin),
	unaryFunction("acos", math.Acos),
	unaryFunction("sqrt", math.Sqrt),
	binaryFunction("atan2", math.Atan2),
	binaryFunction("hypot", math.Hypot),
	binaryFunction("pow", math.Pow),
}

func unaryFunction(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", name, len(params))
		}

		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}

		return fn(x), nil
	})
}

func binaryFunction(name string, fn func(float64, float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s: want 2 arguments, got %d", name, len(params))
		}

		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}

		y, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}

		return fn(x, y), nil
	})
}

func toFloat(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil

	case int:
		return float64(v), nil

	case int64:
		return float64(v), nil

	case bool:
		if v {
			return 1, nil
		}

		return 0, nil

	default:
		return 0, fmt.Errorf("%T is not a number", v)
	}
}
