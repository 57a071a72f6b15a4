package enrich

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	"github.com/shepherdvovkes/Motif/pkg/reader"
)

// LoadError reports a problem loading an enrichment file.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load enrichment file %s: %s", e.File, e.Message)
}

// LoadDir scans a directory for .star files and registers every exported
// function as an enrichment handler. Starlark identifiers cannot contain
// dashes, so underscores in function names map to dashes in operator names
// (predict_emotional_triggers handles predict-emotional-triggers).
// A missing directory is fine and registers nothing.
func LoadDir(dir string, registry *Registry) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access enrichment directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("enrichment path is not a directory: %s", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.star"))
	if err != nil {
		return fmt.Errorf("failed to scan enrichment directory: %w", err)
	}

	for _, file := range files {
		if err := loadFile(file, registry); err != nil {
			return err
		}
	}
	return nil
}

// loadFile executes one .star file and registers its exports.
func loadFile(path string, registry *Registry) error {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a glob of the enrichment directory
	if err != nil {
		return &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	thread := &starlark.Thread{
		Name: "load:" + filepath.Base(path),
		Print: func(_ *starlark.Thread, _ string) {
			// Ignore prints during loading
		},
	}

	globals, err := starlark.ExecFile(thread, path, content, nil)
	if err != nil {
		return &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}

	for name, value := range globals {
		if strings.HasPrefix(name, "_") {
			continue
		}
		fn, ok := value.(starlark.Callable)
		if !ok {
			continue
		}

		operator := strings.ReplaceAll(name, "_", "-")
		if err := registry.Register(operator, starlarkHandler(path, fn)); err != nil {
			return &LoadError{File: path, Message: err.Error()}
		}
	}
	return nil
}

// starlarkHandler wraps a starlark function as an enrichment handler.
func starlarkHandler(path string, fn starlark.Callable) Handler {
	return func(args []reader.Node) (reader.Node, error) {
		thread := &starlark.Thread{Name: "enrich:" + fn.Name()}

		tuple := make(starlark.Tuple, len(args))
		for i, arg := range args {
			tuple[i] = toStarlark(arg)
		}

		result, err := starlark.Call(thread, fn, tuple, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return fromStarlark(result, args)
	}
}

// toStarlark converts a parse-tree node to a starlark argument.
func toStarlark(node reader.Node) starlark.Value {
	switch v := node.(type) {
	case *reader.Symbol:
		return starlark.String(v.Name)
	case *reader.String:
		return starlark.String(v.Value)
	case *reader.Number:
		if v.IsInt() {
			return starlark.MakeInt(v.Int())
		}
		return starlark.Float(v.Value)
	default:
		return starlark.String(v.Sexpr())
	}
}

// fromStarlark converts a handler result back to a literal node. The
// replacement inherits the position of the call form's first argument so
// downstream diagnostics still point into the source.
func fromStarlark(value starlark.Value, args []reader.Node) (reader.Node, error) {
	var pos reader.Position
	if len(args) > 0 {
		pos = args[0].Pos()
	}

	switch v := value.(type) {
	case starlark.String:
		return &reader.String{Value: string(v), Position: pos}, nil
	case starlark.Int:
		i, _ := v.Int64()
		return &reader.Number{Text: v.String(), Value: float64(i), Position: pos}, nil
	case starlark.Float:
		return &reader.Number{Text: v.String(), Value: float64(v), Position: pos}, nil
	default:
		return nil, fmt.Errorf("enrichment result must be a string or number, got %s", value.Type())
	}
}
