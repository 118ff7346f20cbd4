package walk_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/TFMV/pathlength/walk"
)

func TestPublicCheck(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := walk.DefaultOptions()
	opts.Cwd = root

	var seen []string
	engine := walk.NewEngine()
	engine.On(walk.EventResult, func(ev walk.Event) {
		seen = append(seen, ev.(walk.ResultEvent).Result.Path)
	})

	results, err := engine.Check(context.Background(), opts)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(results) != 2 || len(seen) != 2 {
		t.Fatalf("Expected 2 results and 2 notifications, got %d and %d", len(results), len(seen))
	}
	if results[1].Length != walk.PathLength(results[1].Path) {
		t.Errorf("Length %d does not match PathLength", results[1].Length)
	}
}

func TestPublicFilter(t *testing.T) {
	f, err := walk.ParseFilter(">= 3")
	if err != nil {
		t.Fatalf("ParseFilter failed: %v", err)
	}
	if f.Operator() != walk.GreaterThanOrEqualTo || f.Operand() != 3 {
		t.Errorf("Unexpected filter %s", f)
	}

	if _, err := walk.ParseFilter("about 3"); !errors.Is(err, walk.ErrInvalidExpression) {
		t.Errorf("Expected ErrInvalidExpression, got %v", err)
	}
	if _, err := walk.NewFilter(walk.LessThan, -1); !errors.Is(err, walk.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestPublicResolutionError(t *testing.T) {
	opts := walk.DefaultOptions()
	opts.Cwd = filepath.Join(t.TempDir(), "missing")

	_, err := walk.Check(context.Background(), opts)
	if !walk.IsResolutionError(err) {
		t.Fatalf("Expected a resolution error, got %v", err)
	}
	var pe *walk.PathError
	if !errors.As(err, &pe) || pe.Op != walk.OpResolve {
		t.Errorf("Expected a PathError with op %q, got %v", walk.OpResolve, err)
	}
}
