package schederr

import (
	"errors"
	"fmt"
	"testing"
)

func TestCycle_MessageAndKind(t *testing.T) {
	err := Cycle([]int{1, 2, 1})
	if !IsCycle(err) {
		t.Fatalf("expected cycle kind, got %v", err)
	}
	if IsValidation(err) {
		t.Error("cycle error should not be a validation error")
	}
	if got, want := err.Error(), "circular dependency: cycle: 1 -> 2 -> 1"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	var se *Error
	if !errors.As(err, &se) || len(se.Cycle) != 3 {
		t.Errorf("expected witness of length 3, got %+v", se)
	}
}

func TestValidationf_Wrapped(t *testing.T) {
	err := fmt.Errorf("build graph: %w", Validationf("task %d has duration %d", 2, -1))
	if !IsValidation(err) {
		t.Fatalf("expected validation kind through wrapping, got %v", err)
	}
	if KindName(err) != "validation" {
		t.Errorf("expected kind name validation, got %q", KindName(err))
	}
}

func TestKindName_Unknown(t *testing.T) {
	if KindName(errors.New("boom")) != "" {
		t.Error("expected empty kind name for foreign error")
	}
}
