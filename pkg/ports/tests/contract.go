package tests

import (
	"context"
	"testing"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
)

// StepLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.StepLoader.
// wantIDs lists the step ids the loader is expected to return, in order.
func StepLoaderContractTest(t *testing.T, loader ports.StepLoader, wantIDs []domain.StepID) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadSteps_Order", func(t *testing.T) {
		steps, err := loader.LoadSteps(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading steps: %v", err)
		}
		if len(steps) != len(wantIDs) {
			t.Fatalf("expected %d steps, got %d", len(wantIDs), len(steps))
		}
		for i, id := range wantIDs {
			if steps[i].ID != id {
				t.Errorf("step #%d: got %q, want %q", i, steps[i].ID, id)
			}
		}
	})

	t.Run("LoadSteps_GuardsResolved", func(t *testing.T) {
		steps, err := loader.LoadSteps(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading steps: %v", err)
		}
		for _, s := range steps {
			if s.Guard == nil {
				t.Errorf("step %s has no guard", s.ID)
			}
		}
	})

	t.Run("LoadSteps_Repeatable", func(t *testing.T) {
		first, err := loader.LoadSteps(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(first) > 0 {
			first[0].ID = "mutated"
		}
		second, err := loader.LoadSteps(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(second) > 0 && second[0].ID == "mutated" {
			t.Error("LoadSteps must not share its result slice between calls")
		}
	})
}
