package dsl

import (
	"errors"
	"testing"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/registry"
)

func TestBuilder_SimpleChecklist(t *testing.T) {
	b := New()

	b.Step("profile").
		Title("Complete your profile").
		Route("/settings/profile").
		Focus("full_name").
		GuardNamed(registry.GuardProfileComplete)

	b.Step("customers").
		Title("Add your first customer").
		Route("/customers/new").
		Guard(func(s domain.Snapshot) bool { return s.CustomerCount > 0 }).
		After("profile")

	steps, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}

	profile := steps[0]
	if profile.ID != "profile" || profile.FocusKey != "full_name" {
		t.Errorf("unexpected first step: %+v", profile)
	}
	if profile.Guard == nil {
		t.Fatal("named guard was not resolved")
	}
	if !profile.Guard(domain.Snapshot{HasFullName: true, HasPhone: true, HasBusinessName: true}) {
		t.Error("profile guard should pass on a complete profile")
	}

	customers := steps[1]
	if len(customers.DependsOn) != 1 || customers.DependsOn[0] != "profile" {
		t.Errorf("expected dependency on profile, got %v", customers.DependsOn)
	}
}

func TestBuilder_ChainedSteps(t *testing.T) {
	steps := New().
		Step("b").GuardNamed(registry.GuardHasJobs).
		Step("a").GuardNamed(registry.GuardHasQuotes).After("b").Done().
		MustBuild()

	if steps[0].ID != "b" || steps[1].ID != "a" {
		t.Errorf("insertion order not preserved: %v, %v", steps[0].ID, steps[1].ID)
	}
	if steps[0].Title != "b" {
		t.Errorf("title should default to the id, got %q", steps[0].Title)
	}
}

func TestBuilder_StepReturnsExisting(t *testing.T) {
	b := New()
	b.Step("a").Title("first")
	b.Step("a").Route("/a")

	def := b.Step("a").Definition()
	if def.Title != "first" || def.Route != "/a" {
		t.Errorf("expected merged step, got %+v", def)
	}
}

func TestBuilder_Invalid(t *testing.T) {
	t.Run("Unknown Guard", func(t *testing.T) {
		_, err := New().Step("a").GuardNamed("ghost").Step("b").GuardNamed(registry.GuardBankLinked).Done().Build()
		if !errors.Is(err, domain.ErrUnknownGuard) {
			t.Errorf("expected ErrUnknownGuard, got %v", err)
		}
	})

	t.Run("Custom Registry", func(t *testing.T) {
		r := registry.NewRegistry()
		_, err := New().WithRegistry(r).Step("a").GuardNamed(registry.GuardBankLinked).Done().Build()
		if !errors.Is(err, domain.ErrUnknownGuard) {
			t.Errorf("empty registry should not resolve built-ins, got %v", err)
		}
	})

	t.Run("Cycle Panics On MustBuild", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustBuild should panic on a cycle")
			}
		}()
		New().
			Step("a").GuardNamed(registry.GuardHasJobs).After("b").
			Step("b").GuardNamed(registry.GuardHasJobs).After("a").
			Done().MustBuild()
	})
}
