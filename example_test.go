package waymark_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/dsl"
	"github.com/aretw0/waymark/pkg/registry"
)

// ExampleNew evaluates the built-in checklist for a tenant that has only filled in its profile.
func ExampleNew() {
	eng, err := waymark.New()
	if err != nil {
		log.Fatal(err)
	}

	eval, err := eng.Evaluate(context.Background(), domain.Snapshot{
		HasFullName:     true,
		HasPhone:        true,
		HasBusinessName: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, s := range eval.Steps {
		fmt.Printf("%-12s %s\n", s.ID, s.Status)
	}
	fmt.Printf("progress: %d%%\n", eval.ProgressPercent)

	// Output:
	// profile      complete
	// customers    active
	// content      locked
	// bank         locked
	// subscription locked
	// progress: 20%
}

// ExampleNew_dsl builds a custom checklist with the fluent builder.
func ExampleNew_dsl() {
	steps := dsl.New().
		Step("jobs").Title("Book your first job").Route("/jobs/new").GuardNamed(registry.GuardHasJobs).
		Step("bank").Title("Get paid").Route("/settings/billing").GuardNamed(registry.GuardBankLinked).After("jobs").
		Done().MustBuild()

	eng, err := waymark.New(waymark.WithSteps(steps...))
	if err != nil {
		log.Fatal(err)
	}

	eval, _ := eng.Evaluate(context.Background(), domain.Snapshot{BankLinked: true})
	fmt.Println(eval.CurrentStepID, eval.Statuses["bank"], eval.ProgressPercent)

	// Output:
	// jobs complete 50
}

// ExampleEngine_Layout places three appointments into calendar columns.
func ExampleEngine_Layout() {
	eng, _ := waymark.New()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	out, err := eng.Layout(context.Background(), []domain.Interval{
		{ID: "A", Start: at(9, 0), End: at(10, 0)},
		{ID: "B", Start: at(9, 30), End: at(10, 30)},
		{ID: "C", Start: at(10, 15), End: at(11, 0)},
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range out {
		fmt.Printf("%s column=%d of %d\n", p.ID, p.Column, p.TotalColumns)
	}

	// Output:
	// A column=0 of 2
	// B column=1 of 2
	// C column=0 of 2
}
