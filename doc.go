/*
Package waymark drives a dependency-gated onboarding checklist and lays out
overlapping calendar intervals into side-by-side columns.

# Concept

The host assembles a Snapshot of tenant facts (profile fields, entity counts,
billing flags) from its own storage and hands it to the Engine. The Engine
runs one pure guard per step, derives a status for each step and picks the
current step. Nothing is cached between calls: the same snapshot always
yields the same Evaluation.

Steps form a small DAG. A step is locked while any of its prerequisites is
incomplete, but a guard that passes always marks its step complete, so work
done out of order is never hidden.

The calendar half is independent. Layout sorts intervals by start time,
places each one in the first free column among the items it overlaps, and
gives every member of an overlap cluster the same column count so the host
can render widths as 1/TotalColumns.

# Usage

	eng, err := waymark.New()
	if err != nil {
		log.Fatal(err)
	}

	eval, err := eng.Evaluate(ctx, domain.Snapshot{HasFullName: true})
	if err != nil {
		log.Fatal(err)
	}
	if eval.HasCurrent() {
		fmt.Println("next:", eval.CurrentStepID)
	}

Custom checklists can be built with the dsl package, loaded from a YAML or
JSON file (pkg/adapters/file) or from a directory of Markdown step documents
(pkg/adapters/loam). Loaders that implement ports.Watchable support hot
reload through Engine.AutoReload.

# Transports

The same Engine is exposed over HTTP (pkg/adapters/http) and as a Model
Context Protocol server (pkg/adapters/mcp). The waymark CLI wires both.
*/
package waymark
