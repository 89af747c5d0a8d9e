/*
Package domain contains the core domain models for Waymark.

It defines the entities shared by the onboarding checklist engine and the calendar
layout engine. This package is kept pure and free of external dependencies like I/O
or persistence, following Hexagonal Architecture principles.

# Key Entities

  - StepDefinition: A checklist step with a completion guard and its prerequisites.
  - Snapshot: The immutable tenant facts (profile, counts, billing flags) guards read.
  - Evaluation: The derived checklist view (per-step status, current step, progress).
  - Interval / PositionedInterval: Time-boxed calendar items before and after layout.
  - LifecycleHooks: Observability callbacks fired by the engine facade.
*/
package domain
