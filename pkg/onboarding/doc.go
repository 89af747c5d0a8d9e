// Package onboarding derives a dependency-gated checklist from a tenant snapshot.
//
// Evaluate is a pure function: it re-runs every guard on every call and keeps no state
// between calls. Plan wraps a validated step list for repeated evaluation.
package onboarding
