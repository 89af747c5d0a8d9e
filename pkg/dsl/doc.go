/*
Package dsl provides a fluent builder for onboarding checklists.

It lets developers define steps, guards and dependencies in Go instead of a
YAML, JSON or Markdown step file. Steps keep the order in which they are added.

Example usage:

	steps, err := dsl.New().
		Step("profile").
		Title("Complete your profile").
		Route("/settings/profile").
		GuardNamed("profile_complete").
		Step("customers").
		Title("Add your first customer").
		Route("/customers/new").
		Guard(func(s domain.Snapshot) bool { return s.CustomerCount > 0 }).
		After("profile").
		Done().
		Build()
*/
package dsl
