package domain

// StepID identifies an onboarding step.
type StepID string

// Built-in step identifiers, in checklist order.
const (
	StepProfile      StepID = "profile"
	StepCustomers    StepID = "customers"
	StepContent      StepID = "content"
	StepBank         StepID = "bank"
	StepSubscription StepID = "subscription"
)

// Guard reports whether a step is complete for the given snapshot.
// Guards must be pure: no I/O, no mutation, same answer for the same snapshot.
type Guard func(Snapshot) bool

// StepDefinition describes one checklist step.
type StepDefinition struct {
	ID    StepID `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`

	// Route is the navigation target the host opens for this step. Opaque to the engine.
	Route string `json:"route" yaml:"route"`

	// FocusKey is an optional UI hint (e.g. which form field to focus).
	FocusKey string `json:"focus_key,omitempty" yaml:"focus_key,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// GuardName is the registry name the guard was resolved from, when loaded from config.
	GuardName string `json:"guard,omitempty" yaml:"guard,omitempty"`
	Guard     Guard  `json:"-" yaml:"-"`

	// DependsOn lists steps that must be complete before this one unlocks.
	DependsOn []StepID `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// StepStatus is the derived checklist state of a step.
type StepStatus string

const (
	StatusComplete StepStatus = "complete" // Guard satisfied
	StatusActive   StepStatus = "active"   // First incomplete step
	StatusPending  StepStatus = "pending"  // Incomplete, prerequisites met
	StatusLocked   StepStatus = "locked"   // Incomplete, a prerequisite is missing
)

// String returns the string representation of the status.
func (s StepStatus) String() string {
	return string(s)
}

// IsComplete returns true if the step's guard is satisfied.
func (s StepStatus) IsComplete() bool {
	return s == StatusComplete
}

// IsNavigable returns true if the host should let the user open the step.
// Completed steps stay navigable regardless of order.
func (s StepStatus) IsNavigable() bool {
	switch s {
	case StatusComplete, StatusActive, StatusPending:
		return true
	}
	return false
}
