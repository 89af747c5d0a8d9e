package domain

// StepState is the ordered, render-ready view of one step.
type StepState struct {
	ID       StepID     `json:"id"`
	Title    string     `json:"title"`
	Route    string     `json:"route"`
	FocusKey string     `json:"focus_key,omitempty"`
	Status   StepStatus `json:"status"`
}

// Evaluation is the checklist model derived from a snapshot.
// It is recomputed on every call and never stored by the engine.
type Evaluation struct {
	Completion map[StepID]bool       `json:"completion"`
	Statuses   map[StepID]StepStatus `json:"statuses"`

	// Steps mirrors Statuses in checklist order.
	Steps []StepState `json:"steps"`

	// CurrentStepID is the first incomplete step, or empty when all are complete.
	CurrentStepID StepID `json:"current_step_id,omitempty"`

	ProgressPercent int  `json:"progress_percent"`
	CompletedCount  int  `json:"completed_count"`
	TotalSteps      int  `json:"total_steps"`
	AllComplete     bool `json:"all_complete"`
}

// HasCurrent reports whether there is an active step.
func (e *Evaluation) HasCurrent() bool {
	return e.CurrentStepID != ""
}

// Status returns the status of a step, or "" if the step is unknown.
func (e *Evaluation) Status(id StepID) StepStatus {
	return e.Statuses[id]
}
