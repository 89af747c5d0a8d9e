package domain

// EvaluationDiff represents the changes between two evaluations.
// It is serialized to JSON for partial updates on the client.
type EvaluationDiff struct {
	// Statuses contains only steps whose status changed, was added or removed.
	// Removed steps are present with an empty status.
	Statuses map[StepID]StepStatus `json:"statuses,omitempty"`

	// CurrentStepID is set when the active step moved. An empty value means all complete.
	CurrentStepID *StepID `json:"current_step_id,omitempty"`

	ProgressPercent *int  `json:"progress_percent,omitempty"`
	AllComplete     *bool `json:"all_complete,omitempty"`
}

// Diff calculates the difference between oldEval and newEval.
// If oldEval is nil, it returns a diff representing the entire newEval (initial load).
// It returns nil when nothing changed.
func Diff(oldEval, newEval *Evaluation) *EvaluationDiff {
	if newEval == nil {
		return nil
	}

	diff := &EvaluationDiff{
		Statuses: diffStatuses(oldEval, newEval),
	}

	if oldEval == nil || oldEval.CurrentStepID != newEval.CurrentStepID {
		current := newEval.CurrentStepID
		diff.CurrentStepID = &current
	}
	if oldEval == nil || oldEval.ProgressPercent != newEval.ProgressPercent {
		progress := newEval.ProgressPercent
		diff.ProgressPercent = &progress
	}
	if oldEval == nil || oldEval.AllComplete != newEval.AllComplete {
		all := newEval.AllComplete
		diff.AllComplete = &all
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffStatuses(old, new *Evaluation) map[StepID]StepStatus {
	delta := make(map[StepID]StepStatus)

	if old == nil {
		for id, s := range new.Statuses {
			delta[id] = s
		}
		return delta
	}

	for id, s := range new.Statuses {
		if prev, ok := old.Statuses[id]; !ok || prev != s {
			delta[id] = s
		}
	}
	for id := range old.Statuses {
		if _, ok := new.Statuses[id]; !ok {
			delta[id] = ""
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *EvaluationDiff) IsEmpty() bool {
	return len(d.Statuses) == 0 &&
		d.CurrentStepID == nil &&
		d.ProgressPercent == nil &&
		d.AllComplete == nil
}
