package onboarding

import (
	"github.com/aretw0/waymark/pkg/domain"
)

// Evaluate computes completion, statuses and progress for steps against snapshot.
//
// Steps are evaluated in the given order. The first incomplete step is active; other
// incomplete steps are pending when all their dependencies are complete and locked
// otherwise. A dependency that is not in steps counts as incomplete.
// A guard that panics or is nil yields a *domain.GuardError and no evaluation.
func Evaluate(snapshot domain.Snapshot, steps []domain.StepDefinition) (*domain.Evaluation, error) {
	completion := make(map[domain.StepID]bool, len(steps))
	for _, s := range steps {
		done, err := runGuard(s, snapshot)
		if err != nil {
			return nil, err
		}
		completion[s.ID] = done
	}

	eval := &domain.Evaluation{
		Completion: completion,
		Statuses:   make(map[domain.StepID]domain.StepStatus, len(steps)),
		Steps:      make([]domain.StepState, 0, len(steps)),
		TotalSteps: len(steps),
	}

	for _, s := range steps {
		if completion[s.ID] {
			eval.CompletedCount++
		} else if eval.CurrentStepID == "" {
			eval.CurrentStepID = s.ID
		}
	}

	for _, s := range steps {
		status := statusOf(s, eval.CurrentStepID, completion)
		eval.Statuses[s.ID] = status
		eval.Steps = append(eval.Steps, domain.StepState{
			ID:       s.ID,
			Title:    s.Title,
			Route:    s.Route,
			FocusKey: s.FocusKey,
			Status:   status,
		})
	}

	eval.ProgressPercent = progress(eval.CompletedCount, eval.TotalSteps)
	eval.AllComplete = eval.CurrentStepID == ""
	return eval, nil
}

func statusOf(s domain.StepDefinition, current domain.StepID, completion map[domain.StepID]bool) domain.StepStatus {
	switch {
	case completion[s.ID]:
		return domain.StatusComplete
	case s.ID == current:
		return domain.StatusActive
	}
	for _, dep := range s.DependsOn {
		if !completion[dep] {
			return domain.StatusLocked
		}
	}
	return domain.StatusPending
}

// progress rounds half up and clamps to [0,100]. An empty checklist is fully complete.
func progress(completed, total int) int {
	if total <= 0 {
		return 100
	}
	p := (100*completed + total/2) / total
	return min(max(p, 0), 100)
}

func runGuard(s domain.StepDefinition, snapshot domain.Snapshot) (done bool, err error) {
	if s.Guard == nil {
		return false, &domain.GuardError{StepID: s.ID}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &domain.GuardError{StepID: s.ID, Cause: r}
		}
	}()
	return s.Guard(snapshot), nil
}
