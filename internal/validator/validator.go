package validator

import (
	"fmt"

	"github.com/aretw0/waymark/pkg/domain"
)

// ValidateSteps checks a step list for empty or duplicate ids, missing guards,
// unknown or self dependencies and dependency cycles.
// All problems are collected into a single *domain.ConfigError.
func ValidateSteps(steps []domain.StepDefinition) error {
	var errs []error

	index := make(map[domain.StepID]int, len(steps))
	for i, s := range steps {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("step #%d: %w", i, domain.ErrEmptyStepID))
			continue
		}
		if _, dup := index[s.ID]; dup {
			errs = append(errs, &domain.StepError{StepID: s.ID, Err: domain.ErrDuplicateStep})
			continue
		}
		index[s.ID] = i
	}

	for _, s := range steps {
		if s.ID == "" {
			continue
		}
		if s.Guard == nil {
			err := domain.ErrMissingGuard
			if s.GuardName != "" {
				err = fmt.Errorf("%w: '%s'", domain.ErrUnknownGuard, s.GuardName)
			}
			errs = append(errs, &domain.StepError{StepID: s.ID, Err: err})
		}
		for _, dep := range s.DependsOn {
			if dep == s.ID {
				errs = append(errs, &domain.StepError{StepID: s.ID, Err: domain.ErrSelfDependency})
				continue
			}
			if _, ok := index[dep]; !ok {
				errs = append(errs, &domain.StepError{
					StepID: s.ID,
					Err:    fmt.Errorf("%w: '%s'", domain.ErrUnknownDependency, dep),
				})
			}
		}
	}

	if cycle := findCycle(steps, index); cycle != nil {
		errs = append(errs, &domain.StepError{
			StepID: cycle[0],
			Err:    fmt.Errorf("%w: %v", domain.ErrDependencyCycle, cycle),
		})
	}

	if len(errs) > 0 {
		return &domain.ConfigError{Errors: errs}
	}
	return nil
}

// findCycle returns the first dependency cycle found, as a path that starts and ends
// on the same step. Self dependencies and unknown ids are reported elsewhere.
func findCycle(steps []domain.StepDefinition, index map[domain.StepID]int) []domain.StepID {
	const (
		unvisited = iota
		visiting
		visited
	)
	marks := make(map[domain.StepID]int, len(index))
	var path []domain.StepID

	var visit func(id domain.StepID) []domain.StepID
	visit = func(id domain.StepID) []domain.StepID {
		switch marks[id] {
		case visited:
			return nil
		case visiting:
			for i, p := range path {
				if p == id {
					cycle := append([]domain.StepID{}, path[i:]...)
					return append(cycle, id)
				}
			}
			return []domain.StepID{id, id}
		}

		marks[id] = visiting
		path = append(path, id)
		for _, dep := range steps[index[id]].DependsOn {
			if dep == id {
				continue
			}
			if _, ok := index[dep]; !ok {
				continue
			}
			if cycle := visit(dep); cycle != nil {
				return cycle
			}
		}
		path = path[:len(path)-1]
		marks[id] = visited
		return nil
	}

	for _, s := range steps {
		if s.ID == "" {
			continue
		}
		if cycle := visit(s.ID); cycle != nil {
			return cycle
		}
	}
	return nil
}
