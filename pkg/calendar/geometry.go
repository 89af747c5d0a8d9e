package calendar

import (
	"fmt"

	"github.com/aretw0/waymark/pkg/domain"
)

// Geometry returns the horizontal placement of p as fractions of the day column width.
func Geometry(p domain.PositionedInterval) (left, width float64) {
	if p.TotalColumns <= 0 {
		return 0, 1
	}
	total := float64(p.TotalColumns)
	return float64(p.Column) / total, 1 / total
}

// Summary describes a layout result.
type Summary struct {
	Items      int
	Clusters   int
	MaxColumns int
}

// Summarize counts clusters and the widest cluster of a Layout result.
func Summarize(positioned []domain.PositionedInterval) Summary {
	s := Summary{Items: len(positioned)}
	for _, p := range positioned {
		s.Clusters = max(s.Clusters, p.Cluster+1)
		s.MaxColumns = max(s.MaxColumns, p.TotalColumns)
	}
	return s
}

// Validate rejects intervals that end before they start.
// Zero-duration intervals are accepted.
func Validate(intervals []domain.Interval) error {
	for i, iv := range intervals {
		if iv.End.Before(iv.Start) {
			if iv.ID != "" {
				return fmt.Errorf("interval #%d (%s): %w", i, iv.ID, domain.ErrInvalidInterval)
			}
			return fmt.Errorf("interval #%d: %w", i, domain.ErrInvalidInterval)
		}
	}
	return nil
}
