package domain

import "time"

// Interval is a time-boxed calendar item.
// End is expected to be after Start; degenerate items are passed through by the layout.
type Interval struct {
	ID      string    `json:"id,omitempty" yaml:"id,omitempty"`
	Start   time.Time `json:"start" yaml:"start"`
	End     time.Time `json:"end" yaml:"end"`
	Payload any       `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports strict overlap: touching edges do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// PositionedInterval is an Interval with its column assignment.
type PositionedInterval struct {
	Interval

	// Column is the 0-based slot within the overlap cluster.
	Column int `json:"column"`

	// TotalColumns is shared by every member of the overlap cluster.
	TotalColumns int `json:"total_columns"`

	// Cluster is the 0-based index of the overlap cluster in processing order.
	Cluster int `json:"cluster"`
}
