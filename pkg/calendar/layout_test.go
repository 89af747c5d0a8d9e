package calendar

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waymark/pkg/domain"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	var h, m int
	fmt.Sscanf(hhmm, "%d:%d", &h, &m)
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func iv(id, start, end string) domain.Interval {
	return domain.Interval{ID: id, Start: at(start), End: at(end)}
}

type slot struct {
	ID      string
	Column  int
	Total   int
	Cluster int
}

func slots(out []domain.PositionedInterval) []slot {
	s := make([]slot, len(out))
	for i, p := range out {
		s[i] = slot{ID: p.ID, Column: p.Column, Total: p.TotalColumns, Cluster: p.Cluster}
	}
	return s
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name  string
		input []domain.Interval
		want  []slot
	}{
		{
			name:  "Empty",
			input: nil,
			want:  []slot{},
		},
		{
			name:  "Chain Overlap",
			input: []domain.Interval{iv("A", "09:00", "10:00"), iv("B", "09:30", "10:30"), iv("C", "10:15", "11:00")},
			want: []slot{
				{"A", 0, 2, 0},
				{"B", 1, 2, 0},
				{"C", 0, 2, 0},
			},
		},
		{
			name:  "Identical Intervals",
			input: []domain.Interval{iv("X", "09:00", "10:00"), iv("Y", "09:00", "10:00")},
			want: []slot{
				{"X", 0, 2, 0},
				{"Y", 1, 2, 0},
			},
		},
		{
			name:  "Touching Do Not Overlap",
			input: []domain.Interval{iv("A", "09:00", "10:00"), iv("B", "10:00", "11:00")},
			want: []slot{
				{"A", 0, 1, 0},
				{"B", 0, 1, 1},
			},
		},
		{
			name:  "Sorted By Start Then Longest First",
			input: []domain.Interval{iv("short", "09:00", "09:30"), iv("late", "11:00", "12:00"), iv("long", "09:00", "11:00")},
			want: []slot{
				{"long", 0, 2, 0},
				{"short", 1, 2, 0},
				{"late", 0, 1, 1},
			},
		},
		{
			name: "Transitive Cluster Settles",
			input: []domain.Interval{
				iv("A", "00:00", "10:00"),
				iv("B", "01:00", "03:00"),
				iv("C", "04:00", "06:00"),
				iv("D", "05:00", "20:00"),
			},
			want: []slot{
				{"A", 0, 3, 0},
				{"B", 1, 3, 0},
				{"C", 1, 3, 0},
				{"D", 2, 3, 0},
			},
		},
		{
			name: "Separate Clusters",
			input: []domain.Interval{
				iv("A", "09:00", "10:00"),
				iv("B", "09:00", "10:00"),
				iv("C", "13:00", "14:00"),
			},
			want: []slot{
				{"A", 0, 2, 0},
				{"B", 1, 2, 0},
				{"C", 0, 1, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Layout(tt.input)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, slots(got)); diff != "" {
				t.Errorf("Layout() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayout_NonOverlappingAllSingleColumn(t *testing.T) {
	var input []domain.Interval
	for h := 8; h < 18; h++ {
		input = append(input, domain.Interval{Start: day.Add(time.Duration(h) * time.Hour), End: day.Add(time.Duration(h)*time.Hour + 45*time.Minute)})
	}
	for _, p := range Layout(input) {
		assert.Equal(t, 0, p.Column)
		assert.Equal(t, 1, p.TotalColumns)
	}
}

func TestLayout_PayloadPassThrough(t *testing.T) {
	type job struct{ Customer string }
	payload := &job{Customer: "acme"}

	out := Layout([]domain.Interval{{Start: at("09:00"), End: at("10:00"), Payload: payload}})
	require.Len(t, out, 1)
	assert.Same(t, payload, out[0].Payload)
}

func TestLayout_StableForEqualItems(t *testing.T) {
	input := []domain.Interval{iv("first", "09:00", "10:00"), iv("second", "09:00", "10:00"), iv("third", "09:00", "10:00")}
	out := Layout(input)
	assert.Equal(t, []string{"first", "second", "third"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{out[0].Column, out[1].Column, out[2].Column})
}

func TestLayout_RandomInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := rng.Intn(12)
		input := make([]domain.Interval, n)
		for i := range input {
			start := day.Add(time.Duration(rng.Intn(48)) * 15 * time.Minute)
			input[i] = domain.Interval{
				ID:    fmt.Sprint(i),
				Start: start,
				End:   start.Add(time.Duration(1+rng.Intn(8)) * 15 * time.Minute),
			}
		}

		out := Layout(input)
		require.Len(t, out, n)

		for i, a := range out {
			assert.GreaterOrEqual(t, a.TotalColumns, a.Column+1)
			for j, b := range out {
				if i == j || !a.Overlaps(b.Interval) {
					continue
				}
				assert.NotEqual(t, a.Column, b.Column, "round %d: %s and %s share a column", round, a.ID, b.ID)
				assert.Equal(t, a.Cluster, b.Cluster)
			}
		}

		// Every member of a cluster shares the same column count.
		totals := make(map[int]int)
		for _, p := range out {
			if want, ok := totals[p.Cluster]; ok {
				assert.Equal(t, want, p.TotalColumns, "round %d cluster %d", round, p.Cluster)
			}
			totals[p.Cluster] = p.TotalColumns
		}
	}
}

func TestGeometry(t *testing.T) {
	left, width := Geometry(domain.PositionedInterval{Column: 1, TotalColumns: 4})
	assert.InDelta(t, 0.25, left, 1e-9)
	assert.InDelta(t, 0.25, width, 1e-9)

	left, width = Geometry(domain.PositionedInterval{})
	assert.Zero(t, left)
	assert.Equal(t, 1.0, width)
}

func TestSummarize(t *testing.T) {
	out := Layout([]domain.Interval{
		iv("A", "09:00", "10:00"),
		iv("B", "09:30", "10:30"),
		iv("C", "13:00", "14:00"),
	})
	assert.Equal(t, Summary{Items: 3, Clusters: 2, MaxColumns: 2}, Summarize(out))
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(nil))
	assert.NoError(t, Validate([]domain.Interval{iv("zero", "09:00", "09:00")}))

	err := Validate([]domain.Interval{iv("ok", "09:00", "10:00"), iv("bad", "11:00", "10:00")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInterval))
	assert.Contains(t, err.Error(), "#1 (bad)")
}

func TestLayout_DegeneratePassThrough(t *testing.T) {
	out := Layout([]domain.Interval{iv("bad", "11:00", "10:00"), iv("ok", "09:00", "10:00")})
	require.Len(t, out, 2)
	for _, p := range out {
		assert.GreaterOrEqual(t, p.TotalColumns, p.Column+1)
	}
}
