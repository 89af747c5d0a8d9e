package calendar

import (
	"slices"

	"github.com/aretw0/waymark/pkg/domain"
)

// Layout positions intervals into columns. The result is in processing order:
// start ascending, then duration descending, then input order.
// Payloads are passed through untouched. Empty input yields an empty, non-nil slice.
func Layout(intervals []domain.Interval) []domain.PositionedInterval {
	out := make([]domain.PositionedInterval, 0, len(intervals))
	if len(intervals) == 0 {
		return out
	}

	order := make([]int, len(intervals))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ia, ib := intervals[a], intervals[b]
		if c := ia.Start.Compare(ib.Start); c != 0 {
			return c
		}
		da, db := ia.Duration(), ib.Duration()
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})

	clusters := newUnionFind(len(order))
	for i, idx := range order {
		item := domain.PositionedInterval{Interval: intervals[idx]}

		var overlapping []int
		used := make(map[int]bool)
		for j := range out {
			if out[j].Overlaps(item.Interval) {
				overlapping = append(overlapping, j)
				used[out[j].Column] = true
			}
		}

		for used[item.Column] {
			item.Column++
		}

		total := item.Column + 1
		for _, j := range overlapping {
			total = max(total, out[j].TotalColumns)
		}
		item.TotalColumns = total
		for _, j := range overlapping {
			out[j].TotalColumns = total
			clusters.union(i, j)
		}

		out = append(out, item)
	}

	settle(out, clusters)
	return out
}

// settle gives every member of a cluster TotalColumns = max column + 1 and numbers
// clusters in processing order.
func settle(out []domain.PositionedInterval, clusters *unionFind) {
	maxCol := make(map[int]int)
	for i := range out {
		root := clusters.find(i)
		if c, ok := maxCol[root]; !ok || out[i].Column > c {
			maxCol[root] = out[i].Column
		}
	}

	index := make(map[int]int)
	for i := range out {
		root := clusters.find(i)
		n, ok := index[root]
		if !ok {
			n = len(index)
			index[root] = n
		}
		out[i].Cluster = n
		out[i].TotalColumns = maxCol[root] + 1
	}
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// Keep the earliest item as root.
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
