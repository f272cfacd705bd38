package shapes

import (
	"fmt"
	"testing"
)

// Quarters and eighths merge by subdivision only while the running cell count
// times the subdivision stays within the limit; past it the sorted merge runs.
func BenchmarkJoinCubeMergeLimit(b *testing.B) {
	quarters := Create(0.25, 0, 0.25, 0.75, 0.5, 0.75)
	eighths := Create(0.125, 0.25, 0.375, 0.875, 0.75, 1)
	for _, limit := range []int{1, 64, DefaultCubeMergeLimit, 4096} {
		b.Run(fmt.Sprintf("limit=%d", limit), func(b *testing.B) {
			SetCubeMergeLimit(limit)
			b.Cleanup(func() { SetCubeMergeLimit(0) })
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				JoinUnoptimized(quarters, eighths, Or)
			}
		})
	}
}

func BenchmarkJoinIsNotEmpty(b *testing.B) {
	s := stairs()
	query := FromBox(NewBoxBounds(0.2, 0.9, 0.6, 0.8, 2.7, 0.9))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		JoinIsNotEmpty(s, query, And)
	}
}

func BenchmarkOptimize(b *testing.B) {
	parts := []*Shape{
		Create(0, 0, 0, 1, 0.5, 1),
		Create(0, 0.5, 0, 1, 1, 0.5),
		Create(0.25, 0.5, 0.5, 0.75, 0.75, 1),
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := JoinUnoptimized(JoinUnoptimized(parts[0], parts[1], Or), parts[2], Or)
		s.Optimize()
	}
}

func BenchmarkCollideStairs(b *testing.B) {
	s := stairs().Move(10, 64, 10)
	moving := NewBoxBounds(10.2, 65, 10.6, 10.8, 66.8, 10.9)
	for i := 0; i < b.N; i++ {
		s.Collide(AxisY, moving, -2)
	}
}
