package services

import (
	"charging-route-service/internal/domain"
	"container/heap"
)

// A candidate is a partial or finished route waiting in the search queue.
type candidate struct {
	plan *domain.RoutePlan
	cost float64 // heuristic cost when the candidate was queued
	seq  uint64  // insertion order, breaks cost ties
}

// candidateQueue implements heap.Interface as a min-heap on cost.
type candidateQueue []*candidate

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}

func (q candidateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *candidateQueue) Push(x any) {
	*q = append(*q, x.(*candidate))
}

func (q *candidateQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func (q *candidateQueue) push(c *candidate) { heap.Push(q, c) }

func (q *candidateQueue) pop() *candidate { return heap.Pop(q).(*candidate) }
