package dispatch

import "container/heap"

// candidateQueue is a binary heap whose front is the policy's most
// preferred candidate. It implements heap.Interface; use push/pop.
type candidateQueue struct {
	items  []Candidate
	policy Policy
}

func newCandidateQueue(p Policy) *candidateQueue {
	return &candidateQueue{policy: p}
}

func (q *candidateQueue) Len() int           { return len(q.items) }
func (q *candidateQueue) Less(i, j int) bool { return q.policy.Less(q.items[i], q.items[j]) }
func (q *candidateQueue) Swap(i, j int)      { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *candidateQueue) Push(x any) {
	q.items = append(q.items, x.(Candidate))
}

func (q *candidateQueue) Pop() any {
	old := q.items
	n := len(old)
	c := old[n-1]
	q.items = old[:n-1]
	return c
}

func (q *candidateQueue) push(c Candidate) { heap.Push(q, c) }
func (q *candidateQueue) pop() Candidate  { return heap.Pop(q).(Candidate) }
