package store

import (
	"container/heap"

	"tasktracker/internal/models"
)

// PriorityQueue is a min-heap of task copies ordered by ascending priority
// number. Ties carry no ordering guarantee beyond heap mechanics.
type PriorityQueue struct {
	items taskHeap
}

// NewPriorityQueue creates an empty queue.
func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{}
}

// Insert adds a copy of task to the queue.
func (q *PriorityQueue) Insert(task models.Task) {
	heap.Push(&q.items, task)
}

// ExtractMin removes and returns the most urgent task. The second return value
// is false when the queue is empty.
func (q *PriorityQueue) ExtractMin() (models.Task, bool) {
	if len(q.items) == 0 {
		return models.Task{}, false
	}
	return heap.Pop(&q.items).(models.Task), true
}

// Peek returns the most urgent task without removing it.
func (q *PriorityQueue) Peek() (models.Task, bool) {
	if len(q.items) == 0 {
		return models.Task{}, false
	}
	return q.items[0], true
}

// Len returns the number of queued tasks.
func (q *PriorityQueue) Len() int {
	return len(q.items)
}

// Clone returns an independent copy of the queue.
func (q *PriorityQueue) Clone() *PriorityQueue {
	items := make(taskHeap, len(q.items))
	copy(items, q.items)
	return &PriorityQueue{items: items}
}

// Ordered returns every queued task in extraction order. The queue itself is
// left untouched; a clone is drained instead.
func (q *PriorityQueue) Ordered() []models.Task {
	return q.Top(q.Len())
}

// Top returns up to n tasks in extraction order without consuming the queue.
func (q *PriorityQueue) Top(n int) []models.Task {
	if n <= 0 {
		return []models.Task{}
	}
	if n > q.Len() {
		n = q.Len()
	}

	tmp := q.Clone()
	result := make([]models.Task, 0, n)
	for len(result) < n {
		task, ok := tmp.ExtractMin()
		if !ok {
			break
		}
		result = append(result, task)
	}
	return result
}

// taskHeap implements heap.Interface. A child moves above its parent only when
// its priority is strictly smaller.
type taskHeap []models.Task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].Priority < h[j].Priority }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)        { *h = append(*h, x.(models.Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
