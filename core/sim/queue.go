package sim

import "container/heap"

// EventQueue is a priority queue over (time, kind rank, insertion sequence).
// The composite key makes popping a total, deterministic order: equal
// timestamps resolve by kind rank, then FIFO within a kind.
type EventQueue struct {
	h   eventHeap
	seq uint64
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Schedule inserts the event in O(log n), stamping its sequence number.
func (q *EventQueue) Schedule(ev Event) {
	ev.seq = q.seq
	q.seq++
	heap.Push(&q.h, ev)
}

// Pop removes and returns the event with the smallest key. The second
// return value is false when the queue is empty.
func (q *EventQueue) Pop() (Event, bool) {
	if len(q.h) == 0 {
		return Event{}, false
	}
	return heap.Pop(&q.h).(Event), true
}

// Len returns the number of scheduled events.
func (q *EventQueue) Len() int { return len(q.h) }

// Clear discards all remaining events.
func (q *EventQueue) Clear() { q.h = q.h[:0] }

type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	if ri, rj := h[i].Kind.rank(), h[j].Kind.rank(); ri != rj {
		return ri < rj
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(Event)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
