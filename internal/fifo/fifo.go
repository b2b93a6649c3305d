// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package fifo

import (
	"errors"
)

// ErrEmpty is returned when an item is taken from an empty queue.
var ErrEmpty = errors.New("the queue is empty")

// Queue defines the simplest first-in-first-out queue.
// Consumed items are released once they make up the larger part of the backing slice.
type Queue[T any] struct {
	s   []T
	idx int
}

// New is a constructor for Queue.
func New[T any](items ...T) *Queue[T] {
	return &Queue[T]{
		s:   append(make([]T, 0, len(items)), items...),
		idx: 0,
	}
}

// Push appends items to the tail of the queue.
func (q *Queue[T]) Push(items ...T) {
	q.s = append(q.s, items...)
}

// HasNext returns true if queue is not empty.
func (q *Queue[T]) HasNext() bool {
	return q.idx < len(q.s)
}

// Next removes and returns the head of the queue.
func (q *Queue[T]) Next() (T, error) {
	if !q.HasNext() {
		return *new(T), ErrEmpty
	}

	item := q.s[q.idx]
	q.s[q.idx] = *new(T)
	q.idx++
	q.compact()

	return item, nil
}

// Peek returns the head of the queue without removing it.
func (q *Queue[T]) Peek() (T, error) {
	if !q.HasNext() {
		return *new(T), ErrEmpty
	}

	return q.s[q.idx], nil
}

// Len returns how many items are left.
func (q *Queue[T]) Len() int {
	return len(q.s) - q.idx
}

// Items returns a copy of pending items in consumption order.
func (q *Queue[T]) Items() []T {
	return append(make([]T, 0, q.Len()), q.s[q.idx:]...)
}

// compact drops consumed items from the backing slice.
func (q *Queue[T]) compact() {
	if q.idx == len(q.s) {
		q.s = q.s[:0]
		q.idx = 0
		return
	}

	if q.idx > len(q.s)/2 {
		q.s = append(make([]T, 0, q.Len()), q.s[q.idx:]...)
		q.idx = 0
	}
}
