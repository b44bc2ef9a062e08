package queue

import "errors"

var (
	ErrItemNotFound     = errors.New("queue item not found")
	ErrRetriesExhausted = errors.New("queue item retries exhausted")
	ErrQueueFull        = errors.New("queue is full and no item is droppable")
	ErrItemExpired      = errors.New("queue item already expired")
)
