package broker

import "github.com/exonlabs/serialbrokerd/pkg/queue"

// QueuedCommand is a command accepted from a connection that could not
// be dispatched to the device immediately because another command was
// already in flight. It waits in the broker's FIFO until its turn.
type QueuedCommand struct {
	conn *Connection
	line []byte
}

// commandQueue is a small typed wrapper over the generic FIFO queue,
// so the broker's actor loop never deals with `any` values directly.
type commandQueue struct {
	fifo *queue.Fifo
}

func newCommandQueue() *commandQueue {
	return &commandQueue{fifo: queue.NewFifo(8)}
}

func (q *commandQueue) push(qc *QueuedCommand) {
	q.fifo.Push(qc)
}

func (q *commandQueue) pop() *QueuedCommand {
	v := q.fifo.Pop()
	if v == nil {
		return nil
	}
	return v.(*QueuedCommand)
}

func (q *commandQueue) length() int {
	return q.fifo.Length()
}
