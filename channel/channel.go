package channel

import (
	"fmt"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// SendOutcome reports what a Send call resolved to.
type SendOutcome uint8

const (
	// SendOK means v was enqueued; the caller's fiber stays Ready.
	SendOK SendOutcome = iota
	// SendHandoff means a receiver was waiting: v was placed in the
	// queue for that receiver (woken, see the returned token) to
	// dequeue when it retries Receive.
	SendHandoff
	// SendBlocked means v was recorded as a pending send; the caller's
	// fiber must transition to Blocked(channel, send).
	SendBlocked
	// SendOnClosed means the channel is closed; sends on a closed
	// channel are an error (spec.md §4.6).
	SendOnClosed
)

// ReceiveOutcome reports what a Receive call resolved to.
type ReceiveOutcome uint8

const (
	// ReceiveOK means a value was dequeued (possibly handed off
	// directly from a blocked sender, see the returned token).
	ReceiveOK ReceiveOutcome = iota
	// ReceiveBlocked means the caller's fiber must transition to
	// Blocked(channel, receive).
	ReceiveBlocked
	// ReceiveClosed means the channel is closed and empty; the caller
	// receives the closed sentinel rather than blocking.
	ReceiveClosed
)

type sendWaiter struct {
	token any
	value value.Value
}

type recvWaiter struct {
	token any
}

// Channel is a bounded FIFO queue of Value with send/receive waiter
// lists, per spec.md §4.6. Capacity 0 is an unbuffered rendezvous:
// len(queue) < capacity is never true, so a send completes only when a
// receiver is already waiting (the value passes through the queue for
// that receiver alone) or when a later Receive takes it from the
// blocked sender.
type Channel struct {
	heap.Header
	capacity int
	queue    []value.Value
	sendQ    []sendWaiter
	recvQ    []recvWaiter
	closed   bool
}

// NewChannel constructs a Channel with the given capacity.
func NewChannel(capacity int) *Channel {
	return &Channel{capacity: capacity}
}

func (c *Channel) AllocHeader() *heap.Header { return &c.Header }

func (c *Channel) Trace(marker heap.Marker) {
	for _, v := range c.queue {
		value.TraceValue(v, marker)
	}
	for _, w := range c.sendQ {
		value.TraceValue(w.value, marker)
	}
}

func (c *Channel) Size() int { return (len(c.queue)+len(c.sendQ)+len(c.recvQ))*24 + 32 }
func (c *Channel) Kind() heap.Kind { return heap.KindChannel }
func (c *Channel) Format(int) string {
	return fmt.Sprintf("<channel cap=%d len=%d>", c.capacity, len(c.queue))
}

// Capacity returns the channel's declared capacity.
func (c *Channel) Capacity() int { return c.capacity }

// Len returns the number of values currently queued.
func (c *Channel) Len() int { return len(c.queue) }

// Closed reports whether the channel has been closed.
func (c *Channel) Closed() bool { return c.closed }

// SendWaiters reports how many senders are currently blocked.
func (c *Channel) SendWaiters() int { return len(c.sendQ) }

// ReceiveWaiters reports how many receivers are currently blocked.
func (c *Channel) ReceiveWaiters() int { return len(c.recvQ) }

// Send attempts to send v, identifying the calling fiber by token (an
// opaque value the scheduler supplies and later recognizes). If a
// receiver is already waiting, v is handed off directly and
// wokenReceiver names that waiter's token. If the queue has room, v is
// enqueued. Otherwise the send itself is recorded as pending and
// SendBlocked is returned — the caller must park its fiber.
func (c *Channel) Send(token any, v value.Value) (outcome SendOutcome, wokenReceiver any) {
	if c.closed {
		return SendOnClosed, nil
	}
	if len(c.recvQ) > 0 {
		w := c.recvQ[0]
		c.recvQ = c.recvQ[1:]
		c.queue = append(c.queue, v) // handoff path still resolves through the queue's FIFO
		return SendHandoff, w.token
	}
	if len(c.queue) < c.capacity {
		c.queue = append(c.queue, v)
		return SendOK, nil
	}
	c.sendQ = append(c.sendQ, sendWaiter{token: token, value: v})
	return SendBlocked, nil
}

// Receive attempts to receive a value, identifying the calling fiber
// by token. If the queue is non-empty, the front value is dequeued
// (and, if a sender is blocked waiting for room, its value moves into
// the freed slot and wokenSender names its token). If the queue is
// empty but a sender is blocked (an unbuffered channel), that sender's
// value is handed off directly and wokenSender names its token.
// Otherwise, on a closed channel ReceiveClosed is returned (the
// sentinel case); otherwise the receive is recorded as pending.
func (c *Channel) Receive(token any) (outcome ReceiveOutcome, v value.Value, wokenSender any) {
	if len(c.queue) > 0 {
		v = c.queue[0]
		c.queue = c.queue[1:]
		if len(c.sendQ) > 0 {
			w := c.sendQ[0]
			c.sendQ = c.sendQ[1:]
			c.queue = append(c.queue, w.value)
			wokenSender = w.token
		}
		return ReceiveOK, v, wokenSender
	}
	if len(c.sendQ) > 0 {
		w := c.sendQ[0]
		c.sendQ = c.sendQ[1:]
		return ReceiveOK, w.value, w.token
	}
	if c.closed {
		return ReceiveClosed, value.Nil, nil
	}
	c.recvQ = append(c.recvQ, recvWaiter{token: token})
	return ReceiveBlocked, value.Nil, nil
}

// Close closes the channel, returning the tokens of every waiter that
// must now be woken: blocked senders observe an error, blocked
// receivers observe the closed sentinel (spec.md §4.6).
func (c *Channel) Close() (wokenSenders, wokenReceivers []any) {
	c.closed = true
	for _, w := range c.sendQ {
		wokenSenders = append(wokenSenders, w.token)
	}
	for _, w := range c.recvQ {
		wokenReceivers = append(wokenReceivers, w.token)
	}
	c.sendQ = nil
	c.recvQ = nil
	return wokenSenders, wokenReceivers
}
