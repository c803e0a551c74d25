package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/value"
)

func TestBufferedSendThenReceive(t *testing.T) {
	c := NewChannel(1)

	outcome, woken := c.Send("A", value.Number(1))
	assert.Equal(t, SendOK, outcome)
	assert.Nil(t, woken)
	assert.Equal(t, 1, c.Len())

	outcome2, v, wokenSender := c.Receive("B")
	assert.Equal(t, ReceiveOK, outcome2)
	assert.True(t, value.Equal(value.Number(1), v))
	assert.Nil(t, wokenSender)
	assert.Equal(t, 0, c.Len())
}

func TestSendBlocksAtCapacity(t *testing.T) {
	c := NewChannel(1)
	c.Send("A", value.Number(1))

	outcome, _ := c.Send("B", value.Number(2))
	assert.Equal(t, SendBlocked, outcome)
	assert.Equal(t, 1, c.SendWaiters())
	assert.Equal(t, c.Capacity(), c.Len())
}

func TestReceiveWakesBlockedSenderFIFO(t *testing.T) {
	c := NewChannel(1)
	c.Send("A", value.Number(1))
	c.Send("B", value.Number(2)) // blocks

	_, v, wokenSender := c.Receive("C")
	require.True(t, value.Equal(value.Number(1), v))
	assert.Equal(t, "B", wokenSender)
	assert.Equal(t, 0, c.SendWaiters())
	assert.Equal(t, 1, c.Len()) // B's value moved into the queue
}

func TestUnbufferedRendezvousHandoff(t *testing.T) {
	c := NewChannel(0)

	outcome, _ := c.Send("A", value.Number(1))
	assert.Equal(t, SendBlocked, outcome)

	outcome2, v, wokenSender := c.Receive("B")
	assert.Equal(t, ReceiveOK, outcome2)
	assert.True(t, value.Equal(value.Number(1), v))
	assert.Equal(t, "A", wokenSender)
}

func TestReceiveHandoffWhenReceiverWaitsFirst(t *testing.T) {
	c := NewChannel(0)

	outcome, _, _ := c.Receive("B")
	assert.Equal(t, ReceiveBlocked, outcome)

	outcome2, woken := c.Send("A", value.Number(9))
	assert.Equal(t, SendHandoff, outcome2)
	assert.Equal(t, "B", woken)
}

func TestClosedChannelRejectsSendAndDrainsWaiters(t *testing.T) {
	c := NewChannel(0)
	c.Receive("B") // parks a receiver

	wokenSenders, wokenReceivers := c.Close()
	assert.Empty(t, wokenSenders)
	assert.Equal(t, []any{"B"}, wokenReceivers)

	outcome, _ := c.Send("A", value.Number(1))
	assert.Equal(t, SendOnClosed, outcome)

	outcome2, _, _ := c.Receive("C")
	assert.Equal(t, ReceiveClosed, outcome2)
}

func TestCapacityNeverExceeded(t *testing.T) {
	c := NewChannel(2)
	c.Send("A", value.Number(1))
	c.Send("B", value.Number(2))
	outcome, _ := c.Send("C", value.Number(3))

	assert.Equal(t, SendBlocked, outcome)
	assert.LessOrEqual(t, c.Len(), c.Capacity())
	if c.SendWaiters() > 0 {
		assert.Equal(t, c.Capacity(), c.Len())
	}
}
