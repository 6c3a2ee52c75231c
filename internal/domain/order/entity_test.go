package order

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Transitions(t *testing.T) {
	o := NewOrder("ORD1", 1, nil, Amounts{}, "standard")
	assert.Equal(t, OrderStatusPending, o.Status)

	assert.NoError(t, o.TransitionTo(OrderStatusPaid))
	assert.NoError(t, o.TransitionTo(OrderStatusShipped))
	assert.Equal(t, ErrInvalidStatusTransition, o.Cancel())
	assert.NoError(t, o.TransitionTo(OrderStatusCompleted))
	assert.False(t, o.CanTransitionTo(OrderStatusPending))
}

func TestOrder_CancelPending(t *testing.T) {
	o := NewOrder("ORD1", 1, nil, Amounts{}, "standard")
	assert.NoError(t, o.Cancel())
	assert.Equal(t, "cancelled", o.Status.String())
	assert.Equal(t, ErrInvalidStatusTransition, o.Cancel())
}

func TestOrder_ItemsSubtotal(t *testing.T) {
	o := NewOrder("ORD1", 1, []OrderItem{
		{BookID: 1, Quantity: 3, Price: 1999},
		{BookID: 2, Quantity: 1, Price: 500},
	}, Amounts{}, "standard")
	assert.Equal(t, int64(6497), o.ItemsSubtotal())
	assert.True(t, o.IsOwnedBy(1))
}

func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo()
	assert.Regexp(t, regexp.MustCompile(`^ORD\d{20}$`), no)
	assert.LessOrEqual(t, len(no), 32)
}
