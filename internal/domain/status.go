package domain

import (
	"fmt"

	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
)

// Transitions maps a status to the statuses it may move to. Statuses absent as keys are terminal.
type Transitions map[string][]string

// OrderTransitions is the order lifecycle
var OrderTransitions = Transitions{
	model.OrderPending:        {model.OrderConfirmed, model.OrderCancelled},
	model.OrderConfirmed:      {model.OrderPreparing, model.OrderCancelled},
	model.OrderPreparing:      {model.OrderReady, model.OrderCancelled},
	model.OrderReady:          {model.OrderOutForDelivery, model.OrderCancelled},
	model.OrderOutForDelivery: {model.OrderDelivered},
	model.OrderDelivered:      {model.OrderRefunded},
}

// ModerationTransitions is the video moderation lifecycle
var ModerationTransitions = Transitions{
	model.ModerationPending:  {model.ModerationApproved, model.ModerationRejected, model.ModerationFlagged},
	model.ModerationApproved: {model.ModerationFlagged},
	model.ModerationFlagged:  {model.ModerationApproved, model.ModerationRejected},
	model.ModerationRejected: {model.ModerationPending},
}

// MerchantTransitions is the merchant account review lifecycle
var MerchantTransitions = Transitions{
	model.MerchantPending:   {model.MerchantApproved, model.MerchantRejected, model.MerchantSuspended},
	model.MerchantApproved:  {model.MerchantSuspended},
	model.MerchantRejected:  {model.MerchantApproved},
	model.MerchantSuspended: {model.MerchantApproved},
}

// Allows reports whether from -> to is a legal move
func (t Transitions) Allows(from, to string) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Check returns an ErrInvalidTransition-wrapping error when from -> to is illegal
func (t Transitions) Check(from, to string) error {
	if t.Allows(from, to) {
		return nil
	}
	return fmt.Errorf("%w from %s to %s", ErrInvalidTransition, from, to)
}
