package events

// Topics emitted by the storefront.
const (
	TopicCartItemAdded     = "cart.item_added"
	TopicCartItemRemoved   = "cart.item_removed"
	TopicCheckoutCompleted = "checkout.completed"
)
