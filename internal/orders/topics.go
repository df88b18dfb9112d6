package orders

const (
	TopicOrderSynced   = "order.synced"
	TopicKitchenStatus = "kitchen.status.changed"
)

// Partition key = order_id so every event for one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
