package orders

type KitchenStatus string

const (
	KitchenPending   KitchenStatus = "pending"
	KitchenPreparing KitchenStatus = "preparing"
	KitchenReady     KitchenStatus = "ready"
	KitchenServed    KitchenStatus = "served"
)

func (s KitchenStatus) Valid() bool {
	switch s {
	case KitchenPending, KitchenPreparing, KitchenReady, KitchenServed:
		return true
	}
	return false
}

var validNext = map[KitchenStatus]map[KitchenStatus]bool{
	KitchenPending:   {KitchenPreparing: true, KitchenReady: true},
	KitchenPreparing: {KitchenReady: true, KitchenServed: true},
	KitchenReady:     {KitchenServed: true},
	KitchenServed:    {},
}

// CanTransition allows forward moves only; repeating the current status is a no-op.
func CanTransition(from, to KitchenStatus) bool {
	if from == to {
		return true
	}
	return validNext[from][to]
}
