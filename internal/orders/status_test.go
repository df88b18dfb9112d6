package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKitchenStatusValid(t *testing.T) {
	for _, s := range []KitchenStatus{KitchenPending, KitchenPreparing, KitchenReady, KitchenServed} {
		require.True(t, s.Valid(), string(s))
	}
	require.False(t, KitchenStatus("burnt").Valid())
	require.False(t, KitchenStatus("").Valid())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to KitchenStatus
		want     bool
	}{
		{KitchenPending, KitchenPreparing, true},
		{KitchenPending, KitchenReady, true},
		{KitchenPending, KitchenServed, false},
		{KitchenPreparing, KitchenReady, true},
		{KitchenPreparing, KitchenServed, true},
		{KitchenPreparing, KitchenPending, false},
		{KitchenReady, KitchenServed, true},
		{KitchenReady, KitchenPreparing, false},
		{KitchenServed, KitchenPending, false},
		// repeating the current status is a no-op, not an error
		{KitchenPending, KitchenPending, true},
		{KitchenServed, KitchenServed, true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
