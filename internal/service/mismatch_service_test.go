package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

func newMismatchService(store *fakeStore) MismatchService {
	return NewMismatchService(store, store, store, zap.NewNop())
}

func TestScanMismatches_NormalizedScan(t *testing.T) {
	store := newFakeStore()
	store.addVendor(7, "Monday Meals", "Monday")
	store.addClient(1, "Ada Lovelace", "meal_delivery", "")
	store.addOrder(10, 1, "Wednesday", "meal_delivery", models.OrderStatusScheduled)
	store.addSelection(100, 10, 7)
	store.itemNames[3] = "Soup"
	store.itemNames[4] = "Bread"
	store.addItem(200, 100, 10, 3, 1, 4.50)
	store.addItem(201, 100, 10, 4, 1, 2.25)

	svc := newMismatchService(store)
	mismatches, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)

	require.Len(t, mismatches, 1)
	m := mismatches[0]
	assert.Equal(t, 1, m.ClientID)
	assert.Equal(t, "Ada Lovelace", m.ClientName)
	assert.Equal(t, "Wednesday", m.DeliveryDay)
	assert.Equal(t, 7, m.VendorID)
	assert.Equal(t, "Monday Meals", m.VendorName)
	assert.Equal(t, []string{"Monday"}, m.VendorSupportedDays)
	assert.Equal(t, models.MismatchSourceNormalized, m.Source)
	assert.Equal(t, 2, m.ItemCount)
	assert.True(t, m.SingleDay)
}

func TestScanMismatches_NoiseItemsExcluded(t *testing.T) {
	store := newFakeStore()
	store.addVendor(7, "Monday Meals", "Monday")
	store.addClient(1, "Ada Lovelace", "meal_delivery", "")
	store.addOrder(10, 1, "Wednesday", "meal_delivery", models.OrderStatusScheduled)
	store.addSelection(100, 10, 7)
	store.itemNames[3] = "Soup"
	store.addItem(200, 100, 10, 3, 2, 4.50)  // real
	store.addItem(201, 100, 10, 3, 0, 4.50)  // zero quantity
	store.addItem(202, 100, 10, 99, 1, 1.00) // dangling reference

	svc := newMismatchService(store)
	mismatches, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)

	require.Len(t, mismatches, 1)
	assert.Equal(t, 1, mismatches[0].ItemCount)
	require.Len(t, mismatches[0].Items, 1)
	assert.Equal(t, "Soup", mismatches[0].Items[0].Name)
}

func TestScanMismatches_SupportedDayAndUnrestrictedVendorsPass(t *testing.T) {
	store := newFakeStore()
	store.addVendor(7, "Monday Meals", "Monday")
	store.addVendor(8, "Anywhere Foods") // no day restriction
	store.addClient(1, "Ada Lovelace", "meal_delivery", "")
	store.addOrder(10, 1, "Monday", "meal_delivery", models.OrderStatusScheduled)
	store.addSelection(100, 10, 7)
	store.addOrder(11, 1, "Wednesday", "meal_delivery", models.OrderStatusScheduled)
	store.addSelection(101, 11, 8)

	svc := newMismatchService(store)
	mismatches, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestScanMismatches_DenormalizedScan(t *testing.T) {
	store := newFakeStore()
	store.addVendor(7, "Monday Meals", "Monday")
	store.itemNames[3] = "Soup"
	store.addClient(1, "Ada Lovelace", "meal_delivery", `{
		"delivery_day_orders": {
			"Wednesday": {"vendor_selections": [{"vendor_id": 7, "items": [{"item_id": 3, "quantity": 2}]}]}
		}
	}`)

	svc := newMismatchService(store)
	mismatches, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)

	require.Len(t, mismatches, 1)
	m := mismatches[0]
	assert.Equal(t, models.MismatchSourceDenormalized, m.Source)
	assert.Equal(t, "Wednesday", m.DeliveryDay)
	assert.Equal(t, 1, m.ItemCount)
	// The document stores no unit/total values; they surface as zeros.
	assert.Zero(t, m.Items[0].UnitValue)
	assert.Zero(t, m.Items[0].TotalValue)
}

func TestScanMismatches_DedupNormalizedWins(t *testing.T) {
	store := newFakeStore()
	store.addVendor(7, "Monday Meals", "Monday")
	store.itemNames[3] = "Soup"
	// Same (client, day, vendor) violation present in both representations.
	store.addClient(1, "Ada Lovelace", "meal_delivery", `{
		"delivery_day_orders": {
			"Wednesday": {"vendor_selections": [{"vendor_id": 7, "items": [{"item_id": 3, "quantity": 9}]}]}
		}
	}`)
	store.addOrder(10, 1, "Wednesday", "meal_delivery", models.OrderStatusScheduled)
	store.addSelection(100, 10, 7)
	store.addItem(200, 100, 10, 3, 2, 4.50)

	svc := newMismatchService(store)
	mismatches, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)

	require.Len(t, mismatches, 1)
	assert.Equal(t, models.MismatchSourceNormalized, mismatches[0].Source)
	assert.Equal(t, 2, mismatches[0].Items[0].Quantity)
}

func TestScanMismatches_SortedByClientName(t *testing.T) {
	store := newFakeStore()
	store.addVendor(7, "Monday Meals", "Monday")
	store.addClient(1, "Zora Neale", "meal_delivery", "")
	store.addClient(2, "Ada Lovelace", "meal_delivery", "")
	for i, clientID := range []int{1, 2} {
		orderID := 10 + i
		store.addOrder(orderID, clientID, "Wednesday", "meal_delivery", models.OrderStatusScheduled)
		store.addSelection(100+i, orderID, 7)
	}

	svc := newMismatchService(store)
	mismatches, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)

	require.Len(t, mismatches, 2)
	assert.Equal(t, "Ada Lovelace", mismatches[0].ClientName)
	assert.Equal(t, "Zora Neale", mismatches[1].ClientName)
}

func TestScanMismatches_MultiDayVendorNotSingleDay(t *testing.T) {
	store := newFakeStore()
	store.addVendor(7, "Twice Weekly", "Monday", "Friday")
	store.addClient(1, "Ada Lovelace", "meal_delivery", "")
	store.addOrder(10, 1, "Wednesday", "meal_delivery", models.OrderStatusScheduled)
	store.addSelection(100, 10, 7)

	svc := newMismatchService(store)
	mismatches, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)

	require.Len(t, mismatches, 1)
	assert.False(t, mismatches[0].SingleDay)
}

func TestScanMismatches_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.addVendor(7, "Monday Meals", "Monday")
	store.itemNames[3] = "Soup"
	store.addClient(1, "Ada Lovelace", "meal_delivery", `{
		"delivery_day_orders": {
			"Wednesday": {"vendor_selections": [{"vendor_id": 7, "items": [{"item_id": 3, "quantity": 2}]}]}
		}
	}`)
	store.addOrder(10, 1, "Thursday", "meal_delivery", models.OrderStatusScheduled)
	store.addSelection(100, 10, 7)
	store.addItem(200, 100, 10, 3, 1, 4.50)

	svc := newMismatchService(store)
	first, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)
	second, err := svc.ScanMismatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanMismatches_SubQueryFailureAbortsScan(t *testing.T) {
	store := newFakeStore()
	store.getVendorsErr = assert.AnError
	store.addClient(1, "Ada Lovelace", "meal_delivery", "")

	svc := newMismatchService(store)
	mismatches, err := svc.ScanMismatches(context.Background())
	require.Error(t, err)
	assert.Nil(t, mismatches)
}
