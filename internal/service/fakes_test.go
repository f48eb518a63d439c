package service

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/dal"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

// storeState is the mutable half of the fake store: exactly the rows the
// reassignment transaction is allowed to touch.
type storeState struct {
	clients    map[int]models.Client
	orders     map[int]models.UpcomingOrder
	selections map[int]models.VendorSelection
	items      map[int]models.OrderItem
	nextID     int
}

func (s *storeState) clone() *storeState {
	copied := &storeState{
		clients:    make(map[int]models.Client, len(s.clients)),
		orders:     make(map[int]models.UpcomingOrder, len(s.orders)),
		selections: make(map[int]models.VendorSelection, len(s.selections)),
		items:      make(map[int]models.OrderItem, len(s.items)),
		nextID:     s.nextID,
	}
	for id, client := range s.clients {
		if client.ActiveOrder != nil {
			client.ActiveOrder = append(json.RawMessage(nil), client.ActiveOrder...)
		}
		copied.clients[id] = client
	}
	for id, order := range s.orders {
		if order.DeliveryDay != nil {
			day := *order.DeliveryDay
			order.DeliveryDay = &day
		}
		if order.MealType != nil {
			mt := *order.MealType
			order.MealType = &mt
		}
		copied.orders[id] = order
	}
	for id, sel := range s.selections {
		if sel.VendorID != nil {
			vendorID := *sel.VendorID
			sel.VendorID = &vendorID
		}
		copied.selections[id] = sel
	}
	for id, item := range s.items {
		copied.items[id] = item
	}
	return copied
}

// fakeStore implements dal.ClientRepository, dal.OrderRepository and
// dal.ReferenceRepository over in-memory state. WithTx runs the callback on
// a deep copy and swaps it in only on success, mirroring the commit/rollback
// contract of the real store.
type fakeStore struct {
	state     *storeState
	vendors   map[int]models.Vendor
	itemNames map[int]string
	mealTypes []models.MealTypeCategory

	deleteOrderErr error
	saveDocErr     error
	getVendorsErr  error
}

var (
	_ dal.ClientRepository    = (*fakeStore)(nil)
	_ dal.OrderRepository     = (*fakeStore)(nil)
	_ dal.ReferenceRepository = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		state: &storeState{
			clients:    make(map[int]models.Client),
			orders:     make(map[int]models.UpcomingOrder),
			selections: make(map[int]models.VendorSelection),
			items:      make(map[int]models.OrderItem),
			nextID:     1000,
		},
		vendors:   make(map[int]models.Vendor),
		itemNames: make(map[int]string),
	}
}

func (f *fakeStore) addClient(id int, name, serviceType string, activeOrder string) {
	client := models.Client{ID: id, FullName: name, ServiceType: serviceType}
	if activeOrder != "" {
		client.ActiveOrder = json.RawMessage(activeOrder)
	}
	f.state.clients[id] = client
}

func (f *fakeStore) addVendor(id int, name string, days ...string) {
	f.vendors[id] = models.Vendor{ID: id, Name: name, SupportedDeliveryDays: days}
}

func (f *fakeStore) addOrder(id, clientID int, day, serviceType, status string) {
	order := models.UpcomingOrder{ID: id, ClientID: clientID, ServiceType: serviceType, Status: status}
	if day != "" {
		order.DeliveryDay = &day
	}
	f.state.orders[id] = order
}

func (f *fakeStore) addSelection(id, orderID, vendorID int) {
	sel := models.VendorSelection{ID: id, UpcomingOrderID: orderID}
	if vendorID != 0 {
		sel.VendorID = &vendorID
	}
	f.state.selections[id] = sel
}

func (f *fakeStore) addItem(id, selectionID, orderID, itemRef, quantity int, unitValue float64) {
	f.state.items[id] = models.OrderItem{
		ID:                id,
		VendorSelectionID: selectionID,
		UpcomingOrderID:   orderID,
		ItemRef:           itemRef,
		Quantity:          quantity,
		UnitValue:         unitValue,
		TotalValue:        unitValue * float64(quantity),
	}
}

func (f *fakeStore) setMealType(orderID int, mealType string) {
	order := f.state.orders[orderID]
	order.MealType = &mealType
	f.state.orders[orderID] = order
}

// --- dal.ClientRepository ---

func (f *fakeStore) GetAllClients(ctx context.Context) ([]models.Client, error) {
	clients := make([]models.Client, 0, len(f.state.clients))
	for _, client := range f.state.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].FullName != clients[j].FullName {
			return clients[i].FullName < clients[j].FullName
		}
		return clients[i].ID < clients[j].ID
	})
	return clients, nil
}

func (f *fakeStore) GetClientByID(ctx context.Context, id int) (models.Client, error) {
	client, ok := f.state.clients[id]
	if !ok {
		return models.Client{}, models.ErrClientNotFound
	}
	return client, nil
}

func (f *fakeStore) SaveActiveOrder(ctx context.Context, clientID int, doc *models.ActiveOrder) error {
	return saveActiveOrderTo(f.state, clientID, doc)
}

func saveActiveOrderTo(state *storeState, clientID int, doc *models.ActiveOrder) error {
	client, ok := state.clients[clientID]
	if !ok {
		return models.ErrClientNotFound
	}
	if doc == nil {
		client.ActiveOrder = nil
	} else {
		encoded, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		client.ActiveOrder = encoded
	}
	state.clients[clientID] = client
	return nil
}

// --- dal.ReferenceRepository ---

func (f *fakeStore) GetVendors(ctx context.Context) (map[int]models.Vendor, error) {
	if f.getVendorsErr != nil {
		return nil, f.getVendorsErr
	}
	vendors := make(map[int]models.Vendor, len(f.vendors))
	for id, vendor := range f.vendors {
		vendors[id] = vendor
	}
	return vendors, nil
}

func (f *fakeStore) GetItemNames(ctx context.Context) (map[int]string, error) {
	names := make(map[int]string, len(f.itemNames))
	for id, name := range f.itemNames {
		names[id] = name
	}
	return names, nil
}

func (f *fakeStore) GetMealTypes(ctx context.Context) ([]models.MealTypeCategory, error) {
	return append([]models.MealTypeCategory(nil), f.mealTypes...), nil
}

// --- dal.OrderRepository ---

func (f *fakeStore) CountScheduledByClient(ctx context.Context) (map[int]int, error) {
	counts := make(map[int]int)
	for _, order := range f.state.orders {
		if order.Status == models.OrderStatusScheduled {
			counts[order.ClientID]++
		}
	}
	return counts, nil
}

func (f *fakeStore) GetScheduledSelections(ctx context.Context) ([]dal.ScheduledSelectionRow, error) {
	var rows []dal.ScheduledSelectionRow
	for _, sel := range f.state.selections {
		if sel.VendorID == nil {
			continue
		}
		order, ok := f.state.orders[sel.UpcomingOrderID]
		if !ok || order.Status != models.OrderStatusScheduled || order.DeliveryDay == nil {
			continue
		}
		rows = append(rows, dal.ScheduledSelectionRow{
			OrderID:     order.ID,
			ClientID:    order.ClientID,
			DeliveryDay: *order.DeliveryDay,
			ServiceType: order.ServiceType,
			SelectionID: sel.ID,
			VendorID:    *sel.VendorID,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ClientID != rows[j].ClientID {
			return rows[i].ClientID < rows[j].ClientID
		}
		if rows[i].DeliveryDay != rows[j].DeliveryDay {
			return rows[i].DeliveryDay < rows[j].DeliveryDay
		}
		return rows[i].SelectionID < rows[j].SelectionID
	})
	return rows, nil
}

func (f *fakeStore) GetScheduledOrdersForClient(ctx context.Context, clientID int) ([]models.UpcomingOrder, error) {
	return scheduledOrders(f.state, clientID, ""), nil
}

func (f *fakeStore) GetSelectionsForOrder(ctx context.Context, orderID int) ([]models.VendorSelection, error) {
	return selectionsForOrder(f.state, orderID), nil
}

func (f *fakeStore) GetItemsForSelection(ctx context.Context, selectionID int) ([]models.OrderItem, error) {
	return itemsForSelection(f.state, selectionID), nil
}

func (f *fakeStore) GetUpcomingOrderByID(ctx context.Context, id int) (models.UpcomingOrder, error) {
	order, ok := f.state.orders[id]
	if !ok {
		return models.UpcomingOrder{}, models.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeStore) GetNonProcessedMealTypes(ctx context.Context) ([]models.UpcomingOrder, error) {
	var orders []models.UpcomingOrder
	for _, order := range f.state.orders {
		if order.MealType != nil && order.Status != models.OrderStatusProcessed {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (f *fakeStore) ClearMealType(ctx context.Context, orderID int) error {
	order, ok := f.state.orders[orderID]
	if !ok || order.Status == models.OrderStatusProcessed {
		return models.ErrOrderNotFound
	}
	order.MealType = nil
	f.state.orders[orderID] = order
	return nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(dal.ReassignmentStore) error) error {
	working := f.state.clone()
	tx := &fakeTx{state: working, store: f}
	if err := fn(tx); err != nil {
		return err
	}
	f.state = working
	return nil
}

// fakeTx applies mutations to the working copy; the parent store swaps the
// copy in only when the callback succeeds.
type fakeTx struct {
	state *storeState
	store *fakeStore
}

var _ dal.ReassignmentStore = (*fakeTx)(nil)

func (t *fakeTx) GetClientForUpdate(ctx context.Context, clientID int) (models.Client, error) {
	client, ok := t.state.clients[clientID]
	if !ok {
		return models.Client{}, models.ErrClientNotFound
	}
	return client, nil
}

func (t *fakeTx) ScheduledOrdersByDay(ctx context.Context, clientID int, day string) ([]models.UpcomingOrder, error) {
	return scheduledOrders(t.state, clientID, day), nil
}

func (t *fakeTx) SelectionsForOrder(ctx context.Context, orderID int) ([]models.VendorSelection, error) {
	return selectionsForOrder(t.state, orderID), nil
}

func (t *fakeTx) ItemsForSelection(ctx context.Context, selectionID int) ([]models.OrderItem, error) {
	return itemsForSelection(t.state, selectionID), nil
}

func (t *fakeTx) UpdateOrderDeliveryDay(ctx context.Context, orderID int, day string) error {
	order, ok := t.state.orders[orderID]
	if !ok {
		return models.ErrOrderNotFound
	}
	order.DeliveryDay = &day
	t.state.orders[orderID] = order
	return nil
}

func (t *fakeTx) CreateVendorSelection(ctx context.Context, orderID int, vendorID *int) (int, error) {
	t.state.nextID++
	id := t.state.nextID
	sel := models.VendorSelection{ID: id, UpcomingOrderID: orderID}
	if vendorID != nil {
		v := *vendorID
		sel.VendorID = &v
	}
	t.state.selections[id] = sel
	return id, nil
}

func (t *fakeTx) CopyOrderItem(ctx context.Context, item models.OrderItem, selectionID, orderID int) error {
	t.state.nextID++
	copied := item
	copied.ID = t.state.nextID
	copied.VendorSelectionID = selectionID
	copied.UpcomingOrderID = orderID
	t.state.items[copied.ID] = copied
	return nil
}

func (t *fakeTx) DeleteItemsForOrder(ctx context.Context, orderID int) error {
	for id, item := range t.state.items {
		if item.UpcomingOrderID == orderID {
			delete(t.state.items, id)
		}
	}
	return nil
}

func (t *fakeTx) DeleteSelectionsForOrder(ctx context.Context, orderID int) error {
	for id, sel := range t.state.selections {
		if sel.UpcomingOrderID == orderID {
			delete(t.state.selections, id)
		}
	}
	return nil
}

func (t *fakeTx) DeleteOrder(ctx context.Context, orderID int) error {
	if t.store.deleteOrderErr != nil {
		return t.store.deleteOrderErr
	}
	if _, ok := t.state.orders[orderID]; !ok {
		return models.ErrOrderNotFound
	}
	delete(t.state.orders, orderID)
	return nil
}

func (t *fakeTx) SaveActiveOrder(ctx context.Context, clientID int, doc *models.ActiveOrder) error {
	if t.store.saveDocErr != nil {
		return t.store.saveDocErr
	}
	return saveActiveOrderTo(t.state, clientID, doc)
}

// --- shared lookups ---

func scheduledOrders(state *storeState, clientID int, day string) []models.UpcomingOrder {
	var orders []models.UpcomingOrder
	for _, order := range state.orders {
		if order.ClientID != clientID || order.Status != models.OrderStatusScheduled {
			continue
		}
		if day != "" && (order.DeliveryDay == nil || *order.DeliveryDay != day) {
			continue
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders
}

func selectionsForOrder(state *storeState, orderID int) []models.VendorSelection {
	var selections []models.VendorSelection
	for _, sel := range state.selections {
		if sel.UpcomingOrderID == orderID {
			selections = append(selections, sel)
		}
	}
	sort.Slice(selections, func(i, j int) bool { return selections[i].ID < selections[j].ID })
	return selections
}

func itemsForSelection(state *storeState, selectionID int) []models.OrderItem {
	var items []models.OrderItem
	for _, item := range state.items {
		if item.VendorSelectionID == selectionID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
