package dal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

// ScheduledSelectionRow is one (order, vendor selection) pair from the
// normalized vendor-day scan query.
type ScheduledSelectionRow struct {
	OrderID     int
	ClientID    int
	DeliveryDay string
	ServiceType string
	SelectionID int
	VendorID    int
}

type OrderRepository interface {
	CountScheduledByClient(ctx context.Context) (map[int]int, error)
	GetScheduledSelections(ctx context.Context) ([]ScheduledSelectionRow, error)
	GetScheduledOrdersForClient(ctx context.Context, clientID int) ([]models.UpcomingOrder, error)
	GetSelectionsForOrder(ctx context.Context, orderID int) ([]models.VendorSelection, error)
	GetItemsForSelection(ctx context.Context, selectionID int) ([]models.OrderItem, error)
	GetUpcomingOrderByID(ctx context.Context, id int) (models.UpcomingOrder, error)
	GetNonProcessedMealTypes(ctx context.Context) ([]models.UpcomingOrder, error)
	ClearMealType(ctx context.Context, orderID int) error
	WithTx(ctx context.Context, fn func(ReassignmentStore) error) error
}

// ReassignmentStore is the transaction-scoped store handed to the
// reassignment engine. Every call inside one WithTx invocation runs on the
// same database transaction; a returned error rolls the whole thing back.
type ReassignmentStore interface {
	GetClientForUpdate(ctx context.Context, clientID int) (models.Client, error)
	ScheduledOrdersByDay(ctx context.Context, clientID int, day string) ([]models.UpcomingOrder, error)
	SelectionsForOrder(ctx context.Context, orderID int) ([]models.VendorSelection, error)
	ItemsForSelection(ctx context.Context, selectionID int) ([]models.OrderItem, error)
	UpdateOrderDeliveryDay(ctx context.Context, orderID int, day string) error
	CreateVendorSelection(ctx context.Context, orderID int, vendorID *int) (int, error)
	CopyOrderItem(ctx context.Context, item models.OrderItem, selectionID, orderID int) error
	DeleteItemsForOrder(ctx context.Context, orderID int) error
	DeleteSelectionsForOrder(ctx context.Context, orderID int) error
	DeleteOrder(ctx context.Context, orderID int) error
	SaveActiveOrder(ctx context.Context, clientID int, doc *models.ActiveOrder) error
}

type orderRepository struct {
	*Repository
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{NewRepository(db)}
}

func (r *orderRepository) CountScheduledByClient(ctx context.Context) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			client_id,
			COUNT(*)
		FROM upcoming_orders
		WHERE status = $1
		GROUP BY client_id`,
		models.OrderStatusScheduled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count scheduled orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var clientID, count int
		if err := rows.Scan(&clientID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled count: %w", err)
		}
		counts[clientID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning scheduled counts: %w", err)
	}

	return counts, nil
}

func (r *orderRepository) GetScheduledSelections(ctx context.Context) ([]ScheduledSelectionRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			uo.id,
			uo.client_id,
			uo.delivery_day,
			uo.service_type,
			vs.id,
			vs.vendor_id
		FROM upcoming_orders uo
		JOIN vendor_selections vs ON vs.upcoming_order_id = uo.id
		WHERE uo.status = $1
		  AND uo.delivery_day IS NOT NULL
		  AND vs.vendor_id IS NOT NULL
		ORDER BY uo.client_id, uo.delivery_day, vs.id`,
		models.OrderStatusScheduled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled selections: %w", err)
	}
	defer rows.Close()

	var selections []ScheduledSelectionRow
	for rows.Next() {
		var row ScheduledSelectionRow
		if err := rows.Scan(
			&row.OrderID,
			&row.ClientID,
			&row.DeliveryDay,
			&row.ServiceType,
			&row.SelectionID,
			&row.VendorID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled selection: %w", err)
		}
		selections = append(selections, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning scheduled selections: %w", err)
	}

	return selections, nil
}

func (r *orderRepository) GetScheduledOrdersForClient(ctx context.Context, clientID int) ([]models.UpcomingOrder, error) {
	return queryUpcomingOrders(ctx, r.db, `
		SELECT `+upcomingOrderColumns+`
		FROM upcoming_orders
		WHERE client_id = $1 AND status = $2
		ORDER BY id`,
		clientID, models.OrderStatusScheduled,
	)
}

func (r *orderRepository) GetSelectionsForOrder(ctx context.Context, orderID int) ([]models.VendorSelection, error) {
	return querySelections(ctx, r.db, orderID)
}

func (r *orderRepository) GetItemsForSelection(ctx context.Context, selectionID int) ([]models.OrderItem, error) {
	return queryItemsForSelection(ctx, r.db, selectionID)
}

func (r *orderRepository) GetUpcomingOrderByID(ctx context.Context, id int) (models.UpcomingOrder, error) {
	orders, err := queryUpcomingOrders(ctx, r.db, `
		SELECT `+upcomingOrderColumns+`
		FROM upcoming_orders
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return models.UpcomingOrder{}, err
	}
	if len(orders) == 0 {
		return models.UpcomingOrder{}, models.ErrOrderNotFound
	}
	return orders[0], nil
}

func (r *orderRepository) GetNonProcessedMealTypes(ctx context.Context) ([]models.UpcomingOrder, error) {
	return queryUpcomingOrders(ctx, r.db, `
		SELECT `+upcomingOrderColumns+`
		FROM upcoming_orders
		WHERE meal_type IS NOT NULL AND status <> $1
		ORDER BY id`,
		models.OrderStatusProcessed,
	)
}

// ClearMealType nulls the meal_type scalar. The status guard is repeated here
// so a row processed after the report pass is never touched.
func (r *orderRepository) ClearMealType(ctx context.Context, orderID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE upcoming_orders
		SET meal_type = NULL, updated_at = NOW()
		WHERE id = $1 AND status <> $2`,
		orderID, models.OrderStatusProcessed,
	)
	if err != nil {
		return fmt.Errorf("failed to clear meal type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) WithTx(ctx context.Context, fn func(ReassignmentStore) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&reassignmentTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// reassignmentTx implements ReassignmentStore on one *sql.Tx.
type reassignmentTx struct {
	tx *sql.Tx
}

func (t *reassignmentTx) GetClientForUpdate(ctx context.Context, clientID int) (models.Client, error) {
	return getClientByID(ctx, t.tx, clientID, true)
}

func (t *reassignmentTx) ScheduledOrdersByDay(ctx context.Context, clientID int, day string) ([]models.UpcomingOrder, error) {
	return queryUpcomingOrders(ctx, t.tx, `
		SELECT `+upcomingOrderColumns+`
		FROM upcoming_orders
		WHERE client_id = $1 AND status = $2 AND delivery_day = $3
		ORDER BY id`,
		clientID, models.OrderStatusScheduled, day,
	)
}

func (t *reassignmentTx) SelectionsForOrder(ctx context.Context, orderID int) ([]models.VendorSelection, error) {
	return querySelections(ctx, t.tx, orderID)
}

func (t *reassignmentTx) ItemsForSelection(ctx context.Context, selectionID int) ([]models.OrderItem, error) {
	return queryItemsForSelection(ctx, t.tx, selectionID)
}

func (t *reassignmentTx) UpdateOrderDeliveryDay(ctx context.Context, orderID int, day string) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE upcoming_orders
		SET delivery_day = $1, updated_at = NOW()
		WHERE id = $2`,
		day, orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update delivery day: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrOrderNotFound
	}

	return nil
}

func (t *reassignmentTx) CreateVendorSelection(ctx context.Context, orderID int, vendorID *int) (int, error) {
	var id int
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO vendor_selections (upcoming_order_id, vendor_id)
		VALUES ($1, $2)
		RETURNING id`,
		orderID, vendorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create vendor selection: %w", err)
	}
	return id, nil
}

func (t *reassignmentTx) CopyOrderItem(ctx context.Context, item models.OrderItem, selectionID, orderID int) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO order_items (vendor_selection_id, upcoming_order_id, item_ref, quantity, unit_value, total_value, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		selectionID, orderID, item.ItemRef, item.Quantity, item.UnitValue, item.TotalValue, item.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to copy order item: %w", err)
	}
	return nil
}

func (t *reassignmentTx) DeleteItemsForOrder(ctx context.Context, orderID int) error {
	if _, err := t.tx.ExecContext(ctx, `
		DELETE FROM order_items WHERE upcoming_order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	return nil
}

func (t *reassignmentTx) DeleteSelectionsForOrder(ctx context.Context, orderID int) error {
	if _, err := t.tx.ExecContext(ctx, `
		DELETE FROM vendor_selections WHERE upcoming_order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete vendor selections: %w", err)
	}
	return nil
}

func (t *reassignmentTx) DeleteOrder(ctx context.Context, orderID int) error {
	result, err := t.tx.ExecContext(ctx, `
		DELETE FROM upcoming_orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrOrderNotFound
	}

	return nil
}

func (t *reassignmentTx) SaveActiveOrder(ctx context.Context, clientID int, doc *models.ActiveOrder) error {
	return saveActiveOrder(ctx, t.tx, clientID, doc)
}

const upcomingOrderColumns = `
			id,
			client_id,
			delivery_day,
			service_type,
			status,
			meal_type,
			created_at,
			updated_at`

func queryUpcomingOrders(ctx context.Context, q querier, query string, args ...interface{}) ([]models.UpcomingOrder, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming orders: %w", err)
	}
	defer rows.Close()

	var orders []models.UpcomingOrder
	for rows.Next() {
		var order models.UpcomingOrder
		var deliveryDay, mealType sql.NullString
		if err := rows.Scan(
			&order.ID,
			&order.ClientID,
			&deliveryDay,
			&order.ServiceType,
			&order.Status,
			&mealType,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan upcoming order: %w", err)
		}
		if deliveryDay.Valid {
			day := deliveryDay.String
			order.DeliveryDay = &day
		}
		if mealType.Valid {
			mt := mealType.String
			order.MealType = &mt
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning upcoming orders: %w", err)
	}

	return orders, nil
}

func querySelections(ctx context.Context, q querier, orderID int) ([]models.VendorSelection, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT
			id,
			upcoming_order_id,
			vendor_id
		FROM vendor_selections
		WHERE upcoming_order_id = $1
		ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor selections: %w", err)
	}
	defer rows.Close()

	var selections []models.VendorSelection
	for rows.Next() {
		var sel models.VendorSelection
		var vendorID sql.NullInt64
		if err := rows.Scan(&sel.ID, &sel.UpcomingOrderID, &vendorID); err != nil {
			return nil, fmt.Errorf("failed to scan vendor selection: %w", err)
		}
		if vendorID.Valid {
			id := int(vendorID.Int64)
			sel.VendorID = &id
		}
		selections = append(selections, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning vendor selections: %w", err)
	}

	return selections, nil
}

func queryItemsForSelection(ctx context.Context, q querier, selectionID int) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT
			id,
			vendor_selection_id,
			upcoming_order_id,
			item_ref,
			quantity,
			unit_value,
			total_value,
			COALESCE(notes, '')
		FROM order_items
		WHERE vendor_selection_id = $1
		ORDER BY id`,
		selectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.VendorSelectionID,
			&item.UpcomingOrderID,
			&item.ItemRef,
			&item.Quantity,
			&item.UnitValue,
			&item.TotalValue,
			&item.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning order items: %w", err)
	}

	return items, nil
}
