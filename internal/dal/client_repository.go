package dal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

type ClientRepository interface {
	GetAllClients(ctx context.Context) ([]models.Client, error)
	GetClientByID(ctx context.Context, id int) (models.Client, error)
	SaveActiveOrder(ctx context.Context, clientID int, doc *models.ActiveOrder) error
}

type clientRepository struct {
	*Repository
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{NewRepository(db)}
}

func (r *clientRepository) GetAllClients(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id,
			full_name,
			service_type,
			active_order,
			created_at,
			updated_at
		FROM clients
		ORDER BY full_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning clients: %w", err)
	}

	return clients, nil
}

func (r *clientRepository) GetClientByID(ctx context.Context, id int) (models.Client, error) {
	return getClientByID(ctx, r.db, id, false)
}

func (r *clientRepository) SaveActiveOrder(ctx context.Context, clientID int, doc *models.ActiveOrder) error {
	return saveActiveOrder(ctx, r.db, clientID, doc)
}

func getClientByID(ctx context.Context, q querier, id int, forUpdate bool) (models.Client, error) {
	query := `
		SELECT
			id,
			full_name,
			service_type,
			active_order,
			created_at,
			updated_at
		FROM clients
		WHERE id = $1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	var client models.Client
	var activeOrder sql.NullString
	err := q.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.FullName,
		&client.ServiceType,
		&activeOrder,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Client{}, models.ErrClientNotFound
		}
		return models.Client{}, fmt.Errorf("failed to get client: %w", err)
	}

	if activeOrder.Valid {
		client.ActiveOrder = json.RawMessage(activeOrder.String)
	}
	return client, nil
}

func saveActiveOrder(ctx context.Context, q querier, clientID int, doc *models.ActiveOrder) error {
	var payload interface{}
	if doc != nil {
		encoded, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode active order: %w", err)
		}
		payload = string(encoded)
	}

	result, err := q.ExecContext(ctx, `
		UPDATE clients
		SET active_order = $1, updated_at = NOW()
		WHERE id = $2`,
		payload, clientID,
	)
	if err != nil {
		return fmt.Errorf("failed to save active order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrClientNotFound
	}

	return nil
}

// scanClient works for any query selecting the full client column list.
func scanClient(rows *sql.Rows) (models.Client, error) {
	var client models.Client
	var activeOrder sql.NullString
	if err := rows.Scan(
		&client.ID,
		&client.FullName,
		&client.ServiceType,
		&activeOrder,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return models.Client{}, err
	}
	if activeOrder.Valid {
		client.ActiveOrder = json.RawMessage(activeOrder.String)
	}
	return client, nil
}
