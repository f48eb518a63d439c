package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/dal"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

// ReassignService is the only write path over the two order representations.
// A reassignment moves or merges everything a client has scheduled at oldDay
// onto newDay, in the normalized rows and in the denormalized document, as
// one atomic operation.
type ReassignService interface {
	Reassign(ctx context.Context, req models.ReassignRequest) (models.ReassignResult, error)
	AutoFixSingleDay(ctx context.Context) (models.BatchFixResult, error)
}

type reassignService struct {
	orderRepo  dal.OrderRepository
	mismatches MismatchService
	logger     *zap.Logger
}

func NewReassignService(orderRepo dal.OrderRepository, mismatches MismatchService, logger *zap.Logger) ReassignService {
	return &reassignService{
		orderRepo:  orderRepo,
		mismatches: mismatches,
		logger:     logger,
	}
}

func (s *reassignService) Reassign(ctx context.Context, req models.ReassignRequest) (models.ReassignResult, error) {
	if req.ClientID <= 0 {
		return models.ReassignResult{}, models.ErrInvalidClientID
	}
	if req.OldDay == "" {
		return models.ReassignResult{}, models.ErrMissingOldDay
	}
	if req.NewDay == "" {
		return models.ReassignResult{}, models.ErrMissingNewDay
	}
	if !models.IsWeekday(req.OldDay) || !models.IsWeekday(req.NewDay) {
		return models.ReassignResult{}, models.ErrInvalidDeliveryDay
	}
	if req.VendorID != nil && *req.VendorID <= 0 {
		return models.ReassignResult{}, models.ErrInvalidVendorID
	}

	// Same-day reassignment is a safe no-op: no transaction, no writes.
	if req.OldDay == req.NewDay {
		return models.ReassignResult{
			Success: true,
			Message: fmt.Sprintf("order already scheduled on %s, nothing to do", req.NewDay),
		}, nil
	}

	var result models.ReassignResult
	err := s.orderRepo.WithTx(ctx, func(store dal.ReassignmentStore) error {
		client, err := store.GetClientForUpdate(ctx, req.ClientID)
		if err != nil {
			return err
		}

		moved, merged, err := s.reassignNormalized(ctx, store, req)
		if err != nil {
			return err
		}
		result.OrdersMoved = moved
		result.OrdersMerged = merged

		documentMoved, err := s.reassignDocument(ctx, store, client, req)
		if err != nil {
			return err
		}
		result.DocumentMoved = documentMoved

		return nil
	})
	if err != nil {
		return models.ReassignResult{}, err
	}

	result.Success = true
	result.Message = fmt.Sprintf("moved orders from %s to %s", req.OldDay, req.NewDay)
	s.logger.Info("reassignment complete",
		zap.Int("client_id", req.ClientID),
		zap.String("old_day", req.OldDay),
		zap.String("new_day", req.NewDay),
		zap.Int("orders_moved", result.OrdersMoved),
		zap.Int("orders_merged", result.OrdersMerged),
		zap.Bool("document_moved", result.DocumentMoved),
	)

	return result, nil
}

// reassignNormalized is Step A: relocate the client's scheduled orders from
// oldDay to newDay in the normalized tables. With no order already at newDay
// this is an in-place delivery-day rename. With a conflict, every old
// order's selections and items are copied under the existing target order
// and the drained old rows are deleted items-first.
func (s *reassignService) reassignNormalized(
	ctx context.Context,
	store dal.ReassignmentStore,
	req models.ReassignRequest,
) (moved, merged int, err error) {
	oldOrders, err := store.ScheduledOrdersByDay(ctx, req.ClientID, req.OldDay)
	if err != nil {
		return 0, 0, err
	}
	if len(oldOrders) == 0 {
		return 0, 0, nil
	}

	targets, err := store.ScheduledOrdersByDay(ctx, req.ClientID, req.NewDay)
	if err != nil {
		return 0, 0, err
	}

	if len(targets) == 0 {
		for _, order := range oldOrders {
			if err := store.UpdateOrderDeliveryDay(ctx, order.ID, req.NewDay); err != nil {
				return 0, 0, err
			}
		}
		return len(oldOrders), 0, nil
	}

	target := targets[0]
	for _, order := range oldOrders {
		selections, err := store.SelectionsForOrder(ctx, order.ID)
		if err != nil {
			return 0, 0, err
		}

		for _, sel := range selections {
			newSelID, err := store.CreateVendorSelection(ctx, target.ID, sel.VendorID)
			if err != nil {
				return 0, 0, err
			}
			items, err := store.ItemsForSelection(ctx, sel.ID)
			if err != nil {
				return 0, 0, err
			}
			for _, item := range items {
				if err := store.CopyOrderItem(ctx, item, newSelID, target.ID); err != nil {
					return 0, 0, err
				}
			}
		}

		// Strict dependency order: items, then selections, then the order.
		if err := store.DeleteItemsForOrder(ctx, order.ID); err != nil {
			return 0, 0, err
		}
		if err := store.DeleteSelectionsForOrder(ctx, order.ID); err != nil {
			return 0, 0, err
		}
		if err := store.DeleteOrder(ctx, order.ID); err != nil {
			return 0, 0, err
		}
	}

	return 0, len(oldOrders), nil
}

// reassignDocument is Step B: the same move applied to the client's
// denormalized per-day order map, persisted with an updated timestamp only
// when something actually changed.
func (s *reassignService) reassignDocument(
	ctx context.Context,
	store dal.ReassignmentStore,
	client models.Client,
	req models.ReassignRequest,
) (bool, error) {
	doc, err := models.ParseActiveOrder(client.ActiveOrder)
	if err != nil {
		return false, fmt.Errorf("client %d: %w", client.ID, err)
	}
	if doc == nil {
		return false, nil
	}

	if !doc.MoveDay(req.OldDay, req.NewDay, req.VendorID) {
		return false, nil
	}

	if err := store.SaveActiveOrder(ctx, client.ID, doc); err != nil {
		return false, err
	}
	return true, nil
}

// AutoFixSingleDay repairs every mismatch whose vendor supports exactly one
// day by moving the order to that day. Each reassignment is independently
// retryable; one failure never aborts the rest of the queue.
func (s *reassignService) AutoFixSingleDay(ctx context.Context) (models.BatchFixResult, error) {
	mismatches, err := s.mismatches.ScanMismatches(ctx)
	if err != nil {
		return models.BatchFixResult{}, err
	}

	var result models.BatchFixResult
	for _, mismatch := range mismatches {
		if !mismatch.SingleDay || len(mismatch.VendorSupportedDays) != 1 {
			continue
		}
		newDay := mismatch.VendorSupportedDays[0]

		result.Attempted++
		vendorID := mismatch.VendorID
		_, err := s.Reassign(ctx, models.ReassignRequest{
			ClientID: mismatch.ClientID,
			OldDay:   mismatch.DeliveryDay,
			NewDay:   newDay,
			VendorID: &vendorID,
		})
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, models.BatchFixFailure{
				ClientID: mismatch.ClientID,
				OldDay:   mismatch.DeliveryDay,
				NewDay:   newDay,
				VendorID: mismatch.VendorID,
				Error:    err.Error(),
			})
			s.logger.Warn("auto-fix reassignment failed",
				zap.Int("client_id", mismatch.ClientID),
				zap.String("old_day", mismatch.DeliveryDay),
				zap.String("new_day", newDay),
				zap.Error(err),
			)
			continue
		}
		result.Succeeded++
	}

	s.logger.Info("auto-fix batch complete",
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
