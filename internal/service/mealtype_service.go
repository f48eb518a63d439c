package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/dal"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

// MealTypeService audits the two stores that carry meal-type strings for
// references to categories that no longer exist. The valid set is rebuilt
// from the category configuration on every call, never cached.
type MealTypeService interface {
	Report(ctx context.Context) (models.MealTypeAuditReport, error)
	Clean(ctx context.Context, req models.MealTypeCleanRequest) (models.MealTypeCleanResult, error)
}

type mealTypeService struct {
	clientRepo dal.ClientRepository
	orderRepo  dal.OrderRepository
	refRepo    dal.ReferenceRepository
	logger     *zap.Logger
}

func NewMealTypeService(
	clientRepo dal.ClientRepository,
	orderRepo dal.OrderRepository,
	refRepo dal.ReferenceRepository,
	logger *zap.Logger,
) MealTypeService {
	return &mealTypeService{
		clientRepo: clientRepo,
		orderRepo:  orderRepo,
		refRepo:    refRepo,
		logger:     logger,
	}
}

// Report is the dry run: it lists every offending selection key and order id
// without mutating anything.
func (s *mealTypeService) Report(ctx context.Context) (models.MealTypeAuditReport, error) {
	valid, err := s.validTypes(ctx)
	if err != nil {
		return models.MealTypeAuditReport{}, err
	}

	report := models.MealTypeAuditReport{ValidMealTypes: valid.Sorted()}

	clients, err := s.clientRepo.GetAllClients(ctx)
	if err != nil {
		return models.MealTypeAuditReport{}, err
	}
	for _, client := range clients {
		doc, err := models.ParseActiveOrder(client.ActiveOrder)
		if err != nil {
			return models.MealTypeAuditReport{}, fmt.Errorf("client %d: %w", client.ID, err)
		}
		if doc == nil {
			continue
		}
		invalid := invalidSelectionKeys(doc, valid)
		if len(invalid) == 0 {
			continue
		}
		report.ClientIssues = append(report.ClientIssues, models.ClientMealTypeIssue{
			ClientID:    client.ID,
			ClientName:  client.FullName,
			InvalidKeys: invalid,
		})
	}

	orders, err := s.orderRepo.GetNonProcessedMealTypes(ctx)
	if err != nil {
		return models.MealTypeAuditReport{}, err
	}
	for _, order := range orders {
		if order.MealType == nil || valid.Contains(*order.MealType) {
			continue
		}
		report.OrderIssues = append(report.OrderIssues, models.OrderMealTypeIssue{
			OrderID:  order.ID,
			ClientID: order.ClientID,
			MealType: *order.MealType,
		})
	}

	return report, nil
}

// Clean removes invalid selection keys from client documents and nulls
// invalid meal_type scalars on non-processed orders. With CleanAll the
// offending set is re-derived by a fresh report pass immediately before
// mutating; otherwise only the listed ids are touched. Either way, validity
// is re-checked at mutation time so a stale allow-list never deletes a key
// that has become valid again.
func (s *mealTypeService) Clean(ctx context.Context, req models.MealTypeCleanRequest) (models.MealTypeCleanResult, error) {
	if !req.CleanAll && len(req.ClientIDs) == 0 && len(req.OrderIDs) == 0 {
		return models.MealTypeCleanResult{}, models.ErrEmptyCleanRequest
	}

	clientIDs := req.ClientIDs
	orderIDs := req.OrderIDs
	if req.CleanAll {
		report, err := s.Report(ctx)
		if err != nil {
			return models.MealTypeCleanResult{}, err
		}
		clientIDs = clientIDs[:0]
		for _, issue := range report.ClientIssues {
			clientIDs = append(clientIDs, issue.ClientID)
		}
		orderIDs = orderIDs[:0]
		for _, issue := range report.OrderIssues {
			orderIDs = append(orderIDs, issue.OrderID)
		}
	}

	valid, err := s.validTypes(ctx)
	if err != nil {
		return models.MealTypeCleanResult{}, err
	}

	var result models.MealTypeCleanResult
	for _, clientID := range clientIDs {
		removed, err := s.cleanClient(ctx, clientID, valid)
		if err != nil {
			return models.MealTypeCleanResult{}, err
		}
		result.RemovedSelectionKeys += removed
	}

	for _, orderID := range orderIDs {
		cleared, err := s.cleanOrder(ctx, orderID, valid)
		if err != nil {
			return models.MealTypeCleanResult{}, err
		}
		result.ClearedOrderFields += cleared
	}

	s.logger.Info("meal-type clean complete",
		zap.Int("removed_selection_keys", result.RemovedSelectionKeys),
		zap.Int("cleared_order_fields", result.ClearedOrderFields),
	)

	return result, nil
}

func (s *mealTypeService) cleanClient(ctx context.Context, clientID int, valid models.MealTypeSet) (int, error) {
	client, err := s.clientRepo.GetClientByID(ctx, clientID)
	if err != nil {
		return 0, err
	}
	doc, err := models.ParseActiveOrder(client.ActiveOrder)
	if err != nil {
		return 0, fmt.Errorf("client %d: %w", client.ID, err)
	}
	if doc == nil {
		return 0, nil
	}

	invalid := invalidSelectionKeys(doc, valid)
	if len(invalid) == 0 {
		return 0, nil
	}
	for _, key := range invalid {
		delete(doc.MealSelections, key)
	}

	if err := s.clientRepo.SaveActiveOrder(ctx, clientID, doc); err != nil {
		return 0, err
	}
	return len(invalid), nil
}

func (s *mealTypeService) cleanOrder(ctx context.Context, orderID int, valid models.MealTypeSet) (int, error) {
	order, err := s.orderRepo.GetUpcomingOrderByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if order.Status == models.OrderStatusProcessed {
		return 0, nil
	}
	if order.MealType == nil || valid.Contains(*order.MealType) {
		return 0, nil
	}

	if err := s.orderRepo.ClearMealType(ctx, orderID); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *mealTypeService) validTypes(ctx context.Context) (models.MealTypeSet, error) {
	categories, err := s.refRepo.GetMealTypes(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewMealTypeSet(categories), nil
}

func invalidSelectionKeys(doc *models.ActiveOrder, valid models.MealTypeSet) []string {
	var invalid []string
	for key := range doc.MealSelections {
		if !valid.Contains(key) {
			invalid = append(invalid, key)
		}
	}
	sort.Strings(invalid)
	return invalid
}
