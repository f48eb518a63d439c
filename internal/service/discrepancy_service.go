package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/dal"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

// DiscrepancyService finds clients whose two order representations disagree
// about whether an order exists at all.
type DiscrepancyService interface {
	ScanDiscrepancies(ctx context.Context) ([]models.Discrepancy, error)
}

type discrepancyService struct {
	clientRepo dal.ClientRepository
	orderRepo  dal.OrderRepository
	refRepo    dal.ReferenceRepository
	logger     *zap.Logger
}

func NewDiscrepancyService(
	clientRepo dal.ClientRepository,
	orderRepo dal.OrderRepository,
	refRepo dal.ReferenceRepository,
	logger *zap.Logger,
) DiscrepancyService {
	return &discrepancyService{
		clientRepo: clientRepo,
		orderRepo:  orderRepo,
		refRepo:    refRepo,
		logger:     logger,
	}
}

// ScanDiscrepancies checks every client for hasActive XOR hasUpcoming and
// builds operator-facing detail payloads for the side that exists. The scan
// is a pure read and all-or-nothing: any sub-query failure aborts it.
func (s *discrepancyService) ScanDiscrepancies(ctx context.Context) ([]models.Discrepancy, error) {
	clients, err := s.clientRepo.GetAllClients(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.orderRepo.CountScheduledByClient(ctx)
	if err != nil {
		return nil, err
	}

	vendors, err := s.refRepo.GetVendors(ctx)
	if err != nil {
		return nil, err
	}

	itemNames, err := s.refRepo.GetItemNames(ctx)
	if err != nil {
		return nil, err
	}

	var discrepancies []models.Discrepancy
	for _, client := range clients {
		doc, err := models.ParseActiveOrder(client.ActiveOrder)
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", client.ID, err)
		}

		hasActive := !doc.IsEmpty()
		hasUpcoming := counts[client.ID] > 0
		if hasActive == hasUpcoming {
			continue
		}

		record := models.Discrepancy{
			ClientID:    client.ID,
			ClientName:  client.FullName,
			ServiceType: client.ServiceType,
		}

		if hasActive {
			record.DiscrepancyType = models.DiscrepancyActiveOrderOnly
			record.ActiveOrderDetails = flattenActiveOrder(doc, vendors, itemNames)
		} else {
			record.DiscrepancyType = models.DiscrepancyUpcomingOrdersOnly
			details, err := s.upcomingOrderDetails(ctx, client.ID, vendors, itemNames)
			if err != nil {
				return nil, err
			}
			record.UpcomingOrderDetails = details
		}

		discrepancies = append(discrepancies, record)
	}

	sort.Slice(discrepancies, func(i, j int) bool {
		if discrepancies[i].ClientName != discrepancies[j].ClientName {
			return discrepancies[i].ClientName < discrepancies[j].ClientName
		}
		return discrepancies[i].ClientID < discrepancies[j].ClientID
	})

	s.logger.Info("discrepancy scan complete",
		zap.Int("clients", len(clients)),
		zap.Int("discrepancies", len(discrepancies)),
	)

	return discrepancies, nil
}

func (s *discrepancyService) upcomingOrderDetails(
	ctx context.Context,
	clientID int,
	vendors map[int]models.Vendor,
	itemNames map[int]string,
) ([]models.UpcomingOrderSummary, error) {
	orders, err := s.orderRepo.GetScheduledOrdersForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.UpcomingOrderSummary, 0, len(orders))
	for _, order := range orders {
		summary := models.UpcomingOrderSummary{
			OrderID:     order.ID,
			ServiceType: order.ServiceType,
		}
		if order.DeliveryDay != nil {
			summary.DeliveryDay = *order.DeliveryDay
		}

		selections, err := s.orderRepo.GetSelectionsForOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		for _, sel := range selections {
			items, err := s.orderRepo.GetItemsForSelection(ctx, sel.ID)
			if err != nil {
				return nil, err
			}
			summary.Vendors = append(summary.Vendors, models.OrderSummary{
				VendorName: vendorDisplayName(vendors, sel.VendorID),
				Items:      qualifyingRowLines(items, itemNames),
			})
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// flattenActiveOrder reduces every shape the legacy document can hold to a
// uniform vendor-plus-items list for operator review.
func flattenActiveOrder(
	doc *models.ActiveOrder,
	vendors map[int]models.Vendor,
	itemNames map[int]string,
) []models.OrderSummary {
	var summaries []models.OrderSummary

	for _, sel := range doc.VendorSelections {
		summaries = append(summaries, models.OrderSummary{
			VendorName: vendorDisplayName(vendors, sel.VendorID),
			Items:      documentItemLines(sel.Items, itemNames),
		})
	}

	mealTypes := make([]string, 0, len(doc.MealSelections))
	for mealType := range doc.MealSelections {
		mealTypes = append(mealTypes, mealType)
	}
	sort.Strings(mealTypes)
	for _, mealType := range mealTypes {
		sel := doc.MealSelections[mealType]
		summaries = append(summaries, models.OrderSummary{
			VendorName: vendorDisplayName(vendors, sel.VendorID),
			MealType:   mealType,
			Items:      documentItemLines(sel.Items, itemNames),
		})
	}

	for _, box := range doc.BoxOrders {
		summaries = append(summaries, models.OrderSummary{
			VendorName: "Box order",
			BoxType:    box.BoxType,
			Items:      documentItemLines(box.Items, itemNames),
		})
	}

	for _, day := range doc.Days() {
		for _, sel := range doc.DeliveryDayOrders[day].VendorSelections {
			summaries = append(summaries, models.OrderSummary{
				VendorName:  vendorDisplayName(vendors, sel.VendorID),
				DeliveryDay: day,
				Items:       documentItemLines(sel.Items, itemNames),
			})
		}
	}

	return summaries
}
