package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/dal"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

// MismatchService scans both order representations for vendor selections
// scheduled on a day the vendor does not service.
type MismatchService interface {
	ScanMismatches(ctx context.Context) ([]models.VendorDayMismatch, error)
}

type mismatchService struct {
	clientRepo dal.ClientRepository
	orderRepo  dal.OrderRepository
	refRepo    dal.ReferenceRepository
	logger     *zap.Logger
}

func NewMismatchService(
	clientRepo dal.ClientRepository,
	orderRepo dal.OrderRepository,
	refRepo dal.ReferenceRepository,
	logger *zap.Logger,
) MismatchService {
	return &mismatchService{
		clientRepo: clientRepo,
		orderRepo:  orderRepo,
		refRepo:    refRepo,
		logger:     logger,
	}
}

// mismatchKey dedupes the two sub-scans. The normalized scan runs first, so
// on a key collision its record wins and the denormalized duplicate drops.
type mismatchKey struct {
	clientID int
	day      string
	vendorID int
}

func (s *mismatchService) ScanMismatches(ctx context.Context) ([]models.VendorDayMismatch, error) {
	vendors, err := s.refRepo.GetVendors(ctx)
	if err != nil {
		return nil, err
	}

	itemNames, err := s.refRepo.GetItemNames(ctx)
	if err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.GetAllClients(ctx)
	if err != nil {
		return nil, err
	}
	clientsByID := make(map[int]models.Client, len(clients))
	for _, client := range clients {
		clientsByID[client.ID] = client
	}

	seen := make(map[mismatchKey]bool)
	var mismatches []models.VendorDayMismatch

	normalized, err := s.scanNormalized(ctx, vendors, itemNames, clientsByID, seen)
	if err != nil {
		return nil, err
	}
	mismatches = append(mismatches, normalized...)

	denormalized, err := s.scanDenormalized(ctx, vendors, itemNames, clients, seen)
	if err != nil {
		return nil, err
	}
	mismatches = append(mismatches, denormalized...)

	sort.Slice(mismatches, func(i, j int) bool {
		a, b := mismatches[i], mismatches[j]
		if a.ClientName != b.ClientName {
			return a.ClientName < b.ClientName
		}
		if a.ClientID != b.ClientID {
			return a.ClientID < b.ClientID
		}
		if a.DeliveryDay != b.DeliveryDay {
			return models.WeekdayIndex(a.DeliveryDay) < models.WeekdayIndex(b.DeliveryDay)
		}
		return a.VendorID < b.VendorID
	})

	s.logger.Info("vendor-day scan complete", zap.Int("mismatches", len(mismatches)))

	return mismatches, nil
}

func (s *mismatchService) scanNormalized(
	ctx context.Context,
	vendors map[int]models.Vendor,
	itemNames map[int]string,
	clientsByID map[int]models.Client,
	seen map[mismatchKey]bool,
) ([]models.VendorDayMismatch, error) {
	rows, err := s.orderRepo.GetScheduledSelections(ctx)
	if err != nil {
		return nil, err
	}

	var mismatches []models.VendorDayMismatch
	for _, row := range rows {
		vendor, ok := vendors[row.VendorID]
		if !ok {
			// Dangling vendor reference; no day set to judge against.
			continue
		}
		if vendor.SupportsDay(row.DeliveryDay) {
			continue
		}

		key := mismatchKey{clientID: row.ClientID, day: row.DeliveryDay, vendorID: row.VendorID}
		if seen[key] {
			continue
		}
		seen[key] = true

		items, err := s.orderRepo.GetItemsForSelection(ctx, row.SelectionID)
		if err != nil {
			return nil, err
		}
		lines := qualifyingRowLines(items, itemNames)

		client := clientsByID[row.ClientID]
		_, singleDay := vendor.SingleDay()
		mismatches = append(mismatches, models.VendorDayMismatch{
			ClientID:            row.ClientID,
			ClientName:          client.FullName,
			ServiceType:         row.ServiceType,
			DeliveryDay:         row.DeliveryDay,
			VendorID:            row.VendorID,
			VendorName:          vendor.Name,
			VendorSupportedDays: vendor.SupportedDeliveryDays,
			Source:              models.MismatchSourceNormalized,
			ItemCount:           len(lines),
			Items:               lines,
			SingleDay:           singleDay,
		})
	}

	return mismatches, nil
}

func (s *mismatchService) scanDenormalized(
	ctx context.Context,
	vendors map[int]models.Vendor,
	itemNames map[int]string,
	clients []models.Client,
	seen map[mismatchKey]bool,
) ([]models.VendorDayMismatch, error) {
	var mismatches []models.VendorDayMismatch
	for _, client := range clients {
		doc, err := models.ParseActiveOrder(client.ActiveOrder)
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", client.ID, err)
		}
		if doc == nil || len(doc.DeliveryDayOrders) == 0 {
			continue
		}

		for _, day := range doc.Days() {
			for _, sel := range doc.DeliveryDayOrders[day].VendorSelections {
				if sel.VendorID == nil {
					continue
				}
				vendor, ok := vendors[*sel.VendorID]
				if !ok {
					continue
				}
				if vendor.SupportsDay(day) {
					continue
				}

				key := mismatchKey{clientID: client.ID, day: day, vendorID: *sel.VendorID}
				if seen[key] {
					continue
				}
				seen[key] = true

				// Document items carry no persisted unit/total values;
				// they surface as zeros here.
				lines := qualifyingDocumentLines(sel.Items, itemNames)

				_, singleDay := vendor.SingleDay()
				mismatches = append(mismatches, models.VendorDayMismatch{
					ClientID:            client.ID,
					ClientName:          client.FullName,
					ServiceType:         client.ServiceType,
					DeliveryDay:         day,
					VendorID:            *sel.VendorID,
					VendorName:          vendor.Name,
					VendorSupportedDays: vendor.SupportedDeliveryDays,
					Source:              models.MismatchSourceDenormalized,
					ItemCount:           len(lines),
					Items:               lines,
					SingleDay:           singleDay,
				})
			}
		}
	}

	return mismatches, nil
}
