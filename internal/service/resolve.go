package service

import (
	"fmt"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

// Display-name resolution shared by the scanners. Unknown references are
// labeled rather than dropped so the operator still sees them.

func vendorDisplayName(vendors map[int]models.Vendor, vendorID *int) string {
	if vendorID == nil {
		return "No vendor"
	}
	if vendor, ok := vendors[*vendorID]; ok {
		return vendor.Name
	}
	return fmt.Sprintf("Unknown vendor (%d)", *vendorID)
}

func itemDisplayName(itemNames map[int]string, itemRef int) string {
	if name, ok := itemNames[itemRef]; ok {
		return name
	}
	return fmt.Sprintf("Unknown item (%d)", itemRef)
}

// documentItemLines flattens document items into report lines. The legacy
// document stores no unit or total values, so those stay zero.
func documentItemLines(items []models.ActiveOrderItem, itemNames map[int]string) []models.ItemLine {
	lines := make([]models.ItemLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.ItemLine{
			ItemRef:  item.ItemRef,
			Name:     itemDisplayName(itemNames, item.ItemRef),
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}
	return lines
}

// qualifyingRowLines keeps only real line items: positive quantity and a
// resolvable item reference. Everything else is noise and excluded from
// mismatch payloads and counts.
func qualifyingRowLines(items []models.OrderItem, itemNames map[int]string) []models.ItemLine {
	var lines []models.ItemLine
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		name, ok := itemNames[item.ItemRef]
		if !ok {
			continue
		}
		lines = append(lines, models.ItemLine{
			ItemRef:    item.ItemRef,
			Name:       name,
			Quantity:   item.Quantity,
			UnitValue:  item.UnitValue,
			TotalValue: item.TotalValue,
			Note:       item.Notes,
		})
	}
	return lines
}

// qualifyingDocumentLines applies the same noise rule to document items.
func qualifyingDocumentLines(items []models.ActiveOrderItem, itemNames map[int]string) []models.ItemLine {
	var lines []models.ItemLine
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		name, ok := itemNames[item.ItemRef]
		if !ok {
			continue
		}
		lines = append(lines, models.ItemLine{
			ItemRef:  item.ItemRef,
			Name:     name,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}
	return lines
}
