package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ActiveOrder is the parsed form of the legacy denormalized order document
// stored on the client record. Historical writers produced several shapes
// (snake_case and camelCase keys, items as lists or as id->quantity maps);
// all known variants decode into this one structure. Serializing always
// produces the canonical snake_case shape.
type ActiveOrder struct {
	VendorSelections  []ActiveVendorSelection  `json:"vendor_selections,omitempty"`
	MealSelections    map[string]MealSelection `json:"meal_selections,omitempty"`
	BoxOrders         []BoxOrder               `json:"box_orders,omitempty"`
	DeliveryDayOrders map[string]DayOrder      `json:"delivery_day_orders,omitempty"`
}

// ActiveVendorSelection is one vendor's block inside the legacy document.
type ActiveVendorSelection struct {
	VendorID *int              `json:"vendor_id,omitempty"`
	Items    []ActiveOrderItem `json:"items,omitempty"`
}

// MealSelection is the value of one meal-type key in the per-client
// selection map.
type MealSelection struct {
	VendorID *int              `json:"vendor_id,omitempty"`
	Items    []ActiveOrderItem `json:"items,omitempty"`
}

type BoxOrder struct {
	BoxType  string            `json:"box_type"`
	Quantity int               `json:"quantity"`
	Items    []ActiveOrderItem `json:"items,omitempty"`
}

// DayOrder holds the vendor selections scheduled under one weekday key in
// the document's per-day order map.
type DayOrder struct {
	VendorSelections []ActiveVendorSelection `json:"vendor_selections,omitempty"`
}

// ActiveOrderItem is a line item as stored in the document. The document
// carries no unit or total values; those live only in the normalized rows.
type ActiveOrderItem struct {
	ItemRef  int    `json:"item_id"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// ParseActiveOrder decodes the raw document from the client record.
// A missing/null/blank document returns (nil, nil) — valid but empty is not
// an error. A document that exists but cannot be decoded returns an error
// wrapping ErrMalformedActiveOrder.
func ParseActiveOrder(raw json.RawMessage) (*ActiveOrder, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var doc ActiveOrder
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedActiveOrder, err)
	}
	return &doc, nil
}

// IsEmpty reports whether the document carries no order content at all.
// An empty object parses fine but does not count as an active order.
func (a *ActiveOrder) IsEmpty() bool {
	if a == nil {
		return true
	}
	return len(a.VendorSelections) == 0 &&
		len(a.MealSelections) == 0 &&
		len(a.BoxOrders) == 0 &&
		len(a.DeliveryDayOrders) == 0
}

// Days returns the document's delivery-day keys in Monday-first order, with
// unknown day names last in lexical order. Map iteration order must never
// leak into scan output.
func (a *ActiveOrder) Days() []string {
	days := make([]string, 0, len(a.DeliveryDayOrders))
	for day := range a.DeliveryDayOrders {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		wi, wj := WeekdayIndex(days[i]), WeekdayIndex(days[j])
		if wi == -1 && wj == -1 {
			return days[i] < days[j]
		}
		if wi == -1 {
			return false
		}
		if wj == -1 {
			return true
		}
		return wi < wj
	})
	return days
}

// MoveDay relocates the oldDay entry of the per-day order map to newDay,
// merging when newDay already exists. With a vendorID only that vendor's
// selection objects move; without one the whole day moves. The oldDay key is
// dropped once drained. Returns whether the document changed.
func (a *ActiveOrder) MoveDay(oldDay, newDay string, vendorID *int) bool {
	if a == nil || a.DeliveryDayOrders == nil {
		return false
	}
	src, ok := a.DeliveryDayOrders[oldDay]
	if !ok {
		return false
	}

	dst, exists := a.DeliveryDayOrders[newDay]
	if !exists {
		a.DeliveryDayOrders[newDay] = src
		delete(a.DeliveryDayOrders, oldDay)
		return true
	}

	if vendorID == nil {
		dst.VendorSelections = append(dst.VendorSelections, src.VendorSelections...)
		a.DeliveryDayOrders[newDay] = dst
		delete(a.DeliveryDayOrders, oldDay)
		return true
	}

	moved := false
	kept := make([]ActiveVendorSelection, 0, len(src.VendorSelections))
	for _, sel := range src.VendorSelections {
		if sel.VendorID != nil && *sel.VendorID == *vendorID {
			dst.VendorSelections = append(dst.VendorSelections, sel)
			moved = true
			continue
		}
		kept = append(kept, sel)
	}
	if !moved {
		return false
	}
	a.DeliveryDayOrders[newDay] = dst
	if len(kept) == 0 {
		delete(a.DeliveryDayOrders, oldDay)
	} else {
		src.VendorSelections = kept
		a.DeliveryDayOrders[oldDay] = src
	}
	return true
}

// UnmarshalJSON accepts every historical spelling of the document's section
// keys. Later spellings never overwrite an earlier non-empty section.
func (a *ActiveOrder) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw := firstField(fields, "vendor_selections", "vendorSelections"); raw != nil {
		sels, err := decodeVendorSelections(raw)
		if err != nil {
			return err
		}
		a.VendorSelections = sels
	}

	if raw := firstField(fields, "meal_selections", "mealSelections"); raw != nil {
		var shaped map[string]MealSelection
		if err := json.Unmarshal(raw, &shaped); err != nil {
			return err
		}
		a.MealSelections = shaped
	}

	if raw := firstField(fields, "box_orders", "boxOrders"); raw != nil {
		var boxes []BoxOrder
		if err := json.Unmarshal(raw, &boxes); err != nil {
			return err
		}
		a.BoxOrders = boxes
	}

	if raw := firstField(fields, "delivery_day_orders", "deliveryDayOrders", "dayOrders"); raw != nil {
		var byDay map[string]json.RawMessage
		if err := json.Unmarshal(raw, &byDay); err != nil {
			return err
		}
		a.DeliveryDayOrders = make(map[string]DayOrder, len(byDay))
		for day, rawDay := range byDay {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(rawDay, &fields); err != nil {
				return err
			}
			var dayOrder DayOrder
			if rawSels := firstField(fields, "vendor_selections", "vendorSelections"); rawSels != nil {
				sels, err := decodeVendorSelections(rawSels)
				if err != nil {
					return err
				}
				dayOrder.VendorSelections = sels
			}
			a.DeliveryDayOrders[day] = dayOrder
		}
	}

	return nil
}

func (m *MealSelection) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	vendorID, err := decodeVendorID(fields)
	if err != nil {
		return err
	}
	m.VendorID = vendorID
	if raw := firstField(fields, "items"); raw != nil {
		items, err := decodeItems(raw)
		if err != nil {
			return err
		}
		m.Items = items
	}
	return nil
}

func (b *BoxOrder) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw := firstField(fields, "box_type", "boxType", "type"); raw != nil {
		if err := json.Unmarshal(raw, &b.BoxType); err != nil {
			return err
		}
	}
	if raw := firstField(fields, "quantity", "qty"); raw != nil {
		if err := json.Unmarshal(raw, &b.Quantity); err != nil {
			return err
		}
	}
	if raw := firstField(fields, "items"); raw != nil {
		items, err := decodeItems(raw)
		if err != nil {
			return err
		}
		b.Items = items
	}
	return nil
}

func decodeVendorSelections(raw json.RawMessage) ([]ActiveVendorSelection, error) {
	var rawSels []json.RawMessage
	if err := json.Unmarshal(raw, &rawSels); err != nil {
		return nil, err
	}
	sels := make([]ActiveVendorSelection, 0, len(rawSels))
	for _, rawSel := range rawSels {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rawSel, &fields); err != nil {
			return nil, err
		}
		var sel ActiveVendorSelection
		vendorID, err := decodeVendorID(fields)
		if err != nil {
			return nil, err
		}
		sel.VendorID = vendorID
		if rawItems := firstField(fields, "items"); rawItems != nil {
			items, err := decodeItems(rawItems)
			if err != nil {
				return nil, err
			}
			sel.Items = items
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

func decodeVendorID(fields map[string]json.RawMessage) (*int, error) {
	raw := firstField(fields, "vendor_id", "vendorId", "vendor")
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var id int
	if err := json.Unmarshal(raw, &id); err != nil {
		// Some writers stored the id as a string.
		var s string
		if err2 := json.Unmarshal(raw, &s); err2 != nil {
			return nil, err
		}
		parsed, err2 := strconv.Atoi(s)
		if err2 != nil {
			return nil, err2
		}
		id = parsed
	}
	return &id, nil
}

// decodeItems accepts both historical item encodings: a list of item
// objects, or a map of item id -> quantity (or id -> {quantity, note}).
func decodeItems(raw json.RawMessage) ([]ActiveOrderItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var rawItems []json.RawMessage
		if err := json.Unmarshal(trimmed, &rawItems); err != nil {
			return nil, err
		}
		items := make([]ActiveOrderItem, 0, len(rawItems))
		for _, rawItem := range rawItems {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(rawItem, &fields); err != nil {
				return nil, err
			}
			var item ActiveOrderItem
			if rawRef := firstField(fields, "item_id", "itemId", "id", "item_ref"); rawRef != nil {
				if err := json.Unmarshal(rawRef, &item.ItemRef); err != nil {
					return nil, err
				}
			}
			if rawQty := firstField(fields, "quantity", "qty"); rawQty != nil {
				if err := json.Unmarshal(rawQty, &item.Quantity); err != nil {
					return nil, err
				}
			}
			if rawNote := firstField(fields, "note", "notes"); rawNote != nil {
				if err := json.Unmarshal(rawNote, &item.Note); err != nil {
					return nil, err
				}
			}
			items = append(items, item)
		}
		return items, nil
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &byID); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]ActiveOrderItem, 0, len(ids))
	for _, id := range ids {
		ref, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("item key %q is not an item id: %w", id, err)
		}
		item := ActiveOrderItem{ItemRef: ref}
		rawVal := bytes.TrimSpace(byID[id])
		if len(rawVal) > 0 && rawVal[0] == '{' {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(rawVal, &fields); err != nil {
				return nil, err
			}
			if rawQty := firstField(fields, "quantity", "qty"); rawQty != nil {
				if err := json.Unmarshal(rawQty, &item.Quantity); err != nil {
					return nil, err
				}
			}
			if rawNote := firstField(fields, "note", "notes"); rawNote != nil {
				if err := json.Unmarshal(rawNote, &item.Note); err != nil {
					return nil, err
				}
			}
		} else {
			if err := json.Unmarshal(rawVal, &item.Quantity); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func firstField(fields map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, key := range keys {
		if raw, ok := fields[key]; ok {
			return raw
		}
	}
	return nil
}
