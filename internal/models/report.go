package models

const (
	MismatchSourceNormalized   = "normalized"
	MismatchSourceDenormalized = "denormalized"
)

const (
	DiscrepancyActiveOrderOnly    = "active_order_only"
	DiscrepancyUpcomingOrdersOnly = "upcoming_orders_only"
)

// ItemLine is a resolved line item for operator review. Denormalized-scan
// lines carry zero unit/total values because the legacy document never stored
// them; recompute from item reference prices downstream if needed.
type ItemLine struct {
	ItemRef    int     `json:"item_ref"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitValue  float64 `json:"unit_value"`
	TotalValue float64 `json:"total_value"`
	Note       string  `json:"note,omitempty"`
}

// VendorDayMismatch - for GET /consistency/mismatches
type VendorDayMismatch struct {
	ClientID            int        `json:"client_id"`
	ClientName          string     `json:"client_name"`
	ServiceType         string     `json:"service_type"`
	DeliveryDay         string     `json:"delivery_day"`
	VendorID            int        `json:"vendor_id"`
	VendorName          string     `json:"vendor_name"`
	VendorSupportedDays []string   `json:"vendor_supported_days"`
	Source              string     `json:"source"`
	ItemCount           int        `json:"item_count"`
	Items               []ItemLine `json:"items"`
	SingleDay           bool       `json:"single_day"`
}

// OrderSummary is one flattened block of the active-order document: a plain
// vendor selection, a meal selection, a box order, or a per-day selection,
// all reduced to a uniform vendor-plus-items view.
type OrderSummary struct {
	VendorName  string     `json:"vendor_name"`
	DeliveryDay string     `json:"delivery_day,omitempty"`
	MealType    string     `json:"meal_type,omitempty"`
	BoxType     string     `json:"box_type,omitempty"`
	Items       []ItemLine `json:"items"`
}

// UpcomingOrderSummary describes one scheduled normalized order for the
// discrepancy report.
type UpcomingOrderSummary struct {
	OrderID     int            `json:"order_id"`
	DeliveryDay string         `json:"delivery_day,omitempty"`
	ServiceType string         `json:"service_type"`
	Vendors     []OrderSummary `json:"vendors"`
}

// Discrepancy - for GET /consistency/discrepancies
type Discrepancy struct {
	ClientID             int                    `json:"client_id"`
	ClientName           string                 `json:"client_name"`
	ServiceType          string                 `json:"service_type"`
	DiscrepancyType      string                 `json:"discrepancy_type"`
	ActiveOrderDetails   []OrderSummary         `json:"active_order_details,omitempty"`
	UpcomingOrderDetails []UpcomingOrderSummary `json:"upcoming_order_details,omitempty"`
}

// ReassignRequest - for POST /consistency/reassign
type ReassignRequest struct {
	ClientID int    `json:"client_id"`
	OldDay   string `json:"old_day"`
	NewDay   string `json:"new_day"`
	VendorID *int   `json:"vendor_id,omitempty"`
}

type ReassignResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	OrdersMoved   int    `json:"orders_moved"`
	OrdersMerged  int    `json:"orders_merged"`
	DocumentMoved bool   `json:"document_moved"`
}

// BatchFixFailure records one failed reassignment in the auto-fix queue.
type BatchFixFailure struct {
	ClientID int    `json:"client_id"`
	OldDay   string `json:"old_day"`
	NewDay   string `json:"new_day"`
	VendorID int    `json:"vendor_id"`
	Error    string `json:"error"`
}

// BatchFixResult - for POST /consistency/reassign/auto-fix
type BatchFixResult struct {
	Attempted int               `json:"attempted"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Failures  []BatchFixFailure `json:"failures,omitempty"`
}

// ClientMealTypeIssue lists the invalid selection-map keys on one client.
type ClientMealTypeIssue struct {
	ClientID    int      `json:"client_id"`
	ClientName  string   `json:"client_name"`
	InvalidKeys []string `json:"invalid_keys"`
}

// OrderMealTypeIssue is a non-processed upcoming order whose meal_type no
// longer matches any category.
type OrderMealTypeIssue struct {
	OrderID  int    `json:"order_id"`
	ClientID int    `json:"client_id"`
	MealType string `json:"meal_type"`
}

// MealTypeAuditReport - for GET /consistency/meal-types/audit
type MealTypeAuditReport struct {
	ValidMealTypes []string              `json:"valid_meal_types"`
	ClientIssues   []ClientMealTypeIssue `json:"client_issues"`
	OrderIssues    []OrderMealTypeIssue  `json:"order_issues"`
}

// MealTypeCleanRequest - for POST /consistency/meal-types/clean
type MealTypeCleanRequest struct {
	ClientIDs []int `json:"client_ids,omitempty"`
	OrderIDs  []int `json:"order_ids,omitempty"`
	CleanAll  bool  `json:"clean_all,omitempty"`
}

type MealTypeCleanResult struct {
	RemovedSelectionKeys int `json:"removed_selection_keys"`
	ClearedOrderFields   int `json:"cleared_order_fields"`
}
