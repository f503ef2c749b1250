package loyversesvc

import (
	"fmt"
	"strings"
	"time"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

// Origin tells a transform where the record came from. Receipts pick a different
// last-modified fallback for each.
type Origin int

const (
	OriginWebhook Origin = iota
	OriginSync
)

// TransformError is a record that cannot be mapped to the local model.
type TransformError struct {
	Entity string
	ID     string
	Reason string
}

func (e *TransformError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Reason)
}

func missing(entity, id, field string) error {
	return &TransformError{Entity: entity, ID: id, Reason: "missing " + field}
}

// parseTimes parses every value, failing on the first malformed one.
func parseTimes(entity, id string, values ...string) ([]*time.Time, error) {
	out := make([]*time.Time, len(values))
	for i, v := range values {
		t, err := utility.ParseUpstreamTime(v)
		if err != nil {
			return nil, &TransformError{Entity: entity, ID: id, Reason: err.Error()}
		}
		out[i] = t
	}
	return out, nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func receiptStatus(r loyverse.Receipt) string {
	if r.CancelledAt != "" {
		return posmodels.ReceiptVoid
	}
	if strings.EqualFold(r.ReceiptType, "REFUND") {
		return posmodels.ReceiptRefunded
	}
	switch s := strings.ToLower(strings.TrimSpace(r.ReceiptStatus)); s {
	case posmodels.ReceiptClosed, posmodels.ReceiptRefunded, posmodels.ReceiptVoid:
		return s
	case "refund":
		return posmodels.ReceiptRefunded
	}
	return posmodels.ReceiptClosed
}

// TransformReceipt maps an upstream receipt. closed_at falls back to receipt_date and
// then created_at.
func TransformReceipt(r loyverse.Receipt, origin Origin, now time.Time) (posmodels.Receipt, error) {
	if r.ID == "" {
		return posmodels.Receipt{}, missing("receipt", "", "id")
	}
	if r.StoreID == "" {
		return posmodels.Receipt{}, missing("receipt", r.ID, "store_id")
	}
	ts, err := parseTimes("receipt", r.ID, r.CreatedAt, r.ClosedAt, r.ReceiptDate, r.UpdatedAt)
	if err != nil {
		return posmodels.Receipt{}, err
	}
	created, closed, receiptDate, updated := ts[0], ts[1], ts[2], ts[3]

	lastModified := utility.FirstTime(updated, closed, created)
	if origin == OriginSync {
		lastModified = utility.FirstTime(updated, created)
	}

	nowUTC := now.UTC()
	payments := make([]posmodels.Payment, 0, len(r.Payments))
	for _, p := range r.Payments {
		payments = append(payments, posmodels.Payment{
			Method: firstString(p.Type, p.Name),
			Amount: utility.FirstDecimal(p.MoneyAmount, p.Amount),
		})
	}
	lines := make([]posmodels.LineItem, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		lines = append(lines, posmodels.LineItem{
			ItemLoyverseID: li.ItemID,
			Name:           li.ItemName,
			Category:       li.CategoryName,
			Quantity:       utility.FirstDecimal(li.Quantity),
			Price:          utility.FirstDecimal(li.Price),
			Discount:       utility.FirstDecimal(li.TotalDiscount, li.Discount),
			Tax:            utility.FirstDecimal(li.TotalTax, li.Tax),
			Total:          utility.FirstDecimal(li.TotalMoney, li.Total),
		})
	}

	return posmodels.Receipt{
		LoyverseID:    r.ID,
		StoreID:       r.StoreID,
		Number:        r.ReceiptNumber,
		Status:        receiptStatus(r),
		CreatedAt:     *firstOrNow(nowUTC, created, closed, receiptDate),
		ClosedAt:      *firstOrNow(nowUTC, closed, receiptDate, created),
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		Subtotal:      utility.FirstDecimal(r.Subtotal),
		DiscountTotal: utility.FirstDecimal(r.TotalDiscount, r.TotalDiscounts),
		TaxTotal:      utility.FirstDecimal(r.TotalTax, r.TotalTaxes),
		Total:         utility.FirstDecimal(r.TotalMoney, r.Total),
		Payments:      payments,
		LineItems:     lines,
		ShiftID:       r.ShiftID,
		Meta:          posmodels.NewMetaData(posmodels.SourceLoyverse, lastModified, nowUTC),
	}, nil
}

func firstOrNow(now time.Time, values ...*time.Time) *time.Time {
	if t := utility.FirstTime(values...); t != nil {
		return t
	}
	return &now
}

// TransformShift maps an upstream shift. It is closed iff closed_at is set.
func TransformShift(s loyverse.Shift, now time.Time) (posmodels.Shift, error) {
	if s.ID == "" {
		return posmodels.Shift{}, missing("shift", "", "id")
	}
	if s.StoreID == "" {
		return posmodels.Shift{}, missing("shift", s.ID, "store_id")
	}
	if s.OpenedAt == "" {
		return posmodels.Shift{}, missing("shift", s.ID, "opened_at")
	}
	ts, err := parseTimes("shift", s.ID, s.OpenedAt, s.ClosedAt, s.UpdatedAt)
	if err != nil {
		return posmodels.Shift{}, err
	}
	opened, closed, updated := ts[0], ts[1], ts[2]

	status := posmodels.ShiftOpen
	if closed != nil {
		status = posmodels.ShiftClosed
	}

	var notes []string
	for _, n := range []string{s.OpeningNote, s.ClosingNote} {
		if n = strings.TrimSpace(n); n != "" {
			notes = append(notes, n)
		}
	}

	return posmodels.Shift{
		LoyverseID:     s.ID,
		StoreID:        s.StoreID,
		EmployeeID:     firstString(s.EmployeeID, s.OpeningEmployeeID, s.ClosingEmployeeID),
		Status:         status,
		OpenedAt:       *opened,
		ClosedAt:       closed,
		OpeningCash:    utility.FirstDecimal(s.OpeningAmount, s.StartingCash),
		CashSales:      utility.FirstDecimal(s.CashPayments),
		CardSales:      utility.ZeroDecimal,
		OtherSales:     utility.ZeroDecimal,
		ExpectedCash:   utility.FirstDecimal(s.ExpectedAmount, s.ExpectedCash),
		CountedCash:    utility.FirstDecimal(s.ClosingAmount, s.ActualCash),
		CashDifference: utility.FirstDecimal(s.Difference),
		PayInTotal:     utility.FirstDecimal(s.PaidIn),
		PayOutTotal:    utility.FirstDecimal(s.PaidOut),
		Notes:          strings.Join(notes, "\n"),
		Meta:           posmodels.NewMetaData(posmodels.SourceLoyverse, utility.FirstTime(updated, opened), now),
	}, nil
}

// TransformInventory maps an inventory change. The type defaults to adjustment.
func TransformInventory(ch loyverse.InventoryChange, now time.Time) (posmodels.InventoryMovement, error) {
	if ch.ID == "" {
		return posmodels.InventoryMovement{}, missing("inventory_movement", "", "id")
	}
	ts, err := parseTimes("inventory_movement", ch.ID, ch.CreatedAt, ch.UpdatedAt)
	if err != nil {
		return posmodels.InventoryMovement{}, err
	}
	created, updated := ts[0], ts[1]

	movementType := strings.ToLower(strings.TrimSpace(ch.Type))
	if movementType == "" {
		movementType = posmodels.MovementAdjustment
	}

	return posmodels.InventoryMovement{
		LoyverseID:     ch.ID,
		StoreID:        ch.StoreID,
		ItemLoyverseID: ch.ItemID,
		Type:           movementType,
		Quantity:       utility.FirstDecimal(ch.Quantity),
		Cost:           utility.FirstDecimal(ch.Cost),
		OccurredAt:     *firstOrNow(now.UTC(), created),
		Reason:         ch.Notes,
		Meta:           posmodels.NewMetaData(posmodels.SourceLoyverse, utility.FirstTime(updated, created), now),
	}, nil
}

// TransformItem maps a catalogue item. Price and cost fall back to the first variant.
func TransformItem(it loyverse.Item, now time.Time) (posmodels.Item, error) {
	if it.ID == "" {
		return posmodels.Item{}, missing("item", "", "id")
	}
	ts, err := parseTimes("item", it.ID, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return posmodels.Item{}, err
	}

	var variant loyverse.ItemVariant
	if len(it.Variants) > 0 {
		variant = it.Variants[0]
	}

	return posmodels.Item{
		LoyverseID:   it.ID,
		Name:         firstString(it.ItemName, it.Name),
		SKU:          firstString(it.SKU, variant.SKU),
		ReferenceID:  it.ReferenceID,
		CategoryID:   it.CategoryID,
		Price:        utility.FirstDecimal(it.Price, it.DefaultPrice, variant.DefaultPrice),
		Cost:         utility.FirstDecimal(it.Cost, variant.Cost),
		Barcode:      firstString(it.Barcode, variant.Barcode),
		TrackStock:   it.TrackStock,
		SoldByWeight: it.SoldByWeight,
		Meta:         posmodels.NewMetaData(posmodels.SourceLoyverse, utility.FirstTime(ts[1], ts[0]), now),
	}, nil
}

// TransformEmployee maps an employee. stores may hold ids or {store_id} objects.
func TransformEmployee(e loyverse.Employee, now time.Time) (posmodels.Employee, error) {
	if e.ID == "" {
		return posmodels.Employee{}, missing("employee", "", "id")
	}
	ts, err := parseTimes("employee", e.ID, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return posmodels.Employee{}, err
	}
	return posmodels.Employee{
		LoyverseID: e.ID,
		Name:       e.Name,
		Email:      strings.ToLower(strings.TrimSpace(e.Email)),
		Phone:      e.PhoneNumber,
		Role:       e.Role,
		StoreIDs:   e.StoreIDs(),
		IsOwner:    e.IsOwner,
		Meta:       posmodels.NewMetaData(posmodels.SourceLoyverse, utility.FirstTime(ts[1], ts[0]), now),
	}, nil
}

// TransformStore maps a store with its address flattened.
func TransformStore(s loyverse.Store, now time.Time) (posmodels.Store, error) {
	if s.ID == "" {
		return posmodels.Store{}, missing("store", "", "id")
	}
	ts, err := parseTimes("store", s.ID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return posmodels.Store{}, err
	}
	addr := s.FlatAddress()
	return posmodels.Store{
		LoyverseID:  s.ID,
		Name:        s.Name,
		Address:     addr.Line,
		City:        addr.City,
		State:       addr.State,
		PostalCode:  addr.PostalCode,
		Country:     addr.Country,
		Phone:       s.PhoneNumber,
		Description: s.Description,
		Meta:        posmodels.NewMetaData(posmodels.SourceLoyverse, utility.FirstTime(ts[1], ts[0]), now),
	}, nil
}
