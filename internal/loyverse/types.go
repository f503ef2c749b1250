package loyverse

import (
	"encoding/json"
	"strings"

	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

// Wire shapes of the Loyverse records. Several money fields exist under two names
// depending on API version and on whether the record came from a webhook or a list call.

type Receipt struct {
	ID             string            `json:"id"`
	ReceiptNumber  string            `json:"receipt_number"`
	ReceiptType    string            `json:"receipt_type"`
	ReceiptStatus  string            `json:"receipt_status"`
	StoreID        string            `json:"store_id"`
	EmployeeID     string            `json:"employee_id"`
	EmployeeName   string            `json:"employee_name"`
	CustomerID     string            `json:"customer_id"`
	CustomerName   string            `json:"customer_name"`
	ShiftID        string            `json:"shift_id"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
	ClosedAt       string            `json:"closed_at"`
	ReceiptDate    string            `json:"receipt_date"`
	CancelledAt    string            `json:"cancelled_at"`
	Subtotal       *utility.Decimal  `json:"subtotal"`
	TotalDiscount  *utility.Decimal  `json:"total_discount"`
	TotalDiscounts *utility.Decimal  `json:"total_discounts"`
	TotalTax       *utility.Decimal  `json:"total_tax"`
	TotalTaxes     *utility.Decimal  `json:"total_taxes"`
	TotalMoney     *utility.Decimal  `json:"total_money"`
	Total          *utility.Decimal  `json:"total"`
	Payments       []ReceiptPayment  `json:"payments"`
	LineItems      []ReceiptLineItem `json:"line_items"`
}

type ReceiptPayment struct {
	Type        string           `json:"type"`
	Name        string           `json:"name"`
	MoneyAmount *utility.Decimal `json:"money_amount"`
	Amount      *utility.Decimal `json:"amount"`
}

type ReceiptLineItem struct {
	ItemID        string           `json:"item_id"`
	ItemName      string           `json:"item_name"`
	CategoryName  string           `json:"category_name"`
	Quantity      *utility.Decimal `json:"quantity"`
	Price         *utility.Decimal `json:"price"`
	TotalDiscount *utility.Decimal `json:"total_discount"`
	Discount      *utility.Decimal `json:"discount"`
	TotalTax      *utility.Decimal `json:"total_tax"`
	Tax           *utility.Decimal `json:"tax"`
	TotalMoney    *utility.Decimal `json:"total_money"`
	Total         *utility.Decimal `json:"total"`
}

type Shift struct {
	ID                string           `json:"id"`
	StoreID           string           `json:"store_id"`
	EmployeeID        string           `json:"employee_id"`
	OpeningEmployeeID string           `json:"opening_employee_id"`
	ClosingEmployeeID string           `json:"closing_employee_id"`
	OpenedAt          string           `json:"opened_at"`
	ClosedAt          string           `json:"closed_at"`
	CreatedAt         string           `json:"created_at"`
	UpdatedAt         string           `json:"updated_at"`
	OpeningAmount     *utility.Decimal `json:"opening_amount"`
	StartingCash      *utility.Decimal `json:"starting_cash"`
	ClosingAmount     *utility.Decimal `json:"closing_amount"`
	ActualCash        *utility.Decimal `json:"actual_cash"`
	ExpectedAmount    *utility.Decimal `json:"expected_amount"`
	ExpectedCash      *utility.Decimal `json:"expected_cash"`
	Difference        *utility.Decimal `json:"difference"`
	CashPayments      *utility.Decimal `json:"cash_payments"`
	PaidIn            *utility.Decimal `json:"paid_in"`
	PaidOut           *utility.Decimal `json:"paid_out"`
	OpeningNote       string           `json:"opening_note"`
	ClosingNote       string           `json:"closing_note"`
}

type InventoryChange struct {
	ID        string           `json:"id"`
	StoreID   string           `json:"store_id"`
	ItemID    string           `json:"item_id"`
	VariantID string           `json:"variant_id"`
	Type      string           `json:"type"`
	Quantity  *utility.Decimal `json:"quantity"`
	Cost      *utility.Decimal `json:"cost"`
	Notes     string           `json:"notes"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

type Item struct {
	ID           string           `json:"id"`
	ItemName     string           `json:"item_name"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku"`
	ReferenceID  string           `json:"reference_id"`
	CategoryID   string           `json:"category_id"`
	Barcode      string           `json:"barcode"`
	TrackStock   bool             `json:"track_stock"`
	SoldByWeight bool             `json:"sold_by_weight"`
	Price        *utility.Decimal `json:"price"`
	DefaultPrice *utility.Decimal `json:"default_price"`
	Cost         *utility.Decimal `json:"cost"`
	Variants     []ItemVariant    `json:"variants"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

type ItemVariant struct {
	VariantID    string           `json:"variant_id"`
	SKU          string           `json:"sku"`
	Barcode      string           `json:"barcode"`
	DefaultPrice *utility.Decimal `json:"default_price"`
	Cost         *utility.Decimal `json:"cost"`
}

type Employee struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	PhoneNumber string            `json:"phone_number"`
	Role        string            `json:"role"`
	IsOwner     bool              `json:"is_owner"`
	Stores      []json.RawMessage `json:"stores"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// StoreIDs reads "stores", which is either a list of ids or a list of {store_id} objects.
func (e Employee) StoreIDs() []string {
	ids := make([]string, 0, len(e.Stores))
	for _, raw := range e.Stores {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			if id != "" {
				ids = append(ids, id)
			}
			continue
		}
		var obj struct {
			StoreID string `json:"store_id"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			if obj.StoreID != "" {
				ids = append(ids, obj.StoreID)
			} else if obj.ID != "" {
				ids = append(ids, obj.ID)
			}
		}
	}
	return ids
}

type Store struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Address     json.RawMessage `json:"address"`
	City        string          `json:"city"`
	Region      string          `json:"region"`
	State       string          `json:"state"`
	PostalCode  string          `json:"postal_code"`
	CountryCode string          `json:"country_code"`
	Country     string          `json:"country"`
	PhoneNumber string          `json:"phone_number"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// StoreAddress is the flattened address of a store.
type StoreAddress struct {
	Line       string
	City       string
	State      string
	PostalCode string
	Country    string
}

// FlatAddress merges the top level fields with "address", which may be a string or an object.
func (s Store) FlatAddress() StoreAddress {
	out := StoreAddress{
		City:       s.City,
		State:      firstString(s.Region, s.State),
		PostalCode: s.PostalCode,
		Country:    firstString(s.CountryCode, s.Country),
	}
	if len(s.Address) == 0 || string(s.Address) == "null" {
		return out
	}
	var line string
	if err := json.Unmarshal(s.Address, &line); err == nil {
		out.Line = line
		return out
	}
	var obj struct {
		Line1      string `json:"address_line_1"`
		Line2      string `json:"address_line_2"`
		City       string `json:"city"`
		State      string `json:"state"`
		PostalCode string `json:"postal_code"`
		Country    string `json:"country"`
	}
	if err := json.Unmarshal(s.Address, &obj); err == nil {
		out.Line = strings.TrimSpace(strings.Join([]string{obj.Line1, obj.Line2}, " "))
		out.City = firstString(out.City, obj.City)
		out.State = firstString(out.State, obj.State)
		out.PostalCode = firstString(out.PostalCode, obj.PostalCode)
		out.Country = firstString(out.Country, obj.Country)
	}
	return out
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
