package loyversesvc

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestTransformReceipt(t *testing.T) {
	raw := `{"id":"r-1","receipt_number":"2-0042","receipt_type":"REFUND","store_id":"s-1",
		"created_at":"2024-05-10T09:00:00Z","receipt_date":"2024-05-10T09:01:00Z",
		"total_money":"10.00","total_discounts":1,"total_taxes":"0.5",
		"payments":[{"name":"Visa","amount":10}]}`
	r := decode[loyverse.Receipt](t, raw)

	t.Run("💸 refund with legacy field names", func(t *testing.T) {
		doc, err := TransformReceipt(r, OriginWebhook, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, posmodels.ReceiptRefunded, doc.Status)
		assert.Equal(t, "2-0042", doc.Number)
		assert.Equal(t, "1", doc.DiscountTotal.String())
		assert.Equal(t, "0.5", doc.TaxTotal.String())
		assert.Equal(t, "Visa", doc.Payments[0].Method)
		assert.Equal(t, "10", doc.Payments[0].Amount.String())
		assert.Equal(t, "2024-05-10T09:01:00Z", doc.ClosedAt.Format(time.RFC3339))
		assert.Equal(t, posmodels.SourceLoyverse, doc.Meta.Source)
		assert.Equal(t, posmodels.SchemaVersion, doc.Meta.SchemaVersion)
	})

	t.Run("🕰️ last modified fallback depends on origin", func(t *testing.T) {
		withClose := r
		withClose.ClosedAt = "2024-05-10T09:30:00Z"

		fromHook, err := TransformReceipt(withClose, OriginWebhook, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-10T09:30:00Z", fromHook.Meta.LastModifiedAt.Format(time.RFC3339))

		fromSync, err := TransformReceipt(withClose, OriginSync, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-10T09:00:00Z", fromSync.Meta.LastModifiedAt.Format(time.RFC3339))

		withClose.UpdatedAt = "2024-05-11T00:00:00Z"
		updated, err := TransformReceipt(withClose, OriginSync, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-11T00:00:00Z", updated.Meta.LastModifiedAt.Format(time.RFC3339))
	})

	t.Run("🔁 same input, same document", func(t *testing.T) {
		a, err := TransformReceipt(r, OriginSync, fixedNow)
		require.NoError(t, err)
		b, err := TransformReceipt(r, OriginSync, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("❌ required fields", func(t *testing.T) {
		_, err := TransformReceipt(loyverse.Receipt{StoreID: "s-1"}, OriginSync, fixedNow)
		var te *TransformError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "missing id", te.Reason)

		_, err = TransformReceipt(loyverse.Receipt{ID: "r-2"}, OriginSync, fixedNow)
		assert.ErrorContains(t, err, "store_id")

		_, err = TransformReceipt(loyverse.Receipt{ID: "r-3", StoreID: "s", CreatedAt: "yesterday"}, OriginSync, fixedNow)
		assert.ErrorContains(t, err, "invalid timestamp")
	})

	t.Run("🚫 cancelled receipt is void", func(t *testing.T) {
		v := r
		v.CancelledAt = "2024-05-10T10:00:00Z"
		doc, err := TransformReceipt(v, OriginSync, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, posmodels.ReceiptVoid, doc.Status)
	})
}

func TestTransformShift(t *testing.T) {
	raw := `{"id":"sh-1","store_id":"s-1","opening_employee_id":"e-1","opened_at":"2024-05-10T08:00:00Z",
		"closed_at":"2024-05-10T18:00:00Z","starting_cash":100,"actual_cash":"548.50","expected_cash":550,
		"difference":"-1.50","cash_payments":450,"paid_in":5,"paid_out":"2","opening_note":"float ok","closing_note":"short"}`
	doc, err := TransformShift(decode[loyverse.Shift](t, raw), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, posmodels.ShiftClosed, doc.Status)
	assert.Equal(t, "e-1", doc.EmployeeID)
	assert.Equal(t, "100", doc.OpeningCash.String())
	assert.Equal(t, "548.5", doc.CountedCash.String())
	assert.Equal(t, "-1.5", doc.CashDifference.String())
	assert.Equal(t, "450", doc.CashSales.String())
	assert.Equal(t, "float ok\nshort", doc.Notes)
	assert.Equal(t, "2024-05-10T08:00:00Z", doc.Meta.LastModifiedAt.Format(time.RFC3339))

	t.Run("🟢 open without closed_at", func(t *testing.T) {
		open, err := TransformShift(loyverse.Shift{ID: "sh-2", StoreID: "s-1", OpenedAt: "2024-05-10T08:00:00Z"}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, posmodels.ShiftOpen, open.Status)
		assert.Nil(t, open.ClosedAt)
	})

	t.Run("❌ opened_at required", func(t *testing.T) {
		_, err := TransformShift(loyverse.Shift{ID: "sh-3", StoreID: "s-1"}, fixedNow)
		assert.ErrorContains(t, err, "opened_at")
	})
}

func TestTransformCatalog(t *testing.T) {
	t.Run("🏷️ item price falls back to the first variant", func(t *testing.T) {
		it := decode[loyverse.Item](t, `{"id":"i-1","name":"Té","variants":[{"sku":"T1","default_price":"2.75","cost":1}]}`)
		doc, err := TransformItem(it, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Té", doc.Name)
		assert.Equal(t, "T1", doc.SKU)
		assert.Equal(t, "2.75", doc.Price.String())
		assert.Equal(t, "1", doc.Cost.String())
		assert.Equal(t, fixedNow, *doc.Meta.LastModifiedAt)
	})

	t.Run("👥 employee stores as objects", func(t *testing.T) {
		e := decode[loyverse.Employee](t, `{"id":"e-1","name":"Ana","email":" Ana@Shop.EC ","stores":[{"store_id":"s-1"},"s-2"]}`)
		doc, err := TransformEmployee(e, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, []string{"s-1", "s-2"}, doc.StoreIDs)
		assert.Equal(t, "ana@shop.ec", doc.Email)
	})

	t.Run("🏪 store address object", func(t *testing.T) {
		s := decode[loyverse.Store](t, `{"id":"s-1","name":"Centro","address":{"address_line_1":"Av. 10","city":"Quito"},"region":"Pichincha","country_code":"EC"}`)
		doc, err := TransformStore(s, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Av. 10", doc.Address)
		assert.Equal(t, "Quito", doc.City)
		assert.Equal(t, "Pichincha", doc.State)
		assert.Equal(t, "EC", doc.Country)
	})

	t.Run("📦 inventory type defaults to adjustment", func(t *testing.T) {
		doc, err := TransformInventory(loyverse.InventoryChange{ID: "m-1", StoreID: "s-1", ItemID: "i-1", Notes: "recount"}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, posmodels.MovementAdjustment, doc.Type)
		assert.Equal(t, "i-1", doc.ItemLoyverseID)
		assert.Equal(t, "recount", doc.Reason)
		assert.Equal(t, fixedNow, doc.OccurredAt)
	})
}
