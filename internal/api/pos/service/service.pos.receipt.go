package possvc

import (
	"context"
	"time"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DailyTotal is the closed sales of one UTC day.
type DailyTotal struct {
	Date         string          `json:"date" bson:"_id"`
	TotalSales   utility.Decimal `json:"total_sales" bson:"total_sales"`
	ReceiptCount int64           `json:"receipt_count" bson:"receipt_count"`
}

// PaymentTotal is the closed sales of one payment method on one UTC day.
type PaymentTotal struct {
	Date   string          `json:"date" bson:"date"`
	Method string          `json:"method" bson:"method"`
	Total  utility.Decimal `json:"total" bson:"total"`
}

// MethodTotal is the closed sales of one payment method over a window.
type MethodTotal struct {
	Method string          `json:"method" bson:"_id"`
	Total  utility.Decimal `json:"total" bson:"total"`
}

// ReceiptService stores receipts and aggregates closed sales.
type ReceiptService struct {
	*EntityService[posmodels.Receipt]
}

func NewReceiptService() (*ReceiptService, error) {
	base, err := NewEntityService[posmodels.Receipt](global.MongoDB_ColNames.Receipts, "receipt")
	if err != nil {
		return nil, err
	}
	return &ReceiptService{EntityService: base}, nil
}

// closedMatch selects closed receipts of storeID (all stores when empty) with
// closed_at in [from, to].
func closedMatch(storeID string, from, to time.Time) bson.D {
	match := bson.D{
		{Key: "status", Value: posmodels.ReceiptClosed},
		{Key: "closed_at", Value: bson.M{"$gte": from, "$lte": to}},
	}
	if storeID != "" {
		match = append(bson.D{{Key: "store_id", Value: storeID}}, match...)
	}
	return match
}

var dayOfClosedAt = bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$closed_at", "timezone": "UTC"}}

func dailyTotalsPipeline(storeID string, from, to time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: closedMatch(storeID, from, to)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: dayOfClosedAt},
			{Key: "total_sales", Value: bson.M{"$sum": "$total"}},
			{Key: "receipt_count", Value: bson.M{"$sum": 1}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func paymentTotalsPipeline(storeID string, from, to time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: closedMatch(storeID, from, to)}},
		{{Key: "$unwind", Value: "$payments"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "date", Value: dayOfClosedAt}, {Key: "method", Value: "$payments.method"}}},
			{Key: "total", Value: bson.M{"$sum": "$payments.amount"}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: "$_id.date"},
			{Key: "method", Value: "$_id.method"},
			{Key: "total", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}, {Key: "method", Value: 1}}}},
	}
}

func methodTotalsPipeline(storeID string, from, to time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: closedMatch(storeID, from, to)}},
		{{Key: "$unwind", Value: "$payments"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$payments.method"},
			{Key: "total", Value: bson.M{"$sum": "$payments.amount"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// TotalsByDateRange returns closed sales per UTC day of closed_at.
func (s *ReceiptService) TotalsByDateRange(ctx context.Context, storeID string, from, to time.Time) ([]DailyTotal, error) {
	out := []DailyTotal{}
	if err := s.Aggregate(ctx, dailyTotalsPipeline(storeID, from, to), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalsByPaymentMethod returns closed sales per UTC day and payment method.
func (s *ReceiptService) TotalsByPaymentMethod(ctx context.Context, storeID string, from, to time.Time) ([]PaymentTotal, error) {
	out := []PaymentTotal{}
	if err := s.Aggregate(ctx, paymentTotalsPipeline(storeID, from, to), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalsByMethod returns closed sales per payment method over the whole window.
func (s *ReceiptService) TotalsByMethod(ctx context.Context, storeID string, from, to time.Time) ([]MethodTotal, error) {
	out := []MethodTotal{}
	if err := s.Aggregate(ctx, methodTotalsPipeline(storeID, from, to), &out); err != nil {
		return nil, err
	}
	return out, nil
}
