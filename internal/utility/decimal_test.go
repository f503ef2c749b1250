package utility

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type moneyDoc struct {
	Amount Decimal  `bson:"amount" json:"amount"`
	Opt    *Decimal `bson:"opt,omitempty" json:"opt,omitempty"`
}

func TestDecimalArithmetic(t *testing.T) {
	t.Run("💰 no float drift", func(t *testing.T) {
		sum := MustDecimal("0.1").Add(MustDecimal("0.2"))
		assert.True(t, sum.Equal(MustDecimal("0.3")))
	})

	t.Run("➗ division by zero is zero", func(t *testing.T) {
		assert.True(t, MustDecimal("10").Div(ZeroDecimal).IsZero())
	})

	t.Run("🥇 first non-nil", func(t *testing.T) {
		v := MustDecimal("4.20")
		assert.True(t, FirstDecimal(nil, &v).Equal(v))
		assert.True(t, FirstDecimal(nil, nil).IsZero())
	})
}

func TestDecimalJSON(t *testing.T) {
	t.Run("📤 encodes as string", func(t *testing.T) {
		b, err := json.Marshal(moneyDoc{Amount: MustDecimal("548.50")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"548.5"}`, string(b))
	})

	t.Run("📥 accepts numbers and strings", func(t *testing.T) {
		var a, b moneyDoc
		require.NoError(t, json.Unmarshal([]byte(`{"amount":12.75}`), &a))
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.75"}`), &b))
		assert.True(t, a.Amount.Equal(b.Amount))
		assert.True(t, a.Amount.Equal(MustDecimal("12.75")))
	})

	t.Run("🕳️ null is zero", func(t *testing.T) {
		var d moneyDoc
		require.NoError(t, json.Unmarshal([]byte(`{"amount":null}`), &d))
		assert.True(t, d.Amount.IsZero())
	})

	t.Run("❌ garbage", func(t *testing.T) {
		var d moneyDoc
		assert.Error(t, json.Unmarshal([]byte(`{"amount":"abc"}`), &d))
	})
}

func TestDecimalBSON(t *testing.T) {
	t.Run("🗄️ round trips through Decimal128", func(t *testing.T) {
		opt := MustDecimal("-1.50")
		raw, err := bson.Marshal(moneyDoc{Amount: MustDecimal("550.00"), Opt: &opt})
		require.NoError(t, err)

		var doc bson.Raw = raw
		assert.Equal(t, bsontype.Decimal128, doc.Lookup("amount").Type)

		var out moneyDoc
		require.NoError(t, bson.Unmarshal(raw, &out))
		assert.True(t, out.Amount.Equal(MustDecimal("550")))
		require.NotNil(t, out.Opt)
		assert.True(t, out.Opt.Equal(MustDecimal("-1.5")))
	})

	t.Run("🔢 reads legacy doubles and ints", func(t *testing.T) {
		raw, err := bson.Marshal(bson.M{"amount": 12.5})
		require.NoError(t, err)
		var out moneyDoc
		require.NoError(t, bson.Unmarshal(raw, &out))
		assert.True(t, out.Amount.Equal(MustDecimal("12.5")))

		raw, err = bson.Marshal(bson.M{"amount": int32(7)})
		require.NoError(t, err)
		require.NoError(t, bson.Unmarshal(raw, &out))
		assert.True(t, out.Amount.Equal(MustDecimal("7")))
	})
}
