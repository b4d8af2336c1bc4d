package billsplitv1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_MoneyHasTwoDecimals(t *testing.T) {
	split := &PersonSplit{
		Person:   "A",
		Subtotal: NewMoney(decimal.RequireFromString("60")),
		TotalDue: NewMoney(decimal.RequireFromString("73.2")),
	}
	data, err := Codec{}.Marshal(split)
	require.NoError(t, err)
	assert.JSONEq(t, `{"person":"A","subtotal":"60.00","tax_share":"0.00","service_share":"0.00","total_due":"73.20"}`, string(data))

	var got PersonSplit
	require.NoError(t, Codec{}.Unmarshal(data, &got))
	assert.True(t, got.TotalDue.Equal(decimal.RequireFromString("73.2")))
}

func TestCodec_Unmarshal(t *testing.T) {
	var req AddItemRequest
	require.NoError(t, Codec{}.Unmarshal(nil, &req))

	require.NoError(t, Codec{}.Unmarshal([]byte(`{"participant_id":"p","label":"Tea","price":2.5}`), &req))
	assert.Equal(t, "Tea", req.Label)
	assert.True(t, req.Price.Equal(decimal.RequireFromString("2.5")))

	assert.Error(t, Codec{}.Unmarshal([]byte(`{"unknown":1}`), &req))
}
