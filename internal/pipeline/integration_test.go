package pipeline

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
	"github.com/medsift/medsift/internal/testutil"
)

func TestProcess_Fixtures(t *testing.T) {
	p := newPipeline(t)

	t.Run("clean INR bill", func(t *testing.T) {
		result := p.Process(context.Background(), Request{Text: testutil.CleanINRBill()})

		assert.Equal(t, model.StatusOK, result.Status)
		require.NotNil(t, result.Currency)
		assert.Equal(t, model.CurrencyINR, *result.Currency)
		require.Len(t, result.Amounts, 4)
		// 1000 = 500 + 300 + 200
		require.Len(t, result.Notes, 1)
	})

	t.Run("noisy INR bill", func(t *testing.T) {
		result := p.Process(context.Background(), Request{Text: testutil.NoisyINRBill()})

		assert.Equal(t, model.StatusOK, result.Status)
		require.Len(t, result.Amounts, 3)
		assert.Equal(t, model.Known(model.TagTotalBill), result.Amounts[0].Type)
		assert.Equal(t, model.Known(model.TagPaid), result.Amounts[1].Type)
		assert.Equal(t, model.Known(model.TagDue), result.Amounts[2].Type)
		assert.True(t, result.Amounts[0].Value.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("USD statement", func(t *testing.T) {
		result := p.Process(context.Background(), Request{Text: testutil.USDStatement()})

		assert.Equal(t, model.StatusOK, result.Status)
		require.NotNil(t, result.Currency)
		assert.Equal(t, model.CurrencyUSD, *result.Currency)
		require.Len(t, result.Amounts, 4)
		assert.Equal(t, model.Known(model.TagCopay), result.Amounts[0].Type)
		assert.Equal(t, model.Known(model.TagDeductible), result.Amounts[1].Type)
		assert.Equal(t, model.Known(model.TagInsuranceCovered), result.Amounts[2].Type)
	})

	t.Run("prose note", func(t *testing.T) {
		result := p.Process(context.Background(), Request{Text: testutil.ProseNote()})

		assert.Equal(t, model.StatusNoAmounts, result.Status)
		assert.Empty(t, result.Amounts)
	})
}

func TestProcess_FullAndDirectAgreeOnLabeledBills(t *testing.T) {
	full := newPipeline(t)
	direct, err := NewDirect(config.Default())
	require.NoError(t, err)

	req := Request{Text: testutil.CleanINRBill()}
	a := full.Process(context.Background(), req)
	b := direct.Process(context.Background(), req)

	require.Equal(t, len(a.Amounts), len(b.Amounts))
	for i := range a.Amounts {
		assert.Equal(t, a.Amounts[i].Type, b.Amounts[i].Type)
		assert.True(t, a.Amounts[i].Value.Equal(b.Amounts[i].Value))
	}
}
