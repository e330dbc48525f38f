package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosedPositions_RoundTrip(t *testing.T) {
	cycles := ClosedPositions(
		[]Asset{acme},
		[]Transaction{
			buy(1, 1, "2024-01-01", "10", "100", "1"),
			sell(2, 1, "2024-03-01", "10", "120", "2"),
		},
		ScaleClosingSell,
	)

	require.Len(t, cycles, 1)
	c := cycles[0]
	assert.Equal(t, acme, c.Asset)
	assert.Equal(t, "1-1-2024-01-01", c.CycleID)
	assert.Equal(t, 60, c.HoldingPeriodDays)
	assert.Equal(t, day("2024-01-01"), c.FirstBuyDate)
	assert.Equal(t, day("2024-03-01"), c.LastSellDate)
	assertDecimal(t, "10", c.TotalBought)
	assertDecimal(t, "10", c.TotalSold)
	assertDecimal(t, "100", c.AvgBuyPrice)
	assertDecimal(t, "120", c.AvgSellPrice)
	assertDecimal(t, "197", c.RealizedPL)
	assertDecimal(t, "19.68032", c.RealizedPLPercent.Round(5))

	pos := Aggregate([]Transaction{
		buy(1, 1, "2024-01-01", "10", "100", "1"),
		sell(2, 1, "2024-03-01", "10", "120", "2"),
	})
	assert.False(t, pos.IsActive)
	assertDecimal(t, "0", pos.Quantity)
}

func TestClosedPositions_OverSellClamped(t *testing.T) {
	for _, method := range []CyclePLMethod{ScaleClosingSell, Ledger} {
		t.Run(method.String(), func(t *testing.T) {
			cycles := ClosedPositions(
				[]Asset{acme},
				[]Transaction{
					buy(1, 1, "2024-01-01", "5", "10", "0"),
					sell(2, 1, "2024-01-20", "8", "12", "0"),
				},
				method,
			)

			require.Len(t, cycles, 1)
			assertDecimal(t, "10", cycles[0].RealizedPL)
			assertDecimal(t, "5", cycles[0].TotalSold)
			assertDecimal(t, "20", cycles[0].RealizedPLPercent)
		})
	}
}

func TestClosedPositions_PartialSellEmitsNothing(t *testing.T) {
	cycles := ClosedPositions(
		[]Asset{acme},
		[]Transaction{
			buy(1, 1, "2024-01-10", "10", "50", "0"),
			sell(2, 1, "2024-02-10", "4", "60", "0"),
		},
		ScaleClosingSell,
	)

	assert.NotNil(t, cycles)
	assert.Empty(t, cycles)
}

func TestClosedPositions_SellWhileFlatIgnored(t *testing.T) {
	cycles := ClosedPositions(
		[]Asset{acme},
		[]Transaction{
			sell(1, 1, "2024-01-01", "3", "10", "0"),
			buy(2, 1, "2024-01-10", "2", "10", "0"),
			sell(3, 1, "2024-01-20", "2", "11", "0"),
		},
		ScaleClosingSell,
	)

	require.Len(t, cycles, 1)
	assert.Equal(t, "1-1-2024-01-10", cycles[0].CycleID)
	assertDecimal(t, "2", cycles[0].RealizedPL)
}

func TestClosedPositions_MultipleCyclesNewestFirst(t *testing.T) {
	cycles := ClosedPositions(
		[]Asset{acme, world},
		[]Transaction{
			buy(1, 1, "2024-01-01", "1", "10", "0"),
			sell(2, 1, "2024-02-01", "1", "12", "0"),
			buy(3, 1, "2024-03-01", "2", "20", "0"),
			sell(4, 1, "2024-04-01", "2", "15", "0"),
			buy(5, 2, "2024-01-01", "1", "100", "0"),
			sell(6, 2, "2024-03-15", "1", "110", "0"),
		},
		ScaleClosingSell,
	)

	require.Len(t, cycles, 3)
	assert.Equal(t, "1-2-2024-03-01", cycles[0].CycleID)
	assertDecimal(t, "-10", cycles[0].RealizedPL)
	assertDecimal(t, "-25", cycles[0].RealizedPLPercent)
	assert.Equal(t, "2-1-2024-01-01", cycles[1].CycleID)
	assert.Equal(t, "1-1-2024-01-01", cycles[2].CycleID)
	assertDecimal(t, "2", cycles[2].RealizedPL)
}

func TestClosedPositions_DustClosesCycle(t *testing.T) {
	cycles := ClosedPositions(
		[]Asset{btc},
		[]Transaction{
			buy(1, 3, "2024-01-01", "1", "100", "0"),
			sell(2, 3, "2024-01-05", "0.9995", "100", "0"),
			buy(3, 3, "2024-02-01", "1", "100", "0"),
		},
		Ledger,
	)

	require.Len(t, cycles, 1)
	assert.Equal(t, "3-1-2024-01-01", cycles[0].CycleID)
	assert.Equal(t, 4, cycles[0].HoldingPeriodDays)
}

func TestClosedPositions_UnknownAssetSkipped(t *testing.T) {
	cycles := ClosedPositions(
		[]Asset{acme},
		[]Transaction{
			buy(1, 7, "2024-01-01", "1", "10", "0"),
			sell(2, 7, "2024-02-01", "1", "12", "0"),
		},
		ScaleClosingSell,
	)

	assert.Empty(t, cycles)
}

func TestClosedPositions_Tranches(t *testing.T) {
	txs := []Transaction{
		buy(1, 1, "2024-01-01", "10", "50", "0"),
		sell(2, 1, "2024-02-01", "4", "60", "0"),
		sell(3, 1, "2024-03-01", "6", "70", "0"),
	}

	t.Run("scale", func(t *testing.T) {
		cycles := ClosedPositions([]Asset{acme}, txs, ScaleClosingSell)
		require.Len(t, cycles, 1)
		c := cycles[0]
		// Only the closing sell of 6 units is extrapolated.
		assertDecimal(t, "6", c.TotalBought)
		assertDecimal(t, "6", c.TotalSold)
		assertDecimal(t, "50", c.AvgBuyPrice)
		assertDecimal(t, "70", c.AvgSellPrice)
		assertDecimal(t, "120", c.RealizedPL)
		assertDecimal(t, "40", c.RealizedPLPercent)
	})

	t.Run("ledger", func(t *testing.T) {
		cycles := ClosedPositions([]Asset{acme}, txs, Ledger)
		require.Len(t, cycles, 1)
		c := cycles[0]
		assertDecimal(t, "10", c.TotalBought)
		assertDecimal(t, "10", c.TotalSold)
		assertDecimal(t, "50", c.AvgBuyPrice)
		assertDecimal(t, "66", c.AvgSellPrice)
		assertDecimal(t, "160", c.RealizedPL)
		assertDecimal(t, "32", c.RealizedPLPercent)

		// The ledger agrees with the position aggregator.
		assertDecimal(t, Aggregate(txs).RealizedPL.String(), c.RealizedPL)
	})
}

func TestParseCyclePLMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    CyclePLMethod
		wantErr bool
	}{
		{"", ScaleClosingSell, false},
		{"scale", ScaleClosingSell, false},
		{" Ledger ", Ledger, false},
		{"fifo", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCyclePLMethod(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClosedPositions_RepeatableAndDoesNotMutateInput(t *testing.T) {
	for _, method := range []CyclePLMethod{ScaleClosingSell, Ledger} {
		t.Run(method.String(), func(t *testing.T) {
			assets := []Asset{world, acme}
			txs := []Transaction{
				sell(4, 1, "2024-03-01", "6", "70", "1"),
				buy(1, 1, "2024-01-01", "10", "50", "2"),
				sell(2, 1, "2024-02-01", "4", "60", "0"),
				buy(3, 2, "2024-01-05", "2", "90", "0"),
				sell(5, 2, "2024-02-05", "2", "80", "1"),
				buy(6, 2, "2024-03-05", "1", "85", "0"),
			}
			assetsBefore := append([]Asset(nil), assets...)
			txsBefore := append([]Transaction(nil), txs...)

			first := ClosedPositions(assets, txs, method)
			second := ClosedPositions(assets, txs, method)

			require.Len(t, first, 2)
			assert.Equal(t, first, second)
			assert.Equal(t, assetsBefore, assets)
			assert.Equal(t, txsBefore, txs)
		})
	}
}
