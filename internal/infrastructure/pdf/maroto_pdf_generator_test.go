package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vitrine-api/internal/domain/entity"
)

func TestGenerateReceiptPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Vitrine Modas")
	receipt := &entity.Receipt{
		ID: "3f2a9c10-0000-4000-8000-000000000001",
		Lines: []entity.ReceiptLine{
			{ProductID: "SKU1", Name: "Camiseta básica algodão", Quantity: 5,
				UnitPrice: decimal.RequireFromString("8.50"), LineTotal: decimal.RequireFromString("42.50")},
		},
		Totals: entity.Totals{
			TotalItems: 5, TotalValue: decimal.RequireFromString("42.50"), AverageUnitValue: decimal.RequireFromString("8.5"),
		},
		FinalizedAt: time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC),
	}

	b, err := g.GenerateReceiptPDF(context.Background(), receipt)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "la salida debe ser un PDF")

	_, err = g.GenerateReceiptPDF(context.Background(), nil)
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "#3F2A9C10", shortID("3f2a9c10-0000-4000-8000-000000000001"))
	assert.Equal(t, "#AB", shortID("ab"))
}
