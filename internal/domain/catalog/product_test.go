package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name     string
		sku      string
		prodName string
		category Category
		unit     Unit
		wantErr  bool
	}{
		{"valid", "tom-roma-25", "Roma Tomatoes 25lb", CategoryVegetable, UnitCase, false},
		{"empty sku", "", "Roma", CategoryVegetable, UnitCase, true},
		{"empty name", "TOM", " ", CategoryVegetable, UnitCase, true},
		{"bad category", "TOM", "Roma", Category("MEAT"), UnitCase, true},
		{"bad unit", "TOM", "Roma", CategoryVegetable, Unit("PALLET"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.sku, tt.prodName, tt.category, tt.unit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "TOM-ROMA-25", p.SKU)
			assert.True(t, p.IsActive())
		})
	}
}

func TestProduct_Prices(t *testing.T) {
	p, err := NewProduct("APL", "Gala Apples", CategoryFruit, UnitCase)
	require.NoError(t, err)

	require.NoError(t, p.SetPrices(decimal.NewFromInt(20), decimal.NewFromInt(28)))
	assert.True(t, decimal.NewFromInt(8).Equal(p.Margin()))
	assert.Error(t, p.SetPrices(decimal.NewFromInt(-1), decimal.NewFromInt(1)))
}

func TestProduct_StatusToggle(t *testing.T) {
	p, err := NewProduct("APL", "Gala Apples", CategoryFruit, UnitCase)
	require.NoError(t, err)

	assert.Error(t, p.Activate())
	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsActive())
	assert.Error(t, p.Deactivate())
	require.NoError(t, p.Activate())
}

func TestProduct_UpdateAndVendor(t *testing.T) {
	p, err := NewProduct("BAS", "Basil", CategoryHerb, UnitBunch)
	require.NoError(t, err)
	require.NoError(t, p.Update("Sweet Basil", CategoryHerb, UnitBunch, "12 ct"))
	assert.Equal(t, "12 ct", p.PackSize)

	vendorID := uuid.New()
	p.SetDefaultVendor(&vendorID)
	assert.Equal(t, &vendorID, p.DefaultVendorID)

	idx := IndexByID([]Product{*p})
	assert.Contains(t, idx, p.ID)
}
