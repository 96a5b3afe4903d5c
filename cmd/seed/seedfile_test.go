package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile_Example(t *testing.T) {
	sf, err := LoadSeedFile("seed.example.yaml")
	require.NoError(t, err)

	assert.Len(t, sf.Stores, 2)
	assert.Len(t, sf.Vendors, 2)
	assert.Len(t, sf.Products, 4)
	assert.Len(t, sf.Accounts, 3)
	assert.Equal(t, "GREENVALE", sf.Products[0].Vendor)
	require.NotNil(t, sf.Stores[0].PaymentTermsDays)
	assert.Equal(t, 14, *sf.Stores[0].PaymentTermsDays)
	assert.Equal(t, uint64(42), sf.Fake.Seed)
}

func TestParseSeedFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown category",
			yaml:    "products:\n  - {sku: A1, name: Kale, category: LEAFY, unit: CASE, cost_price: '1', sell_price: '2'}\n",
			wantErr: `unknown category "LEAFY"`,
		},
		{
			name:    "negative price",
			yaml:    "products:\n  - {sku: A1, name: Kale, category: VEGETABLE, unit: CASE, cost_price: '-1', sell_price: '2'}\n",
			wantErr: "cost_price must be a non-negative decimal",
		},
		{
			name:    "product names an unlisted vendor",
			yaml:    "products:\n  - {sku: A1, name: Kale, category: VEGETABLE, unit: CASE, cost_price: '1', sell_price: '2', vendor: NOPE}\n",
			wantErr: `vendor "NOPE" is not listed`,
		},
		{
			name:    "store login without a store",
			yaml:    "accounts:\n  - {username: harbor, password: long-enough, role: STORE, store: HARBOR}\n",
			wantErr: `store "HARBOR" is not listed`,
		},
		{
			name:    "duplicate store code",
			yaml:    "stores:\n  - {code: S1, name: One}\n  - {code: S1, name: Two}\n",
			wantErr: `duplicate code "S1"`,
		},
		{
			name:    "short password",
			yaml:    "accounts:\n  - {username: admin, password: short, role: ADMIN}\n",
			wantErr: "password of 8+ characters",
		},
		{
			name:    "malformed yaml",
			yaml:    "stores: [",
			wantErr: "parse seed file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedFile([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseSeedFile_CollectsEveryProblem(t *testing.T) {
	doc := "stores:\n  - {code: '', name: ''}\nproducts:\n  - {sku: A1, name: Kale, category: X, unit: Y}\n"
	_, err := ParseSeedFile([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stores[0]")
	assert.Contains(t, err.Error(), "unknown category")
	assert.Contains(t, err.Error(), "unknown unit")
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFakeStores(t *testing.T) {
	first := FakeStores(3, 7)
	second := FakeStores(3, 7)

	require.Len(t, first, 3)
	assert.Equal(t, first, second, "same seed, same stores")
	assert.Equal(t, "DEMO-001", first[0].Code)
	assert.Equal(t, "DEMO-003", first[2].Code)
	for _, s := range first {
		assert.NotEmpty(t, s.Name)
		require.NotNil(t, s.PaymentTermsDays)
		assert.Contains(t, []int{7, 14, 30}, *s.PaymentTermsDays)
	}

	sf := &SeedFile{Stores: first}
	assert.NoError(t, sf.Validate(), "generated stores pass validation")
	assert.Empty(t, FakeStores(0, 7))
}
