package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document describing the reference data to load
type SeedFile struct {
	Stores   []StoreSeed   `yaml:"stores"`
	Vendors  []VendorSeed  `yaml:"vendors"`
	Products []ProductSeed `yaml:"products"`
	Accounts []AccountSeed `yaml:"accounts"`
	Fake     FakeSeed      `yaml:"fake,omitempty"`
}

// StoreSeed is one retail store
type StoreSeed struct {
	Code             string `yaml:"code"`
	Name             string `yaml:"name"`
	ContactName      string `yaml:"contact_name,omitempty"`
	Phone            string `yaml:"phone,omitempty"`
	Email            string `yaml:"email,omitempty"`
	Address          string `yaml:"address,omitempty"`
	PaymentTermsDays *int   `yaml:"payment_terms_days,omitempty"`
	CreditLimit      string `yaml:"credit_limit,omitempty"`
}

// VendorSeed is one supplier
type VendorSeed struct {
	Code             string `yaml:"code"`
	Name             string `yaml:"name"`
	ContactName      string `yaml:"contact_name,omitempty"`
	Phone            string `yaml:"phone,omitempty"`
	Email            string `yaml:"email,omitempty"`
	Address          string `yaml:"address,omitempty"`
	PaymentTermsDays *int   `yaml:"payment_terms_days,omitempty"`
}

// ProductSeed is one catalog item. Vendor refers to a vendor code and
// OpeningStock is posted as an adjustment once the product exists.
type ProductSeed struct {
	SKU          string `yaml:"sku"`
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Unit         string `yaml:"unit"`
	PackSize     string `yaml:"pack_size,omitempty"`
	CostPrice    string `yaml:"cost_price"`
	SellPrice    string `yaml:"sell_price"`
	Vendor       string `yaml:"vendor,omitempty"`
	OpeningStock string `yaml:"opening_stock,omitempty"`
}

// AccountSeed is a login. Store and Vendor refer to codes.
type AccountSeed struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Role        string `yaml:"role"`
	DisplayName string `yaml:"display_name,omitempty"`
	Email       string `yaml:"email,omitempty"`
	Store       string `yaml:"store,omitempty"`
	Vendor      string `yaml:"vendor,omitempty"`
}

// FakeSeed asks for generated demo stores on top of the listed ones
type FakeSeed struct {
	Stores int    `yaml:"stores"`
	Seed   uint64 `yaml:"seed"`
}

var (
	productCategories = map[string]bool{"FRUIT": true, "VEGETABLE": true, "HERB": true, "OTHER": true}
	productUnits      = map[string]bool{"CASE": true, "LB": true, "EACH": true, "BUNCH": true}
	accountRoles      = map[string]bool{"ADMIN": true, "STORE": true, "VENDOR": true}
)

// LoadSeedFile reads and validates a seed document
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeedFile(data)
}

// ParseSeedFile decodes YAML and validates cross references
func ParseSeedFile(data []byte) (*SeedFile, error) {
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// Validate checks required fields, enum values, decimals and that every
// code reference points at an entry in the same file
func (sf *SeedFile) Validate() error {
	var errs []error
	stores := make(map[string]bool, len(sf.Stores))
	for i, s := range sf.Stores {
		if s.Code == "" || s.Name == "" {
			errs = append(errs, fmt.Errorf("stores[%d]: code and name are required", i))
		}
		if stores[s.Code] {
			errs = append(errs, fmt.Errorf("stores[%d]: duplicate code %q", i, s.Code))
		}
		stores[s.Code] = true
		if s.CreditLimit != "" {
			if _, err := decimal.NewFromString(s.CreditLimit); err != nil {
				errs = append(errs, fmt.Errorf("stores[%d]: credit_limit: %w", i, err))
			}
		}
	}

	vendors := make(map[string]bool, len(sf.Vendors))
	for i, v := range sf.Vendors {
		if v.Code == "" || v.Name == "" {
			errs = append(errs, fmt.Errorf("vendors[%d]: code and name are required", i))
		}
		if vendors[v.Code] {
			errs = append(errs, fmt.Errorf("vendors[%d]: duplicate code %q", i, v.Code))
		}
		vendors[v.Code] = true
	}

	skus := make(map[string]bool, len(sf.Products))
	for i, p := range sf.Products {
		if p.SKU == "" || p.Name == "" {
			errs = append(errs, fmt.Errorf("products[%d]: sku and name are required", i))
		}
		if skus[p.SKU] {
			errs = append(errs, fmt.Errorf("products[%d]: duplicate sku %q", i, p.SKU))
		}
		skus[p.SKU] = true
		if !productCategories[p.Category] {
			errs = append(errs, fmt.Errorf("products[%d]: unknown category %q", i, p.Category))
		}
		if !productUnits[p.Unit] {
			errs = append(errs, fmt.Errorf("products[%d]: unknown unit %q", i, p.Unit))
		}
		for field, raw := range map[string]string{"cost_price": p.CostPrice, "sell_price": p.SellPrice, "opening_stock": p.OpeningStock} {
			if raw == "" {
				continue
			}
			if d, err := decimal.NewFromString(raw); err != nil || d.IsNegative() {
				errs = append(errs, fmt.Errorf("products[%d]: %s must be a non-negative decimal, got %q", i, field, raw))
			}
		}
		if p.Vendor != "" && !vendors[p.Vendor] {
			errs = append(errs, fmt.Errorf("products[%d]: vendor %q is not listed", i, p.Vendor))
		}
	}

	for i, a := range sf.Accounts {
		if a.Username == "" || len(a.Password) < 8 {
			errs = append(errs, fmt.Errorf("accounts[%d]: username and a password of 8+ characters are required", i))
		}
		if !accountRoles[a.Role] {
			errs = append(errs, fmt.Errorf("accounts[%d]: unknown role %q", i, a.Role))
			continue
		}
		switch {
		case a.Role == "STORE" && !stores[a.Store]:
			errs = append(errs, fmt.Errorf("accounts[%d]: store %q is not listed", i, a.Store))
		case a.Role == "VENDOR" && !vendors[a.Vendor]:
			errs = append(errs, fmt.Errorf("accounts[%d]: vendor %q is not listed", i, a.Vendor))
		}
	}

	if sf.Fake.Stores < 0 {
		errs = append(errs, errors.New("fake.stores must not be negative"))
	}
	return errors.Join(errs...)
}

// FakeStores generates n demo stores. The same seed gives the same stores.
func FakeStores(n int, seed uint64) []StoreSeed {
	faker := gofakeit.New(seed)
	terms := []int{7, 14, 30}
	out := make([]StoreSeed, 0, n)
	for i := 0; i < n; i++ {
		addr := faker.Address()
		days := terms[faker.IntN(len(terms))]
		out = append(out, StoreSeed{
			Code:             fmt.Sprintf("DEMO-%03d", i+1),
			Name:             strings.TrimSpace(faker.Company() + " Market"),
			ContactName:      faker.Name(),
			Phone:            faker.Phone(),
			Email:            faker.Email(),
			Address:          addr.Address,
			PaymentTermsDays: &days,
			CreditLimit:      decimal.NewFromInt(int64(faker.IntRange(5, 50) * 1000)).String(),
		})
	}
	return out
}
