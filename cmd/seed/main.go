// Command seed loads reference data (stores, vendors, products, logins and
// opening stock) from a YAML file. Entries that already exist are skipped,
// so the command can be re-run against the same database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	catalogapp "github.com/freshline/backend/internal/application/catalog"
	identityapp "github.com/freshline/backend/internal/application/identity"
	inventoryapp "github.com/freshline/backend/internal/application/inventory"
	partnerapp "github.com/freshline/backend/internal/application/partner"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/auth"
	"github.com/freshline/backend/internal/infrastructure/cache"
	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/freshline/backend/internal/infrastructure/logger"
	"github.com/freshline/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seeder struct {
	log        *zap.Logger
	stores     *partnerapp.StoreService
	vendors    *partnerapp.VendorService
	products   *catalogapp.ProductService
	accounts   *identityapp.AccountService
	stock      *inventoryapp.StockService
	storeRepo  partner.StoreRepository
	vendorRepo partner.VendorRepository

	storeIDs  map[string]uuid.UUID
	vendorIDs map[string]uuid.UUID
	created   map[string]int
	skipped   map[string]int
}

func main() {
	var (
		file      string
		fakeCount int
		fakeSeed  uint64
		check     bool
	)
	flag.StringVar(&file, "file", "seed.yaml", "Seed file to load")
	flag.IntVar(&fakeCount, "fake-stores", -1, "Generate this many demo stores (overrides the file)")
	flag.Uint64Var(&fakeSeed, "fake-seed", 0, "Seed for generated stores, 0 keeps the file's value")
	flag.BoolVar(&check, "check", false, "Validate the seed file and exit")
	flag.Parse()

	sf, err := LoadSeedFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if check {
		fmt.Printf("%s: %d stores, %d vendors, %d products, %d accounts\n",
			file, len(sf.Stores), len(sf.Vendors), len(sf.Products), len(sf.Accounts))
		return
	}
	if fakeCount >= 0 {
		sf.Fake.Stores = fakeCount
	}
	if fakeSeed != 0 {
		sf.Fake.Seed = fakeSeed
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(config.LogConfig{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	storeRepo := persistence.NewGormStoreRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	transactor := persistence.NewGormTransactor(db.DB)

	s := &seeder{
		log:        log,
		stores:     partnerapp.NewStoreService(storeRepo, log),
		vendors:    partnerapp.NewVendorService(vendorRepo),
		products:   catalogapp.NewProductService(productRepo, vendorRepo),
		accounts:   identityapp.NewAccountService(persistence.NewGormAccountRepository(db.DB), storeRepo, vendorRepo, auth.NewInMemoryTokenBlacklist(), cfg.JWT.RefreshTokenExpiration, log),
		stock:      inventoryapp.NewStockService(persistence.NewGormLedgerRepository(db.DB), productRepo, cache.NewInMemoryStockLocker(cfg.StockLock), transactor, log),
		storeRepo:  storeRepo,
		vendorRepo: vendorRepo,
		storeIDs:   make(map[string]uuid.UUID),
		vendorIDs:  make(map[string]uuid.UUID),
		created:    make(map[string]int),
		skipped:    make(map[string]int),
	}

	if err := s.run(context.Background(), sf); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding completed",
		zap.Any("created", s.created),
		zap.Any("skipped", s.skipped),
	)
}

func (s *seeder) run(ctx context.Context, sf *SeedFile) error {
	stores := append(sf.Stores, FakeStores(sf.Fake.Stores, sf.Fake.Seed)...)
	for _, st := range stores {
		if err := s.seedStore(ctx, st); err != nil {
			return fmt.Errorf("store %s: %w", st.Code, err)
		}
	}
	for _, v := range sf.Vendors {
		if err := s.seedVendor(ctx, v); err != nil {
			return fmt.Errorf("vendor %s: %w", v.Code, err)
		}
	}
	for _, p := range sf.Products {
		if err := s.seedProduct(ctx, p); err != nil {
			return fmt.Errorf("product %s: %w", p.SKU, err)
		}
	}
	for _, a := range sf.Accounts {
		if err := s.seedAccount(ctx, a); err != nil {
			return fmt.Errorf("account %s: %w", a.Username, err)
		}
	}
	return nil
}

func (s *seeder) seedStore(ctx context.Context, st StoreSeed) error {
	req := partnerapp.CreateStoreRequest{
		Code:             st.Code,
		Name:             st.Name,
		ContactName:      st.ContactName,
		Phone:            st.Phone,
		Email:            st.Email,
		Address:          st.Address,
		PaymentTermsDays: st.PaymentTermsDays,
	}
	if st.CreditLimit != "" {
		limit := decimal.RequireFromString(st.CreditLimit)
		req.CreditLimit = &limit
	}
	resp, err := s.stores.Create(ctx, req)
	if alreadyExists(err) {
		existing, err := s.storeRepo.FindByCode(ctx, st.Code)
		if err != nil {
			return err
		}
		s.storeIDs[st.Code] = existing.ID
		s.skipped["stores"]++
		return nil
	}
	if err != nil {
		return err
	}
	s.storeIDs[st.Code] = resp.ID
	s.created["stores"]++
	return nil
}

func (s *seeder) seedVendor(ctx context.Context, v VendorSeed) error {
	resp, err := s.vendors.Create(ctx, partnerapp.CreateVendorRequest{
		Code:             v.Code,
		Name:             v.Name,
		ContactName:      v.ContactName,
		Phone:            v.Phone,
		Email:            v.Email,
		Address:          v.Address,
		PaymentTermsDays: v.PaymentTermsDays,
	})
	if alreadyExists(err) {
		id, err := s.findVendor(ctx, v.Code)
		if err != nil {
			return err
		}
		s.vendorIDs[v.Code] = id
		s.skipped["vendors"]++
		return nil
	}
	if err != nil {
		return err
	}
	s.vendorIDs[v.Code] = resp.ID
	s.created["vendors"]++
	return nil
}

func (s *seeder) findVendor(ctx context.Context, code string) (uuid.UUID, error) {
	filter := shared.DefaultFilter()
	filter.Search = code
	vendors, _, err := s.vendorRepo.FindAll(ctx, filter)
	if err != nil {
		return uuid.Nil, err
	}
	for _, v := range vendors {
		if strings.EqualFold(v.Code, code) {
			return v.ID, nil
		}
	}
	return uuid.Nil, shared.NewDomainError("VENDOR_NOT_FOUND", "Vendor "+code+" not found")
}

func (s *seeder) seedProduct(ctx context.Context, p ProductSeed) error {
	req := catalogapp.CreateProductRequest{
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  p.Category,
		Unit:      p.Unit,
		PackSize:  p.PackSize,
		CostPrice: decimalOrZero(p.CostPrice),
		SellPrice: decimalOrZero(p.SellPrice),
	}
	if p.Vendor != "" {
		id := s.vendorIDs[p.Vendor]
		req.DefaultVendorID = &id
	}
	resp, err := s.products.Create(ctx, req)
	if alreadyExists(err) {
		s.skipped["products"]++
		return nil
	}
	if err != nil {
		return err
	}
	s.created["products"]++

	// Opening stock only goes in with the product, never on a re-run
	if qty := decimalOrZero(p.OpeningStock); qty.IsPositive() {
		if _, err := s.stock.RecordAdjustment(ctx, inventoryapp.AdjustStockRequest{
			ProductID: resp.ID,
			Direction: "IN",
			Quantity:  qty,
			Note:      "opening stock",
		}); err != nil {
			return fmt.Errorf("opening stock: %w", err)
		}
		s.created["opening_stock"]++
	}
	return nil
}

func (s *seeder) seedAccount(ctx context.Context, a AccountSeed) error {
	req := identityapp.CreateAccountRequest{
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Password:    a.Password,
		Role:        a.Role,
	}
	switch a.Role {
	case "STORE":
		id := s.storeIDs[a.Store]
		req.StoreID = &id
	case "VENDOR":
		id := s.vendorIDs[a.Vendor]
		req.VendorID = &id
	}
	_, err := s.accounts.Create(ctx, req)
	if alreadyExists(err) {
		s.skipped["accounts"]++
		return nil
	}
	if err != nil {
		return err
	}
	s.created["accounts"]++
	return nil
}

func alreadyExists(err error) bool {
	return err != nil && errors.Is(err, shared.ErrAlreadyExists)
}

func decimalOrZero(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(raw)
}
