package catalog

import (
	"context"
	"errors"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	vendorRepo  partner.VendorRepository
}

// NewProductService creates a new ProductService. vendorRepo may be nil, in
// which case default vendors are not checked.
func NewProductService(productRepo catalog.ProductRepository, vendorRepo partner.VendorRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.SKU, req.Name, catalog.Category(req.Category), catalog.Unit(req.Unit))
	if err != nil {
		return nil, err
	}
	exists, err := s.productRepo.ExistsBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if req.PackSize != "" {
		if err := product.Update(product.Name, product.Category, product.Unit, req.PackSize); err != nil {
			return nil, err
		}
	}
	if err := product.SetPrices(req.CostPrice, req.SellPrice); err != nil {
		return nil, err
	}
	if req.DefaultVendorID != nil {
		if err := s.checkVendor(ctx, *req.DefaultVendorID); err != nil {
			return nil, err
		}
		product.SetDefaultVendor(req.DefaultVendorID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Update updates an existing product. Unset fields keep their current value.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, category, unit, packSize := product.Name, product.Category, product.Unit, product.PackSize
	if req.Name != nil {
		name = *req.Name
	}
	if req.Category != nil {
		category = catalog.Category(*req.Category)
	}
	if req.Unit != nil {
		unit = catalog.Unit(*req.Unit)
	}
	if req.PackSize != nil {
		packSize = *req.PackSize
	}
	if err := product.Update(name, category, unit, packSize); err != nil {
		return nil, err
	}

	if req.CostPrice != nil || req.SellPrice != nil {
		cost, sell := product.CostPrice, product.SellPrice
		if req.CostPrice != nil {
			cost = *req.CostPrice
		}
		if req.SellPrice != nil {
			sell = *req.SellPrice
		}
		if err := product.SetPrices(cost, sell); err != nil {
			return nil, err
		}
	}

	switch {
	case req.ClearVendor:
		product.SetDefaultVendor(nil)
	case req.DefaultVendorID != nil:
		if err := s.checkVendor(ctx, *req.DefaultVendorID); err != nil {
			return nil, err
		}
		product.SetDefaultVendor(req.DefaultVendorID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products. Search matches name or SKU.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	products, total, err := s.productRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Activate makes a product orderable
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.setStatus(ctx, id, (*catalog.Product).Activate)
}

// Deactivate removes a product from ordering. Existing orders keep it.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.setStatus(ctx, id, (*catalog.Product).Deactivate)
}

func (s *ProductService) setStatus(ctx context.Context, id uuid.UUID, apply func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) checkVendor(ctx context.Context, vendorID uuid.UUID) error {
	if s.vendorRepo == nil {
		return nil
	}
	_, err := s.vendorRepo.FindByID(ctx, vendorID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("VENDOR_NOT_FOUND", "Default vendor does not exist")
	}
	return err
}
