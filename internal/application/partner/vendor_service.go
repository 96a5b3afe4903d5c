package partner

import (
	"context"

	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VendorService handles vendor-related business operations
type VendorService struct {
	vendorRepo partner.VendorRepository
}

// NewVendorService creates a new VendorService
func NewVendorService(vendorRepo partner.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// Create registers a new vendor
func (s *VendorService) Create(ctx context.Context, req CreateVendorRequest) (*VendorResponse, error) {
	exists, err := s.vendorRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Vendor with this code already exists")
	}

	vendor, err := partner.NewVendor(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	terms := valueOr(req.PaymentTermsDays, vendor.PaymentTermsDays)
	if err := vendor.Update(vendor.Name, req.ContactName, req.Phone, req.Email, req.Address, terms); err != nil {
		return nil, err
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Update changes vendor details. Unset fields keep their current value.
func (s *VendorService) Update(ctx context.Context, id uuid.UUID, req UpdateVendorRequest) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = vendor.Update(
		valueOr(req.Name, vendor.Name),
		valueOr(req.ContactName, vendor.ContactName),
		valueOr(req.Phone, vendor.Phone),
		valueOr(req.Email, vendor.Email),
		valueOr(req.Address, vendor.Address),
		valueOr(req.PaymentTermsDays, vendor.PaymentTermsDays),
	)
	if err != nil {
		return nil, err
	}
	if req.Active != nil {
		vendor.SetActive(*req.Active)
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// GetByID retrieves a vendor by ID
func (s *VendorService) GetByID(ctx context.Context, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// List retrieves vendors matching the filter
func (s *VendorService) List(ctx context.Context, filter VendorListFilter) ([]VendorResponse, int64, error) {
	vendors, total, err := s.vendorRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]VendorResponse, len(vendors))
	for i := range vendors {
		responses[i] = ToVendorResponse(&vendors[i])
	}
	return responses, total, nil
}
