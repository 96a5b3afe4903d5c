// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models hold all GORM annotations and table mappings
// 3. Each model converts with ToDomain and XModelFromDomain
// 4. Child rows (lines, balance entries, dispute notes) are separate tables loaded with their root
//
// Structure:
// - base.go: BaseModel and AggregateModel
// - json.go: generic jsonb column
// - identity.go, partner.go, catalog.go, inventory.go, trade.go, finance.go, quality.go, workorder.go
package models
