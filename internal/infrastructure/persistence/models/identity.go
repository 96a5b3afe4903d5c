package models

import (
	"time"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string        `gorm:"type:varchar(200)"`
	DisplayName  string        `gorm:"type:varchar(200)"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;index"`
	StoreID      *uuid.UUID    `gorm:"type:uuid;index"`
	VendorID     *uuid.UUID    `gorm:"type:uuid;index"`
	Active       bool          `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *identity.Account {
	return &identity.Account{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		DisplayName:       m.DisplayName,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		StoreID:           m.StoreID,
		VendorID:          m.VendorID,
		Active:            m.Active,
		LastLoginAt:       m.LastLoginAt,
	}
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{
		Username:     a.Username,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		StoreID:      a.StoreID,
		VendorID:     a.VendorID,
		Active:       a.Active,
		LastLoginAt:  a.LastLoginAt,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}
