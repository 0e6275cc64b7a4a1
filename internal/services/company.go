package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/internal/models"
)

// CompanyService reads and writes the single issuer record.
type CompanyService struct{ DB *gorm.DB }

func NewCompanyService(db *gorm.DB) *CompanyService { return &CompanyService{DB: db} }

// Get returns the issuer, or nil when none has been saved yet.
func (s *CompanyService) Get(ctx context.Context) (*models.CompanySettings, error) {
	var cs models.CompanySettings
	err := s.DB.WithContext(ctx).Order("id ASC").First(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load company settings: %w", err)
	}
	return &cs, nil
}

// Save creates the issuer on first use and overwrites it afterwards.
func (s *CompanyService) Save(ctx context.Context, in *models.CompanySettings) error {
	current, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if current != nil {
		in.ID = current.ID
		in.CreatedAt = current.CreatedAt
	}
	if err := s.DB.WithContext(ctx).Save(in).Error; err != nil {
		return fmt.Errorf("save company settings: %w", err)
	}
	return nil
}
