package persistence

import (
	"fmt"

	"github.com/cloudbroker/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all persistence models
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.CustomerModel{},
		&models.TenantPackageModel{},
		&models.SupportOfferingModel{},
		&models.ExpertContractModel{},
		&models.InvoiceModel{},
		&models.InvoiceItemModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
