package models

import (
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/resources"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	BaseModel
	Name        string                `gorm:"type:varchar(200);not null"`
	Email       string                `gorm:"type:varchar(200)"`
	TaxPercent  decimal.Decimal       `gorm:"type:decimal(5,2);not null"`
	PaymentType resources.PaymentType `gorm:"type:varchar(20);not null;default:'invoices'"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *resources.Customer {
	return &resources.Customer{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Email:       m.Email,
		TaxPercent:  m.TaxPercent,
		PaymentType: m.PaymentType,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *resources.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.TaxPercent = c.TaxPercent
	m.PaymentType = c.PaymentType
}

// TenantPackageModel is the persistence model for cloud tenant packages.
// Template fields are denormalized onto the row; templates are priced
// sizing presets, not independently mutable aggregates.
type TenantPackageModel struct {
	BaseModel
	CustomerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantName          string          `gorm:"type:varchar(255);not null;index"`
	TemplateName        string          `gorm:"type:varchar(255);not null"`
	TemplateDailyPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TemplateProductCode string          `gorm:"type:varchar(50)"`
	TemplateArticleCode string          `gorm:"type:varchar(50)"`
	TerminatedAt        *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (TenantPackageModel) TableName() string {
	return "tenant_packages"
}

// ToDomain converts the persistence model to a domain TenantPackage
func (m *TenantPackageModel) ToDomain() *resources.TenantPackage {
	return &resources.TenantPackage{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		TenantName: m.TenantName,
		Template: resources.PackageTemplate{
			Name:        m.TemplateName,
			DailyPrice:  m.TemplateDailyPrice,
			ProductCode: m.TemplateProductCode,
			ArticleCode: m.TemplateArticleCode,
		},
		TerminatedAt: m.TerminatedAt,
	}
}

// FromDomain populates the persistence model from a domain TenantPackage
func (m *TenantPackageModel) FromDomain(p *resources.TenantPackage) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CustomerID = p.CustomerID
	m.TenantName = p.TenantName
	m.TemplateName = p.Template.Name
	m.TemplateDailyPrice = p.Template.DailyPrice
	m.TemplateProductCode = p.Template.ProductCode
	m.TemplateArticleCode = p.Template.ArticleCode
	m.TerminatedAt = p.TerminatedAt
}

// SupportOfferingModel is the persistence model for support offerings
type SupportOfferingModel struct {
	BaseModel
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(255);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit         string          `gorm:"type:varchar(10);not null"`
	ProductCode  string          `gorm:"type:varchar(50)"`
	ArticleCode  string          `gorm:"type:varchar(50)"`
	TerminatedAt *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (SupportOfferingModel) TableName() string {
	return "support_offerings"
}

// ToDomain converts the persistence model to a domain SupportOffering
func (m *SupportOfferingModel) ToDomain() *resources.SupportOffering {
	return &resources.SupportOffering{
		BaseEntity:   m.BaseModel.ToDomain(),
		CustomerID:   m.CustomerID,
		Name:         m.Name,
		UnitPrice:    m.UnitPrice,
		Unit:         invoicing.Unit(m.Unit),
		ProductCode:  m.ProductCode,
		ArticleCode:  m.ArticleCode,
		TerminatedAt: m.TerminatedAt,
	}
}

// FromDomain populates the persistence model from a domain SupportOffering
func (m *SupportOfferingModel) FromDomain(o *resources.SupportOffering) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CustomerID = o.CustomerID
	m.Name = o.Name
	m.UnitPrice = o.UnitPrice
	m.Unit = o.Unit.String()
	m.ProductCode = o.ProductCode
	m.ArticleCode = o.ArticleCode
	m.TerminatedAt = o.TerminatedAt
}

// ExpertContractModel is the persistence model for expert contracts
type ExpertContractModel struct {
	BaseModel
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description  string          `gorm:"type:varchar(500);not null"`
	DailyPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TerminatedAt *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (ExpertContractModel) TableName() string {
	return "expert_contracts"
}

// ToDomain converts the persistence model to a domain ExpertContract
func (m *ExpertContractModel) ToDomain() *resources.ExpertContract {
	return &resources.ExpertContract{
		BaseEntity:   m.BaseModel.ToDomain(),
		CustomerID:   m.CustomerID,
		Description:  m.Description,
		DailyPrice:   m.DailyPrice,
		TerminatedAt: m.TerminatedAt,
	}
}

// FromDomain populates the persistence model from a domain ExpertContract
func (m *ExpertContractModel) FromDomain(c *resources.ExpertContract) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CustomerID = c.CustomerID
	m.Description = c.Description
	m.DailyPrice = c.DailyPrice
	m.TerminatedAt = c.TerminatedAt
}
