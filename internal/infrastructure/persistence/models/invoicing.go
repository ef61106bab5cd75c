package models

import (
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// The unique index on (customer_id, year, month) is the cross-process
// backstop for get-or-create: at most one invoice row can ever exist
// per customer and billing period.
type InvoiceModel struct {
	BaseModel
	Sequence    int64           `gorm:"autoIncrement;uniqueIndex"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_customer_period,priority:1"`
	Year        int             `gorm:"not null;uniqueIndex:idx_invoice_customer_period,priority:2"`
	Month       int             `gorm:"not null;uniqueIndex:idx_invoice_customer_period,priority:3"`
	State       invoicing.State `gorm:"type:varchar(20);not null;default:'pending';index"`
	TaxPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	InvoiceDate *time.Time
	Items       []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice aggregate
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	items := make([]*invoicing.InvoiceItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &invoicing.Invoice{
		BaseEntity:  m.BaseModel.ToDomain(),
		Sequence:    m.Sequence,
		CustomerID:  m.CustomerID,
		Year:        m.Year,
		Month:       m.Month,
		State:       m.State,
		TaxPercent:  m.TaxPercent,
		InvoiceDate: m.InvoiceDate,
		Items:       items,
	}
}

// FromDomain populates the persistence model from a domain Invoice aggregate
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.Sequence = inv.Sequence
	m.CustomerID = inv.CustomerID
	m.Year = inv.Year
	m.Month = inv.Month
	m.State = inv.State
	m.TaxPercent = inv.TaxPercent
	m.InvoiceDate = inv.InvoiceDate
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i].FromDomain(item)
	}
}

// InvoiceItemModel is the persistence model for invoice items
type InvoiceItemModel struct {
	BaseModel
	InvoiceID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	ResourceKind     invoicing.ResourceKind `gorm:"type:varchar(50);not null"`
	ResourceID       *uuid.UUID             `gorm:"type:uuid;index"`
	ResourceIdentity string                 `gorm:"type:varchar(255);not null;index"`
	Name             string                 `gorm:"type:varchar(500);not null"`
	Unit             invoicing.Unit         `gorm:"type:varchar(10);not null"`
	UnitPrice        decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Start            time.Time              `gorm:"not null"`
	End              time.Time              `gorm:"not null"`
	Details          invoicing.ItemDetails  `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem entity
func (m *InvoiceItemModel) ToDomain() *invoicing.InvoiceItem {
	return &invoicing.InvoiceItem{
		BaseEntity:       m.BaseModel.ToDomain(),
		InvoiceID:        m.InvoiceID,
		ResourceKind:     m.ResourceKind,
		ResourceID:       m.ResourceID,
		ResourceIdentity: m.ResourceIdentity,
		Name:             m.Name,
		Unit:             m.Unit,
		UnitPrice:        m.UnitPrice,
		Start:            m.Start,
		End:              m.End,
		Details:          m.Details,
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem entity
func (m *InvoiceItemModel) FromDomain(item *invoicing.InvoiceItem) {
	m.FromDomainBaseEntity(item.BaseEntity)
	m.InvoiceID = item.InvoiceID
	m.ResourceKind = item.ResourceKind
	m.ResourceID = item.ResourceID
	m.ResourceIdentity = item.ResourceIdentity
	m.Name = item.Name
	m.Unit = item.Unit
	m.UnitPrice = item.UnitPrice
	m.Start = item.Start
	m.End = item.End
	m.Details = item.Details
}
