package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/resources"
	"github.com/google/uuid"
)

// TenantPackageRegistrator bills cloud tenant packages per day. Its
// create path runs overlap resolution because packages are keyed by
// tenant name and can be swapped for a differently priced one mid-day.
type TenantPackageRegistrator struct {
	packages resources.TenantPackageRepository
}

// NewTenantPackageRegistrator creates a registrator for tenant packages
func NewTenantPackageRegistrator(packages resources.TenantPackageRepository) *TenantPackageRegistrator {
	return &TenantPackageRegistrator{packages: packages}
}

// Kind implements invoicing.Registrator
func (r *TenantPackageRegistrator) Kind() invoicing.ResourceKind {
	return resources.KindTenantPackage
}

// CustomerID implements invoicing.Registrator
func (r *TenantPackageRegistrator) CustomerID(_ context.Context, source invoicing.Resource) (uuid.UUID, error) {
	pkg, err := asTenantPackage(source)
	if err != nil {
		return uuid.Nil, err
	}
	return pkg.CustomerID, nil
}

// ChargeableSources implements invoicing.Registrator
func (r *TenantPackageRegistrator) ChargeableSources(ctx context.Context, customerID uuid.UUID) ([]invoicing.Resource, error) {
	packages, err := r.packages.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find active packages: %w", err)
	}
	sources := make([]invoicing.Resource, len(packages))
	for i, pkg := range packages {
		sources[i] = pkg
	}
	return sources, nil
}

// CreateItem implements invoicing.Registrator. The requested interval
// may be adjusted by overlap resolution before the item is added.
func (r *TenantPackageRegistrator) CreateItem(invoice *invoicing.Invoice, source invoicing.Resource, start, end time.Time) error {
	pkg, err := asTenantPackage(source)
	if err != nil {
		return err
	}

	start, end = invoicing.ResolveOverlap(invoice, pkg.TenantName, pkg.Template.DailyPrice, start, end)

	item, err := invoicing.NewInvoiceItem(
		invoice.ID,
		resources.KindTenantPackage,
		pkg.ID,
		pkg.TenantName,
		fmt.Sprintf("%s (%s)", pkg.TenantName, pkg.Template.Name),
		invoicing.UnitPerDay,
		pkg.Template.DailyPrice,
		start,
		end,
	)
	if err != nil {
		return err
	}
	item.Details = invoicing.ItemDetails{
		ResourceName: pkg.TenantName,
		TemplateName: pkg.Template.Name,
		TenantName:   pkg.TenantName,
		ProductCode:  pkg.Template.ProductCode,
		ArticleCode:  pkg.Template.ArticleCode,
	}
	invoice.AddItem(item)
	return nil
}

func asTenantPackage(source invoicing.Resource) (*resources.TenantPackage, error) {
	pkg, ok := source.(*resources.TenantPackage)
	if !ok {
		return nil, fmt.Errorf("unexpected source type for kind %s: %T", resources.KindTenantPackage, source)
	}
	return pkg, nil
}

// SupportOfferingRegistrator bills purchased support offerings at their
// configured unit (daily or hourly). Offerings are never replaced
// in-place, so no overlap resolution applies.
type SupportOfferingRegistrator struct {
	offerings resources.SupportOfferingRepository
}

// NewSupportOfferingRegistrator creates a registrator for support offerings
func NewSupportOfferingRegistrator(offerings resources.SupportOfferingRepository) *SupportOfferingRegistrator {
	return &SupportOfferingRegistrator{offerings: offerings}
}

// Kind implements invoicing.Registrator
func (r *SupportOfferingRegistrator) Kind() invoicing.ResourceKind {
	return resources.KindSupportOffering
}

// CustomerID implements invoicing.Registrator
func (r *SupportOfferingRegistrator) CustomerID(_ context.Context, source invoicing.Resource) (uuid.UUID, error) {
	offering, err := asSupportOffering(source)
	if err != nil {
		return uuid.Nil, err
	}
	return offering.CustomerID, nil
}

// ChargeableSources implements invoicing.Registrator
func (r *SupportOfferingRegistrator) ChargeableSources(ctx context.Context, customerID uuid.UUID) ([]invoicing.Resource, error) {
	offerings, err := r.offerings.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find active offerings: %w", err)
	}
	sources := make([]invoicing.Resource, len(offerings))
	for i, offering := range offerings {
		sources[i] = offering
	}
	return sources, nil
}

// CreateItem implements invoicing.Registrator
func (r *SupportOfferingRegistrator) CreateItem(invoice *invoicing.Invoice, source invoicing.Resource, start, end time.Time) error {
	offering, err := asSupportOffering(source)
	if err != nil {
		return err
	}

	item, err := invoicing.NewInvoiceItem(
		invoice.ID,
		resources.KindSupportOffering,
		offering.ID,
		offering.Identity(),
		offering.Name,
		offering.Unit,
		offering.UnitPrice,
		start,
		end,
	)
	if err != nil {
		return err
	}
	item.Details = invoicing.ItemDetails{
		ResourceName: offering.Name,
		ProductCode:  offering.ProductCode,
		ArticleCode:  offering.ArticleCode,
	}
	invoice.AddItem(item)
	return nil
}

func asSupportOffering(source invoicing.Resource) (*resources.SupportOffering, error) {
	offering, ok := source.(*resources.SupportOffering)
	if !ok {
		return nil, fmt.Errorf("unexpected source type for kind %s: %T", resources.KindSupportOffering, source)
	}
	return offering, nil
}

// ExpertContractRegistrator bills expert engagements per day
type ExpertContractRegistrator struct {
	contracts resources.ExpertContractRepository
}

// NewExpertContractRegistrator creates a registrator for expert contracts
func NewExpertContractRegistrator(contracts resources.ExpertContractRepository) *ExpertContractRegistrator {
	return &ExpertContractRegistrator{contracts: contracts}
}

// Kind implements invoicing.Registrator
func (r *ExpertContractRegistrator) Kind() invoicing.ResourceKind {
	return resources.KindExpertContract
}

// CustomerID implements invoicing.Registrator
func (r *ExpertContractRegistrator) CustomerID(_ context.Context, source invoicing.Resource) (uuid.UUID, error) {
	contract, err := asExpertContract(source)
	if err != nil {
		return uuid.Nil, err
	}
	return contract.CustomerID, nil
}

// ChargeableSources implements invoicing.Registrator
func (r *ExpertContractRegistrator) ChargeableSources(ctx context.Context, customerID uuid.UUID) ([]invoicing.Resource, error) {
	contracts, err := r.contracts.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find active contracts: %w", err)
	}
	sources := make([]invoicing.Resource, len(contracts))
	for i, contract := range contracts {
		sources[i] = contract
	}
	return sources, nil
}

// CreateItem implements invoicing.Registrator
func (r *ExpertContractRegistrator) CreateItem(invoice *invoicing.Invoice, source invoicing.Resource, start, end time.Time) error {
	contract, err := asExpertContract(source)
	if err != nil {
		return err
	}

	item, err := invoicing.NewInvoiceItem(
		invoice.ID,
		resources.KindExpertContract,
		contract.ID,
		contract.Identity(),
		contract.Description,
		invoicing.UnitPerDay,
		contract.DailyPrice,
		start,
		end,
	)
	if err != nil {
		return err
	}
	item.Details = invoicing.ItemDetails{
		ResourceName: contract.Description,
	}
	invoice.AddItem(item)
	return nil
}

func asExpertContract(source invoicing.Resource) (*resources.ExpertContract, error) {
	contract, ok := source.(*resources.ExpertContract)
	if !ok {
		return nil, fmt.Errorf("unexpected source type for kind %s: %T", resources.KindExpertContract, source)
	}
	return contract, nil
}
