package invoicing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResourceKind tags one kind of chargeable resource. Dispatch always
// goes through the Registry map keyed by this tag, never by runtime
// type-name inspection.
type ResourceKind string

// String returns the string representation of the resource kind
func (k ResourceKind) String() string {
	return string(k)
}

// Resource is the invoicing view of a chargeable resource. Resource
// modules implement it for every entity whose usage must be billed.
type Resource interface {
	// ResourceID identifies the concrete resource instance
	ResourceID() uuid.UUID
	// Kind tags the resource for registrator dispatch
	Kind() ResourceKind
	// Identity is the logical name used for overlap matching; two
	// resources that replace each other share the same identity
	Identity() string
}

// Registrator is the per-resource-kind strategy. It knows how to find a
// customer's chargeable resources of one kind and how to turn one such
// resource into an invoice item.
type Registrator interface {
	// Kind returns the resource kind this registrator serves
	Kind() ResourceKind
	// CustomerID resolves the customer that pays for the resource
	CustomerID(ctx context.Context, source Resource) (uuid.UUID, error)
	// ChargeableSources enumerates the customer's currently chargeable
	// resources of this kind. The result is finite and fully materialized.
	ChargeableSources(ctx context.Context, customerID uuid.UUID) ([]Resource, error)
	// CreateItem registers a single chargeable source on the invoice
	// covering [start, end)
	CreateItem(invoice *Invoice, source Resource, start, end time.Time) error
}

// Register creates an invoice item for every source, covering usage from
// start until the end of start's month. A source that already has an
// open item on the invoice is skipped, so registration is idempotent and
// a bootstrap pass can safely overlap with individual registrations.
func Register(r Registrator, invoice *Invoice, sources []Resource, start time.Time) error {
	end := MonthEnd(start)
	for _, source := range sources {
		if invoice.OpenItemForResource(source.ResourceID()) != nil {
			continue
		}
		if err := r.CreateItem(invoice, source, start, end); err != nil {
			return fmt.Errorf("create item for %s %s: %w", r.Kind(), source.ResourceID(), err)
		}
	}
	return nil
}

// Terminate freezes the open invoice item for the source, ending its
// usage at now. A source with no open item is a legitimate no-op: the
// resource may have been deleted before it was ever billed. A non-pending
// invoice is left untouched as well, so a deletion event that arrives
// after its month was rolled over cannot reprice a frozen item.
func Terminate(invoice *Invoice, source Resource, now time.Time) {
	if invoice.State != StatePending {
		return
	}
	item := invoice.OpenItemForResource(source.ResourceID())
	if item == nil {
		return
	}
	end := now
	item.Freeze(item.Details, &end, true)
}

// ErrUnknownResourceKind is returned when no registrator serves a kind.
// It indicates a missing registration at composition time: a fatal
// configuration error, not a retryable condition.
var ErrUnknownResourceKind = shared.NewDomainError("UNKNOWN_RESOURCE_KIND", "No registrator for resource kind")

// Registry is the immutable mapping of resource kind to registrator.
// It is assembled once at composition time and is safe for concurrent
// reads; resource kinds are never registered at runtime.
type Registry struct {
	byKind map[ResourceKind]Registrator
	kinds  []ResourceKind
}

// NewRegistry builds a registry from the given registrators. Iteration
// order over the registry is deterministic: alphabetical by kind tag.
func NewRegistry(registrators ...Registrator) (*Registry, error) {
	byKind := make(map[ResourceKind]Registrator, len(registrators))
	kinds := make([]ResourceKind, 0, len(registrators))
	for _, r := range registrators {
		kind := r.Kind()
		if _, exists := byKind[kind]; exists {
			return nil, shared.NewDomainError("DUPLICATE_RESOURCE_KIND",
				fmt.Sprintf("Registrator for kind %q registered twice", kind))
		}
		byKind[kind] = r
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return &Registry{byKind: byKind, kinds: kinds}, nil
}

// For resolves the registrator serving the given kind
func (r *Registry) For(kind ResourceKind) (Registrator, error) {
	registrator, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResourceKind, kind)
	}
	return registrator, nil
}

// All returns every registrator in deterministic kind order
func (r *Registry) All() []Registrator {
	registrators := make([]Registrator, 0, len(r.kinds))
	for _, kind := range r.kinds {
		registrators = append(registrators, r.byKind[kind])
	}
	return registrators
}

// Kinds returns the registered kinds in deterministic order
func (r *Registry) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, len(r.kinds))
	copy(kinds, r.kinds)
	return kinds
}
