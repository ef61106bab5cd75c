// Package invoicing implements the usage registration and billing core.
//
// This package is responsible for:
//   - The monthly Invoice aggregate and its PENDING/CREATED/PAID/CANCELED lifecycle
//   - Invoice items that attribute resource usage to half-open time intervals
//   - Day/hour proration of fixed unit prices over usage periods
//   - Resolution of two usage records contending for the same calendar day
//     when a resource is replaced mid-day
//
// Key Aggregates:
//   - Invoice: one customer's bill for one (year, month) period
//
// Strategies:
//   - Registrator: per-resource-kind lookups and item creation, assembled
//     into an immutable Registry at composition time
//
// The invoicing domain integrates with:
//   - Resources domain: as the source of chargeable resources
//   - Application layer: RegistrationManager orchestrates registration and
//     termination against this package's contracts
package invoicing
