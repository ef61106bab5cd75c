// Package resources provides the chargeable resource aggregates the
// brokerage provisions on behalf of customers: cloud tenant packages,
// support offerings and expert contracts. Each aggregate implements
// invoicing.Resource so the billing core can register and terminate its
// usage without knowing resource specifics.
package resources
