// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: AggregateModel, the columns shared by every table
// - customer.go: Customer model
// - product.go: Product model
// - invoice.go: Invoice and line item models
package models
