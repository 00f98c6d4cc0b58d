// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain types so the domain stays free of ORM
// tags. Each model offers ToDomain and FromDomain mappers.
//
// Structure:
//   - base.go: shared timestamp columns
//   - product.go: products table (catalog listing order kept in position)
//   - order.go: orders table with the embedded product snapshot
package models
