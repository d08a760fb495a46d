// Package store defines the internal business records the connector keeps
// in sync with the storefront (catalog, customers, sales orders) and the
// repository interfaces the sync engine consumes. Persistence lives in the
// infrastructure layer.
package store
