// Package repo provides a generic Neo4j node repository. Writes that
// maintain relationships stay in store-specific cypher; the repository
// covers listing and removing labeled nodes.
package repo

import "context"

// Repository is the generic node store interface.
type Repository[T any, ID comparable] interface {
	List(ctx context.Context, opts ListOpts) ([]T, error)
	Delete(ctx context.Context, id ID) error
}

// ListOpts controls filtering, ordering, and pagination for List.
type ListOpts struct {
	Offset  int
	Limit   int
	OrderBy string         // node property, ascending
	Filter  map[string]any // exact-match node properties
}
