// Package domain defines the core business entities for Makerlens.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Product: An indexed web product with tags, categories and an embedding
//   - PageContent: The extracted content of a product's web page
//   - ChangeReport: Field-level differences produced by a re-index
//   - SearchOptions / SearchResult: Search inputs and outputs
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
