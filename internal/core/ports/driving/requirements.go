package driving

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// RequirementService reads, validates and locks the requirements of a
// project.
type RequirementService interface {
	// Scan discovers documents and parses requirements without validating
	// the collection.
	Scan(ctx context.Context) (*domain.ScanResult, error)

	// Validate scans and runs every validator, returning the requirements
	// in document order.
	Validate(ctx context.Context) ([]domain.ParsedRequirement, error)

	// Init validates the documents and writes the first lockfile.
	// An existing lockfile is an error unless force is set.
	Init(ctx context.Context, force bool) (*domain.InitResult, error)

	// Check compares the lockfile with a fresh parse of the documents.
	Check(ctx context.Context) (*domain.CheckResult, error)

	// Lock validates the documents and rewrites the lockfile when it
	// differs from them.
	Lock(ctx context.Context) (*domain.LockResult, error)

	// Get returns one validated requirement with its neighbourhood.
	Get(ctx context.Context, id string) (*domain.RequirementDetail, error)

	// List returns the validated requirements that match filter.
	List(ctx context.Context, filter domain.RequirementFilter) ([]domain.ParsedRequirement, error)
}
