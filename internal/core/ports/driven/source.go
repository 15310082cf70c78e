package driven

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// DocumentSource discovers markdown documents holding requirements.
// Each source type (filesystem, github) implements this interface.
type DocumentSource interface {
	// Type returns the source type identifier.
	Type() string

	// Root returns a human-readable location of the source, such as a
	// directory or "owner/repo@ref".
	Root() string

	// Capabilities returns what this source supports.
	Capabilities() SourceCapabilities

	// Validate checks that the source is reachable and readable.
	Validate(ctx context.Context) error

	// Documents streams every selected document in a stable order.
	// The document channel is closed when listing finishes; at most one
	// error is sent on the error channel, which is then closed.
	Documents(ctx context.Context) (<-chan domain.SourceDocument, <-chan error)

	// Watch reports document changes until ctx is cancelled.
	// Only available if SupportsWatch is true.
	Watch(ctx context.Context) (<-chan domain.DocumentChange, error)

	// Close releases resources.
	Close() error
}

// SourceCapabilities describes what a document source supports.
type SourceCapabilities struct {
	// SupportsWatch indicates the source can push change events.
	SupportsWatch bool

	// RequiresAuth indicates the source needs a token.
	RequiresAuth bool

	// SupportsRateLimiting indicates the source throttles its own requests.
	SupportsRateLimiting bool
}
