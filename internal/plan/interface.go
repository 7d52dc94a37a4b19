package plan

import "context"

// Loader is the interface for a format-specific plan document loader. A
// loader reads one or more files (or a directory of them), translates its
// syntax into the format-agnostic Document, and preserves the author's block
// declaration order — that order is the execution order.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Document, error)
}
