package interfaces

import "context"

// RequestAnnotator receives the resolved project and version slugs for a
// request so middleware can log and meter them. Implementations must be
// cheap; resolver callers swallow any error it returns.
type RequestAnnotator interface {
	Annotate(ctx context.Context, projectSlug, versionSlug string) error
}
