package interfaces

// TemplateRenderer produces HTML for diagnostic pages. The proxito 404
// handler feeds it a template name plus the context gathered by the failing
// resolution stage (which slug was searched, what alternatives exist).
type TemplateRenderer interface {
	Render(name string, context map[string]any) ([]byte, error)
}
