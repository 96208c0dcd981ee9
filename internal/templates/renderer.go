package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Renderer produces document skeletons and completion checklists.
// Abstracted as an interface so tests can swap in a stub.
type Renderer interface {
	// Skeleton renders the markdown skeleton for a document type.
	Skeleton(dt DocType, title string) (string, error)
	// Checklist renders the completion checklist for a document type.
	Checklist(dt DocType) (string, error)
}

// renderer is the concrete Renderer backed by parsed text/template
// skeletons. Templates are parsed once in NewRenderer so rendering
// never fails on syntax at call time.
type renderer struct {
	skeletons map[DocType]*template.Template
}

// skeletonData is the data passed to every skeleton template.
type skeletonData struct {
	Title string
}

// NewRenderer parses all skeleton templates and returns a Renderer.
func NewRenderer() (Renderer, error) {
	sources := map[DocType]string{
		DocPRD:          prdSkeleton,
		DocRequirements: requirementsSkeleton,
		DocDesign:       designSkeleton,
		DocTasks:        tasksSkeleton,
	}

	skeletons := make(map[DocType]*template.Template, len(sources))
	for dt, src := range sources {
		tmpl, err := template.New(string(dt)).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s skeleton: %w", dt, err)
		}
		skeletons[dt] = tmpl
	}

	return &renderer{skeletons: skeletons}, nil
}

// Skeleton renders the markdown skeleton for a document type.
func (r *renderer) Skeleton(dt DocType, title string) (string, error) {
	tmpl, ok := r.skeletons[dt]
	if !ok {
		return "", fmt.Errorf("no skeleton for document type %q", dt)
	}

	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, skeletonData{Title: title}); err != nil {
		return "", fmt.Errorf("rendering %s skeleton: %w", dt, err)
	}
	return buf.String(), nil
}

// Checklist renders the completion checklist for a document type.
func (r *renderer) Checklist(dt DocType) (string, error) {
	items, ok := checklists[dt]
	if !ok {
		return "", fmt.Errorf("no checklist for document type %q", dt)
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- [ ] ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
