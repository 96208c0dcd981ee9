package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExecutor applies document updates to markdown files on disk. It is
// the default tool executor: hosts that prefer to apply edits themselves
// can inject their own and receive the updates in the response instead.
type FileExecutor struct{}

// NewFileExecutor creates a filesystem-backed executor.
func NewFileExecutor() *FileExecutor {
	return &FileExecutor{}
}

// Execute applies one tool invocation. Only insertSection is supported;
// unknown tools are an error so misrouted calls surface instead of
// silently no-oping.
func (e *FileExecutor) Execute(ctx context.Context, tool string, params map[string]any) error {
	if tool != "insertSection" {
		return fmt.Errorf("unsupported tool %q", tool)
	}

	path, _ := params["path"].(string)
	section, _ := params["section"].(string)
	content, _ := params["content"].(string)
	mode, _ := params["mode"].(string)
	if path == "" || section == "" || content == "" {
		return fmt.Errorf("insertSection needs path, section and content")
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	updated := insertSection(string(existing), section, content, mode)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// insertSection merges content into a document under a "## section"
// heading. A missing section is appended at the end of the document.
func insertSection(doc, section, content, mode string) string {
	heading := "## " + section
	body := strings.TrimRight(content, "\n")

	start, end := sectionBounds(doc, heading)
	if start < 0 {
		var sb strings.Builder
		sb.WriteString(strings.TrimRight(doc, "\n"))
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(heading)
		sb.WriteString("\n\n")
		sb.WriteString(body)
		sb.WriteString("\n")
		return sb.String()
	}

	existing := strings.TrimSpace(doc[start:end])
	var merged string
	switch mode {
	case "replace":
		merged = body
	case "prepend":
		merged = body + "\n\n" + existing
	default: // append
		if existing == "" {
			merged = body
		} else {
			merged = existing + "\n\n" + body
		}
	}

	return doc[:start] + "\n" + merged + "\n" + doc[end:]
}

// sectionBounds locates the body of a section: the byte range between
// its heading line and the next "## " heading or end of document.
// Returns start = -1 when the heading is absent.
func sectionBounds(doc, heading string) (start, end int) {
	idx := -1
	if strings.HasPrefix(doc, heading+"\n") || doc == heading {
		idx = 0
	} else if i := strings.Index(doc, "\n"+heading+"\n"); i >= 0 {
		idx = i + 1
	} else if strings.HasSuffix(doc, "\n"+heading) {
		idx = len(doc) - len(heading)
	}
	if idx < 0 {
		return -1, -1
	}

	start = idx + len(heading)
	rest := doc[start:]
	if next := strings.Index(rest, "\n## "); next >= 0 {
		return start, start + next + 1
	}
	return start, len(doc)
}
