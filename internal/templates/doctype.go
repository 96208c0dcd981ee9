// Package templates provides the deterministic document skeletons and
// completion checklists used by the offline fallback path.
//
// Nothing here touches the clock, the network, or any random source:
// rendering the same skeleton twice yields byte-identical output. Offline
// mode leans on that.
package templates

import "fmt"

// DocType identifies which document a skeleton or checklist is for.
type DocType string

const (
	DocPRD          DocType = "prd"
	DocRequirements DocType = "requirements"
	DocDesign       DocType = "design"
	DocTasks        DocType = "tasks"
)

// validDocTypes is the set of recognized document types.
var validDocTypes = map[DocType]bool{
	DocPRD:          true,
	DocRequirements: true,
	DocDesign:       true,
	DocTasks:        true,
}

// ValidateDocType returns an error if dt is not recognized.
func ValidateDocType(dt DocType) error {
	if !validDocTypes[dt] {
		return fmt.Errorf("invalid document type %q: must be one of: prd, requirements, design, tasks", dt)
	}
	return nil
}

// Filename returns the conventional artifact filename for a document type.
func Filename(dt DocType) string {
	return string(dt) + ".md"
}
