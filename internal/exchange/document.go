// Package exchange defines the portable Export Document (schema "3.0"):
// the file users export and import, and the blob stored remotely.
package exchange

import (
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
)

// SchemaVersion is the document schema this build reads and writes.
const SchemaVersion = "3.0"

// Document is the portable snapshot of a user's catalog customizations.
type Document struct {
	Schema         string                   `json:"schema,omitempty"`
	Version        string                   `json:"version,omitempty"`
	ExportDate     time.Time                `json:"exportDate,omitzero"`
	LastModified   time.Time                `json:"lastModified,omitzero"`
	Progress       domain.ProgressMap       `json:"progress"`
	Overlays       map[string]Overlay       `json:"overlays,omitempty"`
	CustomSubjects map[string]CustomSubject `json:"customSubjects,omitempty"`
	CustomTiers    map[string]CustomTier    `json:"customTiers,omitempty"`
	Theme          string                   `json:"theme,omitempty"`
}

// SchemaTag returns the document's schema tag. Older documents carry it
// under "version".
func (d *Document) SchemaTag() string {
	return domain.CoalesceStr(d.Schema, d.Version)
}

// Overlay is the user's customization of a catalog subject. A nil field
// means "keep the catalog value".
type Overlay struct {
	Goal      *string            `json:"goal,omitempty"`
	Notepad   *string            `json:"notepad,omitempty"`
	Resources *[]domain.Resource `json:"resources,omitempty"`
	Projects  *[]domain.Project  `json:"projects,omitempty"`
}

// IsEmpty reports whether the overlay changes nothing.
func (o Overlay) IsEmpty() bool {
	return o.Goal == nil && o.Notepad == nil && o.Resources == nil && o.Projects == nil
}

// CustomSubject is the full definition of a user-created subject.
type CustomSubject struct {
	Name      string            `json:"name"`
	Tier      string            `json:"tier"`
	Position  *int              `json:"position,omitempty"`
	Prereq    []string          `json:"prereq"`
	Coreq     []string          `json:"coreq"`
	Soft      []string          `json:"soft"`
	Summary   string            `json:"summary"`
	Goal      *string           `json:"goal"`
	Resources []domain.Resource `json:"resources"`
	Projects  []domain.Project  `json:"projects"`
	Notepad   string            `json:"notepad,omitempty"`
}

// CustomTier records a user-created tier. A missing Order means the
// custom default; 0 is a real position.
type CustomTier struct {
	Category string `json:"category"`
	Order    *int   `json:"order,omitempty"`
}
