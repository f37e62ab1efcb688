package catalog

// Document is the on-disk shape of a subject catalog. The same structure
// is read from JSON, YAML or TOML.
type Document struct {
	Version string             `json:"version" yaml:"version" toml:"version"`
	Tiers   map[string]TierDef `json:"tiers" yaml:"tiers" toml:"tiers"`
}

// TierDef defines one tier of the catalog.
type TierDef struct {
	Category string       `json:"category" yaml:"category" toml:"category"`
	Order    int          `json:"order" yaml:"order" toml:"order"`
	Subjects []SubjectDef `json:"subjects" yaml:"subjects" toml:"subjects"`
}

// SubjectDef defines a catalog subject.
type SubjectDef struct {
	ID        string        `json:"id" yaml:"id" toml:"id"`
	Name      string        `json:"name" yaml:"name" toml:"name"`
	Summary   string        `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
	Goal      string        `json:"goal,omitempty" yaml:"goal,omitempty" toml:"goal,omitempty"`
	Prereq    []string      `json:"prereq,omitempty" yaml:"prereq,omitempty" toml:"prereq,omitempty"`
	Coreq     []string      `json:"coreq,omitempty" yaml:"coreq,omitempty" toml:"coreq,omitempty"`
	Soft      []string      `json:"soft,omitempty" yaml:"soft,omitempty" toml:"soft,omitempty"`
	Resources []ResourceDef `json:"resources,omitempty" yaml:"resources,omitempty" toml:"resources,omitempty"`
}

// ResourceDef is a catalog-provided resource.
type ResourceDef struct {
	Type  string `json:"type" yaml:"type" toml:"type"`
	Value string `json:"value" yaml:"value" toml:"value"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
}
