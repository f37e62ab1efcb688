package domain

// Progress is the completion state of a subject.
type Progress string

const (
	ProgressEmpty    Progress = "empty"
	ProgressPartial  Progress = "partial"
	ProgressComplete Progress = "complete"
)

// Valid reports whether p is one of the known progress values.
func (p Progress) Valid() bool {
	switch p {
	case ProgressEmpty, ProgressPartial, ProgressComplete:
		return true
	}
	return false
}

// Next returns the progress value that follows p in the
// empty -> partial -> complete -> empty cycle.
func (p Progress) Next() Progress {
	switch p {
	case ProgressEmpty:
		return ProgressPartial
	case ProgressPartial:
		return ProgressComplete
	default:
		return ProgressEmpty
	}
}

type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "not-started"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// Valid reports whether s is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectNotStarted, ProjectInProgress, ProjectCompleted:
		return true
	}
	return false
}

// Next cycles not-started -> in-progress -> completed -> not-started.
func (s ProjectStatus) Next() ProjectStatus {
	switch s {
	case ProjectNotStarted:
		return ProjectInProgress
	case ProjectInProgress:
		return ProjectCompleted
	default:
		return ProjectNotStarted
	}
}

// Progress maps a project status onto the subject progress scale.
// Unknown statuses map to empty.
func (s ProjectStatus) Progress() Progress {
	switch s {
	case ProjectInProgress:
		return ProgressPartial
	case ProjectCompleted:
		return ProgressComplete
	default:
		return ProgressEmpty
	}
}

type ResourceType string

const (
	ResourceLink ResourceType = "link"
	ResourceText ResourceType = "text"
)

type Readiness string

const (
	ReadinessReady      Readiness = "ready"
	ReadinessBlocked    Readiness = "blocked"
	ReadinessInProgress Readiness = "in-progress"
	ReadinessComplete   Readiness = "complete"
)

type ViewMode string

const (
	ViewOwner  ViewMode = "owner"
	ViewPublic ViewMode = "public"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type View string

const (
	ViewDashboard View = "dashboard"
	ViewCatalog   View = "catalog"
)

// Custom tier defaults. Tiers at or beyond CustomTierOrder, or in the
// custom category, are user-created and pruned once empty.
const (
	CustomCategory  = "custom"
	CustomTierOrder = 999
)

// StatusFilters maps status filter names onto progress values.
var StatusFilters = map[string]Progress{
	"not-started": ProgressEmpty,
	"in-progress": ProgressPartial,
	"completed":   ProgressComplete,
}
