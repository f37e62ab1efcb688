package service

import (
	"context"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/filter"
)

type SubjectService interface {
	Get(ctx context.Context, id string) (*SubjectDetail, error)
	List(ctx context.Context, c filter.Criteria) ([]filter.Match, error)
	Create(ctx context.Context, in NewSubject) (*domain.Subject, error)
	Update(ctx context.Context, id string, in SubjectUpdate) error
	Delete(ctx context.Context, id string, force bool) error
	Dependents(ctx context.Context, id string) ([]domain.SubjectRef, error)
	AddResource(ctx context.Context, subjectID, value, url string) (*domain.Resource, error)
	RemoveResource(ctx context.Context, subjectID, resourceID string) error
	Refs(ctx context.Context) []domain.SubjectRef
	Suggest(ctx context.Context, input string) []domain.SubjectRef
	Categories(ctx context.Context) []string
}

type ProjectService interface {
	Add(ctx context.Context, subjectID string, in NewProject) (*domain.Project, error)
	Update(ctx context.Context, subjectID, projectID string, in ProjectUpdate) error
	Delete(ctx context.Context, subjectID, projectID string) error
	SetStatus(ctx context.Context, subjectID, projectID string, status domain.ProjectStatus) error
	CycleStatus(ctx context.Context, subjectID, projectID string) (domain.ProjectStatus, error)
	AddResource(ctx context.Context, subjectID, projectID, value, url string) (*domain.Resource, error)
	RemoveResource(ctx context.Context, subjectID, projectID, resourceID string) error
}

type ProgressService interface {
	Get(ctx context.Context, subjectID string) (domain.Progress, error)
	Set(ctx context.Context, subjectID string, p domain.Progress) error
	Cycle(ctx context.Context, subjectID string) (domain.Progress, error)
	Dashboard(ctx context.Context) *Dashboard
}

type TransferService interface {
	Export(ctx context.Context) *exchange.Document
	ExportJSON(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte, acceptSchemaMismatch bool) (*ImportResult, error)
	Reset(ctx context.Context, phrase string) error
}

type SessionService interface {
	Login(ctx context.Context, token string) (*LoginResult, error)
	Logout(ctx context.Context) error
	ViewMode(ctx context.Context) domain.ViewMode
	Pull(ctx context.Context) (*PullResult, error)
	Push(ctx context.Context) error
	StartAutoSync(ctx context.Context) error
	StopAutoSync()
	SyncStatus(ctx context.Context) *SyncStatus
}

type PreferenceService interface {
	Theme(ctx context.Context) domain.Theme
	SetTheme(ctx context.Context, t domain.Theme) error
	View(ctx context.Context) domain.View
	SetView(ctx context.Context, v domain.View) error
}
