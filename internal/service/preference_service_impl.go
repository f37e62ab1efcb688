package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/polymath/internal/domain"
)

// Preferences are per-device and editable in any view mode.
type preferenceService struct {
	t *Tracker
}

func (s *preferenceService) Theme(ctx context.Context) domain.Theme {
	s.t.mu.RLock()
	defer s.t.mu.RUnlock()
	return s.t.theme
}

func (s *preferenceService) SetTheme(ctx context.Context, theme domain.Theme) error {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return fmt.Errorf("theme %q: %w", theme, domain.ErrInvalid)
	}
	return s.t.setTheme(ctx, theme)
}

func (s *preferenceService) View(ctx context.Context) domain.View {
	v, err := s.t.store.View(ctx)
	if err != nil {
		s.t.logger.WarnContext(ctx, "reading current view", "error", err)
		return domain.ViewDashboard
	}
	return v
}

func (s *preferenceService) SetView(ctx context.Context, v domain.View) error {
	if v != domain.ViewDashboard && v != domain.ViewCatalog {
		return fmt.Errorf("view %q: %w", v, domain.ErrInvalid)
	}
	return s.t.store.SetView(ctx, v)
}

func (t *Tracker) setTheme(ctx context.Context, theme domain.Theme) error {
	if err := t.store.SetTheme(ctx, theme); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	t.mu.Lock()
	t.theme = theme
	t.mu.Unlock()
	return nil
}
