package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// SettingsService resolves the tiered configuration: compiled-in defaults,
// overlaid by the cache tier, overlaid by the remote store. A failure in the
// cache or the store degrades to the tiers below it instead of failing the
// read; writes go through to the store and refresh the cache.
type SettingsService struct {
	settingsRepo ports.SettingsRepository
	cache        ports.SettingsCache
	authzSvc     ports.AuthorizationService
	changefeed   ports.ChangefeedService
	logger       *slog.Logger
	now          func() time.Time
}

var _ ports.SettingsService = (*SettingsService)(nil)

// NewSettingsService creates a new settings service.
func NewSettingsService(
	settingsRepo ports.SettingsRepository,
	cache ports.SettingsCache,
	authzSvc ports.AuthorizationService,
	changefeed ports.ChangefeedService,
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		cache:        cache,
		authzSvc:     authzSvc,
		changefeed:   changefeed,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Test hook.
func (s *SettingsService) WithClock(now func() time.Time) *SettingsService {
	s.now = now
	return s
}

// Resolve merges the three tiers in precedence order. Stale sections never
// shadow newer ones regardless of which tier they come from.
func (s *SettingsService) Resolve(ctx context.Context) (domain.Settings, error) {
	merged := domain.DefaultSettings()

	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("settings cache read failed, continuing without it", "error", err)
	} else if ok {
		merged = merged.MergeFrom(cached)
	}

	remote, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Warn("settings store read failed, serving lower tiers", "error", err)
		return merged, nil
	}
	merged = merged.MergeFrom(remote)

	if err := s.cache.Put(ctx, merged); err != nil {
		s.logger.Warn("settings cache refresh failed", "error", err)
	}

	return merged, nil
}

// UpdateThresholds persists new alerting cutoffs.
func (s *SettingsService) UpdateThresholds(ctx context.Context, actorID uuid.UUID, thresholds domain.Thresholds) (domain.Settings, error) {
	if err := s.requireManage(ctx, actorID); err != nil {
		return domain.Settings{}, err
	}
	if thresholds.WarningHours <= 0 || thresholds.CriticalHours <= 0 ||
		thresholds.DueSoonHours <= 0 || thresholds.NoUpdateAlertMinutes <= 0 {
		return domain.Settings{}, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "threshold values must be positive")
	}
	if thresholds.CriticalHours > thresholds.WarningHours {
		return domain.Settings{}, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "critical threshold cannot exceed warning threshold")
	}

	current, err := s.Resolve(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	current.Thresholds = thresholds
	current.ThresholdsUpdatedAt = s.now()

	return s.save(ctx, current)
}

// UpdateCategoryTargets persists new per-category TTR targets.
func (s *SettingsService) UpdateCategoryTargets(ctx context.Context, actorID uuid.UUID, targets map[string]float64) (domain.Settings, error) {
	if err := s.requireManage(ctx, actorID); err != nil {
		return domain.Settings{}, err
	}
	for category, hours := range targets {
		if hours <= 0 {
			return domain.Settings{}, apperrors.NewValidationError(apperrors.ErrBadRequest,
				"target hours must be positive", map[string]interface{}{"category": category})
		}
	}

	current, err := s.Resolve(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	current.CategoryTargetHours = targets
	current.CategoriesUpdatedAt = s.now()

	return s.save(ctx, current)
}

// Dropdown fetches one named vocabulary, cache tier first.
func (s *SettingsService) Dropdown(ctx context.Context, name string) (domain.DropdownSet, error) {
	cached, ok, err := s.cache.GetDropdown(ctx, name)
	if err != nil {
		s.logger.Warn("dropdown cache read failed", "name", name, "error", err)
	} else if ok {
		return cached, nil
	}

	set, err := s.settingsRepo.GetDropdown(ctx, name)
	if err != nil {
		return domain.DropdownSet{}, err
	}

	if err := s.cache.PutDropdown(ctx, set); err != nil {
		s.logger.Warn("dropdown cache refresh failed", "name", name, "error", err)
	}
	return set, nil
}

// UpdateDropdown replaces one named vocabulary.
func (s *SettingsService) UpdateDropdown(ctx context.Context, actorID uuid.UUID, set domain.DropdownSet) (domain.DropdownSet, error) {
	if err := s.requireManage(ctx, actorID); err != nil {
		return domain.DropdownSet{}, err
	}
	if set.Name == "" {
		return domain.DropdownSet{}, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "dropdown name is required")
	}

	set.UpdatedAt = s.now()
	if err := s.settingsRepo.SaveDropdown(ctx, set); err != nil {
		return domain.DropdownSet{}, err
	}
	if err := s.cache.PutDropdown(ctx, set); err != nil {
		s.logger.Warn("dropdown cache refresh failed", "name", set.Name, "error", err)
	}

	s.changefeed.Notify(domain.TableSettings)
	return set, nil
}

func (s *SettingsService) save(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return domain.Settings{}, err
	}
	if err := s.cache.Put(ctx, settings); err != nil {
		s.logger.Warn("settings cache refresh failed", "error", err)
	}

	s.changefeed.Notify(domain.TableSettings)
	return settings, nil
}

func (s *SettingsService) requireManage(ctx context.Context, actorID uuid.UUID) error {
	allowed, err := s.authzSvc.Can(ctx, actorID, "settings:manage")
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrForbidden
	}
	return nil
}
