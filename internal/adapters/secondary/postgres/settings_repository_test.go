package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
)

func TestSettingsRepository_GetEmptyReturnsZeroValue(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)
	repo := NewSettingsRepository(testPool)

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Zero(t, settings.Thresholds)
	assert.Empty(t, settings.CategoryTargetHours)
}

func TestSettingsRepository_SaveRoundtrip(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)
	repo := NewSettingsRepository(testPool)

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	saved := domain.Settings{
		Thresholds: domain.Thresholds{
			WarningHours:         3,
			CriticalHours:        0.5,
			DueSoonHours:         5,
			NoUpdateAlertMinutes: 30,
		},
		CategoryTargetHours: map[string]float64{"MAJOR": 6, "MINOR": 48},
		ThresholdsUpdatedAt: stamp,
		CategoriesUpdatedAt: stamp,
	}
	require.NoError(t, repo.Save(ctx, saved))

	found, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.Thresholds, found.Thresholds)
	assert.Equal(t, saved.CategoryTargetHours, found.CategoryTargetHours)
	assert.True(t, found.ThresholdsUpdatedAt.Equal(stamp))

	// Saving again overwrites the single row.
	saved.Thresholds.WarningHours = 2
	require.NoError(t, repo.Save(ctx, saved))
	found, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, found.Thresholds.WarningHours)
}

func TestSettingsRepository_Dropdowns(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)
	repo := NewSettingsRepository(testPool)

	_, err := repo.GetDropdown(ctx, domain.DropdownProviders)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	set := domain.DropdownSet{
		Name:      domain.DropdownProviders,
		Options:   []string{"Telkomsel", "Mitratel"},
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.SaveDropdown(ctx, set))

	found, err := repo.GetDropdown(ctx, domain.DropdownProviders)
	require.NoError(t, err)
	assert.Equal(t, set.Options, found.Options)

	// Upsert replaces the option list.
	set.Options = append(set.Options, "TelkomGroup")
	require.NoError(t, repo.SaveDropdown(ctx, set))
	found, err = repo.GetDropdown(ctx, domain.DropdownProviders)
	require.NoError(t, err)
	assert.Len(t, found.Options, 3)

	require.NoError(t, repo.SaveDropdown(ctx, domain.DropdownSet{
		Name:      domain.DropdownTeams,
		Options:   []string{"TA", "TB"},
		UpdatedAt: time.Now().UTC(),
	}))
	all, err := repo.ListDropdowns(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTechnicianRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)
	repo := NewTechnicianRepository(testPool)

	tech, err := domain.NewTechnician(domain.TechnicianParams{
		Name:       "Budi Santoso",
		Phone:      "081234567890",
		Area:       "Surabaya Selatan",
		EmployeeID: "MIT0042",
	})
	require.NoError(t, err)

	created, err := repo.Create(ctx, tech)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", found.Name)
	assert.True(t, found.IsActive)

	found.IsActive = false
	_, err = repo.Update(ctx, found)
	require.NoError(t, err)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrTechnicianNotFound)
}
