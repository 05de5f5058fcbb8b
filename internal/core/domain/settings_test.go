package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

func TestSettings_TargetHoursFor(t *testing.T) {
	s := domain.DefaultSettings()

	assert.Equal(t, 8.0, s.TargetHoursFor("MAJOR"))
	assert.Equal(t, float64(domain.DefaultTTRTargetHours), s.TargetHoursFor("UNKNOWN"))
}

func TestSettings_MergeFrom(t *testing.T) {
	base := domain.DefaultSettings()
	base.ThresholdsUpdatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	base.CategoriesUpdatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("newer section wins", func(t *testing.T) {
		remote := domain.Settings{
			Thresholds:          domain.Thresholds{WarningHours: 10, CriticalHours: 3, DueSoonHours: 12},
			ThresholdsUpdatedAt: base.ThresholdsUpdatedAt.Add(time.Hour),
		}
		merged := base.MergeFrom(remote)
		assert.Equal(t, 10.0, merged.Thresholds.WarningHours)
		// Categories section untouched: remote's zero timestamp is older.
		assert.Equal(t, base.CategoryTargetHours, merged.CategoryTargetHours)
	})

	t.Run("older section is ignored", func(t *testing.T) {
		stale := domain.Settings{
			Thresholds:          domain.Thresholds{WarningHours: 99},
			ThresholdsUpdatedAt: base.ThresholdsUpdatedAt.Add(-time.Hour),
		}
		merged := base.MergeFrom(stale)
		assert.Equal(t, base.Thresholds, merged.Thresholds)
	})

	t.Run("merge is idempotent", func(t *testing.T) {
		remote := domain.Settings{
			CategoryTargetHours: map[string]float64{"MAJOR": 4},
			CategoriesUpdatedAt: base.CategoriesUpdatedAt.Add(time.Hour),
		}
		once := base.MergeFrom(remote)
		twice := once.MergeFrom(remote)
		assert.Equal(t, once, twice)
	})
}

func TestTechnician_IsMitra(t *testing.T) {
	mitra := &domain.Technician{EmployeeID: "MIT-0042"}
	internal := &domain.Technician{EmployeeID: "TLK-0042"}
	lower := &domain.Technician{EmployeeID: "mit-0099"}

	assert.True(t, mitra.IsMitra())
	assert.False(t, internal.IsMitra())
	assert.True(t, lower.IsMitra())
}
