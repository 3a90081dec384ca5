package agreements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shadyhoon/RentEase/pkg/models"
)

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDurationMonths_PrefersCurrentColumn(t *testing.T) {
	a := &models.Agreement{DurationMonths: 12, Duration: 6}
	assert.Equal(t, 12, DurationMonths(a))
}

func TestDurationMonths_FallsBackToLegacyColumn(t *testing.T) {
	a := &models.Agreement{Duration: 6}
	assert.Equal(t, 6, DurationMonths(a))
}

func TestComputeEndDate_StoredEndDateWins(t *testing.T) {
	a := &models.Agreement{
		StartDate:      date(2025, time.January, 1),
		EndDate:        date(2025, time.June, 1),
		DurationMonths: 12,
	}
	assert.Equal(t, date(2025, time.June, 1), ComputeEndDate(a))
}

func TestComputeEndDate_FromStartAndDuration(t *testing.T) {
	a := &models.Agreement{
		StartDate:      date(2025, time.January, 1),
		DurationMonths: 11,
	}
	assert.Equal(t, date(2025, time.December, 1), ComputeEndDate(a))
}

func TestComputeEndDate_MonthOverflowNormalizes(t *testing.T) {
	a := &models.Agreement{
		StartDate:      date(2025, time.January, 31),
		DurationMonths: 1,
	}
	// January 31 + 1 month normalizes past February's end.
	assert.Equal(t, date(2025, time.March, 3), ComputeEndDate(a))
}

func TestComputeEndDate_NilWithoutStartDate(t *testing.T) {
	a := &models.Agreement{DurationMonths: 12}
	assert.Nil(t, ComputeEndDate(a))
}

func TestComputeEndDate_NilWithoutDuration(t *testing.T) {
	a := &models.Agreement{StartDate: date(2025, time.January, 1)}
	assert.Nil(t, ComputeEndDate(a))
}

func TestDerive_FillsMissingEndDate(t *testing.T) {
	a := &models.Agreement{
		Status:         models.AgreementStatusApproved,
		StartDate:      date(2025, time.January, 1),
		DurationMonths: 12,
	}

	changed := Derive(a, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, changed)
	assert.Equal(t, date(2026, time.January, 1), a.EndDate)
	assert.Equal(t, models.AgreementStatusApproved, a.Status)
}

func TestDerive_LapsesApprovedPastEndDate(t *testing.T) {
	a := &models.Agreement{
		Status:  models.AgreementStatusApproved,
		EndDate: date(2025, time.January, 1),
	}

	changed := Derive(a, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, changed)
	assert.Equal(t, models.AgreementStatusExpired, a.Status)
}

func TestDerive_LapsesSignedPastEndDate(t *testing.T) {
	a := &models.Agreement{
		Status:  models.AgreementStatusSigned,
		EndDate: date(2025, time.January, 1),
	}

	assert.True(t, Derive(a, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.AgreementStatusExpired, a.Status)
}

func TestDerive_DoesNotLapseAtExactEndDate(t *testing.T) {
	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	a := &models.Agreement{
		Status:  models.AgreementStatusApproved,
		EndDate: &end,
	}

	assert.False(t, Derive(a, end))
	assert.Equal(t, models.AgreementStatusApproved, a.Status)
}

func TestDerive_LeavesPendingStatusesAlone(t *testing.T) {
	a := &models.Agreement{
		Status:  models.AgreementStatusSentToTenant,
		EndDate: date(2025, time.January, 1),
	}

	assert.False(t, Derive(a, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.AgreementStatusSentToTenant, a.Status)
}

func TestDerive_Idempotent(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	a := &models.Agreement{
		Status:         models.AgreementStatusApproved,
		StartDate:      date(2024, time.January, 1),
		DurationMonths: 12,
	}

	assert.True(t, Derive(a, now))
	assert.Equal(t, models.AgreementStatusExpired, a.Status)
	assert.False(t, Derive(a, now))
}

func TestDerive_SkipsDeleted(t *testing.T) {
	a := &models.Agreement{
		Status:    models.AgreementStatusApproved,
		IsDeleted: true,
		EndDate:   date(2025, time.January, 1),
	}

	assert.False(t, Derive(a, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, Derive(nil, time.Now()))
}

func TestMatchesTenant(t *testing.T) {
	a := &models.Agreement{TenantUserID: "u1", TenantEmail: "Tenant@Example.com"}

	assert.True(t, MatchesTenant(a, "u1", ""))
	assert.True(t, MatchesTenant(a, "", "tenant@example.com"))
	assert.True(t, MatchesTenant(a, "someone-else", "  TENANT@example.com  "))
	assert.False(t, MatchesTenant(a, "someone-else", "other@example.com"))
	assert.False(t, MatchesTenant(a, "", ""))
}
