package agreements

import (
	"time"

	"github.com/shadyhoon/RentEase/pkg/models"
)

// DurationMonths returns the agreement length in months, preferring the
// current column over the legacy one.
func DurationMonths(a *models.Agreement) int {
	if a.DurationMonths > 0 {
		return a.DurationMonths
	}
	return a.Duration
}

// ComputeEndDate returns the effective end of the agreement: the stored end
// date when present, otherwise start date plus duration. Returns nil when
// neither yields a date.
func ComputeEndDate(a *models.Agreement) *time.Time {
	if a.EndDate != nil {
		return a.EndDate
	}

	months := DurationMonths(a)
	if a.StartDate == nil || months <= 0 {
		return nil
	}

	// AddDate normalizes overflow the same way the rest of the system always
	// has: Jan 31 + 1 month lands in early March.
	end := a.StartDate.AddDate(0, months, 0)
	return &end
}

// Derive fills in a missing end date and lapses approved or signed agreements
// whose end has passed. It mutates the agreement and reports whether anything
// changed. Running it twice with the same clock is a no-op the second time.
func Derive(a *models.Agreement, now time.Time) bool {
	if a == nil || a.IsDeleted || a.Status == models.AgreementStatusDeleted {
		return false
	}

	end := ComputeEndDate(a)
	if end == nil {
		return false
	}

	changed := false
	if a.EndDate == nil {
		a.EndDate = end
		changed = true
	}

	if now.After(*end) &&
		(a.Status == models.AgreementStatusApproved || a.Status == models.AgreementStatusSigned) {
		a.Status = models.AgreementStatusExpired
		changed = true
	}

	return changed
}

// MatchesTenant reports whether the agreement is addressed to the given user,
// either by account ID or by case-insensitive email.
func MatchesTenant(a *models.Agreement, userID, email string) bool {
	if userID != "" && a.TenantUserID == userID {
		return true
	}
	if email == "" {
		return false
	}
	return normalizeEmail(a.TenantEmail) == normalizeEmail(email)
}
