package loan_test

import (
	"testing"
	"time"

	"collection-crm/internal/domain/loan"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeCharges_DeductedUpFront(t *testing.T) {
	charges := loan.ComputeCharges(10000, 12, 2, 0, false)

	assert.Equal(t, 1200.0, charges.InterestAmount)
	assert.Equal(t, 200.0, charges.ProcessingAmount)
	assert.Equal(t, 1400.0, charges.TotalCharges)
	assert.Equal(t, 8600.0, charges.DisbursalAmount)
	assert.Equal(t, 10000.0, charges.OutstandingAmount)
}

func TestComputeCharges_IncludedInOutstanding(t *testing.T) {
	charges := loan.ComputeCharges(10000, 12, 2, 0, true)

	assert.Equal(t, 10000.0, charges.DisbursalAmount, "customer receives the gross")
	assert.Equal(t, 11400.0, charges.OutstandingAmount, "customer owes gross plus charges")
}

func TestComputeCharges_RoundsHalfUpToWholeUnits(t *testing.T) {
	// 3333 * 1.5% = 49.995 -> 50
	charges := loan.ComputeCharges(3333, 1.5, 0, 0, false)
	assert.Equal(t, 50.0, charges.InterestAmount)

	// 1001 * 2.5% = 25.025 -> 25
	charges = loan.ComputeCharges(1001, 2.5, 0, 0, false)
	assert.Equal(t, 25.0, charges.InterestAmount)
}

func TestComputeCharges_OtherDeductionsAreNotRounded(t *testing.T) {
	charges := loan.ComputeCharges(10000, 0, 0, 150.50, false)

	assert.Equal(t, 150.5, charges.TotalCharges)
	assert.Equal(t, 9849.5, charges.DisbursalAmount)
}

func TestTenureDays_CountsBothEndpoints(t *testing.T) {
	assert.Equal(t, 1, loan.TenureDays(date(2026, 3, 1), date(2026, 3, 1)))
	assert.Equal(t, 60, loan.TenureDays(date(2026, 3, 1), date(2026, 4, 29)))
	assert.Equal(t, 31, loan.TenureDays(date(2026, 1, 1), date(2026, 1, 31)))
}

func TestDailyInstallment(t *testing.T) {
	t.Run("rounds to two decimals", func(t *testing.T) {
		// 10000 over 60 days = 166.666... -> 166.67
		daily, ok := loan.DailyInstallment(10000, date(2026, 3, 1), date(2026, 4, 29))
		assert.True(t, ok)
		assert.Equal(t, 166.67, daily)
	})

	t.Run("non-positive tenure reports not ok", func(t *testing.T) {
		_, ok := loan.DailyInstallment(10000, date(2026, 3, 10), date(2026, 3, 1))
		assert.False(t, ok, "end before start must not produce an installment")
	})
}

func TestNewLoan(t *testing.T) {
	t.Run("derives the daily amount when an end date is set", func(t *testing.T) {
		endDate := date(2026, 4, 29)
		l := loan.NewLoan(7, 10000, 12, 2, 0, false, date(2026, 3, 1), &endDate, 999)

		assert.Equal(t, loan.StatusPendingFundLink, l.Status)
		assert.Equal(t, 8600.0, l.DisbursalAmount)
		assert.Equal(t, 10000.0, l.OutstandingAmount)
		assert.Equal(t, 166.67, l.DailyAmount, "explicit daily amount is replaced by the derived one")
	})

	t.Run("keeps the supplied daily amount without an end date", func(t *testing.T) {
		l := loan.NewLoan(7, 10000, 12, 2, 0, false, date(2026, 3, 1), nil, 250)
		assert.Equal(t, 250.0, l.DailyAmount)
	})

	t.Run("keeps the supplied daily amount when the tenure is non-positive", func(t *testing.T) {
		endDate := date(2026, 2, 1)
		l := loan.NewLoan(7, 10000, 0, 0, 0, false, date(2026, 3, 1), &endDate, 250)
		assert.Equal(t, 250.0, l.DailyAmount)
	})
}
