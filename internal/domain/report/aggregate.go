package report

import (
	"time"

	"collection-crm/internal/domain/customer"
	"collection-crm/internal/domain/payment"

	"github.com/google/uuid"
)

// The folds in this file are pure: they never touch a repository, never
// error, and return zero values for empty input. The service layer is
// responsible for fetching rows already filtered by date range and by the
// caller's visible agent set.

type DashboardStats struct {
	TotalCustomers    int     `json:"totalCustomers"`
	TodayCollection   float64 `json:"todayCollection"`
	MonthlyCollection float64 `json:"monthlyCollection"`
	PendingBalance    float64 `json:"pendingBalance"`
}

type DailyPoint struct {
	Label  string    `json:"label"`
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

type AgentSummary struct {
	AgentID       uuid.UUID `json:"agentId"`
	Collected     float64   `json:"collected"`
	Target        float64   `json:"target"`
	PaidCount     int       `json:"paidCount"`
	NotPaidCount  int       `json:"notPaidCount"`
	PromisedCount int       `json:"promisedCount"`
}

type LedgerStatus string

const (
	LedgerPaid     LedgerStatus = "paid"
	LedgerPromised LedgerStatus = "promised"
	LedgerNotPaid  LedgerStatus = "not_paid"
	LedgerPending  LedgerStatus = "pending"
	// LedgerUpcoming marks days after today; they are never "pending".
	LedgerUpcoming LedgerStatus = "upcoming"
)

type LedgerDay struct {
	Date     time.Time    `json:"date"`
	Status   LedgerStatus `json:"status"`
	Amount   float64      `json:"amount"`
	IsFuture bool         `json:"isFuture"`
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ComputeDashboardStats folds the visible customers and payments into the
// dashboard card figures as of asOfDate.
//
// PendingBalance is a lifetime figure over the whole back-book, deliberately
// not scoped to any date range. MonthlyCollection has only a lower bound, so
// paid entries dated after asOfDate still count.
func ComputeDashboardStats(customers []*customer.Customer, payments []*payment.Payment, asOfDate time.Time) DashboardStats {
	stats := DashboardStats{}
	firstOfMonth := time.Date(asOfDate.Year(), asOfDate.Month(), 1, 0, 0, 0, 0, asOfDate.Location())

	for _, c := range customers {
		if c.Status == customer.StatusActive {
			stats.TotalCustomers++
		}
		stats.PendingBalance += c.LoanAmount
	}

	for _, p := range payments {
		if p.Status != payment.StatusPaid {
			continue
		}
		stats.PendingBalance -= p.Amount
		if sameDay(p.Date, asOfDate) {
			stats.TodayCollection += p.Amount
		}
		if !p.Date.Before(firstOfMonth) {
			stats.MonthlyCollection += p.Amount
		}
	}

	return stats
}

// LastNDays returns the last n calendar days ending at asOf, oldest first.
func LastNDays(asOf time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	days := make([]time.Time, 0, n)
	start := truncateToDay(asOf).AddDate(0, 0, -(n - 1))
	for i := 0; i < n; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// ComputeDailyCollections produces a dense series over the supplied days:
// days without a paid entry appear with amount 0, they are never omitted.
func ComputeDailyCollections(payments []*payment.Payment, days []time.Time) []DailyPoint {
	points := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		var total float64
		for _, p := range payments {
			if p.Status == payment.StatusPaid && sameDay(p.Date, day) {
				total += p.Amount
			}
		}
		points = append(points, DailyPoint{
			Label:  day.Format("02 Jan"),
			Date:   day,
			Amount: total,
		})
	}
	return points
}

// ComputeAgentPerformance summarizes each agent over a collection period.
// Payments must already be restricted to the period by payment date; the
// period bounds are still needed to classify promised dates.
//
// A customer with a paid and a not_paid entry on the same day counts in both
// the paid and not-paid sets: same-day correction entries are intentional
// and must not be deduplicated away.
func ComputeAgentPerformance(agentIDs []uuid.UUID, customers []*customer.Customer, payments []*payment.Payment, periodDays int, periodStart, periodEnd time.Time) []AgentSummary {
	summaries := make([]AgentSummary, 0, len(agentIDs))

	for _, agentID := range agentIDs {
		summary := AgentSummary{AgentID: agentID}

		for _, c := range customers {
			if c.Status == customer.StatusActive && c.AssignedAgentID != nil && *c.AssignedAgentID == agentID {
				summary.Target += float64(periodDays) * c.DailyAmount
			}
		}

		paidSet := make(map[int64]struct{})
		notPaidSet := make(map[int64]struct{})
		for _, p := range payments {
			if p.AgentID != agentID {
				continue
			}
			switch p.Status {
			case payment.StatusPaid:
				summary.Collected += p.Amount
				paidSet[p.CustomerID] = struct{}{}
			case payment.StatusNotPaid:
				notPaidSet[p.CustomerID] = struct{}{}
			}
			if p.PromisedDate != nil && !p.PromisedDate.Before(periodStart) && !p.PromisedDate.After(periodEnd) {
				summary.PromisedCount++
			}
		}
		summary.PaidCount = len(paidSet)
		summary.NotPaidCount = len(notPaidSet)

		summaries = append(summaries, summary)
	}
	return summaries
}

// ComputeCustomerLedger lays out one row per calendar day in
// [startDate, endDate] (endDate nil means today). Day status priority is
// paid > promised > not_paid > pending; a paid entry wins the day outright.
// Days after today are flagged IsFuture and classified upcoming, never
// pending.
func ComputeCustomerLedger(startDate time.Time, endDate *time.Time, payments []*payment.Payment, today time.Time) []LedgerDay {
	today = truncateToDay(today)
	start := truncateToDay(startDate)
	end := today
	if endDate != nil {
		end = truncateToDay(*endDate)
	}
	if end.Before(start) {
		return []LedgerDay{}
	}

	ledger := make([]LedgerDay, 0)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		row := LedgerDay{Date: day, IsFuture: day.After(today)}

		var paidAmount float64
		var hasPaid, hasPromised, hasNotPaid bool
		for _, p := range payments {
			if p.Status == payment.StatusPaid && sameDay(p.Date, day) {
				hasPaid = true
				paidAmount += p.Amount
			}
			if p.PromisedDate != nil && sameDay(*p.PromisedDate, day) {
				hasPromised = true
			}
			if p.Status == payment.StatusNotPaid && sameDay(p.Date, day) {
				hasNotPaid = true
			}
		}

		switch {
		case hasPaid:
			row.Status = LedgerPaid
			row.Amount = paidAmount
		case hasPromised:
			row.Status = LedgerPromised
		case hasNotPaid:
			row.Status = LedgerNotPaid
		case row.IsFuture:
			row.Status = LedgerUpcoming
		default:
			row.Status = LedgerPending
		}

		ledger = append(ledger, row)
	}
	return ledger
}
