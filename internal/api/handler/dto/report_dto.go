package dto

import (
	"collection-crm/internal/domain/report"
)

type LedgerDayResponse struct {
	Date     string  `json:"date"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	IsFuture bool    `json:"isFuture"`
}

func NewLedgerResponse(days []report.LedgerDay) []LedgerDayResponse {
	resp := make([]LedgerDayResponse, len(days))
	for i, d := range days {
		resp[i] = LedgerDayResponse{
			Date:     d.Date.Format(dateLayout),
			Status:   string(d.Status),
			Amount:   d.Amount,
			IsFuture: d.IsFuture,
		}
	}
	return resp
}
