package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"timebill/models"
)

var minutesPerHour = decimal.NewFromInt(60)

// Line is a normalized, display-ready time entry. Rate is the effective
// rate the amount was billed at (the project's rate, zero when unset);
// CustomerRate carries the customer's default so callers can show either.
type Line struct {
	ID           uint
	Description  string
	Minutes      int
	Date         time.Time
	Start        time.Time
	End          time.Time
	CustomerName string
	ProjectName  string
	TaskName     string
	UserName     string
	Rate         decimal.Decimal
	CustomerRate decimal.Decimal
	Amount       decimal.Decimal
	Invoiced     bool
}

// Aggregate prices each entry at minutes/60 times the project rate and sums
// the amounts. No rounding happens during accumulation; callers round to
// two decimals at display time.
func Aggregate(entries []models.TimeEntry, customer *models.Customer) (decimal.Decimal, []Line) {
	total := decimal.Zero
	lines := make([]Line, 0, len(entries))

	for _, entry := range entries {
		rate := entry.Project.BillingRate()
		amount := decimal.NewFromInt(int64(entry.Duration)).Div(minutesPerHour).Mul(rate)
		total = total.Add(amount)

		end := entry.StartTime.Add(time.Duration(entry.Duration) * time.Minute)
		if entry.EndTime != nil {
			end = *entry.EndTime
		}

		lines = append(lines, Line{
			ID:           entry.ID,
			Description:  entry.Description,
			Minutes:      entry.Duration,
			Date:         entry.Date,
			Start:        entry.StartTime,
			End:          end,
			CustomerName: customer.Name,
			ProjectName:  entry.Project.Name,
			TaskName:     entry.Task.Name,
			UserName:     entry.User.DisplayName(),
			Rate:         rate,
			CustomerRate: customer.DefaultRate,
			Amount:       amount,
			Invoiced:     entry.Invoiced,
		})
	}
	return total, lines
}
