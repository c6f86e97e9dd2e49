package core

import "time"

// DateRange is a closed reporting window. Zero values mean "use the default
// window" (start of the current month to now).
type DateRange struct {
	From time.Time
	To   time.Time
}

// DashboardSummary is the reporting view over a user's expenses and
// commitments. Amounts are float64 because this is a display aggregate, not
// a source of truth.
type DashboardSummary struct {
	DailyExpenses    []float64          `json:"dailyExpenses"`
	MonthlyExpenses  [12]float64        `json:"monthlyExpenses"`
	ByCategory       []CategoryTotal    `json:"byCategory"`
	CommitmentTotals []CommitmentTotal  `json:"commitmentTotals"`
	TotalSavings     float64            `json:"totalSavings"`
	Upcoming         []UpcomingPayment  `json:"upcomingPayments"`
}

// CategoryTotal is the expense sum for one category in the window.
type CategoryTotal struct {
	CategoryID int     `json:"categoryId"`
	Total      float64 `json:"total"`
}

// CommitmentTotal groups paid and outstanding amounts by payFor label,
// limited to commitments that still have pending installments.
type CommitmentTotal struct {
	PayFor        string  `json:"payFor"`
	PaidAmount    float64 `json:"paidAmount"`
	BalanceAmount float64 `json:"balanceAmount"`
}

// UpcomingPayment is an ongoing EMI commitment with no payment recorded in
// the current calendar month. DaysUntilDue may be negative when overdue.
type UpcomingPayment struct {
	CommitmentID  int64   `json:"commitmentId"`
	PayFor        string  `json:"payFor"`
	DueDate       int     `json:"dueDate"`
	DaysUntilDue  int     `json:"daysUntilDue"`
	EMIAmount     float64 `json:"emiAmount"`
	BalanceAmount float64 `json:"balanceAmount"`
}
