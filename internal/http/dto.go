package http

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// Request DTOs carry wire-level validation tags; amounts travel as decimal
// strings and are parsed by core.ParseMoney so the rounding rules live in one
// place.

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type commitmentRequest struct {
	PayFor      string   `json:"payFor" validate:"required"`
	PayType     int      `json:"payType" validate:"required,oneof=1 2"`
	Category    int      `json:"category" validate:"required,oneof=1 2"`
	TotalEMI    int      `json:"totalEmi" validate:"required,min=1"`
	EMIAmount   string   `json:"emiAmount" validate:"required"`
	Status      int      `json:"status" validate:"required,oneof=1 2"`
	DueDate     int      `json:"dueDate" validate:"required,min=1,max=31"`
	Remarks     string   `json:"remarks"`
	Attachments []string `json:"attachments"`
}

func (req commitmentRequest) toDomain(createdBy int64) (core.Commitment, error) {
	amount, err := core.ParseMoney(req.EMIAmount)
	if err != nil {
		return core.Commitment{}, err
	}
	return core.Commitment{
		PayFor:      req.PayFor,
		PayType:     core.PayType(req.PayType),
		Category:    core.Category(req.Category),
		TotalEMI:    req.TotalEMI,
		EMIAmount:   amount,
		Status:      core.Status(req.Status),
		DueDate:     req.DueDate,
		Remarks:     req.Remarks,
		Attachments: req.Attachments,
		CreatedBy:   createdBy,
	}, nil
}

type eventRequest struct {
	CommitmentID int64    `json:"commitmentId" validate:"required,min=1"`
	Amount       string   `json:"amount" validate:"required"`
	CurrentEMI   int      `json:"currentEmi" validate:"required,min=1"`
	PaidDate     string   `json:"paidDate"`
	Remarks      string   `json:"remarks"`
	Attachments  []string `json:"attachments"`
}

func (req eventRequest) toDomain() (core.PaymentEvent, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.PaymentEvent{}, err
	}
	paidDate, err := parseDateField(req.PaidDate)
	if err != nil {
		return core.PaymentEvent{}, err
	}
	return core.PaymentEvent{
		CommitmentID: req.CommitmentID,
		Amount:       amount,
		CurrentEMI:   req.CurrentEMI,
		PaidDate:     paidDate,
		Remarks:      req.Remarks,
		Attachments:  req.Attachments,
	}, nil
}

// eventPatchRequest uses pointers so omitted fields stay untouched.
type eventPatchRequest struct {
	Amount      *string  `json:"amount"`
	CurrentEMI  *int     `json:"currentEmi" validate:"omitempty,min=1"`
	PaidDate    *string  `json:"paidDate"`
	Remarks     *string  `json:"remarks"`
	Attachments []string `json:"attachments"`
}

type expenseRequest struct {
	Name       string `json:"name" validate:"required"`
	Amount     string `json:"amount" validate:"required"`
	CategoryID int    `json:"categoryId" validate:"min=0"`
	PaidOn     string `json:"paidOn"`
	Remarks    string `json:"remarks"`
	Attachment string `json:"attachment"`
}

func (req expenseRequest) toDomain(createdBy int64) (core.Expense, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	paidOn, err := parseDateField(req.PaidOn)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Name:       req.Name,
		Amount:     amount,
		CategoryID: req.CategoryID,
		PaidOn:     paidOn,
		Remarks:    req.Remarks,
		Attachment: req.Attachment,
		CreatedBy:  createdBy,
	}, nil
}

type noteRequest struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content"`
	Color      string `json:"color"`
	Attachment string `json:"attachment"`
}

type houseSavingRequest struct {
	Amount     string `json:"amount" validate:"required"`
	Date       string `json:"date" validate:"required"`
	SavingType string `json:"savingType" validate:"required,oneof='bank transfer' cash 'money bank'"`
	Remarks    string `json:"remarks"`
}

func parseDateField(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", v, core.ErrInvalidInput)
	}
	return t, nil
}

// Response DTOs render amounts as decimal strings and dates as YYYY-MM-DD.

type commitmentResponse struct {
	ID            int64    `json:"id"`
	PayFor        string   `json:"payFor"`
	PayType       int      `json:"payType"`
	Category      int      `json:"category"`
	TotalEMI      int      `json:"totalEmi"`
	EMIAmount     string   `json:"emiAmount"`
	Status        int      `json:"status"`
	DueDate       int      `json:"dueDate"`
	Remarks       string   `json:"remarks,omitempty"`
	Attachments   []string `json:"attachments,omitempty"`
	CreatedBy     int64    `json:"createdBy"`
	Paid          int      `json:"paid"`
	Pending       int      `json:"pending"`
	PaidAmount    string   `json:"paidAmount"`
	BalanceAmount string   `json:"balanceAmount"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

func toCommitmentResponse(c core.Commitment) commitmentResponse {
	return commitmentResponse{
		ID:            c.ID,
		PayFor:        c.PayFor,
		PayType:       int(c.PayType),
		Category:      int(c.Category),
		TotalEMI:      c.TotalEMI,
		EMIAmount:     c.EMIAmount.String(),
		Status:        int(c.Status),
		DueDate:       c.DueDate,
		Remarks:       c.Remarks,
		Attachments:   c.Attachments,
		CreatedBy:     c.CreatedBy,
		Paid:          c.Paid,
		Pending:       c.Pending,
		PaidAmount:    c.PaidAmount.String(),
		BalanceAmount: c.BalanceAmount.String(),
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatTime(c.UpdatedAt),
	}
}

func toCommitmentResponses(items []core.Commitment) []commitmentResponse {
	out := make([]commitmentResponse, len(items))
	for i, c := range items {
		out[i] = toCommitmentResponse(c)
	}
	return out
}

type eventResponse struct {
	ID           int64    `json:"id"`
	CommitmentID int64    `json:"commitmentId"`
	Amount       string   `json:"amount"`
	CurrentEMI   int      `json:"currentEmi"`
	PaidDate     string   `json:"paidDate"`
	Remarks      string   `json:"remarks,omitempty"`
	Attachments  []string `json:"attachments,omitempty"`
}

func toEventResponse(e core.PaymentEvent) eventResponse {
	return eventResponse{
		ID:           e.ID,
		CommitmentID: e.CommitmentID,
		Amount:       e.Amount.String(),
		CurrentEMI:   e.CurrentEMI,
		PaidDate:     formatDate(e.PaidDate),
		Remarks:      e.Remarks,
		Attachments:  e.Attachments,
	}
}

func toEventResponses(items []core.PaymentEvent) []eventResponse {
	out := make([]eventResponse, len(items))
	for i, e := range items {
		out[i] = toEventResponse(e)
	}
	return out
}

type expenseResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	CategoryID int    `json:"categoryId"`
	PaidOn     string `json:"paidOn"`
	Remarks    string `json:"remarks,omitempty"`
	Attachment string `json:"attachment,omitempty"`
	CreatedBy  int64  `json:"createdBy"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:         e.ID,
		Name:       e.Name,
		Amount:     e.Amount.String(),
		CategoryID: e.CategoryID,
		PaidOn:     formatDate(e.PaidOn),
		Remarks:    e.Remarks,
		Attachment: e.Attachment,
		CreatedBy:  e.CreatedBy,
	}
}

func toExpenseResponses(items []core.Expense) []expenseResponse {
	out := make([]expenseResponse, len(items))
	for i, e := range items {
		out[i] = toExpenseResponse(e)
	}
	return out
}

type noteResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Color      string `json:"color,omitempty"`
	Attachment string `json:"attachment,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

func toNoteResponse(n core.Note) noteResponse {
	return noteResponse{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Color:      n.Color,
		Attachment: n.Attachment,
		UpdatedAt:  formatTime(n.UpdatedAt),
	}
}

type houseSavingResponse struct {
	ID         int64  `json:"id"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	SavingType string `json:"savingType"`
	Remarks    string `json:"remarks,omitempty"`
}

func toHouseSavingResponse(h core.HouseSaving) houseSavingResponse {
	return houseSavingResponse{
		ID:         h.ID,
		Amount:     h.Amount.String(),
		Date:       formatDate(h.Date),
		SavingType: h.SavingType,
		Remarks:    h.Remarks,
	}
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  int    `json:"role"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
