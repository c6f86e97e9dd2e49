package core

import (
	"errors"
	"strings"
	"time"
)

// Wire enum values are a stable contract with the clients; never reorder.
const (
	PayTypeExpense PayType = 1
	PayTypeSaving  PayType = 2

	CategoryEMI  Category = 1
	CategoryFull Category = 2

	StatusOngoing   Status = 1
	StatusCompleted Status = 2

	// RoleAdmin is the role flag required to delete commitments.
	RoleAdmin  = 1
	RoleMember = 2
)

type (
	PayType  int
	Category int
	Status   int

	// Commitment is a tracked payment obligation: either a multi-installment
	// EMI or a single lump sum (Full). The derived fields (Paid, Pending,
	// PaidAmount, BalanceAmount) are a cache over the payment history and are
	// owned by the recalculation engine for EMI commitments; Full commitments
	// keep the fixed one-outstanding-installment shape instead.
	Commitment struct {
		ID            int64
		PayFor        string
		PayType       PayType
		Category      Category
		TotalEMI      int
		EMIAmount     Money
		Status        Status
		DueDate       int // recurring due day of month, 1-31
		Remarks       string
		Attachments   []string
		CreatedBy     int64
		Paid          int
		Pending       int
		PaidAmount    Money
		BalanceAmount Money
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	// PaymentEvent is one recorded payment against a commitment. CurrentEMI
	// is the installment number the payer assigned to it; duplicates and
	// gaps are allowed.
	PaymentEvent struct {
		ID           int64
		CommitmentID int64
		Amount       Money
		CurrentEMI   int
		PaidDate     time.Time
		Remarks      string
		Attachments  []string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// Expense is a one-off spend record.
	Expense struct {
		ID         int64
		Name       string
		Amount     Money
		CategoryID int
		PaidOn     time.Time
		Remarks    string
		Attachment string
		CreatedBy  int64
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// HouseSaving is a deposit toward the house fund.
	HouseSaving struct {
		ID         int64
		Amount     Money
		Date       time.Time
		SavingType string
		Remarks    string
		CreatedBy  int64
		CreatedAt  time.Time
	}

	// Note is a free-form user note.
	Note struct {
		ID         int64
		Title      string
		Content    string
		Color      string
		Attachment string
		CreatedBy  int64
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// User is the minimal identity record the core consumes: the delete
	// authorization check only needs the role flag.
	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
		Role         int
		CreatedAt    time.Time
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

func (p PayType) Valid() bool {
	return p == PayTypeExpense || p == PayTypeSaving
}

func (c Category) Valid() bool {
	return c == CategoryEMI || c == CategoryFull
}

func (s Status) Valid() bool {
	return s == StatusOngoing || s == StatusCompleted
}

// Validate checks the definition fields of a commitment. Derived fields are
// not validated here; they are seeded by the lifecycle operations and owned
// by recalculation afterwards.
func (c Commitment) Validate() error {
	if strings.TrimSpace(c.PayFor) == "" {
		return ErrInvalidInput
	}
	if !c.PayType.Valid() || !c.Category.Valid() || !c.Status.Valid() {
		return ErrInvalidInput
	}
	if c.TotalEMI < 1 {
		return ErrInvalidInput
	}
	if c.DueDate < 1 || c.DueDate > 31 {
		return ErrInvalidInput
	}
	return c.EMIAmount.Validate()
}

// ApplyFullShape forces the fixed derived shape for Full-category
// commitments: one outstanding installment worth the full amount, decoupled
// from ledger recalculation.
func (c *Commitment) ApplyFullShape() {
	c.Paid = 0
	c.Pending = 1
	c.PaidAmount = Money{}
	c.BalanceAmount = c.EMIAmount
}

// ApplyEMIZeroShape seeds the derived fields of a new EMI commitment to the
// recalculation-consistent empty-ledger state.
func (c *Commitment) ApplyEMIZeroShape() {
	c.Paid = 0
	c.Pending = c.TotalEMI
	c.PaidAmount = Money{}
	c.BalanceAmount = c.EMIAmount.MulInt(c.TotalEMI)
}

// Validate checks the client-settable fields of a payment event.
func (e PaymentEvent) Validate() error {
	if e.CommitmentID <= 0 {
		return ErrInvalidInput
	}
	if e.CurrentEMI < 1 {
		return ErrInvalidInput
	}
	return e.Amount.Validate()
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrInvalidInput
	}
	if e.PaidOn.IsZero() {
		return ErrInvalidInput
	}
	return e.Amount.Validate()
}

// SavingTypes lists the accepted house-saving channels.
var SavingTypes = []string{"bank transfer", "cash", "money bank"}

func (h HouseSaving) Validate() error {
	if h.Date.IsZero() {
		return ErrInvalidInput
	}
	valid := false
	for _, t := range SavingTypes {
		if h.SavingType == t {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidInput
	}
	return h.Amount.Validate()
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrInvalidInput
	}
	return nil
}
