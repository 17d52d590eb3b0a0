package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	Credit TxType = "credit"
	Debit  TxType = "debit"
)

type (
	// TxType is the direction of a transaction from the ledger owner's
	// perspective: credit raises the account balance, debit lowers it.
	TxType string

	// Date is a calendar date with day precision. The time-of-day part is
	// always midnight UTC so that (date, sequence) ordering is stable
	// across timezones.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Category struct {
		ID        int64
		Name      string
		Currency  string // ISO-4217 style, 3 letters
		CreatedAt time.Time
	}

	Account struct {
		ID          int64
		CategoryID  int64
		Name        string
		PhoneNumber string
		Notes       string
		CreatedAt   time.Time
	}

	// Transaction is a currency-immutable snapshot: Currency is copied from
	// the owning category at creation time. Balance is the running balance
	// of the account immediately after this transaction in (Date, Seq)
	// order; it is derived state owned by the ledger, never caller input.
	Transaction struct {
		ID          int64
		AccountID   int64
		Seq         int64 // global sequence number, unique across the ledger
		Amount      Money // always > 0, sign carried by Type
		Type        TxType
		Description string
		Details     string
		Currency    string
		Date        Date
		Balance     Money // running balance snapshot
		CreatedAt   time.Time
	}

	// AppSettings is the singleton settings record. The PIN is stored as a
	// salted hash, never plaintext.
	AppSettings struct {
		CompanyNameAr   string
		CompanyNameEn   string
		PhoneNumber     string
		Address         string
		DefaultCurrency string
		PinEnabled      bool
		PinHash         []byte
		PinSalt         []byte
		UpdatedAt       time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNotFound         = errors.New("not found")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrAccountNotEmpty  = errors.New("account still has transactions")
	ErrCategoryNotEmpty = errors.New("category still has accounts")
)

// NewDate creates a Date pinned to midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Before reports whether d is strictly earlier than o by calendar date.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

// String formats as YYYY-MM-DD, the canonical storage form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON renders the canonical YYYY-MM-DD form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDate parses the canonical YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

// MarshalJSON renders the amount as a plain integer of cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Cents, 10)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	cents, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = cents
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

func (t TxType) Valid() bool {
	return t == Credit || t == Debit
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() int64 {
	if t.Type == Debit {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.AccountID <= 0 {
		return ErrNotFound
	}
	return nil
}

// ValidCurrency accepts three ASCII uppercase letters, the ISO-4217 shape.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !ValidCurrency(c.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if a.CategoryID <= 0 {
		return ErrNotFound
	}
	return nil
}
