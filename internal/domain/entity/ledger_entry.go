package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind sentido del lanzamiento: a cobrar (entrada) o a pagar (despesa).
type EntryKind string

const (
	EntryKindReceivable EntryKind = "entrada"
	EntryKindPayable    EntryKind = "despesa"
)

// IsValid indica si el tipo pertenece al conjunto cerrado.
func (k EntryKind) IsValid() bool {
	return k == EntryKindReceivable || k == EntryKindPayable
}

// ParseEntryKind acepta el valor de la API o sus alias en inglés.
func ParseEntryKind(s string) (EntryKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada", "receivable":
		return EntryKindReceivable, true
	case "despesa", "payable":
		return EntryKindPayable, true
	}
	return "", false
}

// EntryStatus estado del ciclo de vida: Pending -> Settled (reabrir vuelve a Pending).
type EntryStatus string

const (
	EntryStatusPending EntryStatus = "pending"
	EntryStatusSettled EntryStatus = "settled"
)

// IsValid indica si el estado pertenece al conjunto cerrado.
func (s EntryStatus) IsValid() bool {
	return s == EntryStatusPending || s == EntryStatusSettled
}

// ParseEntryStatus acepta "pending"/"settled" o los alias de la app ("pendente"/"pago").
func ParseEntryStatus(s string) (EntryStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "pendente":
		return EntryStatusPending, true
	case "settled", "pago":
		return EntryStatusSettled, true
	}
	return "", false
}

// Recurrence metadato descriptivo; el motor no genera ocurrencias futuras.
type Recurrence string

const (
	RecurrenceNone          Recurrence = "none"
	RecurrenceDailyWeekdays Recurrence = "daily_weekdays"
	RecurrenceDaily         Recurrence = "daily"
	RecurrenceWeekly        Recurrence = "weekly"
	RecurrenceBiweekly      Recurrence = "biweekly"
	RecurrenceMonthly       Recurrence = "monthly"
	RecurrenceQuarterly     Recurrence = "quarterly"
)

var recurrenceAliases = map[string]Recurrence{
	"":                  RecurrenceNone,
	"none":              RecurrenceNone,
	"nao_repetir":       RecurrenceNone,
	"daily_weekdays":    RecurrenceDailyWeekdays,
	"diario_dias_uteis": RecurrenceDailyWeekdays,
	"daily":             RecurrenceDaily,
	"diario":            RecurrenceDaily,
	"weekly":            RecurrenceWeekly,
	"semanal":           RecurrenceWeekly,
	"biweekly":          RecurrenceBiweekly,
	"quinzenal":         RecurrenceBiweekly,
	"monthly":           RecurrenceMonthly,
	"mensal":            RecurrenceMonthly,
	"quarterly":         RecurrenceQuarterly,
	"trimestral":        RecurrenceQuarterly,
}

// IsValid indica si la recurrencia pertenece al conjunto cerrado.
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDailyWeekdays, RecurrenceDaily, RecurrenceWeekly,
		RecurrenceBiweekly, RecurrenceMonthly, RecurrenceQuarterly:
		return true
	}
	return false
}

// ParseRecurrence acepta el valor de la API o la etiqueta de la app. Vacío equivale a none.
func ParseRecurrence(s string) (Recurrence, bool) {
	r, ok := recurrenceAliases[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

// PaymentMethod forma de pago (conjunto cerrado).
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentPix        PaymentMethod = "pix"
	PaymentCheck      PaymentMethod = "check"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentBankSlip   PaymentMethod = "bank_slip"
	PaymentOther      PaymentMethod = "other"
)

var paymentAliases = map[string]PaymentMethod{
	"cash":           PaymentCash,
	"dinheiro":       PaymentCash,
	"pix":            PaymentPix,
	"check":          PaymentCheck,
	"cheque":         PaymentCheck,
	"credit_card":    PaymentCreditCard,
	"cartao_credito": PaymentCreditCard,
	"debit_card":     PaymentDebitCard,
	"cartao_debito":  PaymentDebitCard,
	"bank_slip":      PaymentBankSlip,
	"boleto":         PaymentBankSlip,
	"other":          PaymentOther,
	"outro":          PaymentOther,
}

// IsValid indica si la forma de pago pertenece al conjunto cerrado.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCheck, PaymentCreditCard,
		PaymentDebitCard, PaymentBankSlip, PaymentOther:
		return true
	}
	return false
}

// ParsePaymentMethod acepta el valor de la API o la etiqueta de la app.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m, ok := paymentAliases[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

// LedgerEntry lanzamiento del fiado (cuenta a cobrar o a pagar).
// No se elimina nunca: los liquidados se conservan como historial.
type LedgerEntry struct {
	ID            string
	Title         string
	Amount        decimal.Decimal
	Kind          EntryKind
	Counterparty  string // cliente o proveedor (texto libre)
	Category      string
	CreatedAt     time.Time
	DueDate       time.Time
	PaidAt        *time.Time
	PaymentMethod *PaymentMethod
	Recurrence    Recurrence
	Status        EntryStatus
	Note          string
}

// Clone devuelve una copia profunda (los punteros no se comparten).
func (e LedgerEntry) Clone() LedgerEntry {
	out := e
	if e.PaidAt != nil {
		t := *e.PaidAt
		out.PaidAt = &t
	}
	if e.PaymentMethod != nil {
		m := *e.PaymentMethod
		out.PaymentMethod = &m
	}
	return out
}
