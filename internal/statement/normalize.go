package statement

import (
	"encoding/json"
	"strings"
)

// Placeholders for account fields the model left out
const (
	DefaultBankName      = "Unknown Bank"
	DefaultAccountHolder = "N/A"
	DefaultAccountNumber = "N/A"
	DefaultAccountType   = "Unknown"
	DefaultDate          = "N/A"
	DefaultBalance       = "0.00"
	DefaultTxnField      = "N/A"
)

type stringField[T any] struct {
	key string
	def string
	set func(*T, string)
}

var accountFields = []stringField[Account]{
	{"bankName", DefaultBankName, func(a *Account, s string) { a.BankName = s }},
	{"accountHolder", DefaultAccountHolder, func(a *Account, s string) { a.AccountHolder = s }},
	{"accountNumber", DefaultAccountNumber, func(a *Account, s string) { a.AccountNumber = s }},
	{"accountType", DefaultAccountType, func(a *Account, s string) { a.AccountType = s }},
	{"startDate", DefaultDate, func(a *Account, s string) { a.StartDate = s }},
	{"endDate", DefaultDate, func(a *Account, s string) { a.EndDate = s }},
	{"openingBalance", DefaultBalance, func(a *Account, s string) { a.OpeningBalance = s }},
	{"closingBalance", DefaultBalance, func(a *Account, s string) { a.ClosingBalance = s }},
}

var transactionFields = []stringField[Transaction]{
	{"date", DefaultTxnField, func(t *Transaction, s string) { t.Date = s }},
	{"description", DefaultTxnField, func(t *Transaction, s string) { t.Description = s }},
	{"balance", DefaultTxnField, func(t *Transaction, s string) { t.Balance = s }},
}

var amountFields = []struct {
	key string
	set func(*Transaction, *string)
}{
	{"debit", func(t *Transaction, s *string) { t.Debit = s }},
	{"credit", func(t *Transaction, s *string) { t.Credit = s }},
}

// normalizeAccounts turns a decoded reply into accounts. A single object is
// treated as a one-element array.
func normalizeAccounts(v any) []Account {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		items = []any{t}
	}

	accounts := make([]Account, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]any)
		accounts = append(accounts, normalizeAccount(m))
	}
	return accounts
}

func normalizeAccount(m map[string]any) Account {
	var acc Account
	applyStrings(&acc, m, accountFields)

	raw, _ := m["transactions"].([]any)
	acc.Transactions = make([]Transaction, 0, len(raw))
	for _, item := range raw {
		tm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		acc.Transactions = append(acc.Transactions, normalizeTransaction(tm))
	}
	return acc
}

func normalizeTransaction(m map[string]any) Transaction {
	var txn Transaction
	applyStrings(&txn, m, transactionFields)
	for _, f := range amountFields {
		f.set(&txn, amountValue(m[f.key]))
	}
	return txn
}

func applyStrings[T any](dst *T, m map[string]any, fields []stringField[T]) {
	for _, f := range fields {
		s := scalarString(m[f.key])
		if s == "" {
			s = f.def
		}
		f.set(dst, s)
	}
}

// scalarString renders strings and numbers; everything else is absent
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	}
	return ""
}

// amountValue keeps non-empty strings and numbers; everything else is absent
func amountValue(v any) *string {
	s := scalarString(v)
	if s == "" {
		return nil
	}
	return &s
}

// sentinelAccount marks a contained failure; the filename is kept for traceability
func sentinelAccount(marker, filename string) Account {
	return Account{
		BankName:       marker,
		AccountHolder:  filename,
		AccountNumber:  DefaultAccountNumber,
		AccountType:    DefaultAccountType,
		StartDate:      DefaultDate,
		EndDate:        DefaultDate,
		OpeningBalance: DefaultBalance,
		ClosingBalance: DefaultBalance,
		Transactions:   []Transaction{},
	}
}
