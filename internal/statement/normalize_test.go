package statement

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("normalizeAccount", func() {
	DescribeTable("defaults a missing field",
		func(key string, get func(Account) string, def string) {
			full := map[string]any{
				"bankName": "B", "accountHolder": "H", "accountNumber": "N", "accountType": "T",
				"startDate": "S", "endDate": "E", "openingBalance": "O", "closingBalance": "C",
			}
			delete(full, key)
			acc := normalizeAccount(full)
			Expect(get(acc)).To(Equal(def))
		},
		Entry("bankName", "bankName", func(a Account) string { return a.BankName }, "Unknown Bank"),
		Entry("accountHolder", "accountHolder", func(a Account) string { return a.AccountHolder }, "N/A"),
		Entry("accountNumber", "accountNumber", func(a Account) string { return a.AccountNumber }, "N/A"),
		Entry("accountType", "accountType", func(a Account) string { return a.AccountType }, "Unknown"),
		Entry("startDate", "startDate", func(a Account) string { return a.StartDate }, "N/A"),
		Entry("endDate", "endDate", func(a Account) string { return a.EndDate }, "N/A"),
		Entry("openingBalance", "openingBalance", func(a Account) string { return a.OpeningBalance }, "0.00"),
		Entry("closingBalance", "closingBalance", func(a Account) string { return a.ClosingBalance }, "0.00"),
	)

	It("trims surrounding whitespace", func() {
		acc := normalizeAccount(map[string]any{"bankName": "  Axis Bank \n"})
		Expect(acc.BankName).To(Equal("Axis Bank"))
	})

	It("renders numeric balances as strings", func() {
		acc := normalizeAccount(map[string]any{
			"openingBalance": json.Number("50000.00"),
			"closingBalance": json.Number("75000"),
			"transactions":   []any{map[string]any{"balance": json.Number("74499.50")}},
		})
		Expect(acc.OpeningBalance).To(Equal("50000.00"))
		Expect(acc.ClosingBalance).To(Equal("75000"))
		Expect(acc.Transactions[0].Balance).To(Equal("74499.50"))
	})

	It("defaults values that are neither strings nor numbers", func() {
		acc := normalizeAccount(map[string]any{"accountType": true, "startDate": []any{"x"}})
		Expect(acc.AccountType).To(Equal(DefaultAccountType))
		Expect(acc.StartDate).To(Equal(DefaultDate))
	})

	It("handles a nil object", func() {
		acc := normalizeAccount(nil)
		Expect(acc.BankName).To(Equal(DefaultBankName))
		Expect(acc.Transactions).To(Equal([]Transaction{}))
	})
})

var _ = Describe("normalizeTransaction", func() {
	It("defaults the text fields", func() {
		txn := normalizeTransaction(map[string]any{})
		Expect(txn.Date).To(Equal(DefaultTxnField))
		Expect(txn.Description).To(Equal(DefaultTxnField))
		Expect(txn.Balance).To(Equal(DefaultTxnField))
		Expect(txn.Debit).To(BeNil())
		Expect(txn.Credit).To(BeNil())
	})

	It("allows both amounts at once", func() {
		txn := normalizeTransaction(map[string]any{"debit": "10.00", "credit": "20.00"})
		Expect(txn.Debit).To(HaveValue(Equal("10.00")))
		Expect(txn.Credit).To(HaveValue(Equal("20.00")))
	})

	It("renders numeric amounts as strings", func() {
		txn := normalizeTransaction(map[string]any{"credit": json.Number("2500")})
		Expect(txn.Credit).To(HaveValue(Equal("2500")))
	})

	It("treats empty and odd amounts as absent", func() {
		txn := normalizeTransaction(map[string]any{"debit": " ", "credit": true})
		Expect(txn.Debit).To(BeNil())
		Expect(txn.Credit).To(BeNil())
	})
})

var _ = Describe("normalizeAccounts", func() {
	It("drops transactions that are not objects", func() {
		accounts := normalizeAccounts([]any{
			map[string]any{"transactions": []any{"x", map[string]any{"date": "01"}, nil}},
		})
		Expect(accounts).To(HaveLen(1))
		Expect(accounts[0].Transactions).To(HaveLen(1))
		Expect(accounts[0].Transactions[0].Date).To(Equal("01"))
	})

	It("wraps a single object", func() {
		accounts := normalizeAccounts(map[string]any{"bankName": "Kotak"})
		Expect(accounts).To(HaveLen(1))
		Expect(accounts[0].BankName).To(Equal("Kotak"))
	})
})

var _ = Describe("sentinelAccount", func() {
	It("fills every field", func() {
		acc := sentinelAccount(MarkerAPIError, "scan.pdf")
		Expect(acc).To(Equal(Account{
			BankName:       "API Error",
			AccountHolder:  "scan.pdf",
			AccountNumber:  "N/A",
			AccountType:    "Unknown",
			StartDate:      "N/A",
			EndDate:        "N/A",
			OpeningBalance: "0.00",
			ClosingBalance: "0.00",
			Transactions:   []Transaction{},
		}))
	})
})
