package statement

// Account is one bank account statement. Every string field is always set
// after normalization; absent data becomes a placeholder.
type Account struct {
	BankName       string        `json:"bankName"`
	AccountHolder  string        `json:"accountHolder"`
	AccountNumber  string        `json:"accountNumber"` // masked, as printed
	AccountType    string        `json:"accountType"`
	StartDate      string        `json:"startDate"` // display string, not parsed
	EndDate        string        `json:"endDate"`
	OpeningBalance string        `json:"openingBalance"` // locale formatted, not coerced
	ClosingBalance string        `json:"closingBalance"`
	Transactions   []Transaction `json:"transactions"`
}

// Transaction is one statement line. Debit and Credit are nil when absent.
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Debit       *string `json:"debit"`
	Credit      *string `json:"credit"`
	Balance     string  `json:"balance"`
}

// Markers placed in BankName when parsing could not produce real accounts
const (
	MarkerParsingFailed = "Parsing Failed"
	MarkerAPIError      = "API Error"
)

// Sentinel reports whether the account marks a contained failure
func (a Account) Sentinel() bool {
	return a.BankName == MarkerParsingFailed || a.BankName == MarkerAPIError
}
