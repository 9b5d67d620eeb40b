package statement

import (
	"fmt"
	"unicode/utf8"
)

// MaxPromptChars caps how much statement text is sent to the model.
// Statements whose data lies beyond the cap come back incomplete.
const MaxPromptChars = 25000

// statementPrompt describes the output schema by example and demands a bare JSON array.
// The model is not bound by it; every reply still goes through normalization.
const statementPrompt = `Return ONLY a valid JSON array - NO other text!

Extract every bank account statement contained in the text below. One array element per account:
[
  {
    "bankName": "HDFC Bank",
    "accountHolder": "John Doe",
    "accountNumber": "XXXXXXX1234",
    "accountType": "Savings",
    "startDate": "01-Jan-2026",
    "endDate": "31-Jan-2026",
    "openingBalance": "50000.00",
    "closingBalance": "75000.00",
    "transactions": [
      {
        "date": "05-Jan-26",
        "description": "Salary Credit",
        "debit": null,
        "credit": "25000.00",
        "balance": "75000.00"
      }
    ]
  }
]

Important:
- Every value is a string, except "debit" and "credit" which are null when the line has no such amount
- Copy dates and amounts exactly as printed; do not convert formats
- Mask all but the last 4 digits of account numbers with X
- Do not include any text before or after the JSON
- Do not use markdown code blocks

PDF text (%s):
"""%s"""`

// truncateChars returns the first max characters of s without splitting a UTF-8 sequence
func truncateChars(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// buildPrompt embeds the bounded statement text into the instruction template
func buildPrompt(rawText, filename string) string {
	return fmt.Sprintf(statementPrompt, filename, truncateChars(rawText, MaxPromptChars))
}
