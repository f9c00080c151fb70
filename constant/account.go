package constant

const (
	// AccountTypeChecking identifies checking accounts.
	AccountTypeChecking = "CHECKING"
	// AccountTypeSavings identifies savings accounts.
	AccountTypeSavings = "SAVINGS"
	// AccountTypeCredit identifies credit accounts.
	AccountTypeCredit = "CREDIT"

	// AccountNumberPrefix prefixes every generated account number.
	AccountNumberPrefix = "ACC"
	// TransactionIDPrefix prefixes every generated transaction id.
	TransactionIDPrefix = "TXN"
	// ReferenceNumberPrefix prefixes every generated reference number.
	ReferenceNumberPrefix = "REF"
)
