package accounts

import "github.com/cleared-dev/crania/internal/model"

// ChartRow is an account as it appears in a chart file, with its parent
// referenced by code rather than id.
type ChartRow struct {
	Code        string
	Name        string
	Type        model.AccountType
	ParentCode  string
	Active      bool
	Description string
}

// Well-known codes in the default chart.
const (
	CodeCash         = "1000"
	CodeSalesTax     = "2300"
	CodeSalesRevenue = "4000"
	CodeGeneral      = "6900"
)

// DefaultChart returns the chart seeded into a new book.
func DefaultChart() []ChartRow {
	rows := []ChartRow{
		{Code: CodeCash, Name: "Cash", Type: model.AccountTypeAsset, Description: "Cash on hand and bank"},
		{Code: "1010", Name: "Petty Cash", Type: model.AccountTypeAsset, ParentCode: CodeCash},
		{Code: "1100", Name: "Checking Account", Type: model.AccountTypeAsset, ParentCode: CodeCash},
		{Code: "1110", Name: "Savings Account", Type: model.AccountTypeAsset, ParentCode: CodeCash},
		{Code: "1200", Name: "Accounts Receivable", Type: model.AccountTypeAsset},
		{Code: "1300", Name: "Inventory", Type: model.AccountTypeAsset},
		{Code: "1400", Name: "Prepaid Expenses", Type: model.AccountTypeAsset},
		{Code: "1500", Name: "Equipment", Type: model.AccountTypeAsset},
		{Code: "1510", Name: "Accumulated Depreciation", Type: model.AccountTypeAsset, ParentCode: "1500", Description: "Contra asset"},
		{Code: "1600", Name: "Vehicles", Type: model.AccountTypeAsset},

		{Code: "2000", Name: "Accounts Payable", Type: model.AccountTypeLiability},
		{Code: "2100", Name: "Credit Card", Type: model.AccountTypeLiability},
		{Code: "2200", Name: "Accrued Liabilities", Type: model.AccountTypeLiability},
		{Code: CodeSalesTax, Name: "Sales Tax Payable", Type: model.AccountTypeLiability, Description: "Tax collected, owed to the authority"},
		{Code: "2400", Name: "Payroll Liabilities", Type: model.AccountTypeLiability},
		{Code: "2500", Name: "Loans Payable", Type: model.AccountTypeLiability},
		{Code: "2600", Name: "Unearned Revenue", Type: model.AccountTypeLiability},

		{Code: "3000", Name: "Owner's Capital", Type: model.AccountTypeEquity},
		{Code: "3100", Name: "Owner's Drawings", Type: model.AccountTypeEquity},
		{Code: "3200", Name: "Retained Earnings", Type: model.AccountTypeEquity},

		{Code: CodeSalesRevenue, Name: "Sales Revenue", Type: model.AccountTypeIncome, Description: "Revenue and income"},
		{Code: "4100", Name: "Service Revenue", Type: model.AccountTypeIncome},
		{Code: "4200", Name: "Interest Income", Type: model.AccountTypeIncome},
		{Code: "4300", Name: "Other Income", Type: model.AccountTypeIncome},

		{Code: "5000", Name: "Cost of Goods Sold", Type: model.AccountTypeExpense},
		{Code: "6000", Name: "Advertising", Type: model.AccountTypeExpense},
		{Code: "6010", Name: "Bank Fees", Type: model.AccountTypeExpense},
		{Code: "6020", Name: "Depreciation", Type: model.AccountTypeExpense},
		{Code: "6030", Name: "Insurance", Type: model.AccountTypeExpense},
		{Code: "6040", Name: "Meals", Type: model.AccountTypeExpense},
		{Code: "6050", Name: "Office Supplies", Type: model.AccountTypeExpense},
		{Code: "6060", Name: "Professional Fees", Type: model.AccountTypeExpense, Description: "Legal, accounting, consulting"},
		{Code: "6070", Name: "Rent", Type: model.AccountTypeExpense},
		{Code: "6080", Name: "Repairs and Maintenance", Type: model.AccountTypeExpense},
		{Code: "6090", Name: "Salaries and Wages", Type: model.AccountTypeExpense},
		{Code: "6100", Name: "Software", Type: model.AccountTypeExpense},
		{Code: "6110", Name: "Telephone and Internet", Type: model.AccountTypeExpense},
		{Code: "6120", Name: "Travel", Type: model.AccountTypeExpense},
		{Code: CodeGeneral, Name: "General Expenses", Type: model.AccountTypeExpense, Description: "Operating expenses"},
	}
	for i := range rows {
		rows[i].Active = true
	}
	return rows
}
