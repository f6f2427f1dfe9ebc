package accounts

import "github.com/fleetbooks/fleetbooks/internal/model"

// Well-known postable accounts referenced by generated journal entries.
const (
	CodeCash               = "1-1-1"
	CodeBank               = "1-1-2"
	CodeReceivables        = "1-2-1"
	CodeEmployeeAdvances   = "1-2-2"
	CodeSparePartsStock    = "1-3-1"
	CodeVehicles           = "1-4-1"
	CodePayables           = "2-1-1"
	CodeSalariesPayable    = "2-1-2"
	CodeSocialInsurancePay = "2-1-3"
	CodeCommissionsPayable = "2-1-4"
	CodeCapital            = "3-1"
	CodeRetainedEarnings   = "3-2"
	CodeFreightRevenue     = "4-1"
	CodeOtherRevenue       = "4-2"
	CodeSalariesExpense    = "5-1-1"
	CodeSocialInsuranceExp = "5-1-2"
	CodeCommissionsExpense = "5-2-1"
	CodeFuelExpense        = "5-2-2"
	CodeMaintenanceExpense = "5-2-3"
	CodeAdminExpense       = "5-3"
)

// DefaultChart returns the starter chart of accounts for a freight business.
func DefaultChart() []model.Account {
	a := func(code, name, nameAr string, typ model.AccountType) model.Account {
		return model.Account{Code: code, Name: name, NameAr: nameAr, Type: typ, Active: true}
	}
	return []model.Account{
		a("1", "Assets", "الأصول", model.AccountTypeAsset),
		a("1-1", "Cash and Banks", "النقدية والبنوك", model.AccountTypeAsset),
		a(CodeCash, "Cash on Hand", "الصندوق", model.AccountTypeAsset),
		a(CodeBank, "Bank", "البنك", model.AccountTypeAsset),
		a("1-2", "Receivables", "الذمم المدينة", model.AccountTypeAsset),
		a(CodeReceivables, "Customer Receivables", "ذمم العملاء", model.AccountTypeAsset),
		a(CodeEmployeeAdvances, "Employee Advances", "سلف الموظفين", model.AccountTypeAsset),
		a("1-3", "Inventory", "المخزون", model.AccountTypeAsset),
		a(CodeSparePartsStock, "Spare Parts", "قطع الغيار", model.AccountTypeAsset),
		a("1-4", "Fixed Assets", "الأصول الثابتة", model.AccountTypeAsset),
		a(CodeVehicles, "Vehicles", "الشاحنات", model.AccountTypeAsset),
		a("2", "Liabilities", "الخصوم", model.AccountTypeLiability),
		a("2-1", "Current Liabilities", "الخصوم المتداولة", model.AccountTypeLiability),
		a(CodePayables, "Supplier Payables", "ذمم الموردين", model.AccountTypeLiability),
		a(CodeSalariesPayable, "Salaries Payable", "رواتب مستحقة", model.AccountTypeLiability),
		a(CodeSocialInsurancePay, "Social Insurance Payable", "التأمينات الاجتماعية المستحقة", model.AccountTypeLiability),
		a(CodeCommissionsPayable, "Driver Commissions Payable", "عمولات السائقين المستحقة", model.AccountTypeLiability),
		a("3", "Equity", "حقوق الملكية", model.AccountTypeEquity),
		a(CodeCapital, "Capital", "رأس المال", model.AccountTypeEquity),
		a(CodeRetainedEarnings, "Retained Earnings", "الأرباح المبقاة", model.AccountTypeEquity),
		a("4", "Revenue", "الإيرادات", model.AccountTypeRevenue),
		a(CodeFreightRevenue, "Freight Revenue", "إيرادات النقل", model.AccountTypeRevenue),
		a(CodeOtherRevenue, "Other Revenue", "إيرادات أخرى", model.AccountTypeRevenue),
		a("5", "Expenses", "المصروفات", model.AccountTypeExpense),
		a("5-1", "Payroll", "الرواتب والأجور", model.AccountTypeExpense),
		a(CodeSalariesExpense, "Salaries", "الرواتب", model.AccountTypeExpense),
		a(CodeSocialInsuranceExp, "Social Insurance", "التأمينات الاجتماعية", model.AccountTypeExpense),
		a("5-2", "Fleet Operations", "مصروفات التشغيل", model.AccountTypeExpense),
		a(CodeCommissionsExpense, "Driver Commissions", "عمولات السائقين", model.AccountTypeExpense),
		a(CodeFuelExpense, "Fuel", "المحروقات", model.AccountTypeExpense),
		a(CodeMaintenanceExpense, "Maintenance and Parts", "الصيانة وقطع الغيار", model.AccountTypeExpense),
		a(CodeAdminExpense, "Administrative Expenses", "مصروفات إدارية", model.AccountTypeExpense),
	}
}
