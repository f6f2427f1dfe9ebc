package locale

var labels = map[string]map[string]string{
	"code":                   {English: "Code", Arabic: "الرمز"},
	"account":                {English: "Account", Arabic: "الحساب"},
	"debit":                  {English: "Debit", Arabic: "مدين"},
	"credit":                 {English: "Credit", Arabic: "دائن"},
	"balance":                {English: "Balance", Arabic: "الرصيد"},
	"opening_debit":          {English: "Opening Dr", Arabic: "رصيد أول المدة مدين"},
	"opening_credit":         {English: "Opening Cr", Arabic: "رصيد أول المدة دائن"},
	"period_debit":           {English: "Period Dr", Arabic: "حركة الفترة مدين"},
	"period_credit":          {English: "Period Cr", Arabic: "حركة الفترة دائن"},
	"closing_debit":          {English: "Closing Dr", Arabic: "رصيد آخر المدة مدين"},
	"closing_credit":         {English: "Closing Cr", Arabic: "رصيد آخر المدة دائن"},
	"opening_balance":        {English: "Opening balance", Arabic: "الرصيد الافتتاحي"},
	"closing_balance":        {English: "Closing balance", Arabic: "الرصيد الختامي"},
	"total":                  {English: "Total", Arabic: "الإجمالي"},
	"date":                   {English: "Date", Arabic: "التاريخ"},
	"entry":                  {English: "Entry", Arabic: "رقم القيد"},
	"description":            {English: "Description", Arabic: "البيان"},
	"load":                   {English: "Load", Arabic: "الحمولة"},
	"route":                  {English: "Route", Arabic: "المسار"},
	"freight":                {English: "Freight", Arabic: "النولون"},
	"commission":             {English: "Commission", Arabic: "العمولة"},
	"paid":                   {English: "Paid", Arabic: "مدفوع"},
	"outstanding":            {English: "Outstanding", Arabic: "المستحق"},
	"yes":                    {English: "Yes", Arabic: "نعم"},
	"no":                     {English: "No", Arabic: "لا"},
	"employee":               {English: "Employee", Arabic: "الموظف"},
	"basic":                  {English: "Basic", Arabic: "الراتب الأساسي"},
	"allowances":             {English: "Allowances", Arabic: "البدلات"},
	"overtime":               {English: "Overtime", Arabic: "العمل الإضافي"},
	"gross":                  {English: "Gross", Arabic: "الإجمالي"},
	"deductions":             {English: "Deductions", Arabic: "الاستقطاعات"},
	"net":                    {English: "Net", Arabic: "الصافي"},
	"part":                   {English: "Part", Arabic: "القطعة"},
	"on_hand":                {English: "On hand", Arabic: "الكمية المتاحة"},
	"average_cost":           {English: "Avg cost", Arabic: "متوسط التكلفة"},
	"value":                  {English: "Value", Arabic: "القيمة"},
	"reorder":                {English: "Reorder", Arabic: "إعادة الطلب"},
	"trial_balance":          {English: "Trial Balance", Arabic: "ميزان المراجعة"},
	"balance_sheet":          {English: "Balance Sheet", Arabic: "الميزانية العمومية"},
	"income_statement":       {English: "Income Statement", Arabic: "قائمة الدخل"},
	"ledger":                 {English: "General Ledger", Arabic: "دفتر الأستاذ"},
	"commissions":            {English: "Driver Commissions", Arabic: "عمولات السائقين"},
	"payroll":                {English: "Payroll", Arabic: "مسير الرواتب"},
	"stock":                  {English: "Stock Levels", Arabic: "أرصدة المخزون"},
	"asset":                  {English: "Assets", Arabic: "الأصول"},
	"liability":              {English: "Liabilities", Arabic: "الخصوم"},
	"equity":                 {English: "Equity", Arabic: "حقوق الملكية"},
	"revenue":                {English: "Revenue", Arabic: "الإيرادات"},
	"expense":                {English: "Expenses", Arabic: "المصروفات"},
	"current_earnings":       {English: "Current period earnings", Arabic: "أرباح الفترة الحالية"},
	"net_income":             {English: "Net income", Arabic: "صافي الدخل"},
	"liabilities_and_equity": {English: "Liabilities and equity", Arabic: "الخصوم وحقوق الملكية"},
	"printed":                {English: "Printed", Arabic: "تاريخ الطباعة"},
}

// Label returns the caption for key in lang. Unknown languages fall back
// to English and unknown keys are returned as given.
func Label(lang, key string) string {
	l, ok := labels[key]
	if !ok {
		return key
	}
	if s, ok := l[lang]; ok {
		return s
	}
	return l[English]
}
