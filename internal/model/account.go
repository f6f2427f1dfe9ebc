package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in statement order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// DebitNormal reports whether balances of this type grow with debits.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if at == t {
			return true
		}
	}
	return false
}

// Account is a row of chart_of_accounts. The code's dash-separated
// segments encode its position in the tree: "1-2" is a child of "1".
type Account struct {
	Base
	Code        string      `gorm:"uniqueIndex;size:64;not null" json:"code" validate:"required,max=64"`
	Name        string      `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	NameAr      string      `gorm:"size:255" json:"name_ar" validate:"max=255"`
	Type        AccountType `gorm:"size:16;not null" json:"type" validate:"required,oneof=asset liability equity revenue expense"`
	Description string      `json:"description"`
	Active      bool        `gorm:"not null;default:true" json:"active"`
}

// TableName implements gorm's tabler.
func (Account) TableName() string { return "chart_of_accounts" }
