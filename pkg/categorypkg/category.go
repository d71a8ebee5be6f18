// Package categorypkg provides the transaction category vocabulary shared by
// the ledger and the receipt scanner.
package categorypkg

import "github.com/go-playground/validator/v10"

// Constants for all supported categories.
const (
	Housing        = "Housing"
	Transportation = "Transportation"
	Groceries      = "Groceries"
	Utilities      = "Utilities"
	Entertainment  = "Entertainment"
	Food           = "Food"
	Shopping       = "Shopping"
	Healthcare     = "Healthcare"
	Education      = "Education"
	Personal       = "Personal"
	Travel         = "Travel"
	Insurance      = "Insurance"
	Gifts          = "Gifts"
	Bills          = "Bills"
	Salary         = "Salary"
	Freelance      = "Freelance"
	Investments    = "Investments"
	OtherExpense   = "Other-expense"
	OtherIncome    = "Other-income"
)

// SupportedCategories holds all the supported categories.
var SupportedCategories = []string{
	Housing,
	Transportation,
	Groceries,
	Utilities,
	Entertainment,
	Food,
	Shopping,
	Healthcare,
	Education,
	Personal,
	Travel,
	Insurance,
	Gifts,
	Bills,
	Salary,
	Freelance,
	Investments,
	OtherExpense,
	OtherIncome,
}

// IsSupportedCategory returns true if the category is supported.
func IsSupportedCategory(category string) bool {
	for _, c := range SupportedCategories {
		if c == category {
			return true
		}
	}

	return false
}

// ValidCategory validates whether the category is supported.
var ValidCategory validator.Func = func(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(string); ok {
		return IsSupportedCategory(c)
	}

	return false
}
