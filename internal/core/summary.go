package core

import "github.com/shopspring/decimal"

type (
	// FinancialSummary is derived from a query result; it is never
	// persisted.
	FinancialSummary struct {
		TotalIncome      decimal.Decimal
		TotalExpense     decimal.Decimal
		NetSavings       decimal.Decimal
		TransactionCount int
	}

	// CategoryAmount is an amount aggregated by category.
	CategoryAmount struct {
		Category Category
		Amount   decimal.Decimal
	}
)

// Summarize computes income/expense totals over a transaction set.
// An empty set yields an all-zero summary.
func Summarize(ts []Transaction) FinancialSummary {
	s := FinancialSummary{TransactionCount: len(ts)}
	for _, t := range ts {
		switch t.Category {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}
	s.NetSavings = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// SavingsRate is net savings as a percentage of total income, or 0
// when there is no income.
func (s FinancialSummary) SavingsRate() float64 {
	if s.TotalIncome.IsZero() {
		return 0
	}
	rate, _ := s.NetSavings.Div(s.TotalIncome).Mul(decimal.NewFromInt(100)).Float64()
	return rate
}

// CategoryBreakdown sums amounts per category. Categories with no
// matching rows are omitted rather than reported as zero. Order is
// Income first, then Expense.
func CategoryBreakdown(ts []Transaction) []CategoryAmount {
	sums := map[Category]decimal.Decimal{}
	counts := map[Category]int{}
	for _, t := range ts {
		sums[t.Category] = sums[t.Category].Add(t.Amount)
		counts[t.Category]++
	}
	var out []CategoryAmount
	for _, c := range []Category{Income, Expense} {
		if counts[c] == 0 {
			continue
		}
		out = append(out, CategoryAmount{Category: c, Amount: sums[c]})
	}
	return out
}
