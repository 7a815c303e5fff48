package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	s := Summarize(fixtureSet(t))
	if s.TotalIncome.String() != "175" {
		t.Fatalf("expected income 175, got %s", s.TotalIncome)
	}
	if s.TotalExpense.String() != "50" {
		t.Fatalf("expected expense 50, got %s", s.TotalExpense)
	}
	if s.NetSavings.String() != "125" {
		t.Fatalf("expected savings 125, got %s", s.NetSavings)
	}
	if s.TransactionCount != 3 {
		t.Fatalf("expected count 3, got %d", s.TransactionCount)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.TotalIncome.IsZero() || !s.TotalExpense.IsZero() || !s.NetSavings.IsZero() {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
	if s.TransactionCount != 0 {
		t.Fatalf("expected count 0, got %d", s.TransactionCount)
	}
	if s.SavingsRate() != 0 {
		t.Fatalf("savings rate with no income must be 0, got %f", s.SavingsRate())
	}
}

func TestSummaryIdentity(t *testing.T) {
	ts := fixtureSet(t)
	s := Summarize(ts)
	if !s.NetSavings.Equal(s.TotalIncome.Sub(s.TotalExpense)) {
		t.Fatalf("net savings must equal income minus expense: %+v", s)
	}

	total := decimal.Decimal{}
	for _, ca := range CategoryBreakdown(ts) {
		total = total.Add(ca.Amount)
	}
	if !total.Equal(s.TotalIncome.Add(s.TotalExpense)) {
		t.Fatalf("breakdown sum %s must equal income+expense %s",
			total, s.TotalIncome.Add(s.TotalExpense))
	}
}

func TestSavingsRate(t *testing.T) {
	s := Summarize(fixtureSet(t))
	want := 125.0 / 175.0 * 100
	if got := s.SavingsRate(); got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("expected savings rate %.6f, got %.6f", want, got)
	}
}

func TestCategoryBreakdownOmitsEmptyGroups(t *testing.T) {
	ts := []Transaction{
		mustTransaction(t, 1, "01-01-2026", "30", "Expense", "Groceries"),
		mustTransaction(t, 2, "02-01-2026", "20", "Expense", "Transport"),
	}
	got := CategoryBreakdown(ts)
	if len(got) != 1 {
		t.Fatalf("expected a single group, got %+v", got)
	}
	if got[0].Category != Expense || got[0].Amount.String() != "50" {
		t.Fatalf("expected Expense=50, got %+v", got[0])
	}

	if got := CategoryBreakdown(nil); len(got) != 0 {
		t.Fatalf("expected no groups for empty input, got %+v", got)
	}
}
