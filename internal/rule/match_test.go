package rule_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/rule"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	return new(decimal.RequireFromString(s))
}

func TestConditions_Matches(t *testing.T) {
	type testCase struct {
		name       string
		conditions rule.Conditions
		amount     string
		category   category.Category
		want       bool
	}

	tests := []testCase{
		{name: "ZeroValueMatchesAll", amount: "123456.78", category: category.Other, want: true},
		{name: "BelowMin", conditions: rule.Conditions{MinAmount: dec("100")}, amount: "99.99", category: category.Food},
		{name: "AtMin", conditions: rule.Conditions{MinAmount: dec("100")}, amount: "100", category: category.Food, want: true},
		{name: "AtMax", conditions: rule.Conditions{MaxAmount: decPtr("500")}, amount: "500", category: category.Food, want: true},
		{name: "AboveMax", conditions: rule.Conditions{MaxAmount: decPtr("500")}, amount: "500.01", category: category.Food},
		{
			name:       "CategoryListed",
			conditions: rule.Conditions{Categories: []category.Category{category.Travel, category.Accommodation}},
			amount:     "10",
			category:   category.Travel,
			want:       true,
		},
		{
			name:       "CategoryNotListed",
			conditions: rule.Conditions{Categories: []category.Category{category.Travel}},
			amount:     "10",
			category:   category.Food,
		},
		{
			name:       "DepartmentsIgnored",
			conditions: rule.Conditions{Departments: []string{"Engineering"}},
			amount:     "10",
			category:   category.Food,
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conditions.Matches(dec(tt.amount), tt.category))
		})
	}
}

func TestMatch(t *testing.T) {
	r1 := &rule.ApprovalRule{
		ID:         uuid.New(),
		Name:       "small",
		Priority:   5,
		IsActive:   true,
		Conditions: rule.Conditions{MaxAmount: decPtr("100")},
	}
	r2 := &rule.ApprovalRule{
		ID:         uuid.New(),
		Name:       "medium",
		Priority:   1,
		IsActive:   true,
		Conditions: rule.Conditions{MaxAmount: decPtr("500")},
	}
	inactive := &rule.ApprovalRule{
		ID:       uuid.New(),
		Name:     "inactive catch-all",
		Priority: 10,
	}

	listing := []*rule.ApprovalRule{inactive, r1, r2}

	type testCase struct {
		name   string
		rules  []*rule.ApprovalRule
		amount string
		want   *rule.ApprovalRule
	}

	tests := []testCase{
		{name: "HigherPriorityListedFirstWins", rules: listing, amount: "50", want: r1},
		{name: "RangeExcludesFirst", rules: listing, amount: "300", want: r2},
		{name: "NothingMatches", rules: listing, amount: "501"},
		{name: "ListingOrderNotPriority", rules: []*rule.ApprovalRule{r2, r1}, amount: "50", want: r2},
		{name: "NoRules", amount: "50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rule.Match(tt.rules, dec(tt.amount), category.Travel)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApprovalRule_SortedApprovers(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r := &rule.ApprovalRule{Approvers: []rule.Approver{
		{UserID: a, Order: 10},
		{UserID: b, Order: 2},
		{UserID: c, Order: 2},
	}}

	got := r.SortedApprovers()

	assert.Equal(t, []rule.Approver{{UserID: b, Order: 2}, {UserID: c, Order: 2}, {UserID: a, Order: 10}}, got)
	assert.Equal(t, a, r.Approvers[0].UserID)
}
