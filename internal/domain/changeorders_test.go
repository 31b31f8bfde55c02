package domain_test

import (
	"testing"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeChangeOrders(t *testing.T) {
	paidAmount := 4100.0
	orders := []*domain.ChangeOrder{
		{Status: domain.ChangeOrderStatusPending, Amount: 1500},
		{Status: domain.ChangeOrderStatusApproved, Amount: 4200},
		{Status: domain.ChangeOrderStatusApproved, Amount: 2000, IsPaid: true, PaidAmount: &paidAmount},
		{Status: domain.ChangeOrderStatusDenied, Amount: 9000},
	}

	totals := domain.SummarizeChangeOrders(orders)

	assert.Equal(t, 4, totals.TotalCount)
	assert.Equal(t, 1, totals.PendingCount)
	assert.Equal(t, 2, totals.ApprovedCount)
	assert.Equal(t, 1, totals.DeniedCount)
	assert.Equal(t, 1500.0, totals.PendingAmount)
	assert.Equal(t, 6200.0, totals.ApprovedAmount)
	assert.Equal(t, 9000.0, totals.DeniedAmount)
	// Paid uses the recorded payment, not the approved amount
	assert.Equal(t, 4100.0, totals.PaidAmount)
	assert.Equal(t, 4200.0, totals.UnpaidAmount)
	// Denied orders never move the net
	assert.Equal(t, 7700.0, totals.NetChange)
}

func TestSummarizeChangeOrders_CreditsReduceNet(t *testing.T) {
	orders := []*domain.ChangeOrder{
		{Status: domain.ChangeOrderStatusApproved, Amount: 5000},
		{Status: domain.ChangeOrderStatusApproved, Amount: -8000}, // value engineering credit
	}

	totals := domain.SummarizeChangeOrders(orders)

	assert.Equal(t, -3000.0, totals.NetChange)
	assert.Equal(t, -3000.0, totals.ApprovedAmount)
}

func TestSummarizeChangeOrders_PaidWithoutRecordedAmount(t *testing.T) {
	orders := []*domain.ChangeOrder{
		{Status: domain.ChangeOrderStatusApproved, Amount: 2500, IsPaid: true},
	}

	totals := domain.SummarizeChangeOrders(orders)

	assert.Equal(t, 2500.0, totals.PaidAmount)
	assert.Equal(t, 0.0, totals.UnpaidAmount)
}

func TestSummarizeChangeOrders_Empty(t *testing.T) {
	totals := domain.SummarizeChangeOrders(nil)

	assert.Equal(t, 0, totals.TotalCount)
	assert.Equal(t, 0.0, totals.NetChange)
}

func TestNextChangeOrderNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []int
		expected int
	}{
		{name: "no change orders yet", existing: nil, expected: 1},
		{name: "sequential numbers", existing: []int{1, 2, 3}, expected: 4},
		{name: "gap from deleted change order", existing: []int{1, 3}, expected: 4},
		{name: "unordered input", existing: []int{7, 2, 5}, expected: 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, domain.NextChangeOrderNumber(tc.existing))
		})
	}
}

func TestChangeOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.ChangeOrderStatusPending.IsTerminal())
	assert.True(t, domain.ChangeOrderStatusApproved.IsTerminal())
	assert.True(t, domain.ChangeOrderStatusDenied.IsTerminal())
}

func TestChangeOrder_EffectiveAmount(t *testing.T) {
	paid := 900.0
	co := &domain.ChangeOrder{Amount: 1000}
	assert.Equal(t, 1000.0, co.EffectiveAmount())

	co.PaidAmount = &paid
	assert.Equal(t, 900.0, co.EffectiveAmount())
}
