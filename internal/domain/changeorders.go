package domain

// ChangeOrderTotals summarizes the change orders of one project or budget.
// NetChange is the signed sum over pending and approved orders; denied orders
// never move the needle.
type ChangeOrderTotals struct {
	TotalCount     int     `json:"totalCount"`
	PendingCount   int     `json:"pendingCount"`
	ApprovedCount  int     `json:"approvedCount"`
	DeniedCount    int     `json:"deniedCount"`
	PendingAmount  float64 `json:"pendingAmount"`
	ApprovedAmount float64 `json:"approvedAmount"`
	DeniedAmount   float64 `json:"deniedAmount"`
	PaidAmount     float64 `json:"paidAmount"`
	UnpaidAmount   float64 `json:"unpaidAmount"`
	NetChange      float64 `json:"netChange"`
}

// SummarizeChangeOrders computes the rollup for a set of change orders.
// Paid amounts use the recorded payment when one exists, otherwise the
// original amount. Unpaid is the sum of approved orders not yet paid.
func SummarizeChangeOrders(orders []*ChangeOrder) ChangeOrderTotals {
	totals := ChangeOrderTotals{TotalCount: len(orders)}
	for _, co := range orders {
		switch co.Status {
		case ChangeOrderStatusPending:
			totals.PendingCount++
			totals.PendingAmount += co.Amount
			totals.NetChange += co.Amount
		case ChangeOrderStatusApproved:
			totals.ApprovedCount++
			totals.ApprovedAmount += co.Amount
			totals.NetChange += co.Amount
			if co.IsPaid {
				totals.PaidAmount += co.EffectiveAmount()
			} else {
				totals.UnpaidAmount += co.Amount
			}
		case ChangeOrderStatusDenied:
			totals.DeniedCount++
			totals.DeniedAmount += co.Amount
		}
	}
	return totals
}

// NextChangeOrderNumber returns one past the highest number in use, or 1 for
// a project with no change orders yet. It only sees live rows, so the store's
// per-project counter is authoritative once orders have been deleted.
func NextChangeOrderNumber(existing []int) int {
	max := 0
	for _, n := range existing {
		if n > max {
			max = n
		}
	}
	return max + 1
}
