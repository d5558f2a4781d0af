package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:          "order-1",
		UserID:      "user-1",
		Status:      domain.OrderStatusPending,
		Currency:    "ARS",
		AmountMinor: 500,
		Lines: []domain.OrderLine{
			{
				ID:         "line-1",
				OrderID:    "order-1",
				ProductID:  "sku-1",
				Qty:        5,
				PriceMinor: 100,
				CreatedAt:  now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{
			name: "no user",
			mut: func(o *domain.Order) {
				o.UserID = ""
			},
			want: domain.ErrUserRequired,
		},
		{
			name: "no currency",
			mut: func(o *domain.Order) {
				o.Currency = ""
			},
			want: domain.ErrCurrencyRequired,
		},
		{
			name: "no lines",
			mut: func(o *domain.Order) {
				o.Lines = nil
			},
			want: domain.ErrLinesRequired,
		},
		{
			name: "negative amount",
			mut: func(o *domain.Order) {
				o.AmountMinor = -1
			},
			want: domain.ErrAmountNegative,
		},
		{
			name: "zero qty",
			mut: func(o *domain.Order) {
				o.Lines[0].Qty = 0
			},
			want: domain.ErrLineQtyInvalid,
		},
		{
			name: "negative price",
			mut: func(o *domain.Order) {
				o.Lines[0].PriceMinor = -10
			},
			want: domain.ErrLinePriceInvalid,
		},
		{
			name: "amount mismatch",
			mut: func(o *domain.Order) {
				o.AmountMinor = 9999
			},
			want: domain.ErrAmountMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			errs := order.ValidateInvariants()
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			found := false
			for _, err := range errs {
				if errors.Is(err, tc.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %v among %v", tc.want, errs)
			}
		})
	}
}

func TestOrderApproved(t *testing.T) {
	order := makeOrder()
	if order.Approved() {
		t.Fatal("pending order must not be approved")
	}

	order.Status = domain.OrderStatusApproved
	if !order.Approved() {
		t.Fatal("approved order must report Approved")
	}
}
