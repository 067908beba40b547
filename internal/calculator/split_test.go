package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitEvenly(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		n            int
		wantErr      bool
		validateFunc func(t *testing.T, shares []decimal.Decimal)
	}{
		{
			name:   "divides evenly",
			amount: "90.00",
			n:      3,
			validateFunc: func(t *testing.T, shares []decimal.Decimal) {
				for i, s := range shares {
					if !s.Equal(decimal.RequireFromString("30")) {
						t.Errorf("share %d = %s, want 30", i, s)
					}
				}
			},
		},
		{
			name:   "remainder cents go to the first shares",
			amount: "100",
			n:      3,
			validateFunc: func(t *testing.T, shares []decimal.Decimal) {
				want := []string{"33.34", "33.33", "33.33"}
				for i, s := range shares {
					if !s.Equal(decimal.RequireFromString(want[i])) {
						t.Errorf("share %d = %s, want %s", i, s, want[i])
					}
				}
			},
		},
		{
			name:   "keeps precision finer than cents",
			amount: "0.005",
			n:      2,
			validateFunc: func(t *testing.T, shares []decimal.Decimal) {
				want := []string{"0.003", "0.002"}
				for i, s := range shares {
					if !s.Equal(decimal.RequireFromString(want[i])) {
						t.Errorf("share %d = %s, want %s", i, s, want[i])
					}
				}
			},
		},
		{
			name:   "single participant takes everything",
			amount: "12.34",
			n:      1,
			validateFunc: func(t *testing.T, shares []decimal.Decimal) {
				if len(shares) != 1 || !shares[0].Equal(decimal.RequireFromString("12.34")) {
					t.Errorf("shares = %v, want [12.34]", shares)
				}
			},
		},
		{
			name:    "no participants should error",
			amount:  "10",
			n:       0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			shares, err := SplitEvenly(amount, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEvenly() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			sum := decimal.Zero
			for _, s := range shares {
				sum = sum.Add(s)
			}
			if !sum.Equal(amount) {
				t.Errorf("shares sum to %s, want %s", sum, amount)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}
