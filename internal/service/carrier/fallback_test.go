package carrier_test

import (
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/carrier"
)

func TestFallbackOptions_Brackets(t *testing.T) {
	cases := []struct {
		name         string
		grams        int64
		wantStandard int64
		wantExpress  int64
	}{
		{"light", 400, 2500, 3375},
		{"light boundary", 1000, 2500, 3375},
		{"mid", 1600, 4200, 5670},
		{"mid boundary", 3000, 4200, 5670},
		{"heavy", 3001, 6900, 9315},
		{"very heavy", 25000, 6900, 9315},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			options := carrier.FallbackOptions(tc.grams)
			if len(options) != 2 {
				t.Fatalf("expected standard and express, got %d options", len(options))
			}

			var standard, express *domain.ShippingOption
			for i := range options {
				switch options[i].ServiceLevel {
				case domain.ServiceLevelStandard:
					standard = &options[i]
				case domain.ServiceLevelExpress:
					express = &options[i]
				}
			}
			if standard == nil || express == nil {
				t.Fatal("fallback must contain standard and express levels")
			}
			if standard.AmountMinor != tc.wantStandard {
				t.Fatalf("standard = %d, want %d", standard.AmountMinor, tc.wantStandard)
			}
			if express.AmountMinor != tc.wantExpress {
				t.Fatalf("express = %d, want %d", express.AmountMinor, tc.wantExpress)
			}
		})
	}
}

func TestFallbackOptions_Etas(t *testing.T) {
	options := carrier.FallbackOptions(500)
	for _, opt := range options {
		switch opt.ServiceLevel {
		case domain.ServiceLevelStandard:
			if opt.EtaMinDays != 5 || opt.EtaMaxDays != 8 {
				t.Fatalf("standard ETA = %d-%d, want 5-8", opt.EtaMinDays, opt.EtaMaxDays)
			}
		case domain.ServiceLevelExpress:
			if opt.EtaMinDays != 2 || opt.EtaMaxDays != 4 {
				t.Fatalf("express ETA = %d-%d, want 2-4", opt.EtaMinDays, opt.EtaMaxDays)
			}
		}
		if opt.Provider != carrier.ProviderName {
			t.Fatalf("provider = %q, want %q", opt.Provider, carrier.ProviderName)
		}
	}
}

func TestProvisionalTracking(t *testing.T) {
	tracking := carrier.ProvisionalTracking("order-42")
	if !strings.HasPrefix(tracking, "PROVISIONAL-") {
		t.Fatalf("tracking %q must carry the provisional prefix", tracking)
	}
	if !strings.HasSuffix(tracking, "order-42") {
		t.Fatalf("tracking %q must embed the order id", tracking)
	}
}
