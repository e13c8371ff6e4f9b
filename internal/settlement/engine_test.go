package settlement

import (
	"errors"
	"testing"

	"livesocial_backend/internal/domain"
)

func TestQuote_CommissionByPayeeTier(t *testing.T) {
	rates := DefaultRates()

	cases := []struct {
		name           string
		tier           domain.ProfileTier
		gross          int64
		wantCommission int64
		wantCredit     int64
		wantType       CommissionType
	}{
		{"basic 20% of 100", domain.TierBasic, 100, 20, 80, CommissionAdmin},
		{"gstar 25% of 200", domain.TierGstar, 200, 50, 150, CommissionGstar},
		{"gicon 18% of 1000", domain.TierGicon, 1000, 180, 820, CommissionGicon},
		{"unknown tier falls back to basic", domain.ProfileTier("vip"), 100, 20, 80, CommissionAdmin},
		{"truncation toward zero", domain.TierGicon, 7, 1, 6, CommissionGicon},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Quote(Input{
				Kind:        EventCall,
				GrossAmount: tc.gross,
				PayerGender: domain.GenderMale,
				PayeeGender: domain.GenderFemale,
				PayeeTier:   tc.tier,
			}, rates)
			if err != nil {
				t.Fatalf("quote: %v", err)
			}
			if !res.Eligible {
				t.Fatalf("expected eligible settlement")
			}
			if res.DebitAmount != tc.gross {
				t.Fatalf("debit = %d; want %d", res.DebitAmount, tc.gross)
			}
			if res.CommissionAmount != tc.wantCommission {
				t.Fatalf("commission = %d; want %d", res.CommissionAmount, tc.wantCommission)
			}
			if res.CreditAmount != tc.wantCredit {
				t.Fatalf("credit = %d; want %d", res.CreditAmount, tc.wantCredit)
			}
			if res.CommissionType != tc.wantType {
				t.Fatalf("commission type = %s; want %s", res.CommissionType, tc.wantType)
			}
			if res.CommissionAmount+res.CreditAmount != tc.gross {
				t.Fatalf("commission %d + credit %d != gross %d", res.CommissionAmount, res.CreditAmount, tc.gross)
			}
		})
	}
}

func TestQuote_IneligibleDirections(t *testing.T) {
	rates := DefaultRates()

	cases := []struct {
		name  string
		payer domain.Gender
		payee domain.Gender
	}{
		{"female caller male receiver", domain.GenderFemale, domain.GenderMale},
		{"male caller male receiver", domain.GenderMale, domain.GenderMale},
		{"female caller female receiver", domain.GenderFemale, domain.GenderFemale},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Quote(Input{
				Kind:        EventCall,
				GrossAmount: 500,
				PayerGender: tc.payer,
				PayeeGender: tc.payee,
				PayeeTier:   domain.TierGstar,
			}, rates)
			if err != nil {
				t.Fatalf("quote: %v", err)
			}
			if res.Eligible {
				t.Fatalf("expected ineligible settlement")
			}
			if res.CreditAmount != 0 || res.CommissionAmount != 0 {
				t.Fatalf("ineligible settlement must carry zero credit/commission, got %d/%d",
					res.CreditAmount, res.CommissionAmount)
			}
			if res.DebitAmount != 500 {
				t.Fatalf("payer must still be debited in full, got %d", res.DebitAmount)
			}
			if res.CommissionType != CommissionNone {
				t.Fatalf("commission type = %s; want none", res.CommissionType)
			}
		})
	}
}

func TestQuote_GiftsAreGenderAgnostic(t *testing.T) {
	res, err := Quote(Input{
		Kind:        EventGift,
		GrossAmount: 300,
		PayerGender: domain.GenderFemale,
		PayeeGender: domain.GenderMale,
		PayeeTier:   domain.TierBasic,
	}, DefaultRates())
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !res.Eligible {
		t.Fatalf("gift settlements must always be eligible")
	}
	if res.CommissionAmount != 60 || res.CreditAmount != 240 {
		t.Fatalf("got commission %d credit %d; want 60/240", res.CommissionAmount, res.CreditAmount)
	}
}

func TestQuote_MissingPayeeDegradesToDebitOnly(t *testing.T) {
	res, err := Quote(Input{
		Kind:         EventGift,
		GrossAmount:  100,
		PayerGender:  domain.GenderMale,
		PayeeMissing: true,
	}, DefaultRates())
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if res.Eligible || res.CreditAmount != 0 {
		t.Fatalf("missing payee must settle debit-only, got %+v", res)
	}
	if res.DebitAmount != 100 {
		t.Fatalf("debit = %d; want 100", res.DebitAmount)
	}
}

func TestQuote_RejectsNonPositiveGross(t *testing.T) {
	for _, gross := range []int64{0, -10} {
		if _, err := Quote(Input{Kind: EventCall, GrossAmount: gross}, DefaultRates()); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("gross %d: expected ErrInvalidAmount, got %v", gross, err)
		}
	}
}

func TestCoinsPerMinute(t *testing.T) {
	rates := DefaultRates()

	cases := []struct {
		callType domain.CallType
		tier     domain.ProfileTier
		want     int64
	}{
		{domain.CallAudio, domain.TierBasic, 60},
		{domain.CallVideo, domain.TierBasic, 100},
		{domain.CallAudio, domain.TierGicon, 72},
		{domain.CallVideo, domain.TierGstar, 150},
	}

	for _, tc := range cases {
		if got := CoinsPerMinute(rates, tc.callType, tc.tier); got != tc.want {
			t.Fatalf("CoinsPerMinute(%s,%s) = %d; want %d", tc.callType, tc.tier, got, tc.want)
		}
	}
}

func TestCoinsToRupees(t *testing.T) {
	if got, err := CoinsToRupees(100, 10); err != nil || got != 10 {
		t.Fatalf("CoinsToRupees(100,10) = %d,%v; want 10,nil", got, err)
	}
	if _, err := CoinsToRupees(7, 10); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum for 7 coins, got %v", err)
	}
	if _, err := CoinsToRupees(25, 10); !errors.Is(err, ErrNotMultiple) {
		t.Fatalf("expected ErrNotMultiple for 25 coins, got %v", err)
	}
	if _, err := CoinsToRupees(0, 10); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for 0 coins, got %v", err)
	}
	// ratio of exactly one coin per rupee
	if got, err := CoinsToRupees(3, 1); err != nil || got != 3 {
		t.Fatalf("CoinsToRupees(3,1) = %d,%v; want 3,nil", got, err)
	}
}
