package service

import "github.com/inovasi-informatika/spp-admin/internal/model"

// BaseTuition is the full per-semester SPP amount in rupiah.
const BaseTuition int64 = 10_000_000

// FeePercent returns the share of BaseTuition charged for a scholarship tier.
// Unknown tiers pay the full amount.
func FeePercent(code model.Beasiswa) int64 {
	switch code {
	case model.BeasiswaFull:
		return 0
	case model.BeasiswaPartial:
		return 50
	default:
		return 100
	}
}

// CalculateFee returns the SPP amount for a scholarship tier. It never fails.
func CalculateFee(code model.Beasiswa) int64 {
	return BaseTuition * FeePercent(code) / 100
}

// HasDuplicatePayment reports whether payments already holds a record for the
// (nim, semester) pair. It only sees the list it is given; a payment created
// by another client after that list was fetched is not detected.
func HasDuplicatePayment(payments []model.Payment, nim string, semester int) bool {
	for _, p := range payments {
		if p.NIM == nim && p.Semester == semester {
			return true
		}
	}
	return false
}
