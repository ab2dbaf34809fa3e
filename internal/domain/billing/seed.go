package billing

import "time"

func at(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// DefaultSeed is the demo ledger loaded when the memory store starts empty.
func DefaultSeed() []*Invoice {
	return []*Invoice{
		{ID: 1, ClientID: 1, ClientName: "Mia Alvarez", AppointmentID: 1,
			ServiceDate: at("2026-08-24"), CPTCode: "97153", Units: 8,
			PayerName: "Aetna", ClaimNumber: "CLM-2026-0812",
			TotalCents: 38400, PaidCents: 0, Status: StatusSent},
		{ID: 2, ClientID: 2, ClientName: "Noah Kim",
			ServiceDate: at("2026-08-18"), CPTCode: "97153", Units: 8,
			PayerName: "United", ClaimNumber: "CLM-2026-0799",
			TotalCents: 38400, PaidCents: 20000, Status: StatusPartial},
		{ID: 3, ClientID: 4, ClientName: "Liam Becker",
			ServiceDate: at("2026-05-03"), CPTCode: "97156", Units: 4,
			PayerName: "BCBS", ClaimNumber: "CLM-2026-0514",
			TotalCents: 16800, PaidCents: 16800, Status: StatusPaid},
	}
}

// DefaultClaimSeed is the demo claim queue loaded when the memory store
// starts empty.
func DefaultClaimSeed() []*Claim {
	submitted := at("2026-08-25")
	return []*Claim{
		{ID: 1, InvoiceID: 1, ClientID: 1, ClientName: "Mia Alvarez",
			PayerName: "Aetna", ClaimNumber: "CLM-2026-0812", CPTCode: "97153",
			Units: 8, AmountCents: 38400, Status: ClaimStatusSubmitted,
			SubmittedAt: &submitted},
		{ID: 2, InvoiceID: 3, ClientID: 4, ClientName: "Liam Becker",
			PayerName: "BCBS", ClaimNumber: "CLM-2026-0514", CPTCode: "97156",
			Units: 4, AmountCents: 16800, Status: ClaimStatusPaid},
		{ID: 3, ClientID: 2, ClientName: "Noah Kim",
			PayerName: "United", ClaimNumber: "CLM-2026-0799", CPTCode: "97153",
			Units: 8, AmountCents: 38400, Status: ClaimStatusPending},
	}
}
