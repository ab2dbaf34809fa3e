package authorization

import "time"

func at(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// DefaultSeed is the demo authorization set loaded when the memory store
// starts empty.
func DefaultSeed() []*Authorization {
	return []*Authorization{
		{ID: 1, ClientID: 1, ClientName: "Mia Alvarez", PayerName: "Aetna",
			AuthNumber: "AUTH-88120", CPTCode: "97153", TotalUnits: 480, UsedUnits: 312,
			StartDate: at("2026-03-01"), EndDate: at("2026-09-30"), Status: StatusActive},
		{ID: 2, ClientID: 2, ClientName: "Noah Kim", PayerName: "United",
			AuthNumber: "AUTH-22093", CPTCode: "97153", TotalUnits: 400, UsedUnits: 396,
			StartDate: at("2026-02-15"), EndDate: at("2026-10-15"), Status: StatusActive},
		{ID: 3, ClientID: 4, ClientName: "Liam Becker", PayerName: "BCBS",
			AuthNumber: "AUTH-76125", CPTCode: "97156", TotalUnits: 120, UsedUnits: 120,
			StartDate: at("2026-01-01"), EndDate: at("2026-06-30"), Status: StatusExhausted},
	}
}
