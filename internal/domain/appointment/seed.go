package appointment

import "time"

func at(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// DefaultSeed is the demo calendar loaded when the memory store starts empty.
func DefaultSeed() []*Appointment {
	return []*Appointment{
		{ID: 1, ClientID: 1, ClientName: "Mia Alvarez", ProviderID: 2, ProviderName: "Dana Reyes",
			SessionType: TypeABASession, Start: at("2026-08-24T09:00:00Z"), End: at("2026-08-24T11:00:00Z"),
			Location: "Clinic Room A", CPTCode: "97153", Units: 8, AuthorizationID: 1, Status: StatusCompleted},
		{ID: 2, ClientID: 2, ClientName: "Noah Kim", ProviderID: 2, ProviderName: "Dana Reyes",
			SessionType: TypeABASession, Start: at("2026-08-25T13:00:00Z"), End: at("2026-08-25T15:00:00Z"),
			Location: "Home", CPTCode: "97153", Units: 8, AuthorizationID: 2, Status: StatusScheduled},
		{ID: 3, ClientID: 1, ClientName: "Mia Alvarez", ProviderID: 3, ProviderName: "Sam Whitfield",
			SessionType: TypeParentTraining, Start: at("2026-08-26T16:00:00Z"), End: at("2026-08-26T17:00:00Z"),
			Location: "Telehealth", CPTCode: "97156", Units: 4, AuthorizationID: 1, Status: StatusScheduled},
		{ID: 4, ClientID: 3, ClientName: "Ava Okafor", ProviderID: 3, ProviderName: "Sam Whitfield",
			SessionType: TypeAssessment, Start: at("2026-08-20T10:00:00Z"), End: at("2026-08-20T12:00:00Z"),
			Location: "Clinic Room B", CPTCode: "97151", Units: 8, Status: StatusNoShow},
	}
}
