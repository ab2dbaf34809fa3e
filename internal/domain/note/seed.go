package note

import "time"

func at(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// DefaultSeed is the demo note set loaded when the memory store starts empty.
func DefaultSeed() []*Note {
	return []*Note{
		{ID: 1, AppointmentID: 1, ClientID: 1, ClientName: "Mia Alvarez",
			ProviderID: 2, ProviderName: "Dana Reyes",
			SessionDate: at("2026-08-24T09:00:00Z"), SessionType: "aba_session",
			Objectives:     "Manding with vocal approximations; tolerating transitions between activities.",
			Interventions:  "DTT trials for mand targets, token economy, transition warnings with visual timer.",
			ClientResponse: "Engaged for 80% of trials. Two brief protests at transitions, both recovered within a minute.",
			Progress:       "Mand rate up to 12/hour from 9/hour last week. Transition tolerance improving.",
			Status:         StatusCompleted},
		{ID: 2, AppointmentID: 3, ClientID: 1, ClientName: "Mia Alvarez",
			ProviderID: 3, ProviderName: "Sam Whitfield",
			SessionDate: at("2026-08-19T16:00:00Z"), SessionType: "parent_training",
			Objectives:    "Caregiver implementation of token system at home.",
			Interventions: "Modeling and roleplay of token delivery.",
			Status:        StatusDraft},
	}
}
