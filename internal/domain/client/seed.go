package client

import "time"

func tp(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

// DefaultSeed is the demo roster loaded when the memory store starts empty.
func DefaultSeed() []*Client {
	return []*Client{
		{ID: 1, FirstName: "Mia", LastName: "Alvarez", DOB: "2017-03-12", Gender: "female",
			Phone: "555-0101", Email: "alvarez.family@example.com", Status: StatusActive,
			InsurancePayer: "Aetna", InsuranceMemberID: "AET-448812", ProviderID: 2,
			ProviderName: "Dana Reyes", LastVisit: tp("2026-08-21")},
		{ID: 2, FirstName: "Noah", LastName: "Kim", DOB: "2015-11-02", Gender: "male",
			Phone: "555-0102", Email: "kim.household@example.com", Status: StatusActive,
			InsurancePayer: "United", InsuranceMemberID: "UHC-220931", ProviderID: 2,
			ProviderName: "Dana Reyes", LastVisit: tp("2026-08-24")},
		{ID: 3, FirstName: "Ava", LastName: "Okafor", DOB: "2018-06-30", Gender: "female",
			Phone: "555-0103", Email: "okafor.c@example.com", Status: StatusPending,
			InsurancePayer: "Cigna", InsuranceMemberID: "CIG-887001", ProviderID: 3,
			ProviderName: "Sam Whitfield"},
		{ID: 4, FirstName: "Liam", LastName: "Becker", DOB: "2014-01-19", Gender: "male",
			Phone: "555-0104", Email: "becker.fam@example.com", Status: StatusInactive,
			InsurancePayer: "BCBS", InsuranceMemberID: "BCB-761254", ProviderID: 3,
			ProviderName: "Sam Whitfield", LastVisit: tp("2026-05-03")},
	}
}
