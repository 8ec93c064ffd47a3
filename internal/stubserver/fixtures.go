package stubserver

import (
	"time"

	"github.com/md-rashed-zaman/opscal/internal/calclient"
	"github.com/md-rashed-zaman/opscal/internal/model"
	"github.com/md-rashed-zaman/opscal/internal/timegrid"
)

// SeedDemo loads a small week of demo data: a few employees, a couple
// of customers, and a scattering of slots around the current week.
func (s *Server) SeedDemo(now time.Time) {
	employees := []model.Person{
		{ID: "emp-ava", Name: "Ava Laine", Email: "ava@demo.test", Type: model.PersonEmployee},
		{ID: "emp-ben", Name: "Ben Okafor", Email: "ben@demo.test", Type: model.PersonEmployee},
		{ID: "emp-cleo", Name: "Cleo Marsh", Email: "cleo@demo.test", Type: model.PersonEmployee},
	}
	customers := []model.Person{
		{ID: "cust-nort", Name: "Northwind Ltd", Email: "ops@northwind.test", Type: model.PersonCustomer},
		{ID: "cust-glob", Name: "Globex Inc", Email: "pm@globex.test", Type: model.PersonCustomer},
	}

	monday := timegrid.WeekStart(now.UTC())
	at := func(day, hour, minute int) time.Time {
		return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	organizer := model.Organizer{EmployeeID: "emp-ava", Name: "Ava Laine", Email: "ava@demo.test"}

	events := []calclient.EventRecord{
		{
			Code: "EVT-DEMO1", Name: "Kickoff call",
			PersonEntityType: string(model.PersonEmployee), PersonEntityID: "emp-ava",
			FromTs: at(0, 10, 0), ToTs: at(0, 11, 0), Timezone: "UTC",
			AvailabilityFlag: false, EventType: string(model.EventVirtual),
			PlatformProvider: "meet", Organizers: []model.Organizer{organizer},
		},
		{
			Code: "EVT-DEMO2", Name: "Open slot",
			PersonEntityType: string(model.PersonEmployee), PersonEntityID: "emp-ben",
			FromTs: at(1, 14, 0), ToTs: at(1, 15, 30), Timezone: "UTC",
			AvailabilityFlag: true,
		},
		{
			Code: "EVT-DEMO3", Name: "Site walkthrough",
			PersonEntityType: string(model.PersonCustomer), PersonEntityID: "cust-nort",
			FromTs: at(3, 9, 30), ToTs: at(3, 10, 30), Timezone: "UTC",
			AvailabilityFlag: false, EventType: string(model.EventOnsite),
			Address:    "12 Dock Rd", Organizers: []model.Organizer{organizer},
		},
	}

	s.Seed(employees, customers, events)
}
