package stubserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/md-rashed-zaman/opscal/internal/calclient"
	"github.com/md-rashed-zaman/opscal/internal/model"
)

func newTestServer(t *testing.T) (*Server, *calclient.Client) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(logger, "test-token")
	mux := http.NewServeMux()
	srv.Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return srv, calclient.New(ts.URL, "test-token", 5*time.Second, logger)
}

func TestRejectsBadToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(logger, "secret")
	mux := http.NewServeMux()
	srv.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := calclient.New(ts.URL, "wrong", 5*time.Second, logger)
	_, err := client.ListEvents(context.Background(), time.Time{}, time.Time{})
	if !errors.Is(err, calclient.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestSlotLifecycle(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	from := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	created, err := client.CreateSlot(ctx, calclient.CreateSlotRequest{
		Code:             "EVT-1",
		Name:             "Consult",
		PersonEntityType: "employee",
		PersonEntityID:   "emp-1",
		FromTs:           from,
		ToTs:             from.Add(time.Hour),
		Timezone:         "UTC",
		AvailabilityFlag: false,
		Organizers:       []model.Organizer{{EmployeeID: "emp-9", Name: "Dana"}},
	})
	if err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	if created.ID == "" || created.Title != "Consult" || created.Booked() != true {
		t.Fatalf("created = %+v", created)
	}

	events, err := client.ListEvents(ctx, from.AddDate(0, 0, -1), from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].ID != created.ID {
		t.Fatalf("listed = %+v", events)
	}

	// Window excluding the event returns nothing.
	events, err = client.ListEvents(ctx, from.AddDate(0, 0, 7), from.AddDate(0, 0, 14))
	if err != nil {
		t.Fatalf("ListEvents (next week): %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("next week listed = %+v", events)
	}

	// Partial patch moves the slot and leaves the title alone.
	newFrom := from.Add(24 * time.Hour)
	if err := client.Reschedule(ctx, created.ID, newFrom, newFrom.Add(time.Hour)); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	events, err = client.ListEvents(ctx, newFrom.Add(-time.Hour), newFrom.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("ListEvents after move: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Consult" || !events[0].FromTs.Equal(newFrom) {
		t.Fatalf("after move = %+v", events)
	}

	if err := client.DeleteSlot(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}
	if err := client.DeleteSlot(ctx, created.ID); !errors.Is(err, calclient.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestCreateSlotValidation(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()
	from := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

	// Booked event without organizers is rejected.
	_, err := client.CreateSlot(ctx, calclient.CreateSlotRequest{
		Name:             "No organizer",
		PersonEntityType: "employee",
		PersonEntityID:   "emp-1",
		FromTs:           from,
		ToTs:             from.Add(time.Hour),
		AvailabilityFlag: false,
	})
	if err == nil {
		t.Fatal("expected rejection for booked event without organizers")
	}

	// Availability slots need none.
	_, err = client.CreateSlot(ctx, calclient.CreateSlotRequest{
		Name:             "Open",
		PersonEntityType: "employee",
		PersonEntityID:   "emp-1",
		FromTs:           from,
		ToTs:             from.Add(time.Hour),
		AvailabilityFlag: true,
	})
	if err != nil {
		t.Fatalf("availability slot rejected: %v", err)
	}
}

func TestCreateBookingRegistersCustomer(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()
	from := time.Date(2024, 1, 9, 11, 0, 0, 0, time.UTC)

	booked, err := client.CreateBooking(ctx, calclient.CreateBookingRequest{
		CustomerName:     "Acme Corp",
		CustomerEmail:    "pm@acme.test",
		Title:            "Kickoff",
		EventType:        "virtual",
		AssignedEmployee: "emp-1",
		FromTs:           from,
		ToTs:             from.Add(time.Hour),
		Timezone:         "UTC",
		Organizers:       []model.Organizer{{EmployeeID: "emp-1", Name: "Dana"}},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booked.PersonEntityType != model.PersonCustomer || booked.Booked() != true {
		t.Fatalf("booked = %+v", booked)
	}

	customers, err := client.ListCustomers(ctx, 1, 100)
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	found := false
	for _, c := range customers {
		if c.ID == booked.PersonEntityID && c.Name == "Acme Corp" {
			found = true
		}
	}
	if !found {
		t.Fatalf("customer not registered; got %+v", customers)
	}
}

func TestPeoplePagination(t *testing.T) {
	srv, client := newTestServer(t)

	var employees []model.Person
	for i := 0; i < 5; i++ {
		employees = append(employees, model.Person{
			ID:   string(rune('a' + i)),
			Name: "Employee " + string(rune('A'+i)),
			Type: model.PersonEmployee,
		})
	}
	srv.Seed(employees, nil, nil)

	page1, err := client.ListEmployees(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	page3, err := client.ListEmployees(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	page4, err := client.ListEmployees(context.Background(), 4, 2)
	if err != nil {
		t.Fatalf("page 4: %v", err)
	}
	if len(page1) != 2 || len(page3) != 1 || len(page4) != 0 {
		t.Fatalf("page sizes = %d, %d, %d", len(page1), len(page3), len(page4))
	}
	if page1[0].Type != model.PersonEmployee {
		t.Fatalf("type = %v", page1[0].Type)
	}
}
