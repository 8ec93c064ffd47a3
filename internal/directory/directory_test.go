package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/md-rashed-zaman/opscal/internal/model"
)

type fakeSource struct {
	employees []model.Person
	customers []model.Person
	empErr    error
	custErr   error
}

func (f *fakeSource) ListEmployees(_ context.Context, page, limit int) ([]model.Person, error) {
	if f.empErr != nil {
		return nil, f.empErr
	}
	return pageOf(f.employees, page, limit), nil
}

func (f *fakeSource) ListCustomers(_ context.Context, page, limit int) ([]model.Person, error) {
	if f.custErr != nil {
		return nil, f.custErr
	}
	return pageOf(f.customers, page, limit), nil
}

func pageOf(people []model.Person, page, limit int) []model.Person {
	start := (page - 1) * limit
	if start >= len(people) {
		return nil
	}
	end := start + limit
	if end > len(people) {
		end = len(people)
	}
	return people[start:end]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func somePeople() *fakeSource {
	return &fakeSource{
		employees: []model.Person{
			{ID: "emp-1", Name: "Dana", Type: model.PersonEmployee},
			{ID: "emp-2", Name: "Sam", Type: model.PersonEmployee},
		},
		customers: []model.Person{
			{ID: "cust-1", Name: "Acme", Type: model.PersonCustomer},
		},
	}
}

func TestLoadBothLists(t *testing.T) {
	d := New(somePeople(), testLogger())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(d.Employees()) != 2 || len(d.Customers()) != 1 {
		t.Fatalf("unexpected directory: %d employees, %d customers", len(d.Employees()), len(d.Customers()))
	}
	if got := d.People(); len(got) != 3 || got[0].ID != "emp-1" || got[2].ID != "cust-1" {
		t.Fatalf("People() order wrong: %+v", got)
	}
}

func TestLoadPaginates(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 250; i++ {
		src.employees = append(src.employees, model.Person{ID: "e", Type: model.PersonEmployee})
	}
	d := New(src, testLogger())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(d.Employees()) != 250 {
		t.Fatalf("expected all pages fetched, got %d", len(d.Employees()))
	}
}

func TestLoadPartialFailureDegrades(t *testing.T) {
	src := somePeople()
	src.custErr = errors.New("boom")
	d := New(src, testLogger())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("partial failure must not fail the load: %v", err)
	}
	if len(d.Employees()) != 2 || len(d.Customers()) != 0 {
		t.Fatalf("expected employees only, got %d/%d", len(d.Employees()), len(d.Customers()))
	}
}

func TestLoadTotalFailure(t *testing.T) {
	src := somePeople()
	src.empErr = errors.New("boom")
	src.custErr = errors.New("boom")
	d := New(src, testLogger())
	if err := d.Load(context.Background()); !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
}

func TestToggleAndToggleAll(t *testing.T) {
	d := New(somePeople(), testLogger())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	d.Toggle("emp-1")
	if !d.IsSelected("emp-1") || d.SelectedCount() != 1 {
		t.Fatal("Toggle should select")
	}
	d.Toggle("emp-1")
	if d.IsSelected("emp-1") {
		t.Fatal("Toggle should deselect")
	}

	d.ToggleAllOfType(model.PersonEmployee)
	if !d.IsSelected("emp-1") || !d.IsSelected("emp-2") || d.IsSelected("cust-1") {
		t.Fatal("ToggleAllOfType should select every employee and no customers")
	}
	d.ToggleAllOfType(model.PersonEmployee)
	if d.SelectedCount() != 0 {
		t.Fatal("second ToggleAllOfType should clear the type")
	}
}

func TestEmptySelectionShowsNothing(t *testing.T) {
	d := New(somePeople(), testLogger())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	events := []model.Event{
		{ID: "ev-1", PersonEntityID: "emp-1", FromTs: time.Now()},
		{ID: "ev-2", PersonEntityID: "cust-1", FromTs: time.Now()},
	}
	if got := d.FilterEvents(events); len(got) != 0 {
		t.Fatalf("empty selection must yield an empty calendar, got %+v", got)
	}

	d.Toggle("cust-1")
	got := d.FilterEvents(events)
	if len(got) != 1 || got[0].ID != "ev-2" {
		t.Fatalf("expected only cust-1 events, got %+v", got)
	}
}

func TestConcurrentLoadAndReads(t *testing.T) {
	// Load runs in a command goroutine while the render loop keeps
	// reading; the race detector must stay quiet.
	d := New(somePeople(), testLogger())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d.Toggle("emp-1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := d.Load(context.Background()); err != nil {
				t.Errorf("Load failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		events := []model.Event{{ID: "ev-1", PersonEntityID: "emp-1"}}
		for i := 0; i < 50; i++ {
			d.People()
			d.CandidateOwner()
			d.FilterEvents(events)
			d.ByID("cust-1")
		}
	}()
	wg.Wait()

	if len(d.People()) != 3 {
		t.Fatalf("directory lost people under concurrent reload: %d", len(d.People()))
	}
}

func TestCandidateOwner(t *testing.T) {
	d := New(somePeople(), testLogger())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Nothing selected: first person in directory order.
	owner, ok := d.CandidateOwner()
	if !ok || owner.ID != "emp-1" {
		t.Fatalf("expected emp-1 as fallback owner, got %+v ok=%v", owner, ok)
	}

	d.Toggle("cust-1")
	owner, ok = d.CandidateOwner()
	if !ok || owner.ID != "cust-1" {
		t.Fatalf("expected first selected person, got %+v ok=%v", owner, ok)
	}

	empty := New(&fakeSource{}, testLogger())
	if _, ok := empty.CandidateOwner(); ok {
		t.Fatal("empty directory has no candidate owner")
	}
}
