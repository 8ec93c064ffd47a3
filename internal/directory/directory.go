// Package directory fetches and holds the selectable universe of
// schedulable parties (employees and customers) plus the selection
// state that decides whose events the calendar shows.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/md-rashed-zaman/opscal/internal/model"
)

// ErrLoadFailed is returned when neither directory list could be
// fetched. A single failed list degrades to the other instead.
var ErrLoadFailed = errors.New("directory: load failed")

const defaultPageLimit = 100

// Source lists the two directory endpoints. *calclient.Client satisfies it.
type Source interface {
	ListEmployees(ctx context.Context, page, limit int) ([]model.Person, error)
	ListCustomers(ctx context.Context, page, limit int) ([]model.Person, error)
}

type Directory struct {
	source    Source
	logger    *slog.Logger
	pageLimit int

	// mu guards the lists and the selection. Load runs in a command
	// goroutine while the render loop reads concurrently.
	mu        sync.Mutex
	employees []model.Person
	customers []model.Person
	selected  map[string]struct{}
}

func New(source Source, logger *slog.Logger) *Directory {
	return &Directory{
		source:    source,
		logger:    logger,
		pageLimit: defaultPageLimit,
		selected:  map[string]struct{}{},
	}
}

// Load fetches both lists concurrently. The fetches are independently
// guarded: one list failing leaves the other usable. Only when both
// fail does Load report an error.
func (d *Directory) Load(ctx context.Context) error {
	var wg sync.WaitGroup
	var employees, customers []model.Person
	var empErr, custErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		employees, empErr = d.fetchAll(ctx, d.source.ListEmployees)
	}()
	go func() {
		defer wg.Done()
		customers, custErr = d.fetchAll(ctx, d.source.ListCustomers)
	}()
	wg.Wait()

	d.mu.Lock()
	if empErr != nil {
		d.logger.Error("employee directory load failed", "err", empErr)
	} else {
		d.employees = employees
	}
	if custErr != nil {
		d.logger.Error("customer directory load failed", "err", custErr)
	} else {
		d.customers = customers
	}
	d.mu.Unlock()

	if empErr != nil && custErr != nil {
		return fmt.Errorf("%w: employees: %v; customers: %v", ErrLoadFailed, empErr, custErr)
	}
	return nil
}

func (d *Directory) fetchAll(ctx context.Context, list func(context.Context, int, int) ([]model.Person, error)) ([]model.Person, error) {
	var all []model.Person
	for page := 1; ; page++ {
		batch, err := list(ctx, page, d.pageLimit)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < d.pageLimit {
			return all, nil
		}
	}
}

func (d *Directory) Employees() []model.Person {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.employees
}

func (d *Directory) Customers() []model.Person {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.customers
}

// People returns employees followed by customers, the directory order
// used everywhere (sidebar, candidate owner, editor multi-select).
func (d *Directory) People() []model.Person {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.people()
}

func (d *Directory) people() []model.Person {
	people := make([]model.Person, 0, len(d.employees)+len(d.customers))
	people = append(people, d.employees...)
	people = append(people, d.customers...)
	return people
}

// ByID resolves a person in the loaded directory.
func (d *Directory) ByID(id string) (model.Person, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.people() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Person{}, false
}

func (d *Directory) Toggle(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.selected[id]; ok {
		delete(d.selected, id)
		return
	}
	d.selected[id] = struct{}{}
}

// ToggleAllOfType selects every person of the given type, or clears
// them all if every one is already selected.
func (d *Directory) ToggleAllOfType(kind model.PersonType) {
	d.mu.Lock()
	defer d.mu.Unlock()

	people := d.employees
	if kind != model.PersonEmployee {
		people = d.customers
	}
	allSelected := len(people) > 0
	for _, p := range people {
		if _, ok := d.selected[p.ID]; !ok {
			allSelected = false
			break
		}
	}

	for _, p := range people {
		if allSelected {
			delete(d.selected, p.ID)
		} else {
			d.selected[p.ID] = struct{}{}
		}
	}
}

func (d *Directory) IsSelected(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.selected[id]
	return ok
}

func (d *Directory) SelectedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.selected)
}

// FilterEvents keeps only events belonging to explicitly selected
// people. An empty selection yields an empty calendar; "show all" must
// be an explicit choice, never the default.
func (d *Directory) FilterEvents(events []model.Event) []model.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.selected) == 0 {
		return nil
	}
	var out []model.Event
	for _, e := range events {
		if _, ok := d.selected[e.PersonEntityID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// CandidateOwner returns the person a drag-created slot should belong
// to: the first selected person in directory order, or the first
// person at all when nothing is selected. ok is false for an empty
// directory.
func (d *Directory) CandidateOwner() (model.Person, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	people := d.people()
	for _, p := range people {
		if _, ok := d.selected[p.ID]; ok {
			return p, true
		}
	}
	if len(people) > 0 {
		return people[0], true
	}
	return model.Person{}, false
}
