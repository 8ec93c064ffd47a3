// Package stubserver is an in-memory rendition of the person-calendar
// API used by opscal-stub for local development and by tests. It keeps
// events and people in memory and enforces the same request shapes and
// status codes as the real backend.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/md-rashed-zaman/opscal/internal/calclient"
	"github.com/md-rashed-zaman/opscal/internal/model"
)

type Server struct {
	logger *slog.Logger
	token  string

	mu        sync.Mutex
	events    map[string]calclient.EventRecord
	employees []model.Person
	customers []model.Person
}

// New builds a stub with the given bearer token. An empty token
// disables the auth check.
func New(logger *slog.Logger, token string) *Server {
	return &Server{
		logger: logger,
		token:  token,
		events: make(map[string]calclient.EventRecord),
	}
}

// Seed loads fixture people and events.
func (s *Server) Seed(employees, customers []model.Person, events []calclient.EventRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append(s.employees, employees...)
	s.customers = append(s.customers, customers...)
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		s.events[e.ID] = e
	}
}

// Ready is the /readyz hook: the stub serves once its store is
// initialized and its lock is free.
func (s *Server) Ready(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		return errors.New("event store not initialized")
	}
	return ctx.Err()
}

// Register mounts the API routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/person-calendar", s.authed(s.calendarCollection))
	mux.HandleFunc("/api/v1/person-calendar/create", s.authed(s.createBooking))
	mux.HandleFunc("/api/v1/person-calendar/", s.authed(s.calendarItem))
	mux.HandleFunc("/api/v1/employee", s.authed(s.listEmployees))
	mux.HandleFunc("/api/v1/cust", s.authed(s.listCustomers))
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got != s.token {
				http.Error(w, "invalid or missing token", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) calendarCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEvents(w, r)
	case http.MethodPost:
		s.createSlot(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("from_ts")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid from_ts", http.StatusBadRequest)
			return
		}
		from = t
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to_ts")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid to_ts", http.StatusBadRequest)
			return
		}
		to = t
	}

	s.mu.Lock()
	items := make([]calclient.EventRecord, 0, len(s.events))
	for _, e := range s.events {
		if !from.IsZero() && e.FromTs.Before(from) {
			continue
		}
		if !to.IsZero() && !e.FromTs.Before(to) {
			continue
		}
		items = append(items, e)
	}
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].FromTs.Before(items[j].FromTs) })
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) createSlot(w http.ResponseWriter, r *http.Request) {
	var req calclient.CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.PersonEntityID = strings.TrimSpace(req.PersonEntityID)
	if req.Name == "" || req.PersonEntityID == "" {
		http.Error(w, "name and person_entity_id required", http.StatusBadRequest)
		return
	}
	if !req.ToTs.After(req.FromTs) {
		http.Error(w, "to_ts must be after from_ts", http.StatusBadRequest)
		return
	}
	if !req.AvailabilityFlag && len(req.Organizers) == 0 {
		http.Error(w, "booked event requires at least one organizer", http.StatusBadRequest)
		return
	}

	rec := calclient.EventRecord{
		ID:               uuid.NewString(),
		Code:             req.Code,
		Name:             req.Name,
		PersonEntityType: req.PersonEntityType,
		PersonEntityID:   req.PersonEntityID,
		FromTs:           req.FromTs,
		ToTs:             req.ToTs,
		Timezone:         req.Timezone,
		AvailabilityFlag: req.AvailabilityFlag,
		EventID:          req.EventID,
		EventType:        req.EventType,
		PlatformProvider: req.PlatformProvider,
		Address:          req.Address,
		Instructions:     req.Instructions,
		Organizers:       req.Organizers,
		Attendees:        req.Attendees,
		Metadata:         req.Metadata,
	}

	s.mu.Lock()
	s.events[rec.ID] = rec
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req calclient.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Title = strings.TrimSpace(req.Title)
	req.AssignedEmployee = strings.TrimSpace(req.AssignedEmployee)
	if req.CustomerName == "" || req.Title == "" || req.AssignedEmployee == "" {
		http.Error(w, "customer_name, title and assigned_employee_id required", http.StatusBadRequest)
		return
	}
	if !req.ToTs.After(req.FromTs) {
		http.Error(w, "to_ts must be after from_ts", http.StatusBadRequest)
		return
	}

	// The orchestrated flow registers the customer as a person entity
	// and books the slot against it in one call.
	customer := model.Person{
		ID:    uuid.NewString(),
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Type:  model.PersonCustomer,
	}
	rec := calclient.EventRecord{
		ID:               uuid.NewString(),
		Name:             req.Title,
		PersonEntityType: string(model.PersonCustomer),
		PersonEntityID:   customer.ID,
		FromTs:           req.FromTs,
		ToTs:             req.ToTs,
		Timezone:         req.Timezone,
		AvailabilityFlag: false,
		EventType:        req.EventType,
		PlatformProvider: req.PlatformProvider,
		Address:          req.Address,
		Instructions:     req.Instructions,
		Organizers:       req.Organizers,
		Attendees:        req.Attendees,
	}

	s.mu.Lock()
	s.customers = append(s.customers, customer)
	s.events[rec.ID] = rec
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) calendarItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/person-calendar/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		s.updateSlot(w, r, id)
	case http.MethodDelete:
		s.deleteSlot(w, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) updateSlot(w http.ResponseWriter, r *http.Request, id string) {
	var req calclient.UpdateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.events[id]
	if !ok {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}

	if req.Name != nil {
		rec.Name = *req.Name
	}
	if req.FromTs != nil {
		rec.FromTs = *req.FromTs
	}
	if req.ToTs != nil {
		rec.ToTs = *req.ToTs
	}
	if req.EventType != nil {
		rec.EventType = *req.EventType
	}
	if req.PlatformProvider != nil {
		rec.PlatformProvider = *req.PlatformProvider
	}
	if req.Address != nil {
		rec.Address = *req.Address
	}
	if req.Instructions != nil {
		rec.Instructions = *req.Instructions
	}
	if req.Organizers != nil {
		rec.Organizers = *req.Organizers
	}
	if req.Attendees != nil {
		rec.Attendees = *req.Attendees
	}

	if !rec.ToTs.After(rec.FromTs) {
		http.Error(w, "to_ts must be after from_ts", http.StatusBadRequest)
		return
	}
	if !rec.AvailabilityFlag && len(rec.Organizers) == 0 {
		http.Error(w, "booked event requires at least one organizer", http.StatusBadRequest)
		return
	}

	s.events[id] = rec
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteSlot(w http.ResponseWriter, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}
	delete(s.events, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	people := append([]model.Person(nil), s.employees...)
	s.mu.Unlock()
	writePeoplePage(w, r, people)
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	people := append([]model.Person(nil), s.customers...)
	s.mu.Unlock()
	writePeoplePage(w, r, people)
}

type personItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func writePeoplePage(w http.ResponseWriter, r *http.Request, people []model.Person) {
	page := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	limit := 100
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	start := (page - 1) * limit
	if start > len(people) {
		start = len(people)
	}
	end := start + limit
	if end > len(people) {
		end = len(people)
	}

	items := make([]personItem, 0, end-start)
	for _, p := range people[start:end] {
		items = append(items, personItem{ID: p.ID, Name: p.Name, Email: p.Email})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(people)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
