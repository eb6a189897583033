package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	appointmentRepo "agendo/database/repository/appointment"
	tenantRepo "agendo/database/repository/tenant"
	"agendo/models"
	"agendo/services/calendar"
)

// fakeAppointmentRepo is an in-memory Repository whose InsertIfNoOverlap
// is atomic under a mutex, mirroring the store-level guarantee.
type fakeAppointmentRepo struct {
	mu   sync.Mutex
	rows map[string]models.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{rows: make(map[string]models.Appointment)}
}

func (f *fakeAppointmentRepo) put(appt models.Appointment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[appt.TenantID+"/"+appt.ID] = appt
}

func (f *fakeAppointmentRepo) InsertIfNoOverlap(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for _, row := range f.rows {
		if row.TenantID != appt.TenantID || !row.Blocking(now) {
			continue
		}
		if appt.Start.Before(row.End) && row.Start.Before(appt.End) {
			return appointmentRepo.ErrOverlap
		}
	}
	f.rows[appt.TenantID+"/"+appt.ID] = *appt
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, tenantID, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[tenantID+"/"+id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	out := row
	return &out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, tenantID, id string, from, to models.AppointmentStatus, extra appointmentRepo.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := tenantID + "/" + id
	row, ok := f.rows[key]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	if from != "" && row.Status != from {
		return appointmentRepo.ErrStatusConflict
	}
	if extra.UnexpiredAt != nil {
		if row.ExpiresAt == nil || !row.ExpiresAt.After(*extra.UnexpiredAt) {
			return appointmentRepo.ErrStatusConflict
		}
	}

	row.Status = to
	if extra.CalendarEventID != "" {
		row.CalendarEventID = extra.CalendarEventID
	}
	if extra.ExpiresAt != nil {
		expires := *extra.ExpiresAt
		row.ExpiresAt = &expires
	}
	if extra.ClearExpiresAt {
		row.ExpiresAt = nil
	}
	f.rows[key] = row
	return nil
}

func (f *fakeAppointmentRepo) FindOverlapping(_ context.Context, tenantID string, start, end, now time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, row := range f.rows {
		if row.TenantID != tenantID || !row.Blocking(now) {
			continue
		}
		if start.Before(row.End) && row.Start.Before(end) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindExpiredPending(_ context.Context, now time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, row := range f.rows {
		if row.HoldExpired(now) {
			out = append(out, row)
		}
	}
	return out, nil
}

// fakeTenantRepo serves a fixed tenant and its services.
type fakeTenantRepo struct {
	tenant   models.Tenant
	services map[string]models.Service
}

func (f *fakeTenantRepo) GetTenantByID(_ context.Context, tenantID string) (*models.Tenant, error) {
	if tenantID != f.tenant.ID {
		return nil, tenantRepo.ErrNotFound
	}
	out := f.tenant
	return &out, nil
}

func (f *fakeTenantRepo) GetServiceByID(_ context.Context, tenantID, serviceID string) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok || tenantID != f.tenant.ID {
		return nil, tenantRepo.ErrNotFound
	}
	out := svc
	return &out, nil
}

func (f *fakeTenantRepo) ListServices(_ context.Context, tenantID string) ([]models.Service, error) {
	if tenantID != f.tenant.ID {
		return nil, tenantRepo.ErrNotFound
	}
	var out []models.Service
	for _, svc := range f.services {
		out = append(out, svc)
	}
	return out, nil
}

// fakeCustomerRepo creates customers keyed by phone.
type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]models.Customer
	nextID    int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]models.Customer)}
}

func (f *fakeCustomerRepo) GetOrCreate(_ context.Context, tenantID, name, phone string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if customer, ok := f.customers[tenantID+"/"+phone]; ok {
		out := customer
		return &out, nil
	}
	f.nextID++
	customer := models.Customer{
		ID:        fmt.Sprintf("cust-%d", f.nextID),
		TenantID:  tenantID,
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	f.customers[tenantID+"/"+phone] = customer
	out := customer
	return &out, nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, tenantID, id string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, customer := range f.customers {
		if customer.TenantID == tenantID && customer.ID == id {
			out := customer
			return &out, nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

// fakeCalendar is an in-memory calendar.Provider with injectable failures.
type fakeCalendar struct {
	mu          sync.Mutex
	busy        []models.BusyPeriod
	busyErr     error
	createErr   error
	createDelay time.Duration
	deleteErr   error
	events      map[string]calendar.Event
	nextID      int
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{events: make(map[string]calendar.Event)}
}

func (f *fakeCalendar) GetBusyPeriods(_ context.Context, _ string, _, _ time.Time) ([]models.BusyPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busyErr != nil {
		return nil, f.busyErr
	}
	return append([]models.BusyPeriod(nil), f.busy...), nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, _ string, ev calendar.Event) (string, error) {
	if f.createDelay > 0 {
		time.Sleep(f.createDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("evt-%d", f.nextID)
	f.events[id] = ev
	return id, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, _ string, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	// Deleting an unknown event succeeds, matching the provider contract.
	delete(f.events, eventID)
	return nil
}

// nextWeekday returns the next strictly-future date falling on wd.
func nextWeekday(wd time.Weekday, loc *time.Location) time.Time {
	now := time.Now().In(loc)
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func continuousHours(open, close string) models.BusinessHours {
	return models.BusinessHours{
		Kind:       models.HoursContinuous,
		Continuous: &models.HoursWindow{Open: open, Close: close},
	}
}

func splitHours(mOpen, mClose, aOpen, aClose string) models.BusinessHours {
	return models.BusinessHours{
		Kind:      models.HoursSplit,
		Morning:   &models.HoursWindow{Open: mOpen, Close: mClose},
		Afternoon: &models.HoursWindow{Open: aOpen, Close: aClose},
	}
}

func testTenant() models.Tenant {
	return models.Tenant{
		ID:       "tenant-1",
		Name:     "Salon Aurora",
		Timezone: "UTC",
		Active:   true,
		Hours: map[string]models.BusinessHours{
			"monday":    continuousHours("09:00", "18:00"),
			"tuesday":   splitHours("09:00", "13:00", "15:00", "19:00"),
			"wednesday": {Kind: models.HoursClosed},
			"thursday":  continuousHours("09:00", "18:00"),
			"friday":    continuousHours("09:00", "18:00"),
			"saturday":  continuousHours("09:00", "18:00"),
			"sunday":    continuousHours("09:00", "18:00"),
		},
		SlotGranularityMin: 15,
		MaxAdvanceDays:     365,
		SameDayBooking:     true,
		CalendarRef:        "cal-1",
	}
}

func testService() models.Service {
	return models.Service{
		ID:          "svc-1",
		TenantID:    "tenant-1",
		Name:        "Haircut",
		DurationMin: 30,
		Active:      true,
	}
}

type testEnv struct {
	repo     *fakeAppointmentRepo
	tenants  *fakeTenantRepo
	cust     *fakeCustomerRepo
	cal      *fakeCalendar
	holds    *HoldManager
	svc      *DefaultBookingService
}

func newTestEnv() *testEnv {
	repo := newFakeAppointmentRepo()
	tenants := &fakeTenantRepo{
		tenant:   testTenant(),
		services: map[string]models.Service{"svc-1": testService()},
	}
	cust := newFakeCustomerRepo()
	cal := newFakeCalendar()
	holds := &HoldManager{Repo: repo, MaxHoldTotal: 15 * time.Minute}

	return &testEnv{
		repo:    repo,
		tenants: tenants,
		cust:    cust,
		cal:     cal,
		holds:   holds,
		svc: &DefaultBookingService{
			Appointments:     repo,
			Tenants:          tenants,
			Customers:        cust,
			Calendar:         cal,
			Holds:            holds,
			DirectHold:       time.Minute,
			AlternativeSlots: 3,
		},
	}
}
