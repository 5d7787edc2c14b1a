package testhelpers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"schedulepro/internal/models"
	"schedulepro/internal/repositories"

	"github.com/google/uuid"
)

// MemStore is an in-memory implementation of every repository, with the same
// scoping, soft-delete and uniqueness rules as the Postgres schema.
type MemStore struct {
	mu        sync.Mutex
	now       func() time.Time
	companies map[uuid.UUID]*models.Company
	people    map[uuid.UUID]*models.Person
	vehicles  map[uuid.UUID]*models.Vehicle
	equipment map[uuid.UUID]*models.Equipment
	bookings  map[uuid.UUID]*models.Booking
	events    []models.AnalyticsEvent
	seq       time.Duration
}

func NewMemStore() *MemStore {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &MemStore{
		companies: make(map[uuid.UUID]*models.Company),
		people:    make(map[uuid.UUID]*models.Person),
		vehicles:  make(map[uuid.UUID]*models.Vehicle),
		equipment: make(map[uuid.UUID]*models.Equipment),
		bookings:  make(map[uuid.UUID]*models.Booking),
	}
	// strictly increasing timestamps keep created_at ordering deterministic
	s.now = func() time.Time {
		s.seq += time.Millisecond
		return base.Add(s.seq)
	}
	return s
}

func (s *MemStore) People() repositories.PersonRepository       { return memPeople{s} }
func (s *MemStore) Vehicles() repositories.VehicleRepository    { return memVehicles{s} }
func (s *MemStore) Equipment() repositories.EquipmentRepository { return memEquipment{s} }
func (s *MemStore) Bookings() repositories.BookingRepository    { return memBookings{s} }
func (s *MemStore) Companies() repositories.CompanyRepository   { return memCompanies{s} }
func (s *MemStore) Analytics() repositories.AnalyticsRepository { return memAnalytics{s} }

// Events returns a copy of the analytics events flushed so far.
func (s *MemStore) Events() []models.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AnalyticsEvent(nil), s.events...)
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w: %s", repositories.ErrDuplicate, constraint)
}

func cloneStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return append([]string{}, v...)
}

func cloneIDs(v []uuid.UUID) []uuid.UUID {
	if v == nil {
		return []uuid.UUID{}
	}
	return append([]uuid.UUID{}, v...)
}

func markDeleted(isDeleted *bool, deletedAt **time.Time, updatedAt *time.Time, deleted bool, now time.Time) {
	*isDeleted = deleted
	*updatedAt = now
	if deleted {
		*deletedAt = &now
	} else {
		*deletedAt = nil
	}
}

// Companies

type memCompanies struct{ s *MemStore }

func (m memCompanies) Register(_ context.Context, company *models.Company, owner *models.Person) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	company.CreatedAt, company.UpdatedAt = now, now
	c := *company
	s.companies[c.ID] = &c

	owner.CompanyID = company.ID
	owner.Skills = cloneStrings(owner.Skills)
	owner.Certifications = cloneStrings(owner.Certifications)
	owner.CreatedAt, owner.UpdatedAt = now, now
	p := *owner
	s.people[p.ID] = &p
	return nil
}

func (m memCompanies) GetByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.companies[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *c
	return &out, nil
}

// People

type memPeople struct{ s *MemStore }

func (m memPeople) emailTaken(companyID, exceptID uuid.UUID, email string) bool {
	for _, p := range m.s.people {
		if p.CompanyID == companyID && p.ID != exceptID && p.Email == email {
			return true
		}
	}
	return false
}

func (m memPeople) copyOf(p *models.Person) *models.Person {
	out := *p
	out.Skills = cloneStrings(p.Skills)
	out.Certifications = cloneStrings(p.Certifications)
	return &out
}

func (m memPeople) Create(_ context.Context, person *models.Person) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.emailTaken(person.CompanyID, person.ID, person.Email) {
		return duplicate("people_company_email_key")
	}
	now := s.now()
	person.Skills = cloneStrings(person.Skills)
	person.Certifications = cloneStrings(person.Certifications)
	person.IsDeleted, person.DeletedAt = false, nil
	person.CreatedAt, person.UpdatedAt = now, now
	s.people[person.ID] = m.copyOf(person)
	return nil
}

func (m memPeople) GetByID(_ context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.people[id]
	if !ok || p.CompanyID != companyID || p.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	return m.copyOf(p), nil
}

func (m memPeople) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Person, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.people {
		if p.UserID != nil && *p.UserID == userID && !p.IsDeleted {
			return m.copyOf(p), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m memPeople) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := m.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.companies[p.CompanyID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.Profile{
		Person:  *p,
		Company: models.CompanySummary{ID: c.ID, Name: c.Name, Slug: c.Slug},
	}, nil
}

func (m memPeople) List(_ context.Context, companyID uuid.UUID) ([]*models.Person, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []*models.Person{}
	for _, p := range m.s.people {
		if p.CompanyID == companyID && !p.IsDeleted {
			out = append(out, m.copyOf(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memPeople) Update(_ context.Context, person *models.Person) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.people[person.ID]
	if !ok || stored.CompanyID != person.CompanyID || stored.IsDeleted {
		return repositories.ErrNotFound
	}
	if m.emailTaken(person.CompanyID, person.ID, person.Email) {
		return duplicate("people_company_email_key")
	}

	stored.Name, stored.Email = person.Name, person.Email
	stored.Phone, stored.HomeAddress = person.Phone, person.HomeAddress
	if person.Skills != nil {
		stored.Skills = cloneStrings(person.Skills)
	}
	if person.Certifications != nil {
		stored.Certifications = cloneStrings(person.Certifications)
	}
	if person.HourlyRate != nil {
		stored.HourlyRate = person.HourlyRate
	}
	stored.UpdatedAt = s.now()
	*person = *m.copyOf(stored)
	return nil
}

func (m memPeople) setDeleted(companyID, id uuid.UUID, deleted bool) (*models.Person, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.people[id]
	if !ok || p.CompanyID != companyID || p.IsDeleted == deleted {
		return nil, repositories.ErrNotFound
	}
	markDeleted(&p.IsDeleted, &p.DeletedAt, &p.UpdatedAt, deleted, s.now())
	return m.copyOf(p), nil
}

func (m memPeople) SoftDelete(_ context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	return m.setDeleted(companyID, id, true)
}

func (m memPeople) Restore(_ context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	return m.setDeleted(companyID, id, false)
}

// Vehicles

type memVehicles struct{ s *MemStore }

func (m memVehicles) plateTaken(v *models.Vehicle) bool {
	for _, other := range m.s.vehicles {
		if other.CompanyID == v.CompanyID && other.ID != v.ID && other.LicensePlate == v.LicensePlate {
			return true
		}
	}
	return false
}

func (m memVehicles) Create(_ context.Context, vehicle *models.Vehicle) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.plateTaken(vehicle) {
		return duplicate("vehicles_company_license_plate_key")
	}
	now := s.now()
	vehicle.IsDeleted, vehicle.DeletedAt = false, nil
	vehicle.CreatedAt, vehicle.UpdatedAt = now, now
	v := *vehicle
	s.vehicles[v.ID] = &v
	return nil
}

func (m memVehicles) GetByID(_ context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.vehicles[id]
	if !ok || v.CompanyID != companyID || v.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	out := *v
	return &out, nil
}

func (m memVehicles) List(_ context.Context, companyID uuid.UUID) ([]*models.Vehicle, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []*models.Vehicle{}
	for _, v := range m.s.vehicles {
		if v.CompanyID == companyID && !v.IsDeleted {
			c := *v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memVehicles) Update(_ context.Context, vehicle *models.Vehicle) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.vehicles[vehicle.ID]
	if !ok || stored.CompanyID != vehicle.CompanyID || stored.IsDeleted {
		return repositories.ErrNotFound
	}
	if m.plateTaken(vehicle) {
		return duplicate("vehicles_company_license_plate_key")
	}
	vehicle.CreatedAt, vehicle.UpdatedAt = stored.CreatedAt, s.now()
	v := *vehicle
	s.vehicles[v.ID] = &v
	return nil
}

func (m memVehicles) setDeleted(companyID, id uuid.UUID, deleted bool) (*models.Vehicle, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok || v.CompanyID != companyID || v.IsDeleted == deleted {
		return nil, repositories.ErrNotFound
	}
	markDeleted(&v.IsDeleted, &v.DeletedAt, &v.UpdatedAt, deleted, s.now())
	out := *v
	return &out, nil
}

func (m memVehicles) SoftDelete(_ context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	return m.setDeleted(companyID, id, true)
}

func (m memVehicles) Restore(_ context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	return m.setDeleted(companyID, id, false)
}

// Equipment

type memEquipment struct{ s *MemStore }

func (m memEquipment) serialTaken(e *models.Equipment) bool {
	for _, other := range m.s.equipment {
		if other.CompanyID == e.CompanyID && other.ID != e.ID && other.SerialNumber == e.SerialNumber {
			return true
		}
	}
	return false
}

func (m memEquipment) Create(_ context.Context, equipment *models.Equipment) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.serialTaken(equipment) {
		return duplicate("equipment_company_serial_number_key")
	}
	now := s.now()
	equipment.IsDeleted, equipment.DeletedAt = false, nil
	equipment.CreatedAt, equipment.UpdatedAt = now, now
	e := *equipment
	s.equipment[e.ID] = &e
	return nil
}

func (m memEquipment) GetByID(_ context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.equipment[id]
	if !ok || e.CompanyID != companyID || e.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (m memEquipment) List(_ context.Context, companyID uuid.UUID) ([]*models.Equipment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []*models.Equipment{}
	for _, e := range m.s.equipment {
		if e.CompanyID == companyID && !e.IsDeleted {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memEquipment) Update(_ context.Context, equipment *models.Equipment) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.equipment[equipment.ID]
	if !ok || stored.CompanyID != equipment.CompanyID || stored.IsDeleted {
		return repositories.ErrNotFound
	}
	if m.serialTaken(equipment) {
		return duplicate("equipment_company_serial_number_key")
	}
	equipment.CreatedAt, equipment.UpdatedAt = stored.CreatedAt, s.now()
	e := *equipment
	s.equipment[e.ID] = &e
	return nil
}

func (m memEquipment) setDeleted(companyID, id uuid.UUID, deleted bool) (*models.Equipment, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.equipment[id]
	if !ok || e.CompanyID != companyID || e.IsDeleted == deleted {
		return nil, repositories.ErrNotFound
	}
	markDeleted(&e.IsDeleted, &e.DeletedAt, &e.UpdatedAt, deleted, s.now())
	out := *e
	return &out, nil
}

func (m memEquipment) SoftDelete(_ context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	return m.setDeleted(companyID, id, true)
}

func (m memEquipment) Restore(_ context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	return m.setDeleted(companyID, id, false)
}

// Bookings

type memBookings struct{ s *MemStore }

func (m memBookings) copyOf(b *models.Booking) *models.Booking {
	out := *b
	out.People = cloneIDs(b.People)
	out.Vehicles = cloneIDs(b.Vehicles)
	out.Equipment = cloneIDs(b.Equipment)
	return &out
}

func (m memBookings) Create(_ context.Context, booking *models.Booking) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	booking.IsDeleted, booking.DeletedAt = false, nil
	booking.CreatedAt, booking.UpdatedAt = now, now
	booking.EnsureResourceSlices()
	s.bookings[booking.ID] = m.copyOf(booking)
	return nil
}

func (m memBookings) GetByID(_ context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b, ok := m.s.bookings[id]
	if !ok || b.CompanyID != companyID || b.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	return m.copyOf(b), nil
}

func (m memBookings) filter(keep func(*models.Booking) bool, less func(a, b *models.Booking) bool) []*models.Booking {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []*models.Booking{}
	for _, b := range m.s.bookings {
		if keep(b) {
			out = append(out, m.copyOf(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (m memBookings) List(_ context.Context, companyID uuid.UUID) ([]*models.Booking, error) {
	return m.filter(
		func(b *models.Booking) bool { return b.CompanyID == companyID && !b.IsDeleted },
		func(a, b *models.Booking) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

func (m memBookings) ListInRange(_ context.Context, companyID uuid.UUID, from, to time.Time) ([]*models.Booking, error) {
	return m.filter(
		func(b *models.Booking) bool {
			return b.CompanyID == companyID && !b.IsDeleted && !b.StartTime.Before(from) && b.StartTime.Before(to)
		},
		func(a, b *models.Booking) bool { return a.StartTime.Before(b.StartTime) },
	), nil
}

func (m memBookings) Update(_ context.Context, booking *models.Booking, replaceRequirements bool) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.bookings[booking.ID]
	if !ok || stored.CompanyID != booking.CompanyID || stored.IsDeleted {
		return repositories.ErrNotFound
	}

	updated := m.copyOf(booking)
	updated.CreatedBy = stored.CreatedBy
	updated.CreatedAt, updated.UpdatedAt = stored.CreatedAt, s.now()
	if !replaceRequirements {
		updated.Requirements = stored.Requirements
	}
	s.bookings[updated.ID] = updated
	*booking = *m.copyOf(updated)
	return nil
}

func (m memBookings) setDeleted(companyID, id uuid.UUID, deleted bool) (*models.Booking, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.CompanyID != companyID || b.IsDeleted == deleted {
		return nil, repositories.ErrNotFound
	}
	markDeleted(&b.IsDeleted, &b.DeletedAt, &b.UpdatedAt, deleted, s.now())
	return m.copyOf(b), nil
}

func (m memBookings) SoftDelete(_ context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	return m.setDeleted(companyID, id, true)
}

func (m memBookings) Restore(_ context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	return m.setDeleted(companyID, id, false)
}

// Analytics

type memAnalytics struct{ s *MemStore }

func (m memAnalytics) InsertBatch(_ context.Context, events []models.AnalyticsEvent) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.events = append(m.s.events, events...)
	return int64(len(events)), nil
}
