package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"rideshare/internal/domain"
	"rideshare/internal/redis"
	"rideshare/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is an in-memory DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[int64]*domain.Driver
	nextID  int64

	// referenced reports whether trips still point at a driver.
	referenced func(id int64) bool

	// Counters for verification
	ClaimCallCount         int32
	ReleaseCallCount       int32
	ListAvailableCallCount int32

	// Error injection
	ListAvailableError error
	ClaimError         error

	// OnClaim runs before the claim is applied, e.g. to simulate a
	// concurrent booking of the same driver.
	OnClaim func(id int64)
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[int64]*domain.Driver),
	}
}

// AddDriver stores a copy of driver, assigning an ID when it has none.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) *domain.Driver {
	m.mu.Lock()
	defer m.mu.Unlock()
	if driver.ID == 0 {
		m.nextID++
		driver.ID = m.nextID
	} else if driver.ID > m.nextID {
		m.nextID = driver.ID
	}
	stored := *driver
	m.drivers[driver.ID] = &stored
	return driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	driver.ID = 0
	m.AddDriver(driver)
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id int64) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	return m.list(func(*domain.Driver) bool { return true }, 0), nil
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *driver
	m.drivers[driver.ID] = &stored
	return nil
}

func (m *MockDriverRepository) Delete(ctx context.Context, id int64) error {
	if m.referenced != nil && m.referenced(id) {
		return repository.ErrConflict
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.drivers, id)
	return nil
}

func (m *MockDriverRepository) ListAvailable(ctx context.Context, afterID int64, limit int) ([]*domain.Driver, error) {
	atomic.AddInt32(&m.ListAvailableCallCount, 1)
	if m.ListAvailableError != nil {
		return nil, m.ListAvailableError
	}
	return m.list(func(d *domain.Driver) bool { return !d.Active && d.ID > afterID }, limit), nil
}

func (m *MockDriverRepository) Claim(ctx context.Context, id int64) error {
	atomic.AddInt32(&m.ClaimCallCount, 1)
	if m.ClaimError != nil {
		return m.ClaimError
	}
	if m.OnClaim != nil {
		m.OnClaim(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok || driver.Active {
		return repository.ErrConflict
	}
	driver.Active = true
	return nil
}

func (m *MockDriverRepository) Release(ctx context.Context, id int64) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	return m.setActive(id, false)
}

func (m *MockDriverRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drivers), nil
}

func (m *MockDriverRepository) CountAvailable(ctx context.Context) (int, error) {
	return len(m.list(func(d *domain.Driver) bool { return !d.Active }, 0)), nil
}

// SetActive flips a driver's flag outside any transaction.
func (m *MockDriverRepository) SetActive(id int64, active bool) {
	_ = m.setActive(id, active)
}

// GetDriver returns a copy of the driver for test assertions, or nil.
func (m *MockDriverRepository) GetDriver(id int64) *domain.Driver {
	d, err := m.GetByID(context.Background(), id)
	if err != nil {
		return nil
	}
	return d
}

func (m *MockDriverRepository) setActive(id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Active = active
	return nil
}

func (m *MockDriverRepository) restore(driver domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = &driver
}

func (m *MockDriverRepository) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drivers, id)
}

// list returns copies ordered by ID. A limit of zero means no limit.
func (m *MockDriverRepository) list(keep func(*domain.Driver) bool, limit int) []*domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		if keep(d) {
			copy := *d
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK PASSENGER REPOSITORY
// ──────────────────────────────────────────────

// MockPassengerRepository is an in-memory PassengerRepository.
type MockPassengerRepository struct {
	mu         sync.RWMutex
	passengers map[int64]*domain.Passenger
	nextID     int64

	referenced func(id int64) bool

	// Error injection
	GetByIDError error
}

// NewMockPassengerRepository creates a new mock passenger repository.
func NewMockPassengerRepository() *MockPassengerRepository {
	return &MockPassengerRepository{
		passengers: make(map[int64]*domain.Passenger),
	}
}

// AddPassenger stores a copy of passenger, assigning an ID when it has none.
func (m *MockPassengerRepository) AddPassenger(passenger *domain.Passenger) *domain.Passenger {
	m.mu.Lock()
	defer m.mu.Unlock()
	if passenger.ID == 0 {
		m.nextID++
		passenger.ID = m.nextID
	} else if passenger.ID > m.nextID {
		m.nextID = passenger.ID
	}
	stored := *passenger
	m.passengers[passenger.ID] = &stored
	return passenger
}

func (m *MockPassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	passenger.ID = 0
	m.AddPassenger(passenger)
	return nil
}

func (m *MockPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	passenger, ok := m.passengers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *passenger
	return &copy, nil
}

func (m *MockPassengerRepository) GetAll(ctx context.Context) ([]*domain.Passenger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Passenger, 0, len(m.passengers))
	for _, p := range m.passengers {
		copy := *p
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockPassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.passengers[passenger.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *passenger
	m.passengers[passenger.ID] = &stored
	return nil
}

func (m *MockPassengerRepository) Delete(ctx context.Context, id int64) error {
	if m.referenced != nil && m.referenced(id) {
		return repository.ErrConflict
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.passengers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.passengers, id)
	return nil
}

func (m *MockPassengerRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.passengers), nil
}

func (m *MockPassengerRepository) restore(passenger domain.Passenger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passengers[passenger.ID] = &passenger
}

func (m *MockPassengerRepository) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.passengers, id)
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is an in-memory TripRepository.
type MockTripRepository struct {
	mu     sync.RWMutex
	trips  map[int64]*domain.Trip
	nextID int64

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[int64]*domain.Trip),
	}
}

// AddTrip stores a copy of trip, assigning an ID when it has none.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) *domain.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	if trip.ID == 0 {
		m.nextID++
		trip.ID = m.nextID
	} else if trip.ID > m.nextID {
		m.nextID = trip.ID
	}
	m.trips[trip.ID] = copyTrip(trip)
	return trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	trip.ID = 0
	m.AddTrip(trip)
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTrip(trip), nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	m.trips[trip.ID] = copyTrip(trip)
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *MockTripRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]*domain.Trip, error) {
	return m.list(func(t *domain.Trip) bool { return t.PassengerID == passengerID }), nil
}

func (m *MockTripRepository) ListByDriver(ctx context.Context, driverID int64) ([]*domain.Trip, error) {
	return m.list(func(t *domain.Trip) bool { return t.DriverID == driverID }), nil
}

func (m *MockTripRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips), nil
}

// TripCount returns the number of stored trips for test assertions.
func (m *MockTripRepository) TripCount() int {
	n, _ := m.Count(context.Background())
	return n
}

// GetTrip returns a copy of the trip for test assertions, or nil.
func (m *MockTripRepository) GetTrip(id int64) *domain.Trip {
	t, err := m.GetByID(context.Background(), id)
	if err != nil {
		return nil
	}
	return t
}

func (m *MockTripRepository) hasDriver(id int64) bool {
	return len(m.list(func(t *domain.Trip) bool { return t.DriverID == id })) > 0
}

func (m *MockTripRepository) hasPassenger(id int64) bool {
	return len(m.list(func(t *domain.Trip) bool { return t.PassengerID == id })) > 0
}

func (m *MockTripRepository) restore(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = copyTrip(trip)
}

func (m *MockTripRepository) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, id)
}

// list returns copies ordered newest first.
func (m *MockTripRepository) list(keep func(*domain.Trip) bool) []*domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if keep(t) {
			result = append(result, copyTrip(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[j].Date.Time().Before(result[i].Date.Time())
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func copyTrip(t *domain.Trip) *domain.Trip {
	c := *t
	if t.Rating != nil {
		rating := *t.Rating
		c.Rating = &rating
	}
	return &c
}

// ──────────────────────────────────────────────
// MOCK STORE
// ──────────────────────────────────────────────

// MockStore is an in-memory repository.Store.
//
// Transactions are not isolated from each other: writes are visible as soon
// as they happen, so concurrent tests exercise the driver claim itself.
// A failed transaction undoes its own writes in reverse order.
type MockStore struct {
	drivers    *MockDriverRepository
	passengers *MockPassengerRepository
	trips      *MockTripRepository

	// Counters for verification
	TxCount       int32
	RollbackCount int32
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	s := &MockStore{
		drivers:    NewMockDriverRepository(),
		passengers: NewMockPassengerRepository(),
		trips:      NewMockTripRepository(),
	}
	s.drivers.referenced = s.trips.hasDriver
	s.passengers.referenced = s.trips.hasPassenger
	return s
}

func (s *MockStore) Drivers() repository.DriverRepository       { return s.drivers }
func (s *MockStore) Passengers() repository.PassengerRepository { return s.passengers }
func (s *MockStore) Trips() repository.TripRepository           { return s.trips }

// MockDrivers exposes the driver mock for setup and assertions.
func (s *MockStore) MockDrivers() *MockDriverRepository { return s.drivers }

// MockPassengers exposes the passenger mock for setup and assertions.
func (s *MockStore) MockPassengers() *MockPassengerRepository { return s.passengers }

// MockTrips exposes the trip mock for setup and assertions.
func (s *MockStore) MockTrips() *MockTripRepository { return s.trips }

func (s *MockStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	atomic.AddInt32(&s.TxCount, 1)
	tx := &mockTx{store: s}
	if err := fn(tx); err != nil {
		tx.rollback()
		atomic.AddInt32(&s.RollbackCount, 1)
		return err
	}
	return nil
}

// mockTx records an undo step for every successful write.
type mockTx struct {
	store *MockStore
	mu    sync.Mutex
	undo  []func()
}

func (tx *mockTx) Drivers() repository.DriverRepository {
	return &txDriverRepository{MockDriverRepository: tx.store.drivers, tx: tx}
}

func (tx *mockTx) Passengers() repository.PassengerRepository {
	return &txPassengerRepository{MockPassengerRepository: tx.store.passengers, tx: tx}
}

func (tx *mockTx) Trips() repository.TripRepository {
	return &txTripRepository{MockTripRepository: tx.store.trips, tx: tx}
}

func (tx *mockTx) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return fn(tx)
}

func (tx *mockTx) record(undo func()) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.undo = append(tx.undo, undo)
}

func (tx *mockTx) rollback() {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

type txDriverRepository struct {
	*MockDriverRepository
	tx *mockTx
}

func (r *txDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	if err := r.MockDriverRepository.Create(ctx, driver); err != nil {
		return err
	}
	id := driver.ID
	r.tx.record(func() { r.remove(id) })
	return nil
}

func (r *txDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	prev, err := r.GetByID(ctx, driver.ID)
	if err != nil {
		return err
	}
	if err := r.MockDriverRepository.Update(ctx, driver); err != nil {
		return err
	}
	r.tx.record(func() { r.restore(*prev) })
	return nil
}

func (r *txDriverRepository) Delete(ctx context.Context, id int64) error {
	prev, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.MockDriverRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.tx.record(func() { r.restore(*prev) })
	return nil
}

func (r *txDriverRepository) Claim(ctx context.Context, id int64) error {
	if err := r.MockDriverRepository.Claim(ctx, id); err != nil {
		return err
	}
	r.tx.record(func() { r.SetActive(id, false) })
	return nil
}

func (r *txDriverRepository) Release(ctx context.Context, id int64) error {
	prev, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.MockDriverRepository.Release(ctx, id); err != nil {
		return err
	}
	r.tx.record(func() { r.SetActive(id, prev.Active) })
	return nil
}

type txPassengerRepository struct {
	*MockPassengerRepository
	tx *mockTx
}

func (r *txPassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	if err := r.MockPassengerRepository.Create(ctx, passenger); err != nil {
		return err
	}
	id := passenger.ID
	r.tx.record(func() { r.remove(id) })
	return nil
}

func (r *txPassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	prev, err := r.GetByID(ctx, passenger.ID)
	if err != nil {
		return err
	}
	if err := r.MockPassengerRepository.Update(ctx, passenger); err != nil {
		return err
	}
	r.tx.record(func() { r.restore(*prev) })
	return nil
}

func (r *txPassengerRepository) Delete(ctx context.Context, id int64) error {
	prev, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.MockPassengerRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.tx.record(func() { r.restore(*prev) })
	return nil
}

type txTripRepository struct {
	*MockTripRepository
	tx *mockTx
}

func (r *txTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	if err := r.MockTripRepository.Create(ctx, trip); err != nil {
		return err
	}
	id := trip.ID
	r.tx.record(func() { r.remove(id) })
	return nil
}

func (r *txTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	prev, err := r.GetByID(ctx, trip.ID)
	if err != nil {
		return err
	}
	if err := r.MockTripRepository.Update(ctx, trip); err != nil {
		return err
	}
	r.tx.record(func() { r.restore(prev) })
	return nil
}

func (r *txTripRepository) Delete(ctx context.Context, id int64) error {
	prev, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.MockTripRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.tx.record(func() { r.restore(prev) })
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[int64]mockLock

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

type mockLock struct {
	token  string
	expiry time.Time
}

var _ redis.LockStoreInterface = (*MockLockStore)(nil)

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[int64]mockLock),
	}
}

func (m *MockLockStore) AcquireDriverLock(ctx context.Context, driverID int64, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, exists := m.locks[driverID]; exists && time.Now().Before(l.expiry) {
		return "", false, nil // Lock still held.
	}

	token := uuid.NewString()
	m.locks[driverID] = mockLock{token: token, expiry: time.Now().Add(ttl)}
	return token, true, nil
}

func (m *MockLockStore) ReleaseDriverLock(ctx context.Context, driverID int64, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.locks[driverID]; ok && l.token == token {
		delete(m.locks, driverID)
	}
	return nil
}

// Hold takes the lock for a driver as if another instance owned it.
func (m *MockLockStore) Hold(driverID int64, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[driverID] = mockLock{token: "held-elsewhere", expiry: time.Now().Add(ttl)}
}

// IsLocked checks if a driver is locked (for test assertions).
func (m *MockLockStore) IsLocked(driverID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, exists := m.locks[driverID]
	return exists && time.Now().Before(l.expiry)
}

// ──────────────────────────────────────────────
// FIXTURES
// ──────────────────────────────────────────────

// seedDriver adds a driver with the given availability.
func seedDriver(s *MockStore, name string, active bool) *domain.Driver {
	return s.drivers.AddDriver(&domain.Driver{Name: name, VIN: "VIN-" + name, Active: active})
}

// seedPassenger adds a passenger.
func seedPassenger(s *MockStore, name string) *domain.Passenger {
	return s.passengers.AddPassenger(&domain.Passenger{Name: name, PhoneNum: "555-0100"})
}

// seedTrip adds a trip between driver and passenger.
func seedTrip(s *MockStore, driverID, passengerID int64, cost domain.Money, rating *int) *domain.Trip {
	return s.trips.AddTrip(&domain.Trip{
		Date:        domain.NewDate(2024, time.March, 1),
		Rating:      rating,
		Cost:        cost,
		DriverID:    driverID,
		PassengerID: passengerID,
	})
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func stringPtr(v string) *string { return &v }

func atomic32(v *int32) int32 { return atomic.LoadInt32(v) }
