package car

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

var _ CarRepo = (*MemoryCarRepo)(nil)

// MemoryCarRepo keeps the catalog in process memory with the same VIN uniqueness as the table.
type MemoryCarRepo struct {
	mu     sync.RWMutex
	nextID int64
	cars   map[int64]types.Car
	byVIN  map[string]int64
	now    func() time.Time
}

func NewMemoryCarRepo() *MemoryCarRepo {
	return &MemoryCarRepo{
		nextID: 1,
		cars:   make(map[int64]types.Car),
		byVIN:  make(map[string]int64),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryCarRepo) List(_ context.Context, params types.ListCarsParams) ([]types.Car, int64, error) {
	r.mu.RLock()
	matched := make([]types.Car, 0, len(r.cars))
	needle := strings.ToLower(params.Search)
	for _, c := range r.cars {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.Brand), needle) ||
			strings.Contains(strings.ToLower(c.Model), needle) ||
			strings.Contains(strings.ToLower(c.VIN), needle) {
			matched = append(matched, c)
		}
	}
	r.mu.RUnlock()

	less := carComparator(params.SortBy)
	slices.SortFunc(matched, func(a, b types.Car) int {
		if params.SortOrder == "asc" {
			return less(a, b)
		}
		return less(b, a)
	})

	total := int64(len(matched))
	from := min(Offset(params), len(matched))
	to := min(from+params.Limit, len(matched))
	page := make([]types.Car, to-from)
	copy(page, matched[from:to])
	return page, total, nil
}

// carComparator orders by the sort field, then by id.
func carComparator(sortBy string) func(a, b types.Car) int {
	var primary func(a, b types.Car) int
	switch sortBy {
	case "brand":
		primary = func(a, b types.Car) int { return cmp.Compare(a.Brand, b.Brand) }
	case "model":
		primary = func(a, b types.Car) int { return cmp.Compare(a.Model, b.Model) }
	case "year":
		primary = func(a, b types.Car) int { return cmp.Compare(a.Year, b.Year) }
	case "price":
		primary = func(a, b types.Car) int { return cmp.Compare(a.Price, b.Price) }
	case "mileage":
		primary = func(a, b types.Car) int { return cmp.Compare(a.Mileage, b.Mileage) }
	case "color":
		primary = func(a, b types.Car) int { return cmp.Compare(a.Color, b.Color) }
	case "vin":
		primary = func(a, b types.Car) int { return cmp.Compare(a.VIN, b.VIN) }
	case "id":
		primary = func(a, b types.Car) int { return 0 }
	default:
		primary = func(a, b types.Car) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
	return func(a, b types.Car) int {
		return cmp.Or(primary(a, b), cmp.Compare(a.ID, b.ID))
	}
}

func (r *MemoryCarRepo) GetByID(_ context.Context, id int64) (*types.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cars[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &c, nil
}

func (r *MemoryCarRepo) GetByVIN(_ context.Context, vin string) (*types.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byVIN[vin]
	if !ok {
		return nil, types.ErrNotFound
	}
	c := r.cars[id]
	return &c, nil
}

func (r *MemoryCarRepo) Create(_ context.Context, car types.Car) (*types.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byVIN[car.VIN]; taken {
		return nil, types.ErrConflict
	}
	car.ID = r.nextID
	car.CreatedAt = r.now()
	r.nextID++
	r.cars[car.ID] = car
	r.byVIN[car.VIN] = car.ID
	return &car, nil
}

func (r *MemoryCarRepo) Update(_ context.Context, id int64, car types.Car) (*types.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.cars[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	if owner, taken := r.byVIN[car.VIN]; taken && owner != id {
		return nil, types.ErrConflict
	}

	delete(r.byVIN, existing.VIN)
	car.ID = id
	car.CreatedAt = existing.CreatedAt
	r.cars[id] = car
	r.byVIN[car.VIN] = id
	return &car, nil
}

func (r *MemoryCarRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cars[id]
	if !ok {
		return types.ErrNotFound
	}
	delete(r.cars, id)
	delete(r.byVIN, c.VIN)
	return nil
}

// Len reports the number of stored cars.
func (r *MemoryCarRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cars)
}
