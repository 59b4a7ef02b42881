// Package registry tracks the vehicles a user has registered and which
// one is currently selected. The selection is a pointer into the
// registry, not ownership; every other component receives vehicle
// context through it.
package registry

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/WessleyAI/garage-mvp/engine/domain"
)

// freeVehicleLimit caps how many vehicles a free-tier user may register.
const freeVehicleLimit = 1

// Store is the persistence collaborator for registered vehicles.
type Store interface {
	LoadVehicles(ctx context.Context, userID string) ([]domain.Vehicle, error)
	SaveVehicle(ctx context.Context, v domain.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// Patch carries partial vehicle edits.
type Patch struct {
	Mileage  *int    `json:"mileage,omitempty"`
	VIN      *string `json:"vin,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// Registry holds one user's vehicles in memory, mirrored to a Store.
// A nil Store keeps the registry memory-only.
type Registry struct {
	mu       sync.Mutex
	userID   string
	tier     domain.Tier
	vehicles []domain.Vehicle
	selected string

	store Store
	newID func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDSource injects the id generator.
func WithIDSource(f func() string) Option {
	return func(r *Registry) { r.newID = f }
}

// New creates a Registry for one user account.
func New(userID string, tier domain.Tier, store Store, opts ...Option) *Registry {
	r := &Registry{
		userID: userID,
		tier:   tier,
		store:  store,
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load populates the registry from the store. The first vehicle becomes
// selected when nothing is selected yet.
func (r *Registry) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	vehicles, err := r.store.LoadVehicles(ctx, r.userID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles = vehicles
	if r.selected == "" && len(vehicles) > 0 {
		r.selected = vehicles[0].ID
	}
	return nil
}

// Add validates and registers a vehicle, canonicalizing the make. The
// free tier is limited to one vehicle. The first vehicle added becomes
// the selection.
func (r *Registry) Add(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if err := domain.ValidateVehicle(v); err != nil {
		return domain.Vehicle{}, err
	}
	canonical, _ := domain.CanonicalMake(v.Make)
	v.Make = canonical
	v.ID = r.newID()
	v.UserID = r.userID

	r.mu.Lock()
	if !r.tier.Premium() && len(r.vehicles) >= freeVehicleLimit {
		r.mu.Unlock()
		return domain.Vehicle{}, domain.ErrVehicleLimit
	}
	r.vehicles = append(r.vehicles, v)
	if r.selected == "" {
		r.selected = v.ID
	}
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.SaveVehicle(ctx, v); err != nil {
			return v, err
		}
	}
	return v, nil
}

// Update merges partial fields into the vehicle by id.
func (r *Registry) Update(ctx context.Context, id string, p Patch) (domain.Vehicle, error) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return domain.Vehicle{}, domain.ErrNotFound
	}
	v := r.vehicles[idx]
	if p.Mileage != nil {
		v.Mileage = *p.Mileage
	}
	if p.VIN != nil {
		v.VIN = *p.VIN
	}
	if p.ImageURL != nil {
		v.ImageURL = *p.ImageURL
	}
	if err := domain.ValidateVehicle(v); err != nil {
		r.mu.Unlock()
		return domain.Vehicle{}, err
	}
	r.vehicles[idx] = v
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.SaveVehicle(ctx, v); err != nil {
			return v, err
		}
	}
	return v, nil
}

// Remove deletes a vehicle. Removing an absent id is a safe no-op. A
// removed selection falls back to the first remaining vehicle.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return nil
	}
	r.vehicles = append(r.vehicles[:idx], r.vehicles[idx+1:]...)
	if r.selected == id {
		r.selected = ""
		if len(r.vehicles) > 0 {
			r.selected = r.vehicles[0].ID
		}
	}
	r.mu.Unlock()

	if r.store != nil {
		return r.store.DeleteVehicle(ctx, id)
	}
	return nil
}

// Select makes the vehicle with the given id the current selection.
func (r *Registry) Select(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexLocked(id) < 0 {
		return domain.ErrNotFound
	}
	r.selected = id
	return nil
}

// Selected returns the currently selected vehicle, or nil when the
// registry is empty.
func (r *Registry) Selected() *domain.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(r.selected)
	if idx < 0 {
		return nil
	}
	v := r.vehicles[idx]
	return &v
}

// Get returns a vehicle by id.
func (r *Registry) Get(id string) (domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(id)
	if idx < 0 {
		return domain.Vehicle{}, domain.ErrNotFound
	}
	return r.vehicles[idx], nil
}

// List returns a snapshot of the registered vehicles.
func (r *Registry) List() []domain.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Vehicle, len(r.vehicles))
	copy(out, r.vehicles)
	return out
}

// indexLocked must be called with mu held.
func (r *Registry) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, v := range r.vehicles {
		if v.ID == id {
			return i
		}
	}
	return -1
}
