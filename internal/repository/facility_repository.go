package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/store"
)

// FacilityRepository owns the labs, rooms and books collections, each seeded
// with fixed starter data on first access.
type FacilityRepository struct {
	store   store.Store
	labsMu  sync.Mutex
	roomsMu sync.Mutex
}

// NewFacilityRepository constructs the repository.
func NewFacilityRepository(s store.Store) *FacilityRepository {
	return &FacilityRepository{store: s}
}

// ListLabs returns the laboratories.
func (r *FacilityRepository) ListLabs(ctx context.Context) ([]models.Lab, error) {
	labs, err := store.LoadAs(ctx, r.store, store.CollectionLabs, models.SeedLabs())
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	return labs, nil
}

// CreateLab appends a lab with a generated id and workstation set.
func (r *FacilityRepository) CreateLab(ctx context.Context, name string, capacity int) (*models.Lab, error) {
	r.labsMu.Lock()
	defer r.labsMu.Unlock()

	labs, err := r.ListLabs(ctx)
	if err != nil {
		return nil, err
	}
	lab := models.NewLab(uuid.NewString(), name, capacity)
	labs = append(labs, lab)
	if err := store.SaveAs(ctx, r.store, store.CollectionLabs, labs); err != nil {
		return nil, fmt.Errorf("create lab: %w", err)
	}
	return &lab, nil
}

// DeleteLab removes a lab and returns the removed record.
func (r *FacilityRepository) DeleteLab(ctx context.Context, id string) (*models.Lab, error) {
	r.labsMu.Lock()
	defer r.labsMu.Unlock()

	labs, err := r.ListLabs(ctx)
	if err != nil {
		return nil, err
	}
	for i, lab := range labs {
		if lab.ID != id {
			continue
		}
		removed := lab
		labs = append(labs[:i], labs[i+1:]...)
		if err := store.SaveAs(ctx, r.store, store.CollectionLabs, labs); err != nil {
			return nil, fmt.Errorf("delete lab: %w", err)
		}
		return &removed, nil
	}
	return nil, ErrNotFound
}

// ListRooms returns the classrooms.
func (r *FacilityRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := store.LoadAs(ctx, r.store, store.CollectionRooms, models.SeedRooms())
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// CreateRoom appends a room with a generated id.
func (r *FacilityRepository) CreateRoom(ctx context.Context, name string, capacity int) (*models.Room, error) {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	rooms, err := r.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	room := models.Room{ID: uuid.NewString(), Name: name, Capacity: capacity}
	rooms = append(rooms, room)
	if err := store.SaveAs(ctx, r.store, store.CollectionRooms, rooms); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &room, nil
}

// DeleteRoom removes a room and returns the removed record.
func (r *FacilityRepository) DeleteRoom(ctx context.Context, id string) (*models.Room, error) {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	rooms, err := r.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	for i, room := range rooms {
		if room.ID != id {
			continue
		}
		removed := room
		rooms = append(rooms[:i], rooms[i+1:]...)
		if err := store.SaveAs(ctx, r.store, store.CollectionRooms, rooms); err != nil {
			return nil, fmt.Errorf("delete room: %w", err)
		}
		return &removed, nil
	}
	return nil, ErrNotFound
}

// ListBooks returns the library catalog.
func (r *FacilityRepository) ListBooks(ctx context.Context) ([]models.Book, error) {
	books, err := store.LoadAs(ctx, r.store, store.CollectionBooks, models.SeedBooks())
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}
