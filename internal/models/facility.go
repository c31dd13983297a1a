package models

import "fmt"

// PCStatus values for lab workstations.
const (
	PCStatusAvailable = "available"
	PCStatusOccupied  = "occupied"
)

// PC is a single workstation inside a lab.
type PC struct {
	Number      int    `json:"number"`
	Status      string `json:"status"`
	CurrentUser string `json:"current_user,omitempty"`
}

// Lab is a computer laboratory with a fixed set of workstations.
type Lab struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	PCs      []PC   `json:"pcs"`
}

// Room is a bookable classroom.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Book is a library catalog entry.
type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Available bool   `json:"available"`
}

// NewLab builds a lab with capacity available workstations.
func NewLab(id, name string, capacity int) Lab {
	pcs := make([]PC, capacity)
	for i := range pcs {
		pcs[i] = PC{Number: i + 1, Status: PCStatusAvailable}
	}
	return Lab{ID: id, Name: name, Capacity: capacity, PCs: pcs}
}

// SeedUsers returns the accounts present on first boot.
func SeedUsers() []User {
	return []User{
		{
			ID:         "seed-admin",
			Identifier: "admin",
			Name:       "Administrator",
			Password:   "admin123",
			Role:       RoleAdmin,
			Email:      "admin@campus.local",
		},
		{
			ID:         "seed-library",
			Identifier: "library",
			Name:       "Library Manager",
			Password:   "library123",
			Role:       RoleLibraryAdmin,
			Email:      "library@campus.local",
		},
	}
}

// SeedLabs returns the starter laboratories.
func SeedLabs() []Lab {
	return []Lab{
		NewLab("lab-1", "Super Lab", 40),
		NewLab("lab-2", "Computer Lab", 40),
		NewLab("lab-3", "Internet Lab", 20),
	}
}

// SeedRooms returns the starter classrooms.
func SeedRooms() []Room {
	return []Room{
		{ID: "room-1", Name: "Room 101", Capacity: 30},
		{ID: "room-2", Name: "Room 102", Capacity: 35},
		{ID: "room-3", Name: "Room 201", Capacity: 40},
	}
}

// SeedBooks returns the starter library catalog.
func SeedBooks() []Book {
	titles := []struct {
		title  string
		author string
		isbn   string
	}{
		{"Introduction to Algorithms", "Cormen, Leiserson, Rivest, Stein", "978-0262033848"},
		{"The Go Programming Language", "Donovan, Kernighan", "978-0134190440"},
		{"Clean Architecture", "Robert C. Martin", "978-0134494166"},
	}
	books := make([]Book, len(titles))
	for i, t := range titles {
		books[i] = Book{
			ID:        fmt.Sprintf("book-%d", i+1),
			Title:     t.title,
			Author:    t.author,
			ISBN:      t.isbn,
			Available: true,
		}
	}
	return books
}
