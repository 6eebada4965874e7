// Package repository defines the storage abstractions for rentals and
// locally created movies together with their in-memory and MySQL
// implementations.  Sentinel errors below are shared by every
// implementation so handlers can map them without knowing the backend.
package repository

import "errors"

// ErrRentalNotFound is returned when no rental carries the requested id.
// Handlers translate it into an HTTP 404 response.
var ErrRentalNotFound = errors.New("rental not found")

// ErrConflict is returned when a record with the same id already exists.
var ErrConflict = errors.New("conflict")
