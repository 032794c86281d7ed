package editor

import (
	"fmt"
	"strconv"

	"caritas/internal/domain"
	apperrors "caritas/internal/errors"
)

type Catalog interface {
	Lookup(id string) (domain.CatalogService, bool)
}

// Editor is a draft of one reservation's roster and service assignments.
// Nothing reaches the reservation until Save.
type Editor struct {
	base     domain.Reservation
	catalog  Catalog
	names    []string
	services []domain.ServiceAssignment
}

func New(r domain.Reservation, catalog Catalog) *Editor {
	size := r.People
	if size < 1 {
		size = 1
	}

	names := make([]string, size)
	for i := range names {
		if i < len(r.Names) && r.Names[i] != "" {
			names[i] = r.Names[i]
			continue
		}
		names[i] = placeholder(i)
	}

	return &Editor{
		base:     r.Clone(),
		catalog:  catalog,
		names:    names,
		services: append([]domain.ServiceAssignment{}, r.Services...),
	}
}

func placeholder(i int) string {
	return "Persona " + strconv.Itoa(i+1)
}

func (e *Editor) ReservationID() string {
	return e.base.ID
}

func (e *Editor) Names() []string {
	return append([]string(nil), e.names...)
}

func (e *Editor) Services() []domain.ServiceAssignment {
	return append([]domain.ServiceAssignment{}, e.services...)
}

func (e *Editor) AddPerson() {
	e.names = append(e.names, placeholder(len(e.names)))
}

func (e *Editor) RemovePerson(i int) error {
	if err := checkIndex("names", i, len(e.names)); err != nil {
		return err
	}
	e.names = append(e.names[:i], e.names[i+1:]...)
	return nil
}

func (e *Editor) RenamePerson(i int, name string) error {
	if err := checkIndex("names", i, len(e.names)); err != nil {
		return err
	}
	e.names[i] = name
	return nil
}

// AddService appends a draft row: no service chosen yet, quantity 1.
func (e *Editor) AddService() {
	e.services = append(e.services, domain.ServiceAssignment{Quantity: 1})
}

func (e *Editor) RemoveService(i int) error {
	if err := checkIndex("services", i, len(e.services)); err != nil {
		return err
	}
	e.services = append(e.services[:i], e.services[i+1:]...)
	return nil
}

// SetService points row i at a catalog service and takes its name in the same
// edit. An id missing from the catalog keeps the row's previous name.
func (e *Editor) SetService(i int, serviceID string) error {
	if err := checkIndex("services", i, len(e.services)); err != nil {
		return err
	}
	row := &e.services[i]
	row.ServiceID = serviceID
	if s, ok := e.catalog.Lookup(serviceID); ok {
		row.Name = s.Name
	}
	return nil
}

func (e *Editor) SetQuantity(i int, qty int) error {
	if err := checkIndex("services", i, len(e.services)); err != nil {
		return err
	}
	e.services[i].Quantity = qty
	return nil
}

// Apply replaces the whole draft, row by row, as if each edit had been made
// through the single-field operations.
func (e *Editor) Apply(names []string, services []domain.ServiceAssignment) {
	e.names = append([]string(nil), names...)
	e.services = make([]domain.ServiceAssignment, 0, len(services))
	for i, s := range services {
		e.services = append(e.services, domain.ServiceAssignment{Name: s.Name, Quantity: s.Quantity})
		if s.ServiceID != "" {
			_ = e.SetService(i, s.ServiceID)
		}
	}
}

func (e *Editor) Validate() error {
	var details []apperrors.ValidationDetail
	for i, s := range e.services {
		if s.IsDraft() {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("services[%d].serviceId", i),
				Message: "a service must be selected",
			})
		}
		if s.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("services[%d].quantity", i),
				Message: "quantity must be at least 1",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

// Save returns the edited reservation; party size becomes the roster length.
// The result is not sent anywhere: the caller hands it back to the list
// that owns the reservation.
func (e *Editor) Save() (domain.Reservation, error) {
	if err := e.Validate(); err != nil {
		return domain.Reservation{}, err
	}

	out := e.base.Clone()
	out.Names = e.Names()
	out.People = len(e.names)
	out.Services = e.Services()
	return out, nil
}

func checkIndex(field string, i, n int) error {
	if i < 0 || i >= n {
		msg := fmt.Sprintf("index %d out of range", i)
		return apperrors.NewValidationError(msg, apperrors.ValidationDetail{
			Field:   fmt.Sprintf("%s[%d]", field, i),
			Message: msg,
		})
	}
	return nil
}
