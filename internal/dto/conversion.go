package dto

import (
	"fmt"
	"time"

	"caritas/internal/domain"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ToReservation converts a dashboard list row. The state is not part of the
// row; the caller knows it from the list the row came in.
func ToReservation(item ReservationItem, state domain.State) (domain.Reservation, error) {
	start, err := ParseDate(item.StartDate)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("reservation %s startDate: %w", item.ReservationID, err)
	}
	end, err := parseOptionalDate(item.EndDate)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("reservation %s endDate: %w", item.ReservationID, err)
	}

	return domain.Reservation{
		ID:        item.ReservationID,
		Name:      item.UserFullName,
		Hostel:    item.HostelName,
		Range:     domain.DateRange{Start: start, End: end},
		People:    item.PeopleCount,
		Interests: item.Interests,
		State:     state,
	}, nil
}

func ToDetailedReservation(d DetailedReservationDTO) (*domain.DetailedReservation, error) {
	start, err := ParseDate(d.StartDate)
	if err != nil {
		return nil, fmt.Errorf("reservation %s startDate: %w", d.ID, err)
	}
	end, err := parseOptionalDate(d.EndDate)
	if err != nil {
		return nil, fmt.Errorf("reservation %s endDate: %w", d.ID, err)
	}

	persons := make([]domain.Person, 0, len(d.PersonReservations))
	for _, pr := range d.PersonReservations {
		birth, err := parseOptionalDate(pr.Person.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("reservation %s person %q birthDate: %w", d.ID, pr.Person.Name, err)
		}
		persons = append(persons, domain.Person{
			Name:         pr.Person.Name,
			BirthDate:    birth,
			Allergies:    pr.Person.Allergies,
			Disabilities: pr.Person.Disabilities,
			Medications:  pr.Person.Medications,
		})
	}

	services := make([]domain.ServiceReservation, 0, len(d.ServiceReservations))
	for _, sr := range d.ServiceReservations {
		orderDate, err := parseOptionalDate(sr.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("reservation %s service reservation %s orderDate: %w", d.ID, sr.ID, err)
		}
		services = append(services, domain.ServiceReservation{
			ID: sr.ID,
			Service: domain.Service{
				ID:        sr.Service.ID,
				Name:      sr.Service.Name,
				Type:      sr.Service.Type,
				UnitPrice: sr.Service.Price,
			},
			OrderDate: orderDate,
			Count:     sr.Count,
		})
	}

	return &domain.DetailedReservation{
		ID:                  d.ID,
		User:                domain.User{Name: d.User.Name, Phone: d.User.Phone},
		Hostel:              domain.Hostel{ID: d.Hostel.ID, Name: d.Hostel.Name},
		StartDate:           start,
		EndDate:             end,
		State:               domain.ParseState(d.State),
		Persons:             persons,
		ServiceReservations: services,
	}, nil
}

func ToServiceReservationDetails(d ServiceReservationDetailsDTO) *domain.ServiceReservationDetails {
	return &domain.ServiceReservationDetails{
		OrderDate:  d.OrderDate,
		Count:      d.Count,
		HostelName: d.HostelName,
		Place:      d.Place,
		FromHostel: d.FromHostel,
		PickupTime: d.PickupTime,
	}
}
