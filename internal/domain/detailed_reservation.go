package domain

import (
	"fmt"
	"time"
)

type User struct {
	Name  string
	Phone string
}

type Hostel struct {
	ID   string
	Name string
}

type Person struct {
	Name         string
	BirthDate    *time.Time
	Allergies    string
	Disabilities string
	Medications  string
}

type Service struct {
	ID        string
	Name      string
	Type      string
	UnitPrice float64
}

type ServiceReservation struct {
	ID        string
	Service   Service
	OrderDate *time.Time
	Count     int
}

func (s ServiceReservation) LineTotal() float64 {
	return s.Service.UnitPrice * float64(s.Count)
}

type DetailedReservation struct {
	ID                  string
	User                User
	Hostel              Hostel
	StartDate           time.Time
	EndDate             *time.Time
	State               State
	Persons             []Person
	ServiceReservations []ServiceReservation
}

// GrandTotal is recomputed from the lines on every call.
func (d DetailedReservation) GrandTotal() float64 {
	total := 0.0
	for _, sr := range d.ServiceReservations {
		total += sr.LineTotal()
	}
	return total
}

func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

type ServiceReservationDetails struct {
	OrderDate  string
	Count      int
	HostelName string
	Place      string
	FromHostel *bool
	PickupTime string
}
