package dto

// ReservationItem is one row of GET /dashboard/reservations.
type ReservationItem struct {
	ReservationID string   `json:"reservationId"`
	UserFullName  string   `json:"userFullName"`
	HostelName    string   `json:"hostelName"`
	PeopleCount   int      `json:"peopleCount"`
	StartDate     string   `json:"startDate"`
	EndDate       *string  `json:"endDate"`
	Interests     []string `json:"interests,omitempty"`
}

type ReservationsResponse struct {
	PendingReservation []ReservationItem `json:"pendingReservation"`
	ActiveReservations []ReservationItem `json:"activeReservations"`
}

type UpdateStateRequest struct {
	State string `json:"state"`
}

type UserDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type HostelDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PersonDTO struct {
	Name         string  `json:"name"`
	BirthDate    *string `json:"birthDate"`
	Allergies    string  `json:"allergies"`
	Disabilities string  `json:"disabilities"`
	Medications  string  `json:"medications"`
}

type PersonReservationDTO struct {
	Person PersonDTO `json:"person"`
}

type ServiceDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

type ServiceReservationDTO struct {
	ID        string     `json:"id"`
	Service   ServiceDTO `json:"service"`
	OrderDate *string    `json:"orderDate"`
	Count     int        `json:"count"`
}

// DetailedReservationDTO is the body of GET /reservations/{id} and of the
// PUT that updates its state.
type DetailedReservationDTO struct {
	ID                  string                  `json:"id"`
	User                UserDTO                 `json:"user"`
	Hostel              HostelDTO               `json:"hostel"`
	StartDate           string                  `json:"startDate"`
	EndDate             *string                 `json:"endDate"`
	State               string                  `json:"state"`
	PersonReservations  []PersonReservationDTO  `json:"personReservations"`
	ServiceReservations []ServiceReservationDTO `json:"serviceReservations"`
}
