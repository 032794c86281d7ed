package dto

import "time"

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ServiceAssignmentDTO struct {
	ServiceID string `json:"serviceId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type ReservationView struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Hostel    string                 `json:"hostel,omitempty"`
	Start     string                 `json:"start"`
	End       *string                `json:"end"`
	People    int                    `json:"people"`
	Interests []string               `json:"interests,omitempty"`
	Services  []ServiceAssignmentDTO `json:"services"`
	Names     []string               `json:"names,omitempty"`
	State     string                 `json:"state"`
	Actions   []string               `json:"actions"`
	Updating  bool                   `json:"updating"`
}

type ReservationListResponse struct {
	TraceID        string            `json:"traceId"`
	Active         string            `json:"active"`
	PendingCount   int               `json:"pendingCount"`
	ConfirmedCount int               `json:"confirmedCount"`
	Items          []ReservationView `json:"items"`
	DetailID       string            `json:"detailId,omitempty"`
}

type TransitionResponse struct {
	TraceID       string    `json:"traceId"`
	ReservationID string    `json:"reservationId"`
	Action        string    `json:"action"`
	State         string    `json:"state"`
	Active        string    `json:"active"`
	DetailID      string    `json:"detailId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type ServiceLineView struct {
	ID          string  `json:"id"`
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	ServiceType string  `json:"serviceType,omitempty"`
	OrderDate   *string `json:"orderDate"`
	UnitPrice   float64 `json:"unitPrice"`
	Count       int     `json:"count"`
	LineTotal   string  `json:"lineTotal"`
}

type PersonView struct {
	Name         string  `json:"name"`
	BirthDate    *string `json:"birthDate"`
	Allergies    string  `json:"allergies,omitempty"`
	Disabilities string  `json:"disabilities,omitempty"`
	Medications  string  `json:"medications,omitempty"`
}

type DetailedReservationView struct {
	TraceID    string            `json:"traceId"`
	ID         string            `json:"id"`
	UserName   string            `json:"userName"`
	UserPhone  string            `json:"userPhone,omitempty"`
	HostelID   string            `json:"hostelId,omitempty"`
	HostelName string            `json:"hostelName"`
	StartDate  string            `json:"startDate"`
	EndDate    *string           `json:"endDate"`
	State      string            `json:"state"`
	Persons    []PersonView      `json:"persons"`
	Services   []ServiceLineView `json:"services"`
	GrandTotal string            `json:"grandTotal"`
}

type EditorView struct {
	TraceID       string                 `json:"traceId"`
	ReservationID string                 `json:"reservationId"`
	Names         []string               `json:"names"`
	Services      []ServiceAssignmentDTO `json:"services"`
}
