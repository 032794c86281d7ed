package reservation

import (
	"time"

	"caritas/internal/domain"
	"caritas/internal/dto"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toReservationView(r domain.Reservation, updating bool) dto.ReservationView {
	actions := Actions(r)
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}

	return dto.ReservationView{
		ID:        r.ID,
		Name:      r.Name,
		Hostel:    r.Hostel,
		Start:     r.Range.Start.Format(dateLayout),
		End:       formatDate(r.Range.End),
		People:    r.People,
		Interests: r.Interests,
		Services:  toAssignmentDTOs(r.Services),
		Names:     r.Names,
		State:     string(r.State),
		Actions:   names,
		Updating:  updating,
	}
}

func toAssignmentDTOs(services []domain.ServiceAssignment) []dto.ServiceAssignmentDTO {
	out := make([]dto.ServiceAssignmentDTO, len(services))
	for i, s := range services {
		out[i] = dto.ServiceAssignmentDTO{ServiceID: s.ServiceID, Name: s.Name, Quantity: s.Quantity}
	}
	return out
}

func fromAssignmentDTOs(services []dto.ServiceAssignmentDTO) []domain.ServiceAssignment {
	out := make([]domain.ServiceAssignment, len(services))
	for i, s := range services {
		out[i] = domain.ServiceAssignment{ServiceID: s.ServiceID, Name: s.Name, Quantity: s.Quantity}
	}
	return out
}

func toDetailedView(traceID string, d *domain.DetailedReservation) dto.DetailedReservationView {
	persons := make([]dto.PersonView, len(d.Persons))
	for i, p := range d.Persons {
		persons[i] = dto.PersonView{
			Name:         p.Name,
			BirthDate:    formatDate(p.BirthDate),
			Allergies:    p.Allergies,
			Disabilities: p.Disabilities,
			Medications:  p.Medications,
		}
	}

	lines := make([]dto.ServiceLineView, len(d.ServiceReservations))
	for i, sr := range d.ServiceReservations {
		lines[i] = dto.ServiceLineView{
			ID:          sr.ID,
			ServiceID:   sr.Service.ID,
			ServiceName: sr.Service.Name,
			ServiceType: sr.Service.Type,
			OrderDate:   formatDate(sr.OrderDate),
			UnitPrice:   sr.Service.UnitPrice,
			Count:       sr.Count,
			LineTotal:   domain.FormatAmount(sr.LineTotal()),
		}
	}

	return dto.DetailedReservationView{
		TraceID:    traceID,
		ID:         d.ID,
		UserName:   d.User.Name,
		UserPhone:  d.User.Phone,
		HostelID:   d.Hostel.ID,
		HostelName: d.Hostel.Name,
		StartDate:  d.StartDate.Format(dateLayout),
		EndDate:    formatDate(d.EndDate),
		State:      string(d.State),
		Persons:    persons,
		Services:   lines,
		GrandTotal: domain.FormatAmount(d.GrandTotal()),
	}
}
