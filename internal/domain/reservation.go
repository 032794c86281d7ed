package domain

import "time"

type State string

const (
	StatePending   State = "PENDING"
	StateActive    State = "ACTIVE"
	StateCancelled State = "CANCELLED"
	StateInactive  State = "INACTIVE"
	StateCompleted State = "COMPLETED"
)

type List string

const (
	ListPending   List = "pending"
	ListConfirmed List = "confirmed"
	ListNone      List = ""
)

// ParseState normalises a state string coming from the API. Unknown or empty
// values are treated as pending, the default list.
func ParseState(s string) State {
	switch State(s) {
	case StateActive, StateCancelled, StateInactive, StateCompleted:
		return State(s)
	default:
		return StatePending
	}
}

// List reports which actionable list a reservation in this state belongs to.
// Cancelled and finalized reservations belong to none.
func (s State) List() List {
	switch s {
	case StatePending:
		return ListPending
	case StateActive:
		return ListConfirmed
	default:
		return ListNone
	}
}

func (s State) IsTerminal() bool {
	return s.List() == ListNone
}

func ParseList(s string) (List, bool) {
	switch List(s) {
	case ListPending, ListConfirmed:
		return List(s), true
	default:
		return ListNone, false
	}
}

type DateRange struct {
	Start time.Time
	End   *time.Time
}

func (r DateRange) IsOpenEnded() bool {
	return r.End == nil
}

type ServiceAssignment struct {
	ServiceID string
	Name      string
	Quantity  int
}

// IsDraft reports a row added in the editor whose service was not chosen yet.
func (a ServiceAssignment) IsDraft() bool {
	return a.ServiceID == ""
}

func (a ServiceAssignment) IsValid() bool {
	return !a.IsDraft() && a.Quantity >= 1
}

type Reservation struct {
	ID        string
	Name      string
	Hostel    string
	Range     DateRange
	People    int
	Interests []string
	Services  []ServiceAssignment
	Names     []string
	State     State
}

// Clone returns a copy that shares no slices with r.
func (r Reservation) Clone() Reservation {
	out := r
	if r.Interests != nil {
		out.Interests = append([]string(nil), r.Interests...)
	}
	if r.Services != nil {
		out.Services = append([]ServiceAssignment(nil), r.Services...)
	}
	if r.Names != nil {
		out.Names = append([]string(nil), r.Names...)
	}
	if r.Range.End != nil {
		end := *r.Range.End
		out.Range.End = &end
	}
	return out
}
