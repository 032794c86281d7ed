package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"caritas/internal/dto"
)

type StateUpdate struct {
	ID    string
	State string
}

type failure struct {
	status  int
	message string
}

// FakeAPI emulates the remote Cáritas admin API under /api/admin.
// Fields are guarded by the embedded mutex; use the helper methods.
type FakeAPI struct {
	Server *httptest.Server

	mu                  sync.Mutex
	reservations        dto.ReservationsResponse
	details             map[string]dto.DetailedReservationDTO
	histogram           []int
	personsHistogram    []int
	stateCount          dto.StateCountResponse
	typeCount           map[string]int
	serviceDetails      map[string]dto.ServiceReservationDetailsDTO
	token               string
	failures            map[string]failure
	gates               map[string]chan struct{}
	calls               []string
	stateUpdates        []StateUpdate
	confirmations       []string
	confirmBody         string
	authorizationHeader []string
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		details:        map[string]dto.DetailedReservationDTO{},
		typeCount:      map[string]int{},
		serviceDetails: map[string]dto.ServiceReservationDetailsDTO{},
		failures:       map[string]failure{},
		gates:          map[string]chan struct{}{},
		token:          "test-token",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/dashboard/reservations-histogram", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, dto.HistogramResponse{Frequencies: f.histogram})
	})
	mux.HandleFunc("GET /api/admin/dashboard/persons-histogram", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, dto.HistogramResponse{Frequencies: f.personsHistogram})
	})
	mux.HandleFunc("GET /api/admin/dashboard/reservations-state-count", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.stateCount)
	})
	mux.HandleFunc("GET /api/admin/dashboard/service-reservations-type-count", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.typeCount)
	})
	mux.HandleFunc("GET /api/admin/dashboard/reservations", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.reservations)
	})
	mux.HandleFunc("GET /api/admin/reservations/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		d, ok := f.details[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, dto.RemoteErrorBody{Message: "Reserva no encontrada"})
			return
		}
		writeJSON(w, d)
	})
	mux.HandleFunc("PUT /api/admin/reservations/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body dto.UpdateStateRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.stateUpdates = append(f.stateUpdates, StateUpdate{ID: r.PathValue("id"), State: body.State})
		f.mu.Unlock()
		writeJSON(w, map[string]string{"id": r.PathValue("id"), "state": body.State})
	})
	mux.HandleFunc("GET /api/admin/service-reservations/{id}/details", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		d, ok := f.serviceDetails[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, d)
	})
	mux.HandleFunc("POST /api/admin/service-reservations/confirm/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.confirmations = append(f.confirmations, r.PathValue("id"))
		body := f.confirmBody
		f.mu.Unlock()
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var body dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, dto.RemoteErrorBody{Message: "Credenciales inválidas"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, dto.LoginResponse{Token: f.token})
	})

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api/admin")

		f.mu.Lock()
		f.calls = append(f.calls, key)
		f.authorizationHeader = append(f.authorizationHeader, r.Header.Get("Authorization"))
		gate := f.gates[key]
		fail, failing := f.failures[key]
		f.mu.Unlock()

		if gate != nil {
			<-gate
		}

		if failing {
			w.WriteHeader(fail.status)
			if fail.message != "" {
				writeJSON(w, dto.RemoteErrorBody{Message: fail.message})
			}
			return
		}

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)

	return f
}

// BaseURL is the value the gateway client expects (…/api/admin).
func (f *FakeAPI) BaseURL() string {
	return f.Server.URL + "/api/admin"
}

func (f *FakeAPI) SetReservations(pending, active []dto.ReservationItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations = dto.ReservationsResponse{PendingReservation: pending, ActiveReservations: active}
}

func (f *FakeAPI) SetDetail(d dto.DetailedReservationDTO) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[d.ID] = d
}

func (f *FakeAPI) SetHistograms(reservations, persons []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histogram = reservations
	f.personsHistogram = persons
}

func (f *FakeAPI) SetStateCount(pending, active []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateCount = dto.StateCountResponse{Pending: pending, Active: active}
}

func (f *FakeAPI) SetTypeCount(counts map[string]int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typeCount = counts
}

func (f *FakeAPI) SetServiceDetails(id string, d dto.ServiceReservationDetailsDTO) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serviceDetails[id] = d
}

// SetConfirmResponse replaces the raw 2xx body sent for confirmations.
func (f *FakeAPI) SetConfirmResponse(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmBody = body
}

// Fail makes "METHOD /path" (path relative to /api/admin) answer with status
// and, when message is not empty, a {"message": ...} body.
func (f *FakeAPI) Fail(key string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = failure{status: status, message: message}
}

func (f *FakeAPI) Recover(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, key)
}

// Hold blocks requests to key until the returned release func is called.
func (f *FakeAPI) Hold(key string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[key] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.gates, key)
			f.mu.Unlock()
			close(ch)
		})
	}
}

func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeAPI) CallCount(key string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == key {
			n++
		}
	}
	return n
}

func (f *FakeAPI) StateUpdates() []StateUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]StateUpdate(nil), f.stateUpdates...)
}

func (f *FakeAPI) Confirmations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.confirmations...)
}

func (f *FakeAPI) AuthorizationHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authorizationHeader...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
