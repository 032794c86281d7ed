package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caritas/internal/catalog"
	"caritas/internal/domain"
	apperrors "caritas/internal/errors"
)

func testCatalog() *catalog.Static {
	return catalog.NewStatic([]domain.CatalogService{
		{ID: "s1", Name: "Lavandería"},
		{ID: "s2", Name: "Transporte"},
		{ID: "s3", Name: "Comedor"},
	})
}

func testReservation() domain.Reservation {
	return domain.Reservation{
		ID:     "r1",
		Name:   "María López",
		Hostel: "Albergue Centro",
		Range:  domain.DateRange{Start: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		People: 3,
		Names:  []string{"María"},
		Services: []domain.ServiceAssignment{
			{ServiceID: "s1", Name: "Lavandería", Quantity: 2},
		},
		State: domain.StatePending,
	}
}

func TestNew_SynthesizesMissingNames(t *testing.T) {
	e := New(testReservation(), testCatalog())

	assert.Equal(t, []string{"María", "Persona 2", "Persona 3"}, e.Names())
	assert.Equal(t, "r1", e.ReservationID())
	assert.Len(t, e.Services(), 1)
}

func TestNew_ZeroPeopleYieldsOnePlaceholder(t *testing.T) {
	r := testReservation()
	r.People = 0
	r.Names = nil

	e := New(r, testCatalog())
	assert.Equal(t, []string{"Persona 1"}, e.Names())
}

func TestNew_DoesNotAliasReservation(t *testing.T) {
	r := testReservation()
	e := New(r, testCatalog())

	require.NoError(t, e.SetQuantity(0, 9))
	require.NoError(t, e.RenamePerson(0, "Otra"))

	assert.Equal(t, 2, r.Services[0].Quantity)
	assert.Equal(t, "María", r.Names[0])
}

func TestRoster_AddRemoveRename(t *testing.T) {
	e := New(testReservation(), testCatalog())

	e.AddPerson()
	assert.Equal(t, "Persona 4", e.Names()[3])

	require.NoError(t, e.RemovePerson(1))
	assert.Equal(t, []string{"María", "Persona 3", "Persona 4"}, e.Names())

	require.NoError(t, e.RenamePerson(2, "Juan"))
	assert.Equal(t, "Juan", e.Names()[2])

	err := e.RemovePerson(5)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Error(t, e.RenamePerson(-1, "x"))
}

func TestServices_SetServiceUpdatesName(t *testing.T) {
	e := New(testReservation(), testCatalog())

	e.AddService()
	assert.Equal(t, domain.ServiceAssignment{Quantity: 1}, e.Services()[1])

	require.NoError(t, e.SetService(1, "s3"))
	assert.Equal(t, domain.ServiceAssignment{ServiceID: "s3", Name: "Comedor", Quantity: 1}, e.Services()[1])

	require.NoError(t, e.SetService(1, "unknown"))
	assert.Equal(t, "unknown", e.Services()[1].ServiceID)
	assert.Equal(t, "Comedor", e.Services()[1].Name)

	require.NoError(t, e.RemoveService(0))
	assert.Len(t, e.Services(), 1)
	assert.Error(t, e.SetQuantity(3, 1))
}

func TestSave_RejectsDraftRowsAndBadQuantities(t *testing.T) {
	e := New(testReservation(), testCatalog())
	e.AddService()
	require.NoError(t, e.SetQuantity(0, 0))

	_, err := e.Save()
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 2)
	assert.Equal(t, "services[0].quantity", ve.Details[0].Field)
	assert.Equal(t, "services[1].serviceId", ve.Details[1].Field)
}

func TestSave_RecomputesPartySize(t *testing.T) {
	e := New(testReservation(), testCatalog())
	e.AddPerson()
	require.NoError(t, e.RenamePerson(3, "Ana"))

	out, err := e.Save()
	require.NoError(t, err)
	assert.Equal(t, 4, out.People)
	assert.Equal(t, []string{"María", "Persona 2", "Persona 3", "Ana"}, out.Names)
	assert.Equal(t, domain.StatePending, out.State)
}

func TestSave_IdempotentOnUnmodifiedDraft(t *testing.T) {
	r := testReservation()

	first, err := New(r, testCatalog()).Save()
	require.NoError(t, err)

	want := r.Clone()
	want.Names = []string{"María", "Persona 2", "Persona 3"}
	assert.Equal(t, want, first)

	second, err := New(first, testCatalog()).Save()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApply(t *testing.T) {
	e := New(testReservation(), testCatalog())

	e.Apply([]string{"A", "B"}, []domain.ServiceAssignment{
		{ServiceID: "s2", Name: "stale", Quantity: 1},
		{ServiceID: "", Quantity: 1},
	})

	assert.Equal(t, []string{"A", "B"}, e.Names())
	assert.Equal(t, "Transporte", e.Services()[0].Name)
	assert.Error(t, e.Validate())
}
