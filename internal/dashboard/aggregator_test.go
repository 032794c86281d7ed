package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"caritas/internal/dto"
	"caritas/internal/gateway"
	"caritas/internal/testutil"
)

type mockGateway struct {
	ReservationsHistogramFunc        func(ctx context.Context) ([]int, error)
	PersonsHistogramFunc             func(ctx context.Context) ([]int, error)
	ReservationsStateCountFunc       func(ctx context.Context) (*dto.StateCountResponse, error)
	ServiceReservationsTypeCountFunc func(ctx context.Context) (map[string]int, error)
}

func (m *mockGateway) ReservationsHistogram(ctx context.Context) ([]int, error) {
	return m.ReservationsHistogramFunc(ctx)
}

func (m *mockGateway) PersonsHistogram(ctx context.Context) ([]int, error) {
	return m.PersonsHistogramFunc(ctx)
}

func (m *mockGateway) ReservationsStateCount(ctx context.Context) (*dto.StateCountResponse, error) {
	return m.ReservationsStateCountFunc(ctx)
}

func (m *mockGateway) ServiceReservationsTypeCount(ctx context.Context) (map[string]int, error) {
	return m.ServiceReservationsTypeCountFunc(ctx)
}

func healthyGateway() *mockGateway {
	return &mockGateway{
		ReservationsHistogramFunc: func(ctx context.Context) ([]int, error) {
			return []int{32, 27, 41, 38, 29, 44, 35, 50, 47, 52, 39, 46}, nil
		},
		PersonsHistogramFunc: func(ctx context.Context) ([]int, error) {
			return []int{5, 6}, nil
		},
		ReservationsStateCountFunc: func(ctx context.Context) (*dto.StateCountResponse, error) {
			return &dto.StateCountResponse{Pending: []int{3, 4}, Active: []int{10, 11}}, nil
		},
		ServiceReservationsTypeCountFunc: func(ctx context.Context) (map[string]int, error) {
			return map[string]int{"Comedor": 7, "Lavandería": 12, "Albergue": 7}, nil
		},
	}
}

func TestAggregate_AllDatasets(t *testing.T) {
	agg := NewAggregator(healthyGateway(), zap.NewNop())

	d, err := agg.Aggregate(context.Background())
	require.NoError(t, err)

	require.Len(t, d.MonthlyReservations, 12)
	assert.Equal(t, dto.MonthlyPoint{Month: "Ene", Total: 32}, d.MonthlyReservations[0])
	assert.Equal(t, dto.MonthlyPoint{Month: "Dic", Total: 46}, d.MonthlyReservations[11])

	assert.Equal(t, []dto.StatePoint{
		{Label: "Pendientes", Total: 7},
		{Label: "Confirmadas", Total: 21},
	}, d.States)

	assert.Equal(t, []dto.UsagePoint{
		{Name: "Lavandería", Uses: 12},
		{Name: "Albergue", Uses: 7},
		{Name: "Comedor", Uses: 7},
	}, d.ServiceUsage)

	assert.Empty(t, d.Errors)
}

func TestAggregate_ShortHistogramIsZeroPadded(t *testing.T) {
	agg := NewAggregator(healthyGateway(), zap.NewNop())

	d, err := agg.Aggregate(context.Background())
	require.NoError(t, err)

	require.Len(t, d.MonthlyPersons, 12)
	assert.Equal(t, 5, d.MonthlyPersons[0].Total)
	assert.Equal(t, 6, d.MonthlyPersons[1].Total)
	for _, p := range d.MonthlyPersons[2:] {
		assert.Zero(t, p.Total)
	}
}

func TestAggregate_OneFailureIsIsolated(t *testing.T) {
	gw := healthyGateway()
	gw.ReservationsStateCountFunc = func(ctx context.Context) (*dto.StateCountResponse, error) {
		return nil, errors.New("boom")
	}
	agg := NewAggregator(gw, zap.NewNop())

	d, err := agg.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Empty(t, d.States)
	assert.NotNil(t, d.States)
	assert.Len(t, d.MonthlyReservations, 12)
	assert.Len(t, d.MonthlyPersons, 12)
	assert.Len(t, d.ServiceUsage, 3)
	require.Len(t, d.Errors, 1)
	assert.EqualError(t, d.Errors[DatasetStates], "boom")
}

func TestAggregate_PanicIsIsolated(t *testing.T) {
	gw := healthyGateway()
	gw.ServiceReservationsTypeCountFunc = func(ctx context.Context) (map[string]int, error) {
		panic("unexpected payload")
	}
	agg := NewAggregator(gw, zap.NewNop())

	d, err := agg.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Empty(t, d.ServiceUsage)
	assert.Len(t, d.States, 2)
	require.Contains(t, d.Errors, DatasetServiceUsage)
	assert.Contains(t, d.Errors[DatasetServiceUsage].Error(), "unexpected payload")
}

func TestAggregate_AllFail(t *testing.T) {
	fail := func(ctx context.Context) ([]int, error) { return nil, errors.New("down") }
	agg := NewAggregator(&mockGateway{
		ReservationsHistogramFunc: fail,
		PersonsHistogramFunc:      fail,
		ReservationsStateCountFunc: func(ctx context.Context) (*dto.StateCountResponse, error) {
			return nil, errors.New("down")
		},
		ServiceReservationsTypeCountFunc: func(ctx context.Context) (map[string]int, error) {
			return nil, errors.New("down")
		},
	}, zap.NewNop())

	d, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Errors, 4)
}

func TestAggregate_CancelledContext(t *testing.T) {
	block := func(ctx context.Context) ([]int, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	gw := healthyGateway()
	gw.ReservationsHistogramFunc = block

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d, err := NewAggregator(gw, zap.NewNop()).Aggregate(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, d)
}

func TestHandleDashboard_ThroughGateway(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.SetHistograms([]int{1, 2, 3}, []int{4})
	api.SetStateCount([]int{3, 4}, []int{10, 11})
	api.SetTypeCount(map[string]int{"Transporte": 2})
	api.Fail("GET /dashboard/persons-histogram", http.StatusInternalServerError, "")

	client := gateway.NewClient(api.BaseURL(), 5*time.Second, nil, zap.NewNop())
	ctrl := NewModule(client, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.HandleDashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.MonthlyReservations[2].Total)
	assert.Empty(t, body.MonthlyPersons)
	assert.Equal(t, 7, body.States[0].Total)
	assert.Equal(t, 21, body.States[1].Total)
	assert.Equal(t, []dto.UsagePoint{{Name: "Transporte", Uses: 2}}, body.ServiceUsage)
	assert.Contains(t, body.Errors, "monthlyPersons")

	assert.Equal(t, 1, api.CallCount("GET /dashboard/reservations-histogram"))
	assert.Equal(t, 1, api.CallCount("GET /dashboard/persons-histogram"))
	assert.Equal(t, 1, api.CallCount("GET /dashboard/reservations-state-count"))
	assert.Equal(t, 1, api.CallCount("GET /dashboard/service-reservations-type-count"))
}
