package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"caritas/internal/domain"
	"caritas/internal/dto"
)

type Dataset string

const (
	DatasetMonthlyReservations Dataset = "monthlyReservations"
	DatasetMonthlyPersons      Dataset = "monthlyPersons"
	DatasetStates              Dataset = "states"
	DatasetServiceUsage        Dataset = "serviceUsage"
)

const (
	labelPending   = "Pendientes"
	labelConfirmed = "Confirmadas"
)

type Gateway interface {
	ReservationsHistogram(ctx context.Context) ([]int, error)
	PersonsHistogram(ctx context.Context) ([]int, error)
	ReservationsStateCount(ctx context.Context) (*dto.StateCountResponse, error)
	ServiceReservationsTypeCount(ctx context.Context) (map[string]int, error)
}

type Dashboard struct {
	MonthlyReservations []dto.MonthlyPoint
	MonthlyPersons      []dto.MonthlyPoint
	States              []dto.StatePoint
	ServiceUsage        []dto.UsagePoint
	Errors              map[Dataset]error
}

type Aggregator struct {
	gateway Gateway
	logger  *zap.Logger
}

func NewAggregator(gateway Gateway, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		gateway: gateway,
		logger:  logger,
	}
}

// Aggregate runs the four dashboard fetches concurrently. Each one is
// isolated: an error or panic empties only its own dataset. When ctx ends
// before all of them finish, no dashboard is returned.
func (a *Aggregator) Aggregate(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{
		MonthlyReservations: []dto.MonthlyPoint{},
		MonthlyPersons:      []dto.MonthlyPoint{},
		States:              []dto.StatePoint{},
		ServiceUsage:        []dto.UsagePoint{},
		Errors:              map[Dataset]error{},
	}
	var mu sync.Mutex

	run := func(ds Dataset, fetch func(ctx context.Context) error) func() {
		return func() {
			err := isolate(ctx, fetch)
			if err == nil {
				return
			}
			a.logger.Error("dashboard dataset unavailable", zap.String("dataset", string(ds)), zap.Error(err))
			mu.Lock()
			d.Errors[ds] = err
			mu.Unlock()
		}
	}

	var wg conc.WaitGroup
	wg.Go(run(DatasetMonthlyReservations, func(ctx context.Context) error {
		freq, err := a.gateway.ReservationsHistogram(ctx)
		if err != nil {
			return err
		}
		points := monthly(freq)
		mu.Lock()
		d.MonthlyReservations = points
		mu.Unlock()
		return nil
	}))
	wg.Go(run(DatasetMonthlyPersons, func(ctx context.Context) error {
		freq, err := a.gateway.PersonsHistogram(ctx)
		if err != nil {
			return err
		}
		points := monthly(freq)
		mu.Lock()
		d.MonthlyPersons = points
		mu.Unlock()
		return nil
	}))
	wg.Go(run(DatasetStates, func(ctx context.Context) error {
		counts, err := a.gateway.ReservationsStateCount(ctx)
		if err != nil {
			return err
		}
		points := states(counts)
		mu.Lock()
		d.States = points
		mu.Unlock()
		return nil
	}))
	wg.Go(run(DatasetServiceUsage, func(ctx context.Context) error {
		counts, err := a.gateway.ServiceReservationsTypeCount(ctx)
		if err != nil {
			return err
		}
		points := usage(counts)
		mu.Lock()
		d.ServiceUsage = points
		mu.Unlock()
		return nil
	}))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

func isolate(ctx context.Context, fetch func(ctx context.Context) error) error {
	var err error
	var pc panics.Catcher
	pc.Try(func() {
		err = fetch(ctx)
	})
	if r := pc.Recovered(); r != nil {
		return fmt.Errorf("fetch panicked: %w", r.AsError())
	}
	return err
}

// monthly always yields twelve points, January first. Missing months are
// zero; values past December are dropped.
func monthly(freq []int) []dto.MonthlyPoint {
	points := make([]dto.MonthlyPoint, len(domain.MonthLabels))
	for i, label := range domain.MonthLabels {
		points[i].Month = label
		if i < len(freq) {
			points[i].Total = freq[i]
		}
	}
	return points
}

func states(counts *dto.StateCountResponse) []dto.StatePoint {
	if counts == nil {
		counts = &dto.StateCountResponse{}
	}
	return []dto.StatePoint{
		{Label: labelPending, Total: sum(counts.Pending)},
		{Label: labelConfirmed, Total: sum(counts.Active)},
	}
}

func usage(counts map[string]int) []dto.UsagePoint {
	points := make([]dto.UsagePoint, 0, len(counts))
	for name, uses := range counts {
		points = append(points, dto.UsagePoint{Name: name, Uses: uses})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Uses != points[j].Uses {
			return points[i].Uses > points[j].Uses
		}
		return points[i].Name < points[j].Name
	})
	return points
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
