package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/godilite/csat-server/internal/dashboard/mocks"
	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository/models"
)

func noWait(retries uint64) Option {
	return WithBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
	})
}

func configs() *mocks.MockConfigSource {
	return &mocks.MockConfigSource{
		ListDashboardsFunc: func(context.Context) ([]models.Dashboard, error) {
			return []models.Dashboard{support, exec}, nil
		},
		ListGaugesFunc: func(_ context.Context, id string) ([]gauge.Definition, error) {
			return []gauge.Definition{{ID: id + "-kpi", DashboardID: id, TypeKey: gauge.TypeKPICard}}, nil
		},
	}
}

func recordsBySource() *mocks.MockRecordSource {
	return &mocks.MockRecordSource{
		FetchRecordsFunc: func(_ context.Context, ds string) ([]gauge.Record, error) {
			if ds == "csat_exec" {
				return records(gauge.RatingRedLight), nil
			}
			return records(gauge.RatingGoldStar, gauge.RatingGoldStar), nil
		},
	}
}

func TestNewCoordinator(t *testing.T) {
	assert.Panics(t, func() { NewCoordinator(nil, configs(), recordsBySource(), nil) })
	assert.Panics(t, func() { NewCoordinator(NewStore(), nil, recordsBySource(), nil) })
	assert.Panics(t, func() { NewCoordinator(NewStore(), configs(), nil, nil) })

	c := NewCoordinator(NewStore(), configs(), recordsBySource(), nil)
	assert.Equal(t, DefaultRefreshInterval, c.interval)
	assert.NotNil(t, c.Store())
}

func TestCoordinator_Start(t *testing.T) {
	t.Run("first dashboard by default", func(t *testing.T) {
		c := NewCoordinator(NewStore(), configs(), recordsBySource(), zap.NewNop(), WithRefreshInterval(0))
		require.NoError(t, c.Start(context.Background()))

		st := c.Store().Snapshot()
		require.NotNil(t, st.Current)
		assert.Equal(t, "support", st.Current.ID)
		assert.Len(t, st.Dashboards, 2)
		assert.Len(t, st.Gauges, 1)
		assert.Len(t, st.Records, 2)
		assert.False(t, st.Loading)
		assert.False(t, st.LastUpdated.IsZero())
	})

	t.Run("configured default", func(t *testing.T) {
		c := NewCoordinator(NewStore(), configs(), recordsBySource(), nil, WithRefreshInterval(0), WithDefaultDashboard("executive"))
		require.NoError(t, c.Start(context.Background()))
		assert.Equal(t, "exec", c.Store().Snapshot().Current.ID)
	})

	t.Run("missing default falls back to first", func(t *testing.T) {
		c := NewCoordinator(NewStore(), configs(), recordsBySource(), nil, WithRefreshInterval(0), WithDefaultDashboard("nope"))
		require.NoError(t, c.Start(context.Background()))
		assert.Equal(t, "support", c.Store().Snapshot().Current.ID)
	})

	t.Run("no dashboards", func(t *testing.T) {
		cfg := &mocks.MockConfigSource{ListDashboardsFunc: func(context.Context) ([]models.Dashboard, error) { return nil, nil }}
		c := NewCoordinator(NewStore(), cfg, recordsBySource(), nil)
		require.NoError(t, c.Start(context.Background()))
		assert.Nil(t, c.Store().Snapshot().Current)
	})

	t.Run("dashboard list failure", func(t *testing.T) {
		c := NewCoordinator(NewStore(), &mocks.MockConfigSource{}, recordsBySource(), nil)
		err := c.Start(context.Background())
		assert.ErrorIs(t, err, ErrDashboardsMissing)
	})

	t.Run("gauge list failure", func(t *testing.T) {
		cfg := configs()
		cfg.ListGaugesFunc = func(context.Context, string) ([]gauge.Definition, error) { return nil, errors.New("no table") }
		c := NewCoordinator(NewStore(), cfg, recordsBySource(), nil, WithRefreshInterval(0))

		err := c.Start(context.Background())
		assert.ErrorIs(t, err, ErrFetchFailure)
		assert.ErrorIs(t, c.Store().Snapshot().Err, ErrFetchFailure)
	})
}

func TestCoordinator_FetchRetries(t *testing.T) {
	t.Run("transient failure is retried", func(t *testing.T) {
		var calls atomic.Int32
		src := &mocks.MockRecordSource{FetchRecordsFunc: func(context.Context, string) ([]gauge.Record, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("connection reset")
			}
			return records(gauge.RatingGoldStar), nil
		}}
		c := NewCoordinator(NewStore(), configs(), src, nil, WithRefreshInterval(0), noWait(2))

		require.NoError(t, c.Start(context.Background()))
		assert.Equal(t, int32(2), calls.Load())
		assert.Len(t, c.Store().Snapshot().Records, 1)
	})

	t.Run("final failure keeps prior records", func(t *testing.T) {
		var fail atomic.Bool
		var calls atomic.Int32
		src := &mocks.MockRecordSource{FetchRecordsFunc: func(context.Context, string) ([]gauge.Record, error) {
			calls.Add(1)
			if fail.Load() {
				return nil, errors.New("db down")
			}
			return records(gauge.RatingGoldStar, gauge.RatingRedLight), nil
		}}
		c := NewCoordinator(NewStore(), configs(), src, nil, WithRefreshInterval(0), noWait(2), WithRefreshLimit(rate.Inf, 1))
		require.NoError(t, c.Start(context.Background()))

		fail.Store(true)
		calls.Store(0)
		err := c.Refresh(context.Background())

		assert.ErrorIs(t, err, ErrFetchFailure)
		assert.Equal(t, int32(3), calls.Load())
		st := c.Store().Snapshot()
		assert.Len(t, st.Records, 2)
		assert.ErrorIs(t, st.Err, ErrFetchFailure)
		assert.False(t, st.Loading)
	})
}

func TestCoordinator_SelectDashboard(t *testing.T) {
	c := NewCoordinator(NewStore(), configs(), recordsBySource(), nil, WithRefreshInterval(0))
	require.NoError(t, c.Start(context.Background()))

	t.Run("unknown", func(t *testing.T) {
		err := c.SelectDashboard(context.Background(), "marketing")
		assert.ErrorIs(t, err, ErrUnknownDashboard)
		assert.Equal(t, "support", c.Store().Snapshot().Current.ID)
	})

	t.Run("by slug", func(t *testing.T) {
		require.NoError(t, c.SelectDashboard(context.Background(), "executive"))
		st := c.Store().Snapshot()
		assert.Equal(t, "exec", st.Current.ID)
		require.Len(t, st.Records, 1)
		assert.Equal(t, gauge.RatingRedLight, st.Records[0].Rating())
		assert.Equal(t, "exec-kpi", st.Gauges[0].ID)
	})
}

func TestCoordinator_SwitchSupersedesSlowFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	src := &mocks.MockRecordSource{FetchRecordsFunc: func(_ context.Context, ds string) ([]gauge.Record, error) {
		if ds == "csat" {
			started <- struct{}{}
			<-release
			return records(gauge.RatingGoldStar, gauge.RatingGoldStar, gauge.RatingGoldStar), nil
		}
		return records(gauge.RatingRedLight), nil
	}}
	c := NewCoordinator(NewStore(), configs(), src, nil, WithRefreshInterval(0))

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()
	<-started

	require.NoError(t, c.SelectDashboard(context.Background(), "exec"))
	close(release)
	require.NoError(t, <-done)

	st := c.Store().Snapshot()
	assert.Equal(t, "exec", st.Current.ID)
	require.Len(t, st.Records, 1)
	assert.Equal(t, gauge.RatingRedLight, st.Records[0].Rating())
}

func TestCoordinator_Refresh(t *testing.T) {
	t.Run("no dashboard", func(t *testing.T) {
		c := NewCoordinator(NewStore(), configs(), recordsBySource(), nil)
		assert.ErrorIs(t, c.Refresh(context.Background()), ErrNoDashboard)
	})

	t.Run("invalidates then fetches", func(t *testing.T) {
		src := recordsBySource()
		var invalidated atomic.Int32
		src.InvalidateFunc = func(_ context.Context, ds string) error {
			assert.Equal(t, "csat", ds)
			invalidated.Add(1)
			return errors.New("redis gone")
		}
		c := NewCoordinator(NewStore(), configs(), src, nil, WithRefreshInterval(0), WithRefreshLimit(rate.Inf, 1))
		require.NoError(t, c.Start(context.Background()))

		before := c.Store().Snapshot().LastUpdated
		time.Sleep(time.Millisecond)
		require.NoError(t, c.Refresh(context.Background()))

		assert.Equal(t, int32(1), invalidated.Load())
		assert.True(t, c.Store().Snapshot().LastUpdated.After(before))
	})

	t.Run("throttled", func(t *testing.T) {
		c := NewCoordinator(NewStore(), configs(), recordsBySource(), nil, WithRefreshInterval(0), WithRefreshLimit(rate.Every(time.Hour), 1))
		require.NoError(t, c.Start(context.Background()))

		require.NoError(t, c.Refresh(context.Background()))
		assert.ErrorIs(t, c.Refresh(context.Background()), ErrRefreshThrottled)
	})
}

func TestCoordinator_PeriodicRefresh(t *testing.T) {
	var calls atomic.Int32
	src := &mocks.MockRecordSource{FetchRecordsFunc: func(context.Context, string) ([]gauge.Record, error) {
		calls.Add(1)
		return records(gauge.RatingGoldStar), nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewCoordinator(NewStore(), configs(), src, nil, WithRefreshInterval(10*time.Millisecond))
	require.NoError(t, c.Start(ctx))

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	c.Stop()
	stopped := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestCoordinator_PeriodicRefreshFollowsDashboard(t *testing.T) {
	var execCalls atomic.Int32
	src := &mocks.MockRecordSource{FetchRecordsFunc: func(_ context.Context, ds string) ([]gauge.Record, error) {
		if ds == "csat_exec" {
			execCalls.Add(1)
		}
		return records(gauge.RatingGoldStar), nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	c := NewCoordinator(NewStore(), configs(), src, nil, WithRefreshInterval(10*time.Millisecond))
	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.SelectDashboard(context.Background(), "exec"))

	assert.Eventually(t, func() bool { return execCalls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	c.Stop()
}
