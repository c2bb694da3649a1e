package dashboard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/couchcryptid/suitability-map/internal/dashboard"
	"github.com/couchcryptid/suitability-map/internal/domain"
	"github.com/couchcryptid/suitability-map/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockPublisher struct {
	mu     sync.Mutex
	sweeps []dashboard.Sweep
	err    error
}

func (m *mockPublisher) PublishSweep(_ context.Context, sweep dashboard.Sweep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sweeps = append(m.sweeps, sweep)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// forecastWithHighs builds a forecast whose day i has high highs[i].
func forecastWithHighs(highs ...int) domain.Forecast {
	var f domain.Forecast
	for i := range f {
		h := highs[len(highs)-1]
		if i < len(highs) {
			h = highs[i]
		}
		f[i] = domain.ForecastDay{HighTemperature: h, LowTemperature: h - 12, Humidity: 55}
	}
	return f
}

func newController(t *testing.T, pub dashboard.Publisher) (*dashboard.Controller, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	c := dashboard.New(domain.NewForecastStore(), pub, 64, discardLogger(), metrics)
	regions := []domain.Region{
		{Code: "TX", Name: "Texas"},
		{Code: "CA", Name: "California"},
		{Code: "AK", Name: "Alaska"},
		{Code: "NV", Name: "Nevada"}, // no forecast data
	}
	require.NoError(t, c.Load(regions, domain.ForecastSet{
		"TX": forecastWithHighs(95, 88, 70, 60),
		"CA": forecastWithHighs(70, 65, 75, 80),
		"AK": forecastWithHighs(45, 30, 50, 20),
	}))
	return c, metrics
}

// --- tests ---

func TestController_DefaultSelection(t *testing.T) {
	c, _ := newController(t, nil)
	sel := c.Selection()
	assert.Equal(t, 0, sel.Day)
	assert.Equal(t, domain.PreferenceIdeal, sel.Preference)
}

func TestController_Assess(t *testing.T) {
	c, _ := newController(t, nil)

	a, err := c.Assess("CA")
	require.NoError(t, err)
	assert.Equal(t, "California", a.Region.Name)
	assert.True(t, a.HasData)
	require.NotNil(t, a.Forecast)
	assert.Equal(t, 70, a.Forecast.HighTemperature)
	assert.Equal(t, 100, a.Score)
	assert.Equal(t, domain.TierExcellent, a.Category.Tier)

	require.NoError(t, c.SetDay(1))
	a, err = c.Assess("CA")
	require.NoError(t, err)
	assert.Equal(t, 90, a.Score, "65°F sits on the ideal band's lower bound")
}

func TestController_AssessNoData(t *testing.T) {
	c, _ := newController(t, nil)

	a, err := c.Assess("NV")
	require.NoError(t, err)
	assert.False(t, a.HasData)
	assert.Nil(t, a.Forecast)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, domain.TierUnsuitable, a.Category.Tier)
}

func TestController_AssessUnknownRegion(t *testing.T) {
	c, _ := newController(t, nil)
	_, err := c.Assess("ZZ")
	require.ErrorIs(t, err, dashboard.ErrUnknownRegion)
}

func TestController_ScenarioColdAndHot(t *testing.T) {
	c, _ := newController(t, nil)

	require.NoError(t, c.SetPreference(domain.PreferenceCold))
	a, err := c.Assess("AK")
	require.NoError(t, err)
	assert.Equal(t, 50, a.Score) // 45°F in cold band
	assert.Equal(t, domain.TierFair, a.Category.Tier)

	require.NoError(t, c.SetPreference(domain.PreferenceHot))
	require.NoError(t, c.SetDay(3))
	a, err = c.Assess("TX")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Score) // 60°F outside hot band
	assert.Equal(t, domain.TierUnsuitable, a.Category.Tier)
}

func TestController_SetDayRejectsAndKeepsState(t *testing.T) {
	c, metrics := newController(t, nil)

	require.NoError(t, c.SetDay(3))
	err := c.SetDay(8)
	require.ErrorIs(t, err, domain.ErrInvalidIndex)
	assert.Equal(t, 3, c.Selection().Day)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SelectionRejected.WithLabelValues("invalid_index")), 0)
}

func TestController_SetPreferenceRejectsUnknown(t *testing.T) {
	c, _ := newController(t, nil)
	err := c.SetPreference("sweltering")
	require.ErrorIs(t, err, domain.ErrUnknownPreference)
	assert.Equal(t, domain.PreferenceIdeal, c.Selection().Preference)
}

func TestController_IdempotentSetters(t *testing.T) {
	c, metrics := newController(t, nil)

	require.NoError(t, c.SetDay(2))
	first, err := c.Assess("TX")
	require.NoError(t, err)

	require.NoError(t, c.SetDay(2))
	second, err := c.Assess("TX")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SelectionChanges.WithLabelValues("day")), 0)

	require.NoError(t, c.SetPreference(domain.PreferenceIdeal))
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.SelectionChanges.WithLabelValues("preference")), 0)
}

func TestController_Sweep(t *testing.T) {
	c, _ := newController(t, nil)

	sweep := c.Sweep()
	require.Len(t, sweep.Regions, 4)
	codes := []string{}
	for _, a := range sweep.Regions {
		codes = append(codes, a.Region.Code)
	}
	assert.Equal(t, []string{"AK", "CA", "NV", "TX"}, codes)
	assert.Equal(t, domain.PreferenceIdeal, sweep.Band.Key)
	assert.Equal(t, uint64(1), sweep.Generation)

	// Day 0 under ideal: AK 45 out, CA 70 → 100, NV no data, TX 95 out.
	assert.Equal(t, map[domain.Tier]int{
		domain.TierUnsuitable: 3,
		domain.TierPoor:       0,
		domain.TierFair:       0,
		domain.TierGood:       0,
		domain.TierExcellent:  1,
	}, sweep.Summary)
}

func TestController_MemoInvalidatedOnReload(t *testing.T) {
	c, metrics := newController(t, nil)

	a, err := c.Assess("TX")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Score)

	_, err = c.Assess("TX")
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ScoreCache.WithLabelValues("hit")), 0)

	require.NoError(t, c.Load([]domain.Region{{Code: "TX", Name: "Texas"}}, domain.ForecastSet{
		"TX": forecastWithHighs(72),
	}))
	a, err = c.Assess("TX")
	require.NoError(t, err)
	assert.Equal(t, 96, a.Score, "new generation must not reuse the old memo")
}

func TestController_LoadRejectsInvalidSet(t *testing.T) {
	c, _ := newController(t, nil)

	bad := forecastWithHighs(70)
	bad[0].Humidity = 101
	err := c.Load([]domain.Region{{Code: "OR", Name: "Oregon"}}, domain.ForecastSet{"OR": bad})
	require.Error(t, err)

	_, err = c.Assess("OR")
	require.ErrorIs(t, err, dashboard.ErrUnknownRegion, "catalog unchanged after a rejected load")
	_, err = c.Assess("TX")
	require.NoError(t, err)
}

func TestController_RegionsFromStoreWithoutCatalog(t *testing.T) {
	store := domain.NewForecastStore()
	require.NoError(t, store.Replace(domain.ForecastSet{"WA": forecastWithHighs(68)}))
	c := dashboard.New(store, nil, 8, discardLogger(), observability.NewMetricsForTesting())

	a, err := c.Assess("WA")
	require.NoError(t, err)
	assert.Equal(t, 96, a.Score)
	assert.Len(t, c.Sweep().Regions, 1)
}

func TestController_Broadcast(t *testing.T) {
	pub := &mockPublisher{}
	c, metrics := newController(t, pub)

	require.NoError(t, c.SetDay(2))
	require.NoError(t, c.Broadcast(context.Background()))

	require.Len(t, pub.sweeps, 1)
	assert.Equal(t, 2, pub.sweeps[0].Selection.Day)
	assert.Len(t, pub.sweeps[0].Regions, 4)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SweepsPublished.WithLabelValues("success")), 0)
}

func TestController_BroadcastError(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	c, metrics := newController(t, pub)

	err := c.Broadcast(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SweepsPublished.WithLabelValues("error")), 0)
}

func TestController_BroadcastWithoutPublisher(t *testing.T) {
	c, _ := newController(t, nil)
	assert.NoError(t, c.Broadcast(context.Background()))
}

func TestController_ConcurrentSweepsAndSelection(t *testing.T) {
	c, _ := newController(t, nil)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				if i == 0 {
					_ = c.SetDay(j % domain.DaysPerForecast)
					continue
				}
				sweep := c.Sweep()
				assert.Len(t, sweep.Regions, 4)
				for _, a := range sweep.Regions {
					assert.Equal(t, sweep.Selection.Day, a.Day, "one sweep uses one selection")
				}
			}
		}()
	}
	wg.Wait()
}

func TestController_AssessConsistentDuringReload(t *testing.T) {
	c, _ := newController(t, nil)
	band := domain.MustPreference(domain.PreferenceIdeal)
	regions := []domain.Region{{Code: "TX", Name: "Texas"}}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		highs := []int{70, 40}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_ = c.Load(regions, domain.ForecastSet{"TX": forecastWithHighs(highs[i%2])})
		}
	}()

	for range 20000 {
		a, err := c.Assess("TX")
		require.NoError(t, err)
		require.NotNil(t, a.Forecast)
		require.Equal(t, domain.Score(a.Forecast, band), a.Score,
			"high=%d scored %d", a.Forecast.HighTemperature, a.Score)
	}
	close(stop)
	<-done
}

func TestController_SweepPairsCatalogWithForecasts(t *testing.T) {
	c, _ := newController(t, nil)
	band := domain.MustPreference(domain.PreferenceIdeal)

	// Each load's catalog matches its forecast set exactly, so a sweep that
	// mixed two loads would show a region without data.
	small := []domain.Region{{Code: "TX", Name: "Texas"}}
	large := []domain.Region{{Code: "TX", Name: "Texas"}, {Code: "CA", Name: "California"}}
	require.NoError(t, c.Load(small, domain.ForecastSet{"TX": forecastWithHighs(40)}))

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				_ = c.Load(small, domain.ForecastSet{"TX": forecastWithHighs(40)})
			} else {
				_ = c.Load(large, domain.ForecastSet{"TX": forecastWithHighs(70), "CA": forecastWithHighs(72)})
			}
		}
	}()

	for range 5000 {
		sweep := c.Sweep()
		for _, a := range sweep.Regions {
			require.True(t, a.HasData, "region %s in sweep without data", a.Region.Code)
			require.Equal(t, domain.Score(a.Forecast, band), a.Score)
		}
	}
	close(stop)
	<-done
}

func TestController_SetSelectionAppliesBothOrNeither(t *testing.T) {
	c, metrics := newController(t, nil)

	day := 4
	bogus := domain.PreferenceKey("balmy")
	_, err := c.SetSelection(&day, &bogus)
	require.ErrorIs(t, err, domain.ErrUnknownPreference)
	assert.Equal(t, domain.NewSelectionState(), c.Selection())

	warm := domain.PreferenceWarm
	sel, err := c.SetSelection(&day, &warm)
	require.NoError(t, err)
	assert.Equal(t, domain.SelectionState{Day: 4, Preference: domain.PreferenceWarm}, sel)
	assert.Equal(t, sel, c.Selection())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SelectionChanges.WithLabelValues("day")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SelectionChanges.WithLabelValues("preference")), 0)
}

func TestController_ConcurrentSetSelectionNeverMixes(t *testing.T) {
	c, _ := newController(t, nil)

	pairs := []domain.SelectionState{
		{Day: 1, Preference: domain.PreferenceCold},
		{Day: 5, Preference: domain.PreferenceHot},
	}

	var wg sync.WaitGroup
	for _, p := range pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				day, key := p.Day, p.Preference
				_, err := c.SetSelection(&day, &key)
				assert.NoError(t, err)
			}
		}()
	}
	for range 500 {
		sel := c.Selection()
		if sel == domain.NewSelectionState() {
			continue
		}
		assert.Contains(t, pairs, sel)
	}
	wg.Wait()
	assert.Contains(t, pairs, c.Selection())
}
