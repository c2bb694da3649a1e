// Command validate checks a forecast fixture for shape and value problems
// before it is served: day counts, value ranges, region coverage, and
// (optionally) parity with the synthetic generator.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -fixture data/mock/forecasts.json \
//	  -seed 42 \
//	  -complete
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/couchcryptid/suitability-map/internal/adapter/fixture"
	"github.com/couchcryptid/suitability-map/internal/adapter/geo"
	"github.com/couchcryptid/suitability-map/internal/adapter/synthetic"
	"github.com/couchcryptid/suitability-map/internal/domain"
)

// Plausible surface temperatures in °F; anything outside is a data error.
const (
	minPlausibleTemp = -80
	maxPlausibleTemp = 140
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("fixture", "", "path to the forecast fixture JSON")
	seed := flag.Int64("seed", -1, "if >= 0, compare against the synthetic generator with this seed")
	complete := flag.Bool("complete", false, "require a forecast for every state")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*path, *seed, *complete); code != 0 {
		os.Exit(code)
	}
}

func run(path string, seed int64, complete bool) int {
	fmt.Println("=== Forecast Fixture Validation ===")
	fmt.Println()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open fixture: %v\n", err)
		return 1
	}
	raw, err := fixture.DecodeRaw(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	codes := make([]string, 0, len(raw))
	for code := range raw {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	phases := []*phase{
		validateShape(raw, codes),
		validateRanges(raw, codes),
		validateCoverage(raw, codes, complete),
		validateScoring(raw, codes),
	}
	if seed >= 0 {
		phases = append(phases, validateParity(raw, codes, uint64(seed)))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Regions: %d in fixture, %d in catalog\n", len(raw), len(geo.States()))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Shape ──

func validateShape(raw map[string][]domain.ForecastDay, codes []string) *phase {
	p := &phase{name: "Phase 1: Shape (7 days per region)"}
	for _, code := range codes {
		if n := len(raw[code]); n != domain.DaysPerForecast {
			p.errorf("%s: %d days, want %d", code, n, domain.DaysPerForecast)
		}
	}
	return p
}

// ── Phase 2: Ranges ──
// Humidity is rejected by the store; low > high is only reported here.

func validateRanges(raw map[string][]domain.ForecastDay, codes []string) *phase {
	p := &phase{name: "Phase 2: Value Ranges"}
	for _, code := range codes {
		for i, d := range raw[code] {
			if d.Humidity < 0 || d.Humidity > 100 {
				p.errorf("%s day %d: humidity %d outside 0-100", code, i, d.Humidity)
			}
			if d.LowTemperature > d.HighTemperature {
				p.errorf("%s day %d: low %d above high %d", code, i, d.LowTemperature, d.HighTemperature)
			}
			for _, t := range []int{d.HighTemperature, d.LowTemperature} {
				if t < minPlausibleTemp || t > maxPlausibleTemp {
					p.errorf("%s day %d: temperature %d outside %d..%d", code, i, t, minPlausibleTemp, maxPlausibleTemp)
				}
			}
		}
	}
	return p
}

// ── Phase 3: Coverage ──

func validateCoverage(raw map[string][]domain.ForecastDay, codes []string, complete bool) *phase {
	p := &phase{name: "Phase 3: Region Coverage"}
	for _, code := range codes {
		if !geo.IsState(code) {
			p.errorf("%s: not a known region code", code)
		}
	}
	if complete {
		for _, r := range geo.States() {
			if _, ok := raw[r.Code]; !ok {
				p.errorf("%s (%s): no forecast", r.Code, r.Name)
			}
		}
	}
	return p
}

// ── Phase 4: Scoring ──
// Every day under every preference must score within 0..100 and only score
// above zero when the high sits inside the band.

func validateScoring(raw map[string][]domain.ForecastDay, codes []string) *phase {
	p := &phase{name: "Phase 4: Scoring Sanity"}
	for _, code := range codes {
		for i := range raw[code] {
			d := raw[code][i]
			for _, band := range domain.Preferences() {
				s := domain.Score(&d, band)
				if s < 0 || s > 100 {
					p.errorf("%s day %d %s: score %d outside 0..100", code, i, band.Key, s)
				}
				if s > 0 && !band.Contains(d.HighTemperature) {
					p.errorf("%s day %d %s: score %d for high %d outside band", code, i, band.Key, s, d.HighTemperature)
				}
			}
		}
	}
	return p
}

// ── Phase 5: Generator Parity ──

func validateParity(raw map[string][]domain.ForecastDay, codes []string, seed uint64) *phase {
	p := &phase{name: fmt.Sprintf("Phase 5: Generator Parity (seed %d)", seed)}
	for _, code := range codes {
		want := synthetic.Generate(seed, code)
		got := raw[code]
		if len(got) != len(want) {
			continue // reported in phase 1
		}
		for i := range want {
			if got[i] != want[i] {
				p.errorf("%s day %d: fixture %+v, generator %+v", code, i, got[i], want[i])
			}
		}
	}
	return p
}
