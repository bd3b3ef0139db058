package main

import (
	"io"
	"runtime"
	"strconv"
	"text/template"
	"time"

	"github.com/plus3/debrisfall/debris"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Sessions int
	Backend  string
	Seed     uint64
	Tick     time.Duration

	// Results
	Rounds         int
	Wins           int
	Deaths         int
	TotalTicks     int64
	TotalSubSteps  int64
	TotalSpawned   int64
	TotalTime      time.Duration
	RoundTime      Stats
	TickTime       Stats
	Systems        []debris.SystemStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Stats aggregates durations without keeping every sample.
type Stats struct {
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Count int64
	Total time.Duration
}

func (s *Stats) Add(sample time.Duration) {
	if s.Count == 0 || sample < s.Min {
		s.Min = sample
	}
	if sample > s.Max {
		s.Max = sample
	}
	s.Total += sample
	s.Count++
}

// Merge folds o into s. Call Finalize afterwards.
func (s *Stats) Merge(o Stats) {
	if o.Count == 0 {
		return
	}
	if s.Count == 0 || o.Min < s.Min {
		s.Min = o.Min
	}
	if o.Max > s.Max {
		s.Max = o.Max
	}
	s.Total += o.Total
	s.Count += o.Count
}

func (s *Stats) Finalize() {
	if s.Count == 0 {
		return
	}
	s.Avg = s.Total / time.Duration(s.Count)
}

// Merge sums the results of every runner into the report.
func (r *Report) Merge(results []Result) {
	systems := map[string]int{}

	for _, res := range results {
		r.Rounds += res.Rounds
		r.Wins += res.Wins
		r.Deaths += res.Deaths
		r.TotalTicks += res.Ticks
		r.TotalSubSteps += res.SubSteps
		r.TotalSpawned += res.Spawned
		r.RoundTime.Merge(res.RoundTime)
		r.TickTime.Merge(res.TickTime)

		for _, sys := range res.Systems {
			i, ok := systems[sys.Name]
			if !ok {
				i = len(r.Systems)
				systems[sys.Name] = i
				r.Systems = append(r.Systems, debris.SystemStats{Name: sys.Name, MinDuration: sys.MinDuration})
			}
			agg := &r.Systems[i]
			agg.ExecutionCount += sys.ExecutionCount
			agg.TotalDuration += sys.TotalDuration
			agg.MinDuration = min(agg.MinDuration, sys.MinDuration)
			agg.MaxDuration = max(agg.MaxDuration, sys.MaxDuration)
		}
	}

	for i := range r.Systems {
		if n := r.Systems[i].ExecutionCount; n > 0 {
			r.Systems[i].AvgDuration = r.Systems[i].TotalDuration / time.Duration(n)
		}
	}

	r.RoundTime.Finalize()
	r.TickTime.Finalize()
}

// WinRate is the share of finished rounds that reached the door.
func (r *Report) WinRate() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Rounds)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Debris Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Concurrent Sessions:** {{.Sessions}}
- **Backend:** {{.Backend}}
- **Seed:** {{.Seed}}
- **Tick:** {{.Tick}}

## Outcomes
- **Finished Rounds:** {{.Rounds}}
- **Wins:** {{.Wins}} ({{percent .WinRate}})
- **Deaths:** {{.Deaths}}
- **Debris Spawned:** {{.TotalSpawned}}
- **Round Length (simulated):** avg {{.RoundTime.Avg}}, min {{.RoundTime.Min}}, max {{.RoundTime.Max}}

## Performance Results
- **Total Ticks:** {{.TotalTicks}}
- **Physics Sub-steps:** {{.TotalSubSteps}}
- **Total Test Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"percent": func(v float64) string {
			return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
