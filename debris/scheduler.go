package debris

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats summarizes how the systems of a session have run.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Systems         []SystemStats
}

// SystemStats holds execution timings for one system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

func (st *SystemStats) record(d time.Duration) {
	if st.ExecutionCount == 0 || d < st.MinDuration {
		st.MinDuration = d
	}
	st.MaxDuration = max(st.MaxDuration, d)
	st.LastDuration = d
	st.TotalDuration += d
	st.ExecutionCount++
	st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
}

type scheduledSystem struct {
	system System
	stats  SystemStats
}

// Scheduler runs the systems of a session in order, once per tick.
type Scheduler struct {
	session  *Session
	systems  []*scheduledSystem
	commands *Commands
	frames   int64
}

// NewScheduler creates an empty scheduler for session.
func NewScheduler(session *Session) *Scheduler {
	return &Scheduler{
		session:  session,
		commands: newCommands(),
	}
}

// Register appends a system to the run order. Its stats are reported under
// the name of its type.
func (s *Scheduler) Register(system System) {
	t := reflect.TypeOf(system)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s.systems = append(s.systems, &scheduledSystem{
		system: system,
		stats:  SystemStats{Name: t.Name()},
	})
}

// Commands returns the deferred command buffer flushed at the end of every
// Once.
func (s *Scheduler) Commands() *Commands {
	return s.commands
}

// Once runs every system with dt and then flushes deferred commands.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.session, s.commands)

	for _, entry := range s.systems {
		start := time.Now()
		entry.system.Execute(frame)
		entry.stats.record(time.Since(start))
	}
	s.frames++

	s.commands.Flush()
}

// Run ticks the session with wall-clock deltas at the given interval until
// ctx is done or the session reaches a terminal state, and returns the last
// observed state.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) State {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return s.session.State()
		case now := <-ticker.C:
			s.session.Tick(now.Sub(last).Seconds())
			last = now
			if state := s.session.State(); state.Terminal() {
				return state
			}
		}
	}
}

// Stats returns a snapshot of the execution stats.
func (s *Scheduler) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, 0, len(s.systems)),
	}
	for _, entry := range s.systems {
		stats.Systems = append(stats.Systems, entry.stats)
		stats.TotalExecutions += entry.stats.ExecutionCount
	}
	return stats
}
