package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
	"github.com/julianstephens/autoplan/internal/timeline"
	"github.com/julianstephens/autoplan/internal/utils"
	"github.com/julianstephens/autoplan/internal/validation"
)

var (
	// ErrPlanInProgress is returned when a plan is requested while another is being generated.
	ErrPlanInProgress = errors.New("a plan is already being generated")
	// ErrInvalidTask wraps structural problems in the task pool.
	ErrInvalidTask = errors.New("invalid task")
	// ErrInvariant signals a broken internal guarantee.
	ErrInvariant = errors.New("scheduler invariant violated")
)

// Options are the planner policies for one run.
type Options struct {
	WorkStartMin   int
	WorkEndMin     int
	Scope          models.ScheduleScope
	Strategy       models.PrioritizationStrategy
	Organization   models.DayOrganization
	Overdue        models.OverdueTaskHandling
	Heuristic      models.PlacementHeuristic
	AllowSplitting bool
}

// OptionsFromSettings converts stored settings into planner options.
func OptionsFromSettings(s models.Settings) (Options, error) {
	models.ApplyDefaultSettings(&s)
	if err := s.Validate(); err != nil {
		return Options{}, err
	}
	start, err := utils.ParseTimeToMinutes(s.DayStart)
	if err != nil {
		return Options{}, fmt.Errorf("invalid day start %q: %w", s.DayStart, err)
	}
	end, err := utils.ParseTimeToMinutes(s.DayEnd)
	if err != nil {
		return Options{}, fmt.Errorf("invalid day end %q: %w", s.DayEnd, err)
	}
	return Options{
		WorkStartMin:   start,
		WorkEndMin:     end,
		Scope:          s.Scope,
		Strategy:       s.Strategy,
		Organization:   s.Organization,
		Overdue:        s.Overdue,
		Heuristic:      s.Heuristic,
		AllowSplitting: s.AllowSplitting,
	}, nil
}

func (o Options) validate() error {
	if o.WorkStartMin < 0 || o.WorkStartMin >= 24*60 || o.WorkEndMin < 0 || o.WorkEndMin >= 24*60 {
		return fmt.Errorf("work hours out of range: %d-%d", o.WorkStartMin, o.WorkEndMin)
	}
	settings := models.Settings{
		Scope:        o.Scope,
		Strategy:     o.Strategy,
		Organization: o.Organization,
		Overdue:      o.Overdue,
		Heuristic:    o.Heuristic,
	}
	return settings.Validate()
}

// Request is the input of one planning run. A zero Now means time.Now().
type Request struct {
	Tasks []models.Task
	Now   time.Time
}

// Plan is the report of one planning run.
type Plan struct {
	Window           planning.Window
	Scheduled        map[string][]planning.ScheduledItem
	Postponed        []models.Task
	ManualResolution []models.Task
	Conflicts        []planning.Conflict
	Notices          []planning.Notice
	Days             []*timeline.DaySchedule
}

type Scheduler struct {
	opts Options
	sem  *semaphore.Weighted
}

func New(opts Options) *Scheduler {
	return &Scheduler{opts: opts, sem: semaphore.NewWeighted(1)}
}

// GeneratePlan runs the planner once over req. Only one run may be in flight
// per Scheduler; a concurrent call fails with ErrPlanInProgress.
func (s *Scheduler) GeneratePlan(ctx context.Context, req Request) (Plan, error) {
	if !s.sem.TryAcquire(1) {
		return Plan{}, ErrPlanInProgress
	}
	defer s.sem.Release(1)

	if err := s.opts.validate(); err != nil {
		return Plan{}, fmt.Errorf("invalid options: %w", err)
	}
	result := validation.New().ValidateTasks(req.Tasks)
	if err := result.Err(); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	window, err := WindowFor(s.opts.Scope, now)
	if err != nil {
		return Plan{}, err
	}

	var tasks []models.Task
	for _, t := range req.Tasks {
		if t.DeletedAt == nil {
			tasks = append(tasks, t)
		}
	}
	pctx := planning.NewContext(tasks)
	logger.Debug("planning", "tasks", len(pctx.Tasks()), "from", utils.DateKey(window.Start), "to", utils.DateKey(window.LastDay()))

	handleOverdue(pctx, s.opts.Overdue, now, window)
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}

	cat := categorize(pctx, window, now, s.opts.WorkStartMin)
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}

	tl := timeline.New(timeline.Config{
		WorkStartMin: s.opts.WorkStartMin,
		WorkEndMin:   s.opts.WorkEndMin,
		Organization: s.opts.Organization,
	})
	tl.Initialize(window, cat.periodBuckets())

	p := &placer{ctx: pctx, tl: tl, opts: s.opts, window: window, now: now, today: utils.StartOfDay(now)}
	p.placeFixed(cat.fixed)
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}

	pending := dedupe(cat.pending, pctx)
	sortByScore(pending, s.opts.Strategy, now)
	for _, pt := range pending {
		if err := ctx.Err(); err != nil {
			return Plan{}, err
		}
		p.placePrioritized(pt)
	}

	consolidate(pctx, tl)

	for _, d := range tl.Days() {
		if err := d.Validate(); err != nil {
			return Plan{}, fmt.Errorf("%w: %v", ErrInvariant, err)
		}
	}

	plan := Plan{
		Window:           window,
		Scheduled:        pctx.Scheduled(),
		Postponed:        pctx.Postponed(),
		ManualResolution: pctx.ManualResolution(),
		Conflicts:        pctx.Conflicts(),
		Notices:          pctx.Notices(),
		Days:             tl.Days(),
	}
	logger.Debug("plan generated", "days", len(plan.Scheduled), "conflicts", len(plan.Conflicts), "postponed", len(plan.Postponed))
	return plan, nil
}

// dedupe keeps the first entry per task and drops tasks resolved meanwhile.
func dedupe(pending []pendingTask, ctx *planning.Context) []pendingTask {
	seen := make(map[string]struct{}, len(pending))
	out := make([]pendingTask, 0, len(pending))
	for _, pt := range pending {
		id := pt.task.ID()
		if _, ok := seen[id]; ok || ctx.IsPlaced(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, pt)
	}
	return out
}

func consolidate(ctx *planning.Context, tl *timeline.Manager) {
	for _, id := range tl.PendingPeriodTasks() {
		t, ok := ctx.Task(id)
		if !ok || ctx.IsPlaced(id) || t.FailedPeriod() {
			continue
		}
		ctx.RecordConflict(id, planning.ConflictCannotFitPeriod,
			fmt.Sprintf("%q was never placed in its %s period", t.Task.Name, t.Task.Period), nil)
	}

	for _, t := range ctx.Tasks() {
		if !t.IsHardConflict() || ctx.IsPlaced(t.ID()) {
			continue
		}
		if ctx.HasConflictFor(t.ID()) {
			ctx.MarkResolved(t.ID())
			continue
		}
		ctx.RecordConflict(t.ID(), planning.ConflictPlacementError,
			fmt.Sprintf("%q could not be placed", t.Task.Name), nil)
	}

	ctx.SortScheduled()
}
