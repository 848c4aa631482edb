package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
)

func planningTask(t models.Task) *planning.Task {
	ctx := planning.NewContext([]models.Task{t})
	pt, _ := ctx.Task(t.ID)
	return pt
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		task     models.Task
		strategy models.PrioritizationStrategy
		want     float64
	}{
		{
			name:     "urgency without deadline",
			task:     models.Task{ID: "a", Priority: models.PriorityHigh},
			strategy: models.StrategyByUrgency,
			want:     0,
		},
		{
			name:     "urgency overdue",
			task:     models.Task{ID: "a", Priority: models.PriorityLow, End: ptr(at(-1, 9, 0))},
			strategy: models.StrategyByUrgency,
			want:     100000,
		},
		{
			name:     "urgency within eight hours",
			task:     models.Task{ID: "a", Priority: models.PriorityHigh, End: ptr(at(0, 13, 0))},
			strategy: models.StrategyByUrgency,
			want:     100000,
		},
		{
			name:     "urgency within a day",
			task:     models.Task{ID: "a", Priority: models.PriorityMedium, End: ptr(at(1, 7, 0))},
			strategy: models.StrategyByUrgency,
			want:     37500,
		},
		{
			name:     "urgency within three days",
			task:     models.Task{ID: "a", Priority: models.PriorityNone, End: ptr(at(2, 8, 0))},
			strategy: models.StrategyByUrgency,
			want:     5000,
		},
		{
			name:     "urgency far away",
			task:     models.Task{ID: "a", Priority: models.PriorityLow, End: ptr(at(10, 8, 0))},
			strategy: models.StrategyByUrgency,
			want:     1000,
		},
		{
			name:     "importance without deadline",
			task:     models.Task{ID: "a", Priority: models.PriorityMedium},
			strategy: models.StrategyByImportance,
			want:     50000,
		},
		{
			name:     "importance with deadline in half a week",
			task:     models.Task{ID: "a", Priority: models.PriorityHigh, End: ptr(runClock.Add(84 * time.Hour))},
			strategy: models.StrategyByImportance,
			want:     100250,
		},
		{
			name:     "importance overdue",
			task:     models.Task{ID: "a", Priority: models.PriorityNone, End: ptr(at(-1, 8, 0))},
			strategy: models.StrategyByImportance,
			want:     1500,
		},
		{
			name:     "duration favours short tasks",
			task:     models.Task{ID: "a", Priority: models.PriorityLow, Duration: minutes(99)},
			strategy: models.StrategyByDuration,
			want:     1100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(planningTask(tt.task), tt.strategy, runClock), 0.001)
		})
	}
}

func TestSortByScore_StableForTies(t *testing.T) {
	ctx := planning.NewContext([]models.Task{
		{ID: "first", Priority: models.PriorityLow},
		{ID: "urgent", Priority: models.PriorityLow, End: ptr(at(0, 12, 0))},
		{ID: "second", Priority: models.PriorityLow},
	})
	var pending []pendingTask
	for _, pt := range ctx.Tasks() {
		pending = append(pending, pendingTask{task: pt, category: categoryFlexible})
	}

	sortByScore(pending, models.StrategyByUrgency, runClock)

	var ids []string
	for _, pt := range pending {
		ids = append(ids, pt.task.ID())
	}
	assert.Equal(t, []string{"urgent", "first", "second"}, ids)
}
