package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
)

// Score ranks a task for the prioritized placement pass. Higher scores are
// placed first. It is a pure function of its arguments.
func Score(t *planning.Task, strategy models.PrioritizationStrategy, now time.Time) float64 {
	switch strategy {
	case models.StrategyByImportance:
		return importanceScore(t, now)
	case models.StrategyByDuration:
		return durationScore(t)
	default:
		return urgencyScore(t, now)
	}
}

func urgencyScore(t *planning.Task, now time.Time) float64 {
	var base float64
	switch hours, ok := hoursUntilDeadline(t, now); {
	case !ok:
		base = 0
	case hours < 0 || t.IsOverdue():
		base = 100000
	case hours <= 8:
		base = 50000
	case hours <= 24:
		base = 25000
	case hours <= 72:
		base = 10000
	default:
		base = 1000
	}

	multiplier := 0.5
	switch t.Task.Priority {
	case models.PriorityHigh:
		multiplier = 2.0
	case models.PriorityMedium:
		multiplier = 1.5
	case models.PriorityLow:
		multiplier = 1.0
	}
	return base * multiplier
}

func importanceScore(t *planning.Task, now time.Time) float64 {
	base := 1000.0
	switch t.Task.Priority {
	case models.PriorityHigh:
		base = 100000
	case models.PriorityMedium:
		base = 50000
	case models.PriorityLow:
		base = 10000
	}

	hours, ok := hoursUntilDeadline(t, now)
	if !ok {
		return base
	}
	if hours < 0 {
		return base + 500
	}
	return base + 500*math.Max(0, 1-hours/(7*24))
}

func durationScore(t *planning.Task) float64 {
	boost := 0.0
	switch t.Task.Priority {
	case models.PriorityHigh:
		boost = 500
	case models.PriorityMedium:
		boost = 300
	case models.PriorityLow:
		boost = 100
	}
	return 100000/float64(t.Task.Duration.Minutes+1) + boost
}

func hoursUntilDeadline(t *planning.Task, now time.Time) (float64, bool) {
	if t.Task.End == nil {
		return 0, false
	}
	return t.Task.End.Sub(now).Hours(), true
}

// sortByScore orders tasks by descending score. Equal scores keep input order.
func sortByScore(tasks []pendingTask, strategy models.PrioritizationStrategy, now time.Time) {
	scores := make(map[string]float64, len(tasks))
	for _, pt := range tasks {
		scores[pt.task.ID()] = Score(pt.task, strategy, now)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return scores[tasks[i].task.ID()] > scores[tasks[j].task.ID()]
	})
}
