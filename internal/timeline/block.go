// Package timeline keeps one schedule of time blocks per planning date and is
// the only code that changes block geometry.
package timeline

import (
	"fmt"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
)

// Occupancy describes what holds a block of time.
type Occupancy string

const (
	Free         Occupancy = "free"
	OutOfHours   Occupancy = "out_of_hours"
	Buffer       Occupancy = "buffer"
	FixedTask    Occupancy = "fixed_task"
	PeriodTask   Occupancy = "period_task"
	FlexibleTask Occupancy = "flexible_task"
)

// IsTask reports whether the occupancy belongs to a placed task.
func (o Occupancy) IsTask() bool {
	return o == FixedTask || o == PeriodTask || o == FlexibleTask
}

// Block is the half-open interval [Start, End).
type Block struct {
	Start     time.Time
	End       time.Time
	Occupancy Occupancy
	Priority  models.Priority
	TaskID    string
}

func (b Block) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

func (b Block) overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

func (b Block) String() string {
	if b.TaskID != "" {
		return fmt.Sprintf("%s-%s %s(%s)", b.Start.Format("15:04"), b.End.Format("15:04"), b.Occupancy, b.TaskID)
	}
	return fmt.Sprintf("%s-%s %s", b.Start.Format("15:04"), b.End.Format("15:04"), b.Occupancy)
}

// PlacementResult is one of Placed, Blocked or Rejected.
type PlacementResult interface {
	isPlacementResult()
}

// Placed carries the block that was inserted.
type Placed struct {
	Block Block
}

// Blocked reports the first existing block that prevents the placement.
type Blocked struct {
	Type           planning.ConflictType
	BlockingTaskID string
	At             time.Time
}

// Rejected reports a request that can never be placed, such as an empty
// interval or one that crosses midnight.
type Rejected struct {
	Reason string
}

func (Placed) isPlacementResult()   {}
func (Blocked) isPlacementResult()  {}
func (Rejected) isPlacementResult() {}

// Interval is a half-open span of free time.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
