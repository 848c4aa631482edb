package plans

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/scheduler"
	"github.com/julianstephens/autoplan/internal/utils"
)

// BuildDayPlans converts a planning report into one unsaved plan revision per
// date of the window. Dates without placements get an empty plan so a stale
// draft is replaced.
func BuildDayPlans(plan scheduler.Plan, status models.SlotStatus) []models.DayPlan {
	var out []models.DayPlan
	for _, day := range plan.Window.Days() {
		date := utils.DateKey(day)
		dp := models.DayPlan{Date: date, Slots: []models.Slot{}}
		for _, item := range plan.Scheduled[date] {
			dp.Slots = append(dp.Slots, models.Slot{
				Start:  item.Start.Format(constants.TimeFormat),
				End:    item.End.Format(constants.TimeFormat),
				TaskID: item.Task.ID,
				Status: status,
			})
		}
		out = append(out, dp)
	}
	return out
}

// RenderPlan writes a human-readable report of plan.
func RenderPlan(w io.Writer, plan scheduler.Plan) {
	first, last := utils.DateKey(plan.Window.Start), utils.DateKey(plan.Window.LastDay())
	title := "Plan for " + first
	if first != last {
		title = fmt.Sprintf("Plan for %s to %s", first, last)
	}
	fmt.Fprintln(w, cli.HeaderStyle.Render(title))

	for _, day := range plan.Window.Days() {
		date := utils.DateKey(day)
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.DateStyle.Render(day.Format("Mon 2006-01-02")))
		items := plan.Scheduled[date]
		if len(items) == 0 {
			fmt.Fprintln(w, "  "+cli.MutedStyle.Render("nothing scheduled"))
			continue
		}
		for _, item := range items {
			span := fmt.Sprintf("%s-%s", item.Start.Format(constants.TimeFormat), item.End.Format(constants.TimeFormat))
			fmt.Fprintf(w, "  %s  %s\n", cli.TimeStyle.Render(span), item.Task.Name)
		}
	}

	if len(plan.Notices) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.HeaderStyle.Render("Notices:"))
		for _, n := range plan.Notices {
			fmt.Fprintln(w, "  "+cli.NoticeStyle.Render(fmt.Sprintf("%s: %s", n.TaskName, n.Message)))
		}
	}

	if len(plan.Conflicts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.HeaderStyle.Render("Conflicts:"))
		for _, c := range plan.Conflicts {
			fmt.Fprintln(w, "  "+cli.ConflictStyle.Render(c.String()))
		}
	}

	if len(plan.Postponed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.HeaderStyle.Render("Postponed:"))
		fmt.Fprintln(w, "  "+taskNames(plan.Postponed))
	}

	if len(plan.ManualResolution) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.HeaderStyle.Render("Needs review:"))
		fmt.Fprintln(w, "  "+taskNames(plan.ManualResolution))
	}
}

func taskNames(tasks []models.Task) string {
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
