package settings

import (
	"fmt"

	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/config"
	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/models"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show current settings."`
	Set  SettingsSetCmd  `cmd:"" help:"Update stored settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	stored, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&stored)
	effective, err := ctx.Overrides.Apply(stored)
	if err != nil {
		return fmt.Errorf("invalid configuration override: %w", err)
	}

	ctx.Println(cli.HeaderStyle.Render("Current Settings:"))
	rows := []struct {
		label           string
		stored, current string
	}{
		{"Day Start", stored.DayStart, effective.DayStart},
		{"Day End", stored.DayEnd, effective.DayEnd},
		{"Timezone", stored.Timezone, effective.Timezone},
		{"Schedule Scope", string(stored.Scope), string(effective.Scope)},
		{"Prioritization", string(stored.Strategy), string(effective.Strategy)},
		{"Day Organization", string(stored.Organization), string(effective.Organization)},
		{"Overdue Handling", string(stored.Overdue), string(effective.Overdue)},
		{"Placement", string(stored.Heuristic), string(effective.Heuristic)},
		{"Allow Splitting", fmt.Sprint(stored.AllowSplitting), fmt.Sprint(effective.AllowSplitting)},
	}
	for _, r := range rows {
		line := fmt.Sprintf("  %-18s %s", r.label+":", r.current)
		if r.current != r.stored {
			line += " " + cli.MutedStyle.Render(fmt.Sprintf("(stored: %s, overridden by %s*)", r.stored, constants.EnvPrefix))
		}
		ctx.Println(line)
	}
	return nil
}

type SettingsSetCmd struct {
	DayStart       *string `help:"Work start (HH:MM)."`
	DayEnd         *string `help:"Work end (HH:MM), may be earlier than the start to wrap past midnight."`
	Timezone       *string `help:"IANA timezone name or Local."`
	Scope          *string `help:"Planning window (today|tomorrow|this_week)."`
	Strategy       *string `help:"Prioritization (by_urgency|by_importance|by_duration)."`
	Organization   *string `help:"Day organization (compact|buffered|balanced)."`
	Overdue        *string `help:"Overdue handling (postpone_to_tomorrow|user_review_required|next_available)."`
	Heuristic      *string `help:"Placement heuristic (earliest_fit|best_fit)."`
	AllowSplitting *bool   `help:"Allow splittable tasks to be split." negatable:""`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	// Reuse the override layer so flags and environment share validation.
	o := config.Overrides{}
	updated := false
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{c.DayStart, &o.DayStart},
		{c.DayEnd, &o.DayEnd},
		{c.Timezone, &o.Timezone},
		{c.Scope, &o.Scope},
		{c.Strategy, &o.Strategy},
		{c.Organization, &o.Organization},
		{c.Overdue, &o.Overdue},
		{c.Heuristic, &o.Heuristic},
	} {
		if f.src != nil {
			*f.dst = *f.src
			updated = true
		}
	}
	if c.AllowSplitting != nil {
		o.AllowSplitting = fmt.Sprint(*c.AllowSplitting)
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'autoplan settings show' to view settings or flags to update them.")
		return nil
	}

	next, err := o.Apply(settings)
	if err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
