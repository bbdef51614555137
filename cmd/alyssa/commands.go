package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LianelaSky/Project-Alyssa/pkg/affect"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TURN COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func turnCmd(a *app) *cobra.Command {
	var (
		pairs      []string
		location   string
		showPrompt bool
	)

	cmd := &cobra.Command{
		Use:   "turn [message]",
		Short: "Process one message and print the guidance",
		Long: `Process one message from the user and print the resulting guidance as JSON.

Context flags are passed as key=value pairs:
  --ctx is_user_threatening=true
  --ctx trauma_triggers=storm,dark
  --ctx interlocutor_emotions=joy:0.8,anger:0.2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			message := strings.Join(args, " ")

			raw, err := parseContextPairs(pairs)
			if err != nil {
				return err
			}
			if location != "" {
				raw["location"] = location
			}
			if _, ok := raw["high_impact_event"]; !ok && affect.DetectHighImpact(message) {
				raw["high_impact_event"] = true
			}
			if _, ok := raw["user_name"]; !ok {
				raw["user_name"] = a.cfg.Character.UserName
			}

			s, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			now := time.Now()
			if h := elapsedHours(a.cfg.Engine.TurnHours, s.engine.State().LastInteraction, now); h > 0 {
				s.engine.UpdateFatigue(h, false)
			}
			g := s.engine.ProcessInteraction(message, affect.ParseContext(raw))

			if err := s.store.AppendGuidance(ctx, s.cfgName, now, message, g); err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			if showPrompt {
				out, err := a.renderPrompt("dialogue", s, message, location, g)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			return writeJSON(cmd, g)
		},
	}

	cmd.Flags().StringArrayVar(&pairs, "ctx", nil, "context flag as key=value (repeatable)")
	cmd.Flags().StringVar(&location, "location", "", "where the conversation takes place")
	cmd.Flags().BoolVar(&showPrompt, "prompt", false, "print the rendered dialogue prompt instead of JSON")
	return cmd
}

func fatigueCmd(a *app) *cobra.Command {
	var (
		hours    float64
		sleeping bool
	)

	cmd := &cobra.Command{
		Use:   "fatigue",
		Short: "Advance fatigue by elapsed hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			before := s.engine.State().Fatigue
			s.engine.UpdateFatigue(hours, sleeping)
			if err := s.save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fatigue: %.1f -> %.1f\n", before, s.engine.State().Fatigue)
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 1, "elapsed hours")
	cmd.Flags().BoolVar(&sleeping, "sleeping", false, "the character slept through the hours")
	return cmd
}

func sleepCmd(a *app) *cobra.Command {
	var hours float64

	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Sleep: dampen strong emotions and recover fatigue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if hours <= 0 {
				hours = a.cfg.Engine.SleepHours
			}

			s, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			before := s.engine.State().Fatigue
			s.engine.ProcessSleepCycle()
			s.engine.UpdateFatigue(hours, true)
			if err := s.save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Slept %.1fh. Fatigue: %.1f -> %.1f\n", hours, before, s.engine.State().Fatigue)
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "hours slept (default engine.sleep_hours)")
	return cmd
}

func resetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard accumulated state and memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			s.engine.Reset()
			if err := s.save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s has been reset.\n", s.cfgName)
			return nil
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ═══════════════════════════════════════════════════════════════════════════════

var listKeys = map[string]bool{
	"trauma_triggers":        true,
	"inappropriate_emotions": true,
}

var mapKeys = map[string]bool{
	"interlocutor_emotions": true,
}

// parseContextPairs turns key=value flags into the raw map ParseContext
// accepts. Values become bools or numbers when they parse as such. List keys
// split on commas and map keys take name:value lists.
func parseContextPairs(pairs []string) (map[string]any, error) {
	raw := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid context flag %q, want key=value", p)
		}
		value = strings.TrimSpace(value)

		switch {
		case listKeys[key]:
			var items []any
			for _, item := range strings.Split(value, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			raw[key] = items
		case mapKeys[key]:
			m := make(map[string]any)
			for _, item := range strings.Split(value, ",") {
				if strings.TrimSpace(item) == "" {
					continue
				}
				name, num, _ := strings.Cut(item, ":")
				f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
				if err != nil {
					return nil, fmt.Errorf("invalid value in %q: %w", p, err)
				}
				m[strings.TrimSpace(name)] = f
			}
			raw[key] = m
		default:
			raw[key] = scalar(value)
		}
	}
	return raw, nil
}

func scalar(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
