package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/LianelaSky/Project-Alyssa/internal/prompts"
	"github.com/LianelaSky/Project-Alyssa/pkg/affect"
)

// ═══════════════════════════════════════════════════════════════════════════════
// INSPECTION COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current affective state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if a.noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			} else {
				lipgloss.SetColorProfile(termenv.EnvColorProfile())
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderState(s.cfgName, s.engine.State()))
			return nil
		},
	}
}

func historyCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent turns and the guidance they produced",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.store.RecentGuidance(cmd.Context(), s.cfgName, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "No turns recorded.")
				return nil
			}
			for _, r := range recs {
				trauma := ""
				if r.Guidance.TraumaResponseType != nil {
					trauma = " [" + *r.Guidance.TraumaResponseType + "]"
				}
				fmt.Fprintf(out, "%s  %-40q  %s / %s%s\n",
					r.TurnAt.Local().Format("2006-01-02 15:04"),
					truncate(r.Message, 38), r.Guidance.Attitude, r.Guidance.Tone, trauma)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of turns")
	return cmd
}

func promptCmd(a *app) *cobra.Command {
	var (
		name string
		raw  bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the generator prompt for the most recent turn",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.store.RecentGuidance(cmd.Context(), s.cfgName, 1)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return fmt.Errorf("no turns recorded for %s", s.cfgName)
			}

			text, err := a.renderPrompt(name, s, recs[0].Message, "", recs[0].Guidance)
			if err != nil {
				return err
			}
			if !raw {
				text = renderMarkdown(text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "template", "t", "dialogue", "template name (dialogue, action)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the prompt without markdown rendering")
	return cmd
}

// renderPrompt fills a catalog template for the session's character.
func (a *app) renderPrompt(name string, s *session, message, location string, g affect.Guidance) (string, error) {
	catalog, err := prompts.Load()
	if err != nil {
		return "", err
	}
	return catalog.Render(name, prompts.Data{
		CharacterName: s.cfgName,
		Description:   s.persona.Description,
		UserName:      a.cfg.Character.UserName,
		Message:       message,
		Location:      location,
		Memories:      recentMemories(s.engine.State(), 3),
		Guidance:      g,
	})
}

// recentMemories returns the content of the n most significant memories.
func recentMemories(st affect.State, n int) []string {
	mems := append([]affect.Memory(nil), st.Memory.Memories...)
	sort.SliceStable(mems, func(i, j int) bool { return mems[i].Significance > mems[j].Significance })
	var out []string
	for _, m := range mems {
		if len(out) == n {
			break
		}
		out = append(out, m.Content)
	}
	return out
}

func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// ═══════════════════════════════════════════════════════════════════════════════
// STATE VIEW
// ═══════════════════════════════════════════════════════════════════════════════

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Width(22)
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	lowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

const barWidth = 20

func bar(v float64) string {
	n := int(v*barWidth + 0.5)
	n = max(0, min(barWidth, n))
	filled := strings.Repeat("█", n)
	empty := strings.Repeat("░", barWidth-n)
	style := lowStyle
	if v > 0.6 {
		style = highStyle
	}
	return style.Render(filled) + dimStyle.Render(empty)
}

func renderState(name string, st affect.State) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(name))
	fmt.Fprintf(&b, "  fatigue %.1f  facade %.2f  memories %d (core %d)\n",
		st.Fatigue, st.Facade, st.Memory.Len(), len(st.Memory.Core))

	b.WriteString(sectionStyle.Render("Emotions  (felt | shown)"))
	b.WriteString("\n")
	for _, e := range affect.AllEmotions() {
		fmt.Fprintf(&b, "%s %s %.2f | %.2f\n",
			labelStyle.Render(e.String()), bar(st.Internal[e]), st.Internal[e], st.Expressed[e])
	}

	b.WriteString(sectionStyle.Render("Relationship"))
	b.WriteString("\n")
	for _, kv := range []struct {
		name string
		v    float64
	}{
		{"trust", st.Relational.Trust},
		{"intimacy", st.Relational.Intimacy},
		{"distance", st.Relational.Distance},
	} {
		fmt.Fprintf(&b, "%s %s %.2f\n", labelStyle.Render(kv.name), bar(kv.v), kv.v)
	}

	b.WriteString(sectionStyle.Render("Attachment"))
	b.WriteString("\n")
	att := st.Attachment.Map(2)
	keys := make([]string, 0, len(att))
	for k := range att {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s %s %.2f\n", labelStyle.Render(k), bar(att[k]), att[k])
	}

	b.WriteString(sectionStyle.Render("Defenses"))
	b.WriteString("\n")
	if len(st.Defenses) == 0 {
		b.WriteString(dimStyle.Render("none") + "\n")
	}
	for _, d := range st.Defenses {
		fmt.Fprintf(&b, "%s %.2f\n", labelStyle.Render(d.Kind.String()), d.Strength)
	}

	if len(st.Conflicts) > 0 {
		b.WriteString(sectionStyle.Render("Conflicts"))
		b.WriteString("\n")
		for _, c := range st.Conflicts {
			fmt.Fprintf(&b, "%s %.2f\n", labelStyle.Render(c.Label()), c.Magnitude)
		}
	}

	fmt.Fprintf(&b, "\n%s %.2f   %s %.2f\n",
		labelStyle.Render("identity coherence"), st.Identity.Coherence,
		labelStyle.Render("stability"), st.Identity.Stability)
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
