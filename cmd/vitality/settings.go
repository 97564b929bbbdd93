package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
	"github.com/vitalitypact/vitalitypact/pkg/settings"
)

func newSettingsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change partner and reward settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			prefs, err := a.svc.Settings(cmd.Context(), a.user)
			if err != nil {
				return err
			}
			if g.format == "json" {
				return printJSON(cmd.OutOrStdout(), prefs)
			}
			printSettings(cmd.OutOrStdout(), prefs)
			return nil
		},
	}
	cmd.AddCommand(newSettingsSetCmd(g))
	return cmd
}

func newSettingsSetCmd(g *globalFlags) *cobra.Command {
	var (
		character string
		style     string
		trigger   string
		rewards   []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings; unset flags keep their current value",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			prefs, err := a.svc.Settings(cmd.Context(), a.user)
			if err != nil {
				return err
			}
			if err := applySettingsFlags(&prefs, character, style, trigger, rewards); err != nil {
				return err
			}
			if err := a.svc.SaveSettings(cmd.Context(), a.user, prefs); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&character, "character", "", "Partner character ID")
	f.StringVar(&style, "style", "", "Dialogue style")
	f.StringVar(&trigger, "trigger", "", "Lowest health level that earns a reward")
	f.StringArrayVar(&rewards, "reward", nil, "Reward text as level=text, repeatable")
	return cmd
}

func applySettingsFlags(prefs *settings.Settings, character, style, trigger string, rewards []string) error {
	if character != "" {
		prefs.CharacterID = character
	}
	if style != "" {
		s, err := dialogue.ParseStyle(style)
		if err != nil {
			return err
		}
		prefs.Style = s
	}
	if trigger != "" {
		level, err := scoring.ParseHealthLevel(trigger)
		if err != nil {
			return err
		}
		prefs.RewardTriggerLevel = level
	}
	for _, r := range rewards {
		name, text, ok := strings.Cut(r, "=")
		if !ok {
			return fmt.Errorf("reward %q: want level=text", r)
		}
		level, err := scoring.ParseHealthLevel(name)
		if err != nil {
			return err
		}
		if prefs.RewardTexts == nil {
			prefs.RewardTexts = make(map[scoring.HealthLevel]string)
		}
		prefs.RewardTexts[level] = text
	}
	return nil
}

func printSettings(w io.Writer, prefs settings.Settings) {
	fmt.Fprintf(w, "Character: %s\n", prefs.CharacterID)
	fmt.Fprintf(w, "Style:     %s\n", prefs.Style.DisplayName())
	fmt.Fprintf(w, "Rewards from %s and up:\n", prefs.RewardTriggerLevel)
	for _, level := range scoring.AllLevels() {
		if level < prefs.RewardTriggerLevel {
			continue
		}
		r := prefs.RewardFor(level)
		fmt.Fprintf(w, "  %-9s %s %s\n", level, r.Icon, r.Text)
	}
}

func newChatCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Talk to your partner about today",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			reply, err := a.svc.Chat(cmd.Context(), a.user, nil, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
