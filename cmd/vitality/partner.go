package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/unlock"
)

func newPartnerCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partner",
		Short: "Inspect or reset partner progression",
	}
	cmd.AddCommand(newPartnerShowCmd(g), newPartnerResetCmd(g))
	return cmd
}

func newPartnerShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show [partner-id]",
		Short: "Show a partner's level and attributes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			partnerID := a.cfg.Partner
			if len(args) == 1 {
				partnerID = args[0]
			}
			if partnerID == "" {
				prefs, err := a.svc.Settings(cmd.Context(), a.user)
				if err != nil {
					return err
				}
				partnerID = prefs.CharacterID
			}

			attrs, err := a.svc.Partner(cmd.Context(), a.user, partnerID)
			if err != nil {
				return err
			}
			if g.format == "json" {
				return printJSON(cmd.OutOrStdout(), attrs)
			}
			printPartner(cmd.OutOrStdout(), attrs)
			return nil
		},
	}
}

func newPartnerResetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset every partner to level 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.ResetPartners(cmd.Context(), a.user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset partners for %s.\n", a.user)
			return nil
		},
	}
}

func printPartner(w io.Writer, p progression.PartnerAttributes) {
	fmt.Fprintf(w, "Partner %s: Lv %d\n", p.PartnerID, p.Level)
	fmt.Fprintf(w, "Experience: %d/%d (%.0f%%)\n", p.Experience, p.ExperienceToNextLevel(), p.ExperiencePercentage()*100)
	fmt.Fprintf(w, "STR %d  VIT %d  AGI %d  WIS %d  Power %d\n", p.Strength, p.Vitality, p.Agility, p.Wisdom, p.TotalPower())
	fmt.Fprintf(w, "Days active: %d\n", p.TotalDaysActive)
}

func newCharactersCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "characters",
		Short: "List and unlock partner characters",
	}
	cmd.AddCommand(newCharactersListCmd(g), newCharactersUnlockCmd(g))
	return cmd
}

func newCharactersListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every character and whether it is unlocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			statuses, err := a.svc.Characters(cmd.Context(), a.user)
			if err != nil {
				return err
			}
			if g.format == "json" {
				return printJSON(cmd.OutOrStdout(), statuses)
			}
			printCharacters(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
}

func newCharactersUnlockCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <character-id>",
		Short: "Unlock a character with today's currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.UnlockCharacter(cmd.Context(), a.user, args[0])
			if err != nil {
				return err
			}
			if g.format == "json" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if !res.Unlocked {
				return fmt.Errorf("%s costs %d, today's currency is %d", res.Character.Name, res.Character.UnlockCost, res.Available)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlocked %s.\n", res.Character.Name)
			return nil
		},
	}
}

func printCharacters(w io.Writer, statuses []unlock.Status) {
	for _, s := range statuses {
		mark := " "
		if s.Unlocked {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-10s %-16s %-8s %6d\n", mark, s.ID, s.Name, s.Style, s.UnlockCost)
	}
}
