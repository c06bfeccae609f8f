package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/skillboard/internal/catalog"
	"github.com/zjrosen/skillboard/internal/config"
	"github.com/zjrosen/skillboard/internal/presentation"
	"github.com/zjrosen/skillboard/internal/skills"
)

var (
	listJSON    bool
	saveDefault bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved skills",
	Long: `Show saved skills in their stored order.

Examples:
  skillboard list
  skillboard list --json | jq '.[].name'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withServices(cmd, func(ctx context.Context, svc *services) error {
			if svc.loadErr != nil {
				return svc.loadErr
			}
			f := presentation.NewFormatter(cmd.OutOrStdout())
			dtos := presentation.FromSkills(svc.registry.Skills())
			if listJSON {
				return f.FormatSkillsJSON(dtos)
			}
			return f.FormatSkills(dtos)
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a skill at level 3",
	Long: `Add a skill. The name must be in the catalog (case-insensitive) and not
already present. It is saved as typed, at level 3.

Examples:
  skillboard add Go
  skillboard add "objective-c"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, svc *services) error {
			if err := svc.requireLoaded(); err != nil {
				return err
			}
			added, err := svc.registry.Add(ctx, args[0])
			var invalid *skills.InvalidCatalogEntryError
			switch {
			case errors.As(err, &invalid):
				if hints := svc.catalog.Search(invalid.Name, 5); len(hints) > 0 {
					return fmt.Errorf("%w (did you mean %s?)", skills.ErrInvalidCatalogEntry, strings.Join(hints, ", "))
				}
				return skills.ErrInvalidCatalogEntry
			case errors.Is(err, skills.ErrEmptyInput):
				return errors.New("skill name is empty")
			case err != nil:
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", added, added.ID)
			return err
		})
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"remove"},
	Short:   "Remove a skill",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, svc *services) error {
			if err := svc.requireLoaded(); err != nil {
				return err
			}
			s, err := resolveSkill(svc.registry, args[0])
			if err != nil {
				return err
			}
			if err := svc.registry.Remove(ctx, s.ID); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", s.Name)
			return err
		})
	},
}

var levelCmd = &cobra.Command{
	Use:   "level <id|name> <1-5>",
	Short: "Set a skill's level",
	Long: `Set a skill's level on the five step scale:

  1  Aware of it
  2  Have tried it
  3  Can use it with references
  4  Delivered it on multiple projects
  5  Can teach others`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[1])
		if err != nil || !skills.ValidLevel(level) {
			return fmt.Errorf("level must be a number from %d to %d, got %q", skills.MinLevel, skills.MaxLevel, args[1])
		}
		return withServices(cmd, func(ctx context.Context, svc *services) error {
			if err := svc.requireLoaded(); err != nil {
				return err
			}
			s, err := resolveSkill(svc.registry, args[0])
			if err != nil {
				return err
			}
			if err := svc.registry.SetLevel(ctx, s.ID, level); err != nil {
				return err
			}
			updated, _ := svc.registry.Get(s.ID)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", updated, updated.Label())
			return err
		})
	},
}

var sortCmd = &cobra.Command{
	Use:       "sort <level-asc|level-desc|name-asc|name-desc>",
	Short:     "Reorder saved skills",
	ValidArgs: []string{"level-asc", "level-desc", "name-asc", "name-desc"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		criterion, err := skills.ParseSortCriterion(args[0])
		if err != nil {
			return err
		}
		return withServices(cmd, func(ctx context.Context, svc *services) error {
			if err := svc.requireLoaded(); err != nil {
				return err
			}
			if err := svc.registry.Sort(ctx, criterion); err != nil {
				return err
			}
			if saveDefault {
				path := cfgUsed
				if path == "" {
					path = config.DefaultConfigPath()
				}
				if err := config.SaveValue(path, "ui.default_sort", string(criterion)); err != nil {
					return fmt.Errorf("saving default sort: %w", err)
				}
			}
			return presentation.NewFormatter(cmd.OutOrStdout()).FormatSkills(presentation.FromSkills(svc.registry.Skills()))
		})
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON instead of a table")
	sortCmd.Flags().BoolVar(&saveDefault, "save-default", false, "also sort this way every time the board starts")
	rootCmd.AddCommand(listCmd, addCmd, rmCmd, levelCmd, sortCmd)
}

// withServices opens the store for one command and closes it afterwards.
func withServices(cmd *cobra.Command, fn func(context.Context, *services) error) (err error) {
	cleanupLog, err := initLogging(false)
	if err != nil {
		return err
	}
	defer cleanupLog()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := openServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svc.Close(ctx); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ctx, svc)
}

// resolveSkill finds a skill by id, then by case-insensitive name.
func resolveSkill(reg *skills.Registry, ref string) (skills.Skill, error) {
	if s, ok := reg.Get(ref); ok {
		return s, nil
	}
	folded := catalog.Fold(strings.TrimSpace(ref))
	for _, s := range reg.Skills() {
		if catalog.Fold(s.Name) == folded {
			return s, nil
		}
	}
	return skills.Skill{}, fmt.Errorf("no skill matches %q", ref)
}
