package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/team"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

const defaultTeamName = "General"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default leave types and the default team",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		if err := seedLeaveTypes(ctx, postgresql.NewLeaveTypeRepository(db), cfg.Leave.DefaultSummary); err != nil {
			return err
		}
		return seedTeam(ctx, postgresql.NewTeamRepository(db))
	},
}

// seedLeaveTypes creates one leave type per default summary entry, skipping names that already exist.
func seedLeaveTypes(ctx context.Context, repo leave.LeaveTypeRepository, summary map[string]int) error {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, err := repo.GetByName(ctx, name)
		if err == nil {
			slog.Info("leave type exists, skipping", "name", name)
			continue
		}
		if !errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return fmt.Errorf("failed to look up leave type %q: %w", name, err)
		}

		created, err := repo.Create(ctx, leave.LeaveType{Name: displayName(name), MaxDays: summary[name]})
		if errors.Is(err, leave.ErrLeaveTypeNameExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed leave type %q: %w", name, err)
		}
		slog.Info("leave type seeded", "id", created.ID, "name", created.Name, "max_days", created.MaxDays)
	}
	return nil
}

func seedTeam(ctx context.Context, repo team.TeamRepository) error {
	created, err := repo.Create(ctx, team.Team{Name: defaultTeamName})
	if errors.Is(err, team.ErrTeamNameExists) {
		slog.Info("team exists, skipping", "name", defaultTeamName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed team: %w", err)
	}
	slog.Info("team seeded", "id", created.ID, "name", created.Name)
	return nil
}

// displayName turns "annual" into "Annual".
func displayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
