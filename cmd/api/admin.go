package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/auth"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
	serviceLeave "github.com/cmlabs-hris/leave-management-go/internal/service/leave"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an ADMIN account",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		req := auth.RegisterRequest{}
		req.Email, _ = flags.GetString("email")
		req.Username, _ = flags.GetString("username")
		req.Fullname, _ = flags.GetString("fullname")
		req.Password, _ = flags.GetString("password")
		req.ConfirmPassword = req.Password
		if err := req.Validate(); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash := string(hash)

		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return err
		}
		defer db.Close()

		users := postgresql.NewUserRepository(db)
		created, err := users.Create(cmd.Context(), user.User{
			Username:     req.Username,
			Email:        req.Email,
			Fullname:     req.Fullname,
			PasswordHash: &passwordHash,
			Roles:        []user.Role{user.RoleAdmin, user.RoleEmployee},
			IsActive:     true,
		})
		if errors.Is(err, user.ErrUserEmailExists) || errors.Is(err, user.ErrUsernameExists) {
			return fmt.Errorf("admin %q not created: %w", req.Email, err)
		}
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		authorizer, err := authz.New()
		if err != nil {
			return err
		}
		balances := serviceLeave.NewBalanceService(
			postgresql.NewLeaveBalanceRepository(db),
			postgresql.NewLeaveTypeRepository(db),
			users,
			authorizer,
			cfg.Leave.DefaultSummary,
		)
		if err := balances.EnsureInitialBalances(cmd.Context(), created.ID, time.Now().Year()); err != nil {
			slog.Warn("failed to create initial balances for admin", "user_id", created.ID, "error", err)
		}

		slog.Info("admin created", "user_id", created.ID, "email", created.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().String("email", "", "Admin email")
	createAdminCmd.Flags().String("username", "", "Admin username")
	createAdminCmd.Flags().String("fullname", "", "Admin full name")
	createAdminCmd.Flags().String("password", "", "Admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("fullname")
	_ = createAdminCmd.MarkFlagRequired("password")
}
