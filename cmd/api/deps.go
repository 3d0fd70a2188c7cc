package main

import (
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/auth"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	domainNotification "github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/team"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/cache"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/email"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/queue"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/sse"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/leave-management-go/internal/service/auth"
	serviceDashboard "github.com/cmlabs-hris/leave-management-go/internal/service/dashboard"
	serviceHoliday "github.com/cmlabs-hris/leave-management-go/internal/service/holiday"
	serviceLeave "github.com/cmlabs-hris/leave-management-go/internal/service/leave"
	serviceNotification "github.com/cmlabs-hris/leave-management-go/internal/service/notification"
	serviceProfile "github.com/cmlabs-hris/leave-management-go/internal/service/profile"
	serviceTeam "github.com/cmlabs-hris/leave-management-go/internal/service/team"
	serviceUser "github.com/cmlabs-hris/leave-management-go/internal/service/user"
	"github.com/redis/go-redis/v9"
)

const transportAMQP = "amqp"

// repositories holds every postgres repository.
type repositories struct {
	users        user.UserRepository
	teams        team.TeamRepository
	refresh      postgresql.RefreshTokenRepository
	leaveTypes   leave.LeaveTypeRepository
	balances     leave.BalanceRepository
	requests     leave.RequestRepository
	profiles     profile.ProfileRepository
	activities   profile.ActivityRepository
	performances profile.PerformanceRepository
	dashboard    dashboard.DashboardRepository
	tx           leave.Transactor
}

func newRepositories(db *database.DB) repositories {
	return repositories{
		users:        postgresql.NewUserRepository(db),
		teams:        postgresql.NewTeamRepository(db),
		refresh:      postgresql.NewRefreshTokenRepository(db),
		leaveTypes:   postgresql.NewLeaveTypeRepository(db),
		balances:     postgresql.NewLeaveBalanceRepository(db),
		requests:     postgresql.NewLeaveRequestRepository(db),
		profiles:     postgresql.NewProfileRepository(db),
		activities:   postgresql.NewActivityRepository(db),
		performances: postgresql.NewPerformanceRepository(db),
		dashboard:    postgresql.NewDashboardRepository(db),
		tx:           postgresql.NewTransactor(db),
	}
}

// services holds the wired application services plus the resources that need closing.
type services struct {
	jwt        jwt.Service
	auth       auth.AuthService
	leaveTypes leave.TypeService
	balances   leave.BalanceService
	requests   leave.RequestService
	teams      team.TeamService
	users      user.UserService
	profiles   profile.ProfileService
	dashboard  dashboard.DashboardService
	holidays   holiday.HolidayService

	hub        *sse.Hub
	dispatcher *serviceNotification.Dispatcher
	publisher  *queue.Publisher
	redis      *redis.Client
}

func (s *services) Close() {
	s.dispatcher.Stop()
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			slog.Warn("failed to close queue publisher", "error", err)
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

// newNotificationChannels picks delivery channels for the configured transport. With amqp,
// email leaves this process through the queue and the worker command sends it.
func newNotificationChannels(hub *sse.Hub) ([]domainNotification.Channel, *queue.Publisher, error) {
	channels := []domainNotification.Channel{serviceNotification.NewLiveChannel(hub)}

	if cfg.Notification.Transport == transportAMQP {
		publisher := queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		return append(channels, serviceNotification.NewQueueChannel(publisher)), publisher, nil
	}

	mailer, err := email.NewEmailService(cfg.SMTP, cfg.App.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize email service: %w", err)
	}
	return append(channels, serviceNotification.NewEmailChannel(mailer)), nil, nil
}

func newServices(db *database.DB) (*services, error) {
	repos := newRepositories(db)

	authorizer, err := authz.New()
	if err != nil {
		return nil, err
	}
	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return nil, err
	}

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google)
	}

	rdb := cache.NewRedisClient(cfg.Redis)
	leaveTypeCache := cache.New(rdb, cfg.Redis.CacheTTL)

	hub := sse.NewHub()
	channels, publisher, err := newNotificationChannels(hub)
	if err != nil {
		return nil, err
	}
	dispatcher := serviceNotification.NewDispatcher(serviceNotification.Config{
		WorkerCount: cfg.Notification.WorkerCount,
		QueueSize:   cfg.Notification.QueueSize,
	}, channels...)

	balanceService := serviceLeave.NewBalanceService(repos.balances, repos.leaveTypes, repos.users, authorizer, cfg.Leave.DefaultSummary)

	return &services{
		jwt:        jwtService,
		auth:       serviceAuth.NewAuthService(repos.users, jwtService, repos.refresh, balanceService, googleService, repos.tx),
		leaveTypes: serviceLeave.NewTypeService(repos.leaveTypes, authorizer, leaveTypeCache),
		balances:   balanceService,
		requests: serviceLeave.NewRequestService(
			repos.requests,
			repos.leaveTypes,
			repos.users,
			repos.activities,
			balanceService,
			repos.tx,
			dispatcher,
			authorizer,
		),
		teams:    serviceTeam.NewTeamService(repos.teams, authorizer),
		users:    serviceUser.NewUserService(repos.users, repos.refresh, authorizer),
		profiles: serviceProfile.NewProfileService(repos.profiles, repos.activities, repos.performances, repos.users, repos.tx, authorizer),
		dashboard: serviceDashboard.NewDashboardService(
			repos.dashboard,
			repos.users,
			repos.profiles,
			repos.activities,
			repos.requests,
			balanceService,
			authorizer,
		),
		holidays: serviceHoliday.NewHolidayService(cfg.Holidays),

		hub:        hub,
		dispatcher: dispatcher,
		publisher:  publisher,
		redis:      rdb,
	}, nil
}
