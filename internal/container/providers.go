// Package container provides dependency injection and lifecycle management
// for the request approval service.
package container

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/gleeworld/approvals/internal/application/dispatcher"
	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/application/service"
	appwf "github.com/gleeworld/approvals/internal/application/workflow"
	"github.com/gleeworld/approvals/internal/config"
	"github.com/gleeworld/approvals/internal/domain/event"
	"github.com/gleeworld/approvals/internal/infrastructure/external/sendgrid"
	"github.com/gleeworld/approvals/internal/infrastructure/external/twilio"
	"github.com/gleeworld/approvals/internal/infrastructure/persistence/repository"
	"github.com/gleeworld/approvals/internal/infrastructure/persistence/sqlite"
	"github.com/gleeworld/approvals/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// SenderBundle holds the outbound notification channels.
type SenderBundle struct {
	Email port.EmailSender
	SMS   port.SMSSender
}

// ProvideDatabase opens the database, runs pending migrations, and wraps the
// connection in a transaction manager.
func ProvideDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if cfg.MigrationsDir != "" {
		migrator := database.NewMigrator(db, logger)
		if err := migrator.RunMigrations(cfg.MigrationsDir); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &DatabaseBundle{
		SqlDB:          db.DB,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Request:      repository.NewRequestRepository(sqlDB, logger),
		Audit:        repository.NewAuditRepository(sqlDB, logger),
		Notification: repository.NewNotificationRepository(sqlDB, logger),
		Profile:      repository.NewProfileRepository(sqlDB, logger),
	}, nil
}

// ProvideSenders creates the SendGrid and Twilio delivery channels.
func ProvideSenders(emailCfg *config.EmailConfig, smsCfg *config.SMSConfig, logger *zap.Logger) (*SenderBundle, error) {
	if emailCfg == nil {
		return nil, fmt.Errorf("email config is required")
	}
	if smsCfg == nil {
		return nil, fmt.Errorf("sms config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	emailSender := sendgrid.NewSender(sendgrid.Config{
		APIKey:    emailCfg.SendGridAPIKey,
		FromName:  emailCfg.FromName,
		FromEmail: emailCfg.FromEmail,
	}, logger)

	smsSender := twilio.NewSender(twilio.Config{
		AccountSID: smsCfg.TwilioAccountSID,
		AuthToken:  smsCfg.TwilioAuthToken,
		FromNumber: smsCfg.FromNumber,
	}, logger)

	return &SenderBundle{
		Email: emailSender,
		SMS:   smsSender,
	}, nil
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	dispatcherLogger := &dispatcherLoggerAdapter{logger: logger}

	return dispatcher.NewDispatcher(
		dispatcher.WithLogger(dispatcherLogger),
	), nil
}

// EngineDeps holds dependencies required for creating the workflow engine.
type EngineDeps struct {
	Repos      *RepositoryBundle
	TxManager  port.TransactionManager
	Notifier   appwf.Notifier
	Dispatcher dispatcher.Dispatcher
	Logger     *zap.Logger
}

// ProvideEngine creates the workflow engine and registers the lifecycle event
// observers on the dispatcher.
func ProvideEngine(deps *EngineDeps) (appwf.Engine, error) {
	if deps == nil {
		return nil, fmt.Errorf("engine dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	engineLogger := &zapLoggerAdapter{logger: deps.Logger}

	opts := []appwf.EngineOption{}
	if deps.Notifier != nil {
		opts = append(opts, appwf.WithNotifier(deps.Notifier))
	}
	if deps.Dispatcher != nil {
		opts = append(opts, appwf.WithDispatcher(deps.Dispatcher))
	}

	engine := appwf.NewEngine(
		deps.Repos.Request,
		deps.Repos.Audit,
		deps.Repos.Profile,
		deps.TxManager,
		engineLogger,
		opts...,
	)

	if deps.Dispatcher != nil {
		observer := createLifecycleObserver(deps.Logger)
		deps.Dispatcher.Subscribe(event.TypeRequestCreated, "lifecycle_observer", observer)
		deps.Dispatcher.Subscribe(event.TypeStateChanged, "lifecycle_observer", observer)
		deps.Dispatcher.Subscribe(event.TypeRequestDeleted, "lifecycle_observer", observer)
		deps.Dispatcher.Subscribe(event.TypeNotificationFailed, "lifecycle_observer", observer)
	}

	return engine, nil
}

// createLifecycleObserver returns a handler that records request lifecycle
// events, giving operators a single trace of every request's path.
func createLifecycleObserver(logger *zap.Logger) dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		fields := []zap.Field{
			zap.String("event_id", evt.ID),
			zap.String("event_type", evt.Type.String()),
			zap.String("request_id", evt.RequestID),
		}
		if from := evt.GetPayloadString("previous_status"); from != "" {
			fields = append(fields, zap.String("from", from))
		}
		if to := evt.GetPayloadString("new_status"); to != "" {
			fields = append(fields, zap.String("to", to))
		}

		logger.Info("Request lifecycle event", fields...)
		return nil
	}
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos        *RepositoryBundle
	TxManager    port.TransactionManager
	Notification service.NotificationService
	Engine       appwf.Engine
	Dispatcher   dispatcher.Dispatcher
	Logger       *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("workflow engine is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	return &ServiceBundle{
		Request: service.NewRequestService(
			deps.Repos.Request,
			deps.Repos.Audit,
			deps.Repos.Profile,
			deps.TxManager,
			deps.Engine,
			deps.Notification,
			deps.Dispatcher,
			serviceLogger,
		),
		Report:       service.NewReportService(deps.Repos.Request, serviceLogger),
		Notification: deps.Notification,
	}, nil
}

// ProvideNotificationService creates the notification service alone, for use
// as the engine's notifier.
func ProvideNotificationService(repos *RepositoryBundle, senders *SenderBundle, logger *zap.Logger) (service.NotificationService, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if senders == nil {
		return nil, fmt.Errorf("senders are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return service.NewNotificationService(
		repos.Profile,
		repos.Notification,
		senders.Email,
		senders.SMS,
		&zapLoggerAdapter{logger: logger},
	), nil
}
