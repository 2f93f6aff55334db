package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sparkup/sparkup-api/api"
	"github.com/sparkup/sparkup-api/config"
	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/membership"
	"github.com/sparkup/sparkup-api/models"
	"github.com/sparkup/sparkup-api/notify"
)

// RequestTimeout bounds every non-websocket request
const RequestTimeout = 30 * time.Second

const (
	emailQueueSize    = 256
	emailWorkers      = 2
	maxRecentTraces   = 1000
	initializeTimeout = 15 * time.Second
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router  *mux.Router
	Config  config.Config
	Metrics *api.MetricsCollector
	Hub     *NotificationHub
	Emails  *notify.Queue
	Tx      databases.Transactor

	client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	udb := databases.NewUserDatabase(a.dbHelper)
	sdb := databases.NewStartupDatabase(a.dbHelper)

	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: udb, Tokens: api.NewTokenIssuer(a.Config.JWTSecret, a.Config.JWTTTL)}
	m.SetupGoGuardian()

	if a.Metrics == nil {
		a.Metrics = api.NewMetricsCollector(maxRecentTraces)
	}
	if a.Hub == nil {
		a.Hub = NewNotificationHub()
	}
	if a.Tx == nil {
		a.Tx = databases.DirectTransactor{}
	}

	u := User{DB: udb}
	s := Startup{
		DB:   sdb,
		UDB:  udb,
		Tx:   a.Tx,
		Flow: membership.New(),
		Notifier: &Notifier{
			UDB:     udb,
			Hub:     a.Hub,
			Emails:  a.Emails,
			BaseURL: a.Config.BaseURL,
		},
	}
	metrics := MetricsHandler{Collector: a.Metrics}

	r := mux.NewRouter()
	r.Use(a.Metrics.Middleware, api.TimeoutMiddleware(RequestTimeout))

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	r.Handle("/ws/notifications", api.Middleware(http.HandlerFunc(a.Hub.HandleNotificationsWebSocket))).Methods("GET")

	apiCreate := r.PathPrefix("/api").Subrouter()

	apiCreate.Handle("/auth/register", http.HandlerFunc(u.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/token", http.HandlerFunc(m.CreateToken)).Methods("POST")

	apiCreate.Handle("/users/me", api.Middleware(http.HandlerFunc(u.MeHandler))).Methods("GET")
	apiCreate.Handle("/users/me/notifications", api.Middleware(http.HandlerFunc(u.NotificationsHandler))).Methods("GET")
	apiCreate.Handle("/users/me/notifications/{notificationId}/read", api.Middleware(http.HandlerFunc(u.MarkNotificationReadHandler))).Methods("PUT")
	apiCreate.Handle("/users/{userId}/startups", api.Middleware(http.HandlerFunc(u.UserStartupsHandler))).Methods("GET")

	// static paths must be registered before /startups/{startupId}
	apiCreate.Handle("/startups/join/request", api.Middleware(http.HandlerFunc(s.RequestToJoinHandler))).Methods("POST")
	apiCreate.Handle("/startups/join/invite", api.Middleware(http.HandlerFunc(s.JoinViaInviteHandler))).Methods("POST")
	apiCreate.Handle("/startups/team/request", api.Middleware(http.HandlerFunc(s.HandleJoinRequestHandler))).Methods("POST")
	apiCreate.Handle("/startups/team/invite", api.Middleware(http.HandlerFunc(s.CreateInviteLinkHandler))).Methods("POST")
	apiCreate.Handle("/startups/team/role", api.Middleware(http.HandlerFunc(s.UpdateRoleHandler))).Methods("PUT")
	apiCreate.Handle("/startups/team/position", api.Middleware(http.HandlerFunc(s.UpdatePositionHandler))).Methods("PUT")
	apiCreate.Handle("/startups/team/member", api.Middleware(http.HandlerFunc(s.RemoveMemberHandler))).Methods("DELETE")

	apiCreate.Handle("/startups", api.Middleware(http.HandlerFunc(s.CreateStartupHandler))).Methods("POST")
	apiCreate.Handle("/startups", api.Middleware(http.HandlerFunc(s.StartupsHandler))).Methods("GET")
	apiCreate.Handle("/startups/{startupId}", api.Middleware(http.HandlerFunc(s.StartupHandler))).Methods("GET")
	apiCreate.Handle("/startups/{startupId}/team", api.Middleware(http.HandlerFunc(s.StartupTeamHandler))).Methods("GET")
	apiCreate.Handle("/startups/{startupId}/join-requests", api.Middleware(http.HandlerFunc(s.StartupJoinRequestsHandler))).Methods("GET")

	apiCreate.Handle("/metrics", http.HandlerFunc(metrics.GetMetricsDashboard)).Methods("GET")
	apiCreate.Handle("/metrics/summary", http.HandlerFunc(metrics.GetMetricsSummary)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {
	if err := a.Config.Validate(); err != nil {
		zap.S().Errorw("invalid config", "error", err)
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()

	client, err := databases.NewClient(ctx, &a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}
	if err := client.Ping(ctx); err != nil {
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("sparkup-api has connected to the database")

	if err := databases.NewStartupDatabase(a.dbHelper).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create startup indexes: %w", err)
	}
	if err := databases.NewUserDatabase(a.dbHelper).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	a.Tx = databases.NewTransactor(client, a.Config.Transactions)

	var mailer notify.Mailer = notify.LogMailer{}
	if a.Config.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(a.Config.SendGridAPIKey, "SparkUp", a.Config.MailFrom)
	} else {
		zap.S().Warn("SENDGRID_API_KEY is not set, emails will only be logged")
	}
	a.Emails = notify.NewQueue(mailer, emailQueueSize)
	a.Emails.Start(emailWorkers)

	// initialize api router
	a.initializeRoutes()
	return nil
}

// StartupDatabase exposes the startup store for background jobs started by main
func (a *App) StartupDatabase() databases.StartupDatabase {
	return databases.NewStartupDatabase(a.dbHelper)
}

// Close drains the email queue and disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.Emails != nil {
		a.Emails.Close()
	}
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, models.HealthCheckResponse{
		Alive: true,
	})
}
