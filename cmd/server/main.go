package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	accounts "github.com/agroapi/go-accounts"
	"github.com/agroapi/go-accounts/config"
	"github.com/agroapi/go-accounts/middleware/keyware"
	"github.com/agroapi/go-accounts/notify"
	"github.com/agroapi/go-accounts/resources"
	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	repo   accounts.RepositoryManager
	srv    *fiber.App
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) SetDB(db *bun.DB) {
	a.bunDB = db
}

func (a *App) SetRepository(repo accounts.RepositoryManager) {
	a.repo = repo
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("accounts"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	fmt.Println("============")

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(app); err != nil {
		panic(err)
	}

	go func() {
		if err := app.srv.Listen(app.Config().GetServer().GetAddress()); err != nil {
			lgr.GetLogger("http").Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		lgr.GetLogger("http").Error("shutdown", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		log.Fatal(err)
		return err
	}

	persistence.RegisterModel((*accounts.Account)(nil))
	persistence.RegisterModel((*resources.Farm)(nil))
	persistence.RegisterModel((*resources.Crop)(nil))
	persistence.RegisterModel((*resources.Pest)(nil))
	persistence.RegisterModel((*resources.Record)(nil))
	persistence.RegisterModel((*resources.Comment)(nil))

	cfg := app.Config().GetPersistence()
	dialect := sqlitedialect.New()
	client, err := persistence.New(cfg, db, dialect)
	if err != nil {
		log.Fatal(err)
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))
	migrationsFS, err := fs.Sub(accounts.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	repo := accounts.NewRepositoryManager(client.DB())
	if err := repo.Validate(); err != nil {
		return err
	}

	app.SetDB(client.DB())
	app.SetRepository(repo)

	return nil
}

func WithHTTPServer(app *App) error {
	smtp := app.Config().GetSMTP()

	mailer := notify.NewMailer(notify.Config{
		Host:     smtp.GetHost(),
		Port:     smtp.GetPort(),
		Username: smtp.GetUsername(),
		Password: smtp.GetPassword(),
		From:     smtp.GetFrom(),
		BaseURL:  app.Config().GetServer().GetBaseURL(),
	}).WithLogger(app.GetLogger("notify"))

	srv := fiber.New(fiber.Config{
		AppName:       app.Config().GetApp().GetName(),
		StrictRouting: false,
		UnescapePath:  true,
	})

	ctrl := accounts.NewAuthController(app.repo).
		WithNotifier(mailer).
		WithLogger(app.GetLogger("auth:http"))

	ctrl.RegisterRoutes(srv)

	guard := accounts.NewKeyGuard(app.repo.Accounts()).
		WithLogger(app.GetLogger("auth:guard"))

	userware := keyware.New(keyware.Config{
		Guard:             guard,
		ContextKey:        ctrl.IdentityKey,
		RequireCapability: accounts.CapabilityUser,
	})

	adminware := keyware.New(keyware.Config{
		Guard:            guard,
		ContextKey:       ctrl.IdentityKey,
		RequireSuperuser: true,
	})

	srv.Put(ctrl.Routes.ChangePassword, userware, ctrl.ChangePasswordPut)
	srv.Put(ctrl.Routes.Disable, adminware, ctrl.DisablePut)
	srv.Put(ctrl.Routes.Enable, adminware, ctrl.EnablePut)

	resources.MountAll(srv, resources.NewManager(app.bunDB), userware)

	app.srv = srv

	return nil
}

func WaitExitSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(
		quit,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	return <-quit
}
