package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"wicki/internal/config"
	"wicki/internal/domain"
	"wicki/internal/observability/logging"
	"wicki/internal/service"
	impl "wicki/internal/service/impl"
	"wicki/internal/store"
	"wicki/pkg/db"

	"golang.org/x/term"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	cfg := config.LoadDatabase()
	slog.SetDefault(logging.NewLogger(logging.Config{
		ServiceName: "wickictl",
		Environment: cfg.AppEnv,
		Level:       cfg.LogLevel,
		Output:      os.Stderr,
	}))

	ctx := context.Background()
	var err error
	switch cmd {
	case "migrate":
		err = withDB(cfg, func(gdb *gorm.DB) error {
			return store.Migrate(ctx, gdb, cfg.DatabaseDriver)
		})
	case "status":
		err = withDB(cfg, func(gdb *gorm.DB) error {
			if cfg.DatabaseDriver == db.DriverSQLite {
				fmt.Println("sqlite databases are auto-migrated; no migration history")
				return nil
			}
			return store.MigrationStatus(ctx, gdb)
		})
	case "seed-roles":
		err = withDB(cfg, func(gdb *gorm.DB) error {
			return impl.NewPermissionServiceImpl(store.New(gdb)).SeedDefaults(ctx)
		})
	case "create-admin":
		err = runCreateAdmin(ctx, cfg, args)
	case "purge-sessions":
		err = withDB(cfg, func(gdb *gorm.DB) error {
			return purge(ctx, store.New(gdb))
		})
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  migrate          Apply database migrations")
	fmt.Fprintln(os.Stderr, "  status           Show migration status (postgres)")
	fmt.Fprintln(os.Stderr, "  seed-roles       Create the default roles and permissions")
	fmt.Fprintln(os.Stderr, "  create-admin     Create a user with the admin role")
	fmt.Fprintln(os.Stderr, "  purge-sessions   Delete expired sessions and verifications")
	os.Exit(2)
}

func withDB(cfg config.Config, fn func(*gorm.DB) error) error {
	gdb, err := db.OpenGorm(db.Config{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	return fn(gdb)
}

func runCreateAdmin(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "admin email")
	username := fs.String("username", "", "admin username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *username == "" {
		return errors.New("create-admin: -email and -username are required")
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	return withDB(cfg, func(gdb *gorm.DB) error {
		if err := store.Migrate(ctx, gdb, cfg.DatabaseDriver); err != nil {
			return err
		}
		st := store.New(gdb)
		perms := impl.NewPermissionServiceImpl(st)
		if err := perms.SeedDefaults(ctx); err != nil {
			return err
		}
		auth := impl.NewAuthServiceImpl(st, impl.NewPasswordServiceArgon2id(), 0)
		meta := service.ClientMeta{UserAgent: "wickictl"}

		user, sess, err := auth.Signup(ctx, *email, *username, password, meta)
		if err != nil {
			return err
		}
		// signup signs the new user in; the CLI has no use for the session
		if err := auth.Logout(ctx, sess.ID, meta); err != nil {
			slog.Warn("drop signup session", "error", err)
		}
		if err := perms.AssignRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return err
		}
		fmt.Printf("created admin %s (%s)\n", user.Username, user.ID)
		return nil
	})
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("create-admin: password prompt needs a terminal")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("create-admin: passwords do not match")
	}
	if len(first) < 6 {
		return "", errors.New("create-admin: password must be at least 6 characters")
	}
	return string(first), nil
}

func purge(ctx context.Context, st *store.Store) error {
	now := time.Now().UTC()
	sessions, err := st.Sessions().DeleteExpired(ctx, now)
	if err != nil {
		return err
	}
	verifications, err := impl.NewVerificationServiceImpl(st, 0).PurgeExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d expired sessions, %d expired verifications\n", sessions, verifications)
	return nil
}
