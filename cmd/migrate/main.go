// Command migrate applies the embedded schema to DATABASE_URL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"mecahub-backend/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dbURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	timeout := flag.Duration("timeout", 5*time.Minute, "Lock timeout")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] up [N] | down [N] | version | force V\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || *dbURL == "" {
		flag.Usage()
		os.Exit(1)
	}

	m, err := migrations.Open(*dbURL, *timeout)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer m.Close()

	if err := run(m, args[0], args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(m *migrate.Migrate, cmd string, args []string) error {
	before, _, _ := m.Version()

	var err error
	switch cmd {
	case "up":
		if n := steps(args); n > 0 {
			err = m.Steps(n)
		} else {
			err = m.Up()
		}
	case "down":
		if n := steps(args); n > 0 {
			err = m.Steps(-n)
		} else {
			err = m.Down()
		}
	case "force":
		if len(args) < 1 {
			return errors.New("force requires a version number")
		}
		v, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("invalid version: %s", args[0])
		}
		err = m.Force(v)
	case "version":
		v, dirty, vErr := m.Version()
		if errors.Is(vErr, migrate.ErrNilVersion) {
			log.Println("No migrations have been applied yet")
			return nil
		}
		if vErr != nil {
			return fmt.Errorf("failed to get version: %w", vErr)
		}
		log.Printf("Current migration version: %d (dirty=%t)", v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("No change")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	after, _, _ := m.Version()
	log.Printf("Migration completed: %d -> %d", before, after)
	return nil
}

func steps(args []string) int {
	if len(args) == 0 {
		return 0
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatalf("invalid number of steps: %s", args[0])
	}
	return n
}
