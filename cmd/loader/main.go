package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"corpkb/pkg/core/artifacts"
	"corpkb/pkg/core/config"
	"corpkb/pkg/core/store"
)

// Loads the latest run's master tables into Postgres. Run after a passing
// QC audit; DATABASE_URL supplies the connection string.
func main() {
	godotenv.Load()

	configPath := flag.String("config", "", "path to run config (hjson)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}

	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		logrus.WithError(err).Fatal("database")
	}
	defer store.Close()

	repo := store.NewMasterRepo(store.GetPool())
	if err := repo.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("schema")
	}

	parentsPath, err := artifacts.Latest(cfg.Paths.CleanDir, "parents_master", "csv")
	if err != nil {
		logrus.WithError(err).Fatal("locate parents master")
	}
	runDate := artifacts.DateToken(parentsPath)

	parents, err := artifacts.ReadParents(parentsPath)
	if err != nil {
		logrus.WithError(err).Fatal("read parents master")
	}
	n, err := repo.LoadParents(ctx, runDate, parents)
	if err != nil {
		logrus.WithError(err).Fatal("load parents master")
	}
	fmt.Printf("parents_master: %d rows\n", n)

	if path, err := artifacts.Latest(cfg.Paths.CleanDir, "subs_master", "csv"); err == nil {
		subs, readErr := artifacts.ReadSubsidiaries(path)
		if readErr != nil {
			logrus.WithError(readErr).Fatal("read subs master")
		}
		n, loadErr := repo.LoadSubsidiaries(ctx, runDate, subs)
		if loadErr != nil {
			logrus.WithError(loadErr).Fatal("load subs master")
		}
		fmt.Printf("subs_master: %d rows\n", n)
	} else {
		logrus.WithError(err).Warn("no subs master to load")
	}

	if path, err := artifacts.Latest(cfg.Paths.CleanDir, "addresses_master", "csv"); err == nil {
		addrs, readErr := artifacts.ReadAddresses(path)
		if readErr != nil {
			logrus.WithError(readErr).Fatal("read addresses master")
		}
		n, loadErr := repo.LoadAddresses(ctx, runDate, addrs)
		if loadErr != nil {
			logrus.WithError(loadErr).Fatal("load addresses master")
		}
		fmt.Printf("addresses_master: %d rows\n", n)
	} else {
		logrus.WithError(err).Warn("no addresses master to load")
	}
}
