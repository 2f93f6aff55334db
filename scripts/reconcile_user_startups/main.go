// Command reconcile_user_startups rebuilds every user's startups mirror from the team
// lists of the startups collection. It is meant for data written before membership
// changes ran in transactions.
//
// Usage: go run ./scripts/reconcile_user_startups [-dry-run]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sparkup/sparkup-api/config"
	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/models"
)

const pageSize = 100

// report counts what a reconcile pass looked at and changed
type report struct {
	Startups int
	Users    int
	Updated  int
}

func main() {
	dryRun := flag.Bool("dry-run", false, "report differences without writing")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall time limit")
	flag.Parse()

	conf := config.New()
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := databases.NewClient(ctx, conf)
	if err != nil {
		zap.S().Fatalw("failed to create new client", "error", err)
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck
	db := databases.NewDatabase(conf, client)

	r, err := reconcile(ctx, databases.NewStartupDatabase(db), databases.NewUserDatabase(db), *dryRun)
	if err != nil {
		zap.S().Errorw("reconcile failed", "error", err)
		os.Exit(1)
	}
	zap.S().Infow("reconcile finished",
		"startups", r.Startups,
		"users", r.Users,
		"updated", r.Updated,
		"dryRun", *dryRun)
}

func reconcile(ctx context.Context, sdb databases.StartupDatabase, udb databases.UserDatabase, dryRun bool) (report, error) {
	var r report
	want := map[string][]models.UserStartup{}
	// skip/limit pages shift when startups are inserted mid-scan, so a startup can be
	// read twice
	seen := map[primitive.ObjectID]bool{}
	for page := 1; ; page++ {
		startups, err := sdb.Find(ctx, bson.M{}, page, pageSize)
		if err != nil {
			return r, err
		}
		for _, s := range startups {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			for _, m := range s.Details.Team {
				want[m.UserID] = append(want[m.UserID], models.MirrorOf(s.ID, m))
			}
		}
		r.Startups += len(startups)
		if len(startups) < pageSize {
			break
		}
	}

	for page := 1; ; page++ {
		users, err := udb.Find(ctx, bson.M{}, page, pageSize)
		if err != nil {
			return r, err
		}
		for _, u := range users {
			id := u.ID.Hex()
			entries := want[id]
			if entries == nil {
				entries = []models.UserStartup{}
			}
			if sameStartups(u.Details.Startups, entries) {
				continue
			}
			zap.S().Infow("user startups out of sync",
				"userId", id,
				"stored", len(u.Details.Startups),
				"expected", len(entries))
			r.Updated++
			if dryRun {
				continue
			}
			if err := udb.ReplaceStartups(ctx, id, entries); err != nil {
				return r, err
			}
		}
		r.Users += len(users)
		if len(users) < pageSize {
			break
		}
	}
	return r, nil
}

// sameStartups compares mirrors ignoring order
func sameStartups(have, want []models.UserStartup) bool {
	if len(have) != len(want) {
		return false
	}
	byID := make(map[string]models.UserStartup, len(have))
	for _, e := range have {
		byID[e.StartupID] = e
	}
	for _, e := range want {
		got, ok := byID[e.StartupID]
		if !ok || got.Role != e.Role || got.Position != e.Position || !got.JoinedAt.Equal(e.JoinedAt) {
			return false
		}
	}
	return true
}
