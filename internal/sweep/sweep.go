// Package sweep implements the periodic overdue-gear detector. It is safe
// to re-run at any interval: items already handled are skipped, so each
// overdue checkout yields at most one expire entry and one missing
// transition.
package sweep

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/clubtools/gearshed/internal/engine"
	"github.com/clubtools/gearshed/internal/model"
	"github.com/clubtools/gearshed/internal/store"
)

// Sweeper walks checked-out gear and applies the auto-update transitions.
type Sweeper struct {
	Engine *engine.Engine

	// ActorTag identifies the system actor attributed on auto-update
	// ledger entries.
	ActorTag string

	Log *logrus.Logger
}

// New creates a sweeper.
func New(eng *engine.Engine, actorTag string, log *logrus.Logger) *Sweeper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweeper{Engine: eng, ActorTag: actorTag, Log: log}
}

// Result summarizes one sweep run.
type Result struct {
	Expired int
	Missing int
	Skipped int
}

// Run performs one sweep. Items past their due date get an expire ledger
// entry (status untouched); items past due date plus grace are marked
// missing. Items that change state under our feet are skipped and picked
// up on the next run.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	var res Result
	now := s.Engine.Now().UTC()

	overdue, err := store.ListOverdue(ctx, s.Engine.DB, now)
	if err != nil {
		return res, fmt.Errorf("listing overdue gear: %w", err)
	}

	for _, g := range overdue {
		if g.DueDate == nil {
			continue
		}

		logged, err := store.HasEntrySince(ctx, s.Engine.DB, g.ID, model.ActionExpire, *g.DueDate)
		if err != nil {
			return res, err
		}
		if !logged {
			_, err := s.Engine.Apply(ctx, engine.Request{
				Tag:      g.Tag,
				Action:   model.ActionExpire,
				ActorTag: s.ActorTag,
				Comment:  fmt.Sprintf("due %s", g.DueDate.Format("2006-01-02")),
			})
			if err != nil {
				s.Log.WithError(err).WithField("tag", g.Tag).Warn("skipping expiration")
				res.Skipped++
				continue
			}
			res.Expired++
			s.Log.WithFields(logrus.Fields{"tag": g.Tag, "due": g.DueDate}).Info("gear expired")
		}

		if now.After(g.DueDate.Add(s.Engine.Policy.Grace)) {
			_, err := s.Engine.Apply(ctx, engine.Request{
				Tag:      g.Tag,
				Action:   model.ActionMissing,
				ActorTag: s.ActorTag,
				Comment:  fmt.Sprintf("overdue since %s", g.DueDate.Format("2006-01-02")),
			})
			if err != nil {
				s.Log.WithError(err).WithField("tag", g.Tag).Warn("skipping missing mark")
				res.Skipped++
				continue
			}
			res.Missing++
			s.Log.WithFields(logrus.Fields{"tag": g.Tag, "due": g.DueDate}).Info("gear marked missing")
		}
	}

	return res, nil
}
