// Package seed populates a database with plausible club data: an admin,
// certifications, gear types, members in assorted standings, and gear
// created through the transition engine so every seeded item starts its
// ledger with a create entry.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clubtools/gearshed/internal/engine"
	"github.com/clubtools/gearshed/internal/model"
	"github.com/clubtools/gearshed/internal/store"
	"github.com/clubtools/gearshed/internal/tag"
)

// SystemActorTag is the reserved tag of the built-in system actor. The
// sweep and seeding attribute their ledger entries to it.
const SystemActorTag = "0000000000"

// EnsureSystemActor creates the built-in system actor if it does not
// exist yet and returns it.
func EnsureSystemActor(ctx context.Context, db *sql.DB) (*model.Member, error) {
	existing, err := store.GetMemberByTag(ctx, db, SystemActorTag)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return store.CreateMember(ctx, db, SystemActorTag, "system@gearshed.local", "System", "Admin",
		model.MemberStatusActive, true, nil)
}

// Options controls how much data Run generates.
type Options struct {
	Members int
	Gear    int
}

var firstNames = []string{
	"Alex", "Blake", "Casey", "Drew", "Emery", "Finley", "Harper",
	"Jordan", "Kai", "Logan", "Morgan", "Quinn", "Riley", "Rowan", "Sage",
}

var lastNames = []string{
	"Anderson", "Brooks", "Carter", "Diaz", "Ellis", "Foster", "Gray",
	"Hayes", "Iverson", "Jensen", "Keller", "Lopez", "Meyer", "Nguyen",
}

var gearTypes = []struct {
	name       string
	department string
	certTitle  string // required certification, if any
}{
	{"Sleeping Bag", "Camping", ""},
	{"Tent", "Camping", ""},
	{"Camping Stove", "Camping", ""},
	{"Backpack", "Backpacking", ""},
	{"Water Filter", "Backpacking", ""},
	{"Climbing Shoes", "Rock Climbing", ""},
	{"Climbing Harness", "Rock Climbing", ""},
	{"Rope", "Rock Climbing", ""},
	{"Crash Pad", "Rock Climbing", ""},
	{"Skis", "Skiing/Snowboarding", ""},
	{"Snowboard", "Skiing/Snowboarding", ""},
	{"Kayak", "Kayaking", "Kayaking"},
	{"Paddle", "Kayaking", ""},
	{"Paddleboard", "Paddleboarding", "Stand Up Paddleboarding"},
	{"Wetsuit", "Wetsuits", ""},
}

var certifications = []struct {
	title        string
	requirements string
}{
	{"Kayaking", "Able to swim; received the safety briefing; can launch, flip, re-enter and land a kayak safely."},
	{"Stand Up Paddleboarding", "Able to swim; received the safety briefing; can launch, flip, re-mount and land a board safely."},
}

// Run seeds the database. Idempotence is not a goal; run it against a
// fresh database.
func Run(ctx context.Context, db *sql.DB, eng *engine.Engine, opts Options, log *logrus.Logger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	admin, err := EnsureSystemActor(ctx, db)
	if err != nil {
		return fmt.Errorf("creating system actor: %w", err)
	}

	certIDs := map[string]int64{}
	for _, c := range certifications {
		cert, err := store.CreateCertification(ctx, db, c.title, c.requirements)
		if err != nil {
			return fmt.Errorf("creating certification %s: %w", c.title, err)
		}
		certIDs[c.title] = cert.ID
	}

	typeIDs := make([]int64, 0, len(gearTypes))
	typeCerts := map[int64][]int64{}
	for _, t := range gearTypes {
		gt, err := store.CreateGearType(ctx, db, t.name, t.department, "All the gear related to "+t.department)
		if err != nil {
			return fmt.Errorf("creating gear type %s: %w", t.name, err)
		}
		typeIDs = append(typeIDs, gt.ID)
		if t.certTitle != "" {
			typeCerts[gt.ID] = []int64{certIDs[t.certTitle]}
		}
	}
	log.WithField("types", len(typeIDs)).Info("seeded gear types")

	memberTags := tag.NewRandom(func(ctx context.Context, t string) (bool, error) {
		m, err := store.GetMemberByTag(ctx, db, t)
		return m != nil, err
	})

	// Roughly a fifth of members are new, a third expired, the rest
	// active, mirroring a real club roster mid-season.
	for i := 0; i < opts.Members; i++ {
		memberTag, err := memberTags.Next(ctx)
		if err != nil {
			return fmt.Errorf("generating member tag: %w", err)
		}

		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		email := fmt.Sprintf("%s.%s.%d@example.com", first, last, i)

		status := model.MemberStatusActive
		switch {
		case i%5 == 0:
			status = model.MemberStatusNew
		case i%3 == 0:
			status = model.MemberStatusExpired
		}

		expires := time.Now().AddDate(1, 0, 0)
		member, err := store.CreateMember(ctx, db, memberTag, email, first, last, status, false, &expires)
		if err != nil {
			return fmt.Errorf("creating member: %w", err)
		}

		// Some members have earned certifications.
		if rng.Intn(3) == 0 {
			for _, certID := range certIDs {
				if err := store.GrantCertification(ctx, db, member.ID, certID); err != nil {
					return err
				}
			}
		}
	}
	log.WithField("members", opts.Members).Info("seeded members")

	for i := 0; i < opts.Gear; i++ {
		typeID := typeIDs[rng.Intn(len(typeIDs))]
		_, err := eng.Apply(ctx, engine.Request{
			Action:          model.ActionCreate,
			ActorTag:        admin.Tag,
			GearTypeID:      typeID,
			RequiredCertIDs: typeCerts[typeID],
			Comment:         "seeded",
		})
		if err != nil {
			return fmt.Errorf("creating gear: %w", err)
		}
	}
	log.WithField("gear", opts.Gear).Info("seeded gear")

	return nil
}
