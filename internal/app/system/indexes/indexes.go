// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique index on dual_assignments.policy_id is load-bearing: it is the
database-level guarantee that a policy has at most one coordinator, which
coordinator creation relies on for its conflict semantics.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureDualAssignments(ctx, db); err != nil {
		problems = append(problems, "dual_assignments: "+err.Error())
	}
	if err := ensureAssignments(ctx, db); err != nil {
		problems = append(problems, "assignments: "+err.Error())
	}
	if err := ensureSurveyors(ctx, db); err != nil {
		problems = append(problems, "surveyors: "+err.Error())
	}
	if err := ensurePolicies(ctx, db); err != nil {
		problems = append(problems, "policies: "+err.Error())
	}
	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureMergedReports(ctx, db); err != nil {
		problems = append(problems, "merged_reports: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureDualAssignments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("dual_assignments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "policy_id", Value: 1}},
			Options: options.Index().SetName("uniq_policy_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "processing_status", Value: 1}},
			Options: options.Index().SetName("processing_status"),
		},
		{
			Keys:    bson.D{{Key: "estimated_completion.overall", Value: 1}},
			Options: options.Index().SetName("overall_deadline"),
		},
	})
}

func ensureAssignments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("assignments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "policy_id", Value: 1}, {Key: "organization", Value: 1}},
			Options: options.Index().SetName("policy_org"),
		},
		{
			Keys:    bson.D{{Key: "surveyor_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("surveyor_status"),
		},
	})
}

func ensureSurveyors(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("surveyors"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organization", Value: 1}, {Key: "status", Value: 1}, {Key: "available", Value: 1}},
			Options: options.Index().SetName("org_status_available"),
		},
	})
}

func ensurePolicies(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("policies"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "policy_number", Value: 1}},
			Options: options.Index().SetName("uniq_policy_number").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status"),
		},
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	})
}

func ensureMergedReports(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("merged_reports"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dual_assignment_id", Value: 1}},
			Options: options.Index().SetName("dual_assignment_id"),
		},
	})
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// ensureIndexSet reconciles the desired indexes against what exists on the
// collection: reuse when keys and uniqueness match, drop and recreate when
// the uniqueness differs, create when missing. Errors are aggregated per
// collection so one bad index does not mask the rest.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
	}

	var errs []string
	for _, m := range desired {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				continue // reuse
			}
			// Same keys but different uniqueness: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): create failed: %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", sig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
