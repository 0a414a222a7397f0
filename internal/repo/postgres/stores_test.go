package postgres

import (
	"strings"
	"testing"
)

func TestSimulationQueries(t *testing.T) {
	if !strings.Contains(insertSimulationQuery, "INSERT INTO simulations") {
		t.Fatalf("expected simulations insert target")
	}
	if !strings.Contains(selectSimulationQuery, "simulation_id = $1") {
		t.Fatalf("expected simulation_id predicate in select query")
	}
}

func TestChallengeQueriesUpsertBySlug(t *testing.T) {
	if !strings.Contains(upsertChallengeQuery, "ON CONFLICT (slug) DO UPDATE") {
		t.Fatalf("expected slug conflict clause in upsert query")
	}
	if !strings.Contains(selectChallengeQuery, "slug = $1") {
		t.Fatalf("expected slug predicate in select query")
	}
	if !strings.Contains(listChallengesQuery, "ORDER BY slug") {
		t.Fatalf("expected deterministic order in list query")
	}
}

func TestSubmissionQueries(t *testing.T) {
	if !strings.Contains(insertSubmissionQuery, "INSERT INTO submissions") {
		t.Fatalf("expected submissions insert target")
	}
	if !strings.Contains(selectSubmissionQuery, "submission_id = $1") {
		t.Fatalf("expected submission_id predicate in select query")
	}
}

func TestStoresRejectNilDB(t *testing.T) {
	if NewSimulationStore(nil) != nil {
		t.Fatalf("expected nil simulation store for nil db")
	}
	if NewChallengeStore(nil) != nil {
		t.Fatalf("expected nil challenge store for nil db")
	}
	if NewSubmissionStore(nil) != nil {
		t.Fatalf("expected nil submission store for nil db")
	}
}
