package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	want := map[string]bool{"00001_users.sql": false, "00002_soil_analyses.sql": false, "00003_soil_analyses_version.sql": false}
	for _, e := range entries {
		if _, ok := want[e.Name()]; ok {
			want[e.Name()] = true
		}
		data, err := fs.ReadFile(migrationFiles, "migrations/"+e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		if !strings.Contains(string(data), "-- +goose Up") || !strings.Contains(string(data), "-- +goose Down") {
			t.Fatalf("%s missing goose annotations", e.Name())
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing migration %s", name)
		}
	}
}

func TestGooseLoggerWritesStructuredLine(t *testing.T) {
	logs := captureLogs(t)
	gooseLogger{}.Printf("OK   %s (%s)\n", "00002_soil_analyses.sql", "12ms")

	out := logs.String()
	if !strings.Contains(out, `"msg":"db.migrate"`) || !strings.Contains(out, "00002_soil_analyses.sql (12ms)") {
		t.Fatalf("unexpected log line: %s", out)
	}
}

func TestRunMigrationsNilDatabase(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
