package db

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadMigrations(t *testing.T) {
	files := fstest.MapFS{
		"002_analytics.sql": {Data: []byte("CREATE TABLE appointment (id UUID PRIMARY KEY);")},
		"001_init.sql":      {Data: []byte("CREATE TABLE symptom_analysis (id UUID PRIMARY KEY);")},
		"010_indexes.sql":   {Data: []byte("SELECT 10;")},
	}
	migrations, err := NewMigrator(nil, files, zerolog.Nop()).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	wantVersions := []int{1, 2, 10}
	for i, v := range wantVersions {
		if migrations[i].Version != v {
			t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, v)
		}
	}
	if migrations[0].Name != "001_init.sql" {
		t.Errorf("expected 001_init.sql first, got %s", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE symptom_analysis (id UUID PRIMARY KEY);" {
		t.Errorf("unexpected SQL content: %s", migrations[0].SQL)
	}
}

func TestLoadMigrations_SkipsOtherFiles(t *testing.T) {
	files := fstest.MapFS{
		"001_init.sql":      {Data: []byte("SELECT 1;")},
		"README.md":         {Data: []byte("docs")},
		"notes.sql":         {Data: []byte("SELECT 0;")},
		"abc_bad.sql":       {Data: []byte("SELECT 0;")},
		"archive/002_x.sql": {Data: []byte("SELECT 2;")},
	}
	migrations, err := NewMigrator(nil, files, zerolog.Nop()).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 1 || migrations[0].Version != 1 {
		t.Errorf("expected only 001_init.sql, got %+v", migrations)
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	files := fstest.MapFS{
		"001_init.sql": {Data: []byte("SELECT 1;")},
		"1_also.sql":   {Data: []byte("SELECT 1;")},
	}
	if _, err := NewMigrator(nil, files, zerolog.Nop()).LoadMigrations(); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestLoadMigrations_Empty(t *testing.T) {
	migrations, err := NewMigrator(nil, fstest.MapFS{}, zerolog.Nop()).LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("expected none, got %d", len(migrations))
	}
}

func TestPendingAndStatus(t *testing.T) {
	migrations := []Migration{
		{Version: 1, Name: "001_init.sql"},
		{Version: 2, Name: "002_analytics.sql"},
		{Version: 3, Name: "003_indexes.sql"},
	}
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	applied := map[int]time.Time{1: at, 2: at.Add(time.Hour)}

	p := pending(migrations, applied)
	if len(p) != 1 || p[0].Version != 3 {
		t.Errorf("expected only version 3 pending, got %+v", p)
	}

	statuses := statusOf(migrations, applied)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(at) {
		t.Errorf("unexpected status %+v", statuses[0])
	}
	if !statuses[1].AppliedAt.Equal(at.Add(time.Hour)) {
		t.Errorf("applied_at pointers must not alias: %v", statuses[1].AppliedAt)
	}
	if statuses[2].Applied || statuses[2].AppliedAt != nil {
		t.Errorf("expected version 3 pending, got %+v", statuses[2])
	}
}
