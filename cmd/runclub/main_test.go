package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"backend-runclub/internal/config"
	"backend-runclub/internal/db"

	"github.com/pashagolub/pgxmock/v3"
)

func testDeps() cliDeps {
	return cliDeps{
		loadConfig:     func() config.Config { return config.Config{PostgresURL: "postgres://u:p@localhost/runclub"} },
		migrateUp:      func(string) error { return nil },
		migrateDown:    func(string) error { return nil },
		migrateVersion: func(string) (uint, bool, error) { return 1, false, nil },
	}
}

func execute(t *testing.T, deps cliDeps, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(deps)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	deps := testDeps()
	var gotURL string
	deps.migrateUp = func(url string) error {
		gotURL = url
		return nil
	}

	out, err := execute(t, deps, "migrate", "up")
	if err != nil || !strings.Contains(out, "migrations applied") {
		t.Fatalf("migrate up: %q %v", out, err)
	}
	if gotURL != "postgres://u:p@localhost/runclub" {
		t.Fatalf("unexpected url: %s", gotURL)
	}

	out, err = execute(t, deps, "migrate", "version")
	if err != nil || !strings.Contains(out, "version 1 (dirty=false)") {
		t.Fatalf("migrate version: %q %v", out, err)
	}

	deps.migrateDown = func(string) error { return errors.New("no migration") }
	if _, err := execute(t, deps, "migrate", "down"); err == nil {
		t.Fatalf("expected migrate down error")
	}
}

func TestImportCommand(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO collectible_items`).
		WithArgs(pgxmock.AnyArg(), "Artifact", "artifact1", 20.0001, 50.0001, "https://img.example/1.png", 10).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	path := filepath.Join(t.TempDir(), "items.csv")
	data := "name,uid,value,latitude,longitude,picture\n" +
		"Artifact,artifact1,10,20.0001,50.0001,https://img.example/1.png\n" +
		"Broken,artifact2,5,95,50,https://img.example/2.png\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	closed := false
	deps := testDeps()
	deps.connect = func(config.Config) (db.Querier, func(), error) {
		return mock, func() { closed = true }, nil
	}

	out, err := execute(t, deps, "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "created 1 items") || !strings.Contains(out, "invalid row: Broken,artifact2,5,95,50") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !closed {
		t.Fatalf("expected connection to be closed")
	}
}

func TestImportCommandUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte("[]"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := execute(t, testDeps(), "import", path); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := execute(t, testDeps(), "import"); err == nil {
		t.Fatalf("expected missing argument error")
	}
}
