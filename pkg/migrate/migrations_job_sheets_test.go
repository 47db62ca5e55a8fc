package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fixflowhq/fixflow-backend/pkg/migrate"
)

func TestJobSheetMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_job_sheets.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no job sheet migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS job_sheets",
		"FOREIGN KEY (shop_id) REFERENCES shops(id) ON DELETE CASCADE",
		"CHECK (estimated_cost >= 0)",
		"CHECK (advance_amount >= 0)",
		"idx_job_sheets_shop_number ON job_sheets (shop_id, job_number)",
		"DROP TABLE IF EXISTS job_sheets",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	// failing here usually means a migration was renamed by hand
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
