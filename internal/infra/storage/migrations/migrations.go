package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-GroundBooking/pkg/dbmetrics"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Files возвращает имена встроенных миграций в порядке применения
func Files() ([]string, error) {
	entries, err := migrationsFS.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Migrate применяет встроенные миграции по порядку (001_..., 002_...).
// Миграции идемпотентны и выполняются при каждом старте
func Migrate(ctx context.Context, db dbmetrics.DBExecutor) error {
	names, err := Files()
	if err != nil {
		return err
	}

	for _, name := range names {
		script, err := migrationsFS.ReadFile("sql/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}
	return nil
}
