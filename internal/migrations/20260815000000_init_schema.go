package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/telbook/telbook/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260815000000, down_20260815000000)
}

// up_20260815000000 creates the users and contacts tables.
func up_20260815000000(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating contacts table...")
	q := db.NewCreateTable().
		Model((*models.Contact)(nil)).
		IfNotExists()

	// SQLite only supports FKs declared at table creation time
	if IsSQLite(db) {
		q = q.ForeignKey(`(owner_id) REFERENCES users(id) ON DELETE CASCADE`)
	}
	_, err = q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create contacts table: %w", err)
	}

	if IsPostgreSQL(db) {
		_, err = db.Exec(`
			ALTER TABLE contacts
			ADD CONSTRAINT fk_contacts_owner
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
		`)
		if err != nil {
			return fmt.Errorf("failed to add owner foreign key: %w", err)
		}
	}

	// Listing is always owner-scoped and ordered by name
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_contacts_owner ON contacts(owner_id)`)
	if err != nil {
		return fmt.Errorf("failed to create index on owner_id: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(first_name, last_name)`)
	if err != nil {
		return fmt.Errorf("failed to create index on names: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20260815000000 drops the contacts and users tables.
func down_20260815000000(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewDropTable().Model((*models.Contact)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop contacts table: %w", err)
	}
	if _, err := db.NewDropTable().Model((*models.User)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop users table: %w", err)
	}
	return nil
}
