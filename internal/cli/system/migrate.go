package system

import (
	"fmt"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/storage/sqlstore"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlstore.Store)
	if !ok {
		return fmt.Errorf("migrate command requires a SQL store")
	}
	defer store.Close()

	count, err := store.Migrate(func(msg string) {
		ctx.Printf("%s\n", msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Printf("No migrations to apply. Database is up to date.\n")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
