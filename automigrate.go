package main

import (
	"github.com/davecheney/fedi/models"
	"gorm.io/gorm"
)

type AutoMigrateCmd struct {
	DSN string `help:"journal data source name" required:"" env:"FEDI_JOURNAL_DSN"`
}

func (a *AutoMigrateCmd) Run(ctx *Context) error {
	db, err := gorm.Open(newDialector(a.DSN), &ctx.Config)
	if err != nil {
		return err
	}
	if err := configureDB(db); err != nil {
		return err
	}
	return db.AutoMigrate(models.AllTables()...)
}
