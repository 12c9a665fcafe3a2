package main

import (
	"log"
	"os"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	"github.com/codelasak/fa-akademi-tool-sub000/storage/database"
	sqlxrepos "github.com/codelasak/fa-akademi-tool-sub000/storage/database/sqlx"

	"github.com/jmoiron/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		errAndDie(err)
	}
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		db:        db,
		policySvc: policy.NewService(sqlxrepos.NewPolicyRepository(sqlx.NewDb(db, core.Conf.Database.Engine))),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
