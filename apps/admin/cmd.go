package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db        *sql.DB
	policySvc *policy.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [up|down|status|version] - manage database migrations")
	fmt.Println("  seedpolicy -name NAME - create a GLOBAL attendance policy")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedPolicyCmd := flag.NewFlagSet("seedpolicy", flag.ExitOnError)
	seedPolicyName := seedPolicyCmd.String("name", "", "The policy name.")
	seedPolicyThreshold := seedPolicyCmd.Float64("threshold", 80, "Concern threshold percentage (0-100).")
	seedPolicyTolerance := seedPolicyCmd.Int("tolerance", 15, "Late tolerance in minutes.")
	seedPolicyMaxAbsences := seedPolicyCmd.Int("maxabsences", 20, "Maximum absences.")
	seedPolicyReasons := seedPolicyCmd.String("reasons", "", "Comma-separated auto-excuse reasons; enables auto-excuse when set.")

	switch args[1] {
	case "migrate":
		cmdArgs := args[2:]
		if len(cmdArgs) == 0 {
			cmdArgs = []string{"up"}
		}
		return cli.migrate(cmdArgs)
	case "seedpolicy":
		if err := seedPolicyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedPolicyName == "" {
			seedPolicyCmd.Usage()
			return errHelp
		}
		return cli.seedPolicy(
			*seedPolicyName, *seedPolicyThreshold, *seedPolicyTolerance, *seedPolicyMaxAbsences, *seedPolicyReasons)
	default:
		cli.printUsage()
		return errHelp
	}
}
