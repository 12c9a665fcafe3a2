package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	dummydb "github.com/codelasak/fa-akademi-tool-sub000/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	return &commandLine{
		policySvc: policy.NewService(dummydb.NewPolicyRepository(db)),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no subcommand defaults to up", args: []string{"migrate"}},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_seedPolicy(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no name", args: []string{"seedpolicy"}, wantErr: errHelp},
		{name: "default thresholds", args: []string{"seedpolicy", "-name", "Standard"}},
		{name: "with reasons", args: []string{"seedpolicy", "-name", "Lenient", "-threshold", "70", "-reasons", "medical,family emergency"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			pols, err := cli.policySvc.Filter(context.Background(), policy.QueryFilter{Scope: policy.ScopeGlobal})
			if err != nil {
				t.Fatalf("Filter() failed, %v", err)
			}
			var found *policy.Policy
			for i := range pols {
				if pols[i].Name == tt.args[2] {
					found = &pols[i]
					break
				}
			}
			if found == nil {
				t.Fatalf("policy %q not created", tt.args[2])
			}
			if found.Scope != policy.ScopeGlobal {
				t.Errorf("Scope = %s, want %s", found.Scope, policy.ScopeGlobal)
			}
			if tt.name == "with reasons" {
				if !found.AutoExcuseEnabled {
					t.Error("AutoExcuseEnabled = false, want true")
				}
				if len(found.AutoExcuseReasons) != 2 {
					t.Errorf("len(AutoExcuseReasons) = %d, want 2", len(found.AutoExcuseReasons))
				}
			}
		})
	}
}
