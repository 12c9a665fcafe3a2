package main

import (
	"context"
	"strings"
	"time"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
)

// seedPolicy creates a GLOBAL policy effective immediately.
func (cli *commandLine) seedPolicy(name string, threshold float64, tolerance, maxAbsences int, reasons string) error {
	np := policy.NewPolicy{
		Name:                 core.CleanString(name),
		Scope:                policy.ScopeGlobal,
		ConcernThreshold:     threshold,
		LateToleranceMinutes: tolerance,
		MaxAbsences:          maxAbsences,
		EffectiveFrom:        time.Now().UTC(),
	}
	for _, r := range strings.Split(reasons, ",") {
		if r = core.CleanString(r); r != "" {
			np.AutoExcuseReasons = append(np.AutoExcuseReasons, r)
		}
	}
	np.AutoExcuseEnabled = len(np.AutoExcuseReasons) > 0

	if err := np.Validate(); err != nil {
		return err
	}
	pol, err := cli.policySvc.Create(context.Background(), np)
	if err != nil {
		return err
	}
	logger.Printf("created policy %s (%s)\n", pol.Name, pol.ID)
	return nil
}
