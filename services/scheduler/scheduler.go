package schedulersvc

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/report"
)

// Scheduler runs the periodic jobs of the app. Today that is a single job:
// the low-attendance concern digest mailed to the administrators.
type Scheduler struct {
	cron       *cron.Cron
	attSvc     *attendance.Service
	emailSvc   core.EmailService
	logger     core.Logger
	schedule   string
	window     time.Duration
	recipients []mail.Address
}

func New(attSvc *attendance.Service, emailSvc core.EmailService, logger core.Logger) *Scheduler {
	recipients := make([]mail.Address, 0, len(core.Conf.AdminEmails))
	for _, addr := range core.Conf.AdminEmails {
		recipients = append(recipients, mail.Address{Address: addr})
	}
	return &Scheduler{
		cron:       cron.New(),
		attSvc:     attSvc,
		emailSvc:   emailSvc,
		logger:     logger,
		schedule:   core.Conf.ConcernDigestSchedule,
		window:     core.Conf.ConcernDigestWindow,
		recipients: recipients,
	}
}

// Start registers the jobs and launches the cron loop in its own goroutine.
// A Scheduler with no schedule or no recipients starts nothing.
func (s *Scheduler) Start() error {
	if s.schedule == "" || len(s.recipients) == 0 {
		s.logger.Info("scheduler: concern digest disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.runConcernDigest); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info(fmt.Sprintf("scheduler: concern digest scheduled (%s)", s.schedule))
	return nil
}

// Stop halts the cron loop and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runConcernDigest() {
	ctx := context.Background()
	now := time.Now().UTC()
	from := now.Add(-s.window)

	rollup, err := s.attSvc.BuildRollup(ctx, attendance.LessonFilter{DateFrom: from, DateTo: now})
	if err != nil {
		s.logger.Error(fmt.Sprintf("scheduler: building concern digest rollup: %v", err), err)
		return
	}
	if len(rollup.ConcernStudents) == 0 {
		s.logger.Info("scheduler: no concern students in window, skipping digest")
		return
	}

	rep := report.AssembleAttendance(report.Request{
		From:        from,
		To:          now,
		GeneratedBy: "scheduler",
	}, rollup, nil)

	msg := &core.EmailMessage{
		To:           s.recipients,
		Subject:      "Attendance concern digest",
		TemplateName: "concern-digest",
		TemplateData: struct {
			From     time.Time
			To       time.Time
			Students []attendance.ConcernStudent
		}{From: from, To: now, Students: rollup.ConcernStudents},
	}
	if csvData, err := report.WriteConcernCSV(rep.Analytics.ConcernStudents); err != nil {
		s.logger.Error(fmt.Sprintf("scheduler: rendering concern csv: %v", err), err)
	} else if err := msg.Attach(bytes.NewReader(csvData), "concern-students.csv", "text/csv"); err != nil {
		s.logger.Error(fmt.Sprintf("scheduler: attaching concern csv: %v", err), err)
	}

	s.emailSvc.SendMessages(msg)
	s.logger.Info(fmt.Sprintf("scheduler: concern digest sent (%d students)", len(rollup.ConcernStudents)))
}
