// internal/app/system/notify/notify.go

// Package notify is the outbound notification gateway for the assignment
// workflow. Delivery is strictly fire-and-forget: a failed or slow send is
// logged and dropped, and never rolls back or blocks the coordinator state
// change that triggered it. All sends happen after the state-changing write
// has committed.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/mailer"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Recorder marks a coordinator as notified after a successful delivery.
// Satisfied by the dualassign store.
type Recorder interface {
	MarkNotified(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// Notifier dispatches workflow emails in background goroutines.
type Notifier struct {
	sender   mailer.Sender
	recorder Recorder
	siteName string
	log      *zap.Logger

	// wg lets tests and shutdown wait for in-flight sends.
	wg sync.WaitGroup
}

// New constructs a Notifier. recorder may be nil if delivery bookkeeping
// is not wanted (tests, CLI tooling).
func New(sender mailer.Sender, recorder Recorder, siteName string, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		recorder: recorder,
		siteName: siteName,
		log:      logger,
	}
}

// Wait blocks until all in-flight sends have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// SurveyorAssigned notifies the surveyor that they were assigned to a
// policy survey. Fire-and-forget.
func (n *Notifier) SurveyorAssigned(da models.DualAssignment, org models.Organization, policy models.Policy) {
	slot := da.Slot(org)
	if slot == nil || slot.Contact.Email == "" {
		return
	}

	deadline := ""
	switch org {
	case models.OrgAMMC:
		if !da.EstimatedCompletion.AMMC.IsZero() {
			deadline = da.EstimatedCompletion.AMMC.Format("02 Jan 2006")
		}
	case models.OrgNIA:
		if !da.EstimatedCompletion.NIA.IsZero() {
			deadline = da.EstimatedCompletion.NIA.Format("02 Jan 2006")
		}
	}

	msg := mailer.BuildAssignmentEmail(mailer.AssignmentEmailData{
		SiteName:     n.siteName,
		SurveyorName: slot.Contact.Name,
		Organization: string(org),
		PolicyNumber: policy.PolicyNumber,
		PropertyAddr: policy.PropertyAddr,
		Deadline:     deadline,
	})
	msg.To = slot.Contact.Email

	n.dispatch("surveyor_assigned", da.ID, msg)
}

// BothAssigned notifies the policy holder that both organization slots are
// filled. Fire-and-forget.
func (n *Notifier) BothAssigned(da models.DualAssignment, policy models.Policy) {
	if policy.HolderEmail == "" || da.AMMC == nil || da.NIA == nil {
		return
	}

	msg := mailer.BuildBothAssignedEmail(mailer.BothAssignedEmailData{
		SiteName:     n.siteName,
		HolderName:   policy.HolderName,
		PolicyNumber: policy.PolicyNumber,
		AMMCName:     da.AMMC.Contact.Name,
		NIAName:      da.NIA.Contact.Name,
	})
	msg.To = policy.HolderEmail

	n.dispatch("both_assigned", da.ID, msg)
}

// ReportSubmitted notifies the policy holder of survey progress after a
// report submission. Fire-and-forget.
func (n *Notifier) ReportSubmitted(da models.DualAssignment, org models.Organization, policy models.Policy) {
	if policy.HolderEmail == "" {
		return
	}

	msg := mailer.BuildReportSubmittedEmail(mailer.ReportSubmittedEmailData{
		SiteName:         n.siteName,
		HolderName:       policy.HolderName,
		PolicyNumber:     policy.PolicyNumber,
		Organization:     string(org),
		CompletionStatus: da.CompletionStatus(),
	})
	msg.To = policy.HolderEmail

	n.dispatch("report_submitted", da.ID, msg)
}

// dispatch sends the email in a background goroutine. Errors are logged
// with a correlation id and dropped.
func (n *Notifier) dispatch(event string, dualID primitive.ObjectID, msg mailer.Email) {
	corrID := uuid.NewString()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		if err := n.sender.Send(msg); err != nil {
			n.log.Warn("notification delivery failed",
				zap.String("event", event),
				zap.String("correlation_id", corrID),
				zap.String("dual_assignment_id", dualID.Hex()),
				zap.Error(err))
			return
		}

		n.log.Info("notification sent",
			zap.String("event", event),
			zap.String("correlation_id", corrID),
			zap.String("dual_assignment_id", dualID.Hex()))

		if n.recorder != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := n.recorder.MarkNotified(ctx, dualID, time.Now().UTC()); err != nil {
				n.log.Warn("mark notified failed",
					zap.String("correlation_id", corrID),
					zap.Error(err))
			}
		}
	}()
}
