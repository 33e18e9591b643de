// internal/app/system/workers/mergepoll.go
package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/dualassign"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/mergedreports"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/policies"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"go.uber.org/zap"
)

// MergePoller is a background worker that consumes coordinators whose both
// survey reports have been submitted. It claims one coordinator at a time
// (an atomic pending -> processing transition, so concurrent instances never
// double-process), produces the merged-report document, and marks the
// coordinator completed.
type MergePoller struct {
	duals    *dualassign.Store
	merged   *mergedreports.Store
	policies *policies.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewMergePoller creates a merge poller running at the given interval.
func NewMergePoller(duals *dualassign.Store, merged *mergedreports.Store, pols *policies.Store, logger *zap.Logger, interval time.Duration) *MergePoller {
	return &MergePoller{
		duals:    duals,
		merged:   merged,
		policies: pols,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background polling loop.
func (w *MergePoller) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("merge poller started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *MergePoller) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("merge poller stopped")
}

func (w *MergePoller) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.drain()
		}
	}
}

// drain processes claimable coordinators until none remain.
func (w *MergePoller) drain() {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		done, err := w.ProcessOne(ctx)
		cancel()
		if err != nil {
			w.log.Error("merge processing failed", zap.Error(err))
			return
		}
		if !done {
			return
		}
	}
}

// ProcessOne claims and merges a single coordinator. Returns false when
// nothing was claimable. Exposed for tests and for a manual requeue path.
func (w *MergePoller) ProcessOne(ctx context.Context) (bool, error) {
	da, err := w.duals.ClaimForMerge(ctx, models.TimelineEvent{
		Event:       models.EventMergeStarted,
		PerformedBy: "merge-poller",
	})
	if errors.Is(err, dualassign.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	report, err := w.buildReport(ctx, da)
	if err != nil {
		// Leave a trace and park the coordinator in failed for requeue.
		if finishErr := w.duals.FinishMerge(ctx, da.ID, nil, models.TimelineEvent{
			Event:       models.EventMergeFailed,
			PerformedBy: "merge-poller",
			Details:     err.Error(),
		}); finishErr != nil {
			w.log.Error("failed to mark merge failure", zap.Error(finishErr))
		}
		return false, err
	}

	if err := w.duals.FinishMerge(ctx, da.ID, &report.ID, models.TimelineEvent{
		Event:       models.EventMergeCompleted,
		PerformedBy: "merge-poller",
	}); err != nil {
		return false, err
	}

	// The policy has been surveyed by both organizations; advance its
	// workflow status. Best effort: the merge itself already committed.
	if err := w.policies.SetStatus(ctx, da.PolicyID, models.PolicySurveyed); err != nil {
		w.log.Warn("policy status update failed",
			zap.String("policy_id", da.PolicyID.Hex()), zap.Error(err))
	}

	w.log.Info("merged survey reports",
		zap.String("dual_assignment_id", da.ID.Hex()),
		zap.String("merged_report_id", report.ID.Hex()))
	return true, nil
}

// buildReport writes the merged-report document. Report ids were recorded in
// the timeline details by the submission handler; the substantive merge of
// report content is owned downstream.
func (w *MergePoller) buildReport(ctx context.Context, da models.DualAssignment) (models.MergedReport, error) {
	ammcReport, niaReport := "", ""
	for _, ev := range da.Timeline {
		switch ev.Event {
		case models.EventAMMCReportSubmitted:
			ammcReport = ev.Details
		case models.EventNIAReportSubmitted:
			niaReport = ev.Details
		}
	}

	return w.merged.Create(ctx, models.MergedReport{
		PolicyID:         da.PolicyID,
		DualAssignmentID: da.ID,
		AMMCReportID:     ammcReport,
		NIAReportID:      niaReport,
	})
}
