// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/dualassign"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/mergedreports"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/policies"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/mailer"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/notify"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Long-lived components built at startup and referenced from BuildHandler
// and Shutdown.
var (
	notifier    *notify.Notifier
	mergePoller *workers.MergePoller
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. The
// notifier and the merge worker are created here so Shutdown can stop them.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	duals := dualassign.New(deps.MongoDatabase)
	merged := mergedreports.New(deps.MongoDatabase)
	pols := policies.New(deps.MongoDatabase)

	sender := mailer.New(
		appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass,
		appCfg.MailFrom, appCfg.MailFromName,
		logger,
	)
	notifier = notify.New(sender, duals, appCfg.SiteName, logger)

	mergePoller = workers.NewMergePoller(duals, merged, pols, logger, appCfg.MergePollInterval)
	mergePoller.Start()

	return nil
}
