package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/admarket/admarket/internal/mailer"
	"github.com/admarket/admarket/internal/metrics"
	"github.com/admarket/admarket/internal/repository"
)

const (
	pendingAlertSchedule   = "0 18 * * *" // daily at 18:00
	activityReportSchedule = "0 0 1 * *"  // first day of each month
)

var pendingAdRequestTemplate = template.Must(template.New("pending-ad-requests").Parse(`
<html>
<body>
<p>Hi {{.InfluencerName}},</p>
<p>You have a pending ad request waiting for your response.</p>
<p><a href="{{.InviteLink}}">Review the ad request</a></p>
<p>&copy; {{.CurrentYear}} AdMarket</p>
</body>
</html>
`))

var activityReportTemplate = template.Must(template.New("activity-report").Parse(`
<html>
<body>
<p>Hi {{.SponsorName}},</p>
<p>Here is your monthly activity report.</p>
<ul>
<li>Campaigns: {{.CampaignCount}}</li>
<li>Total budget used: {{.TotalBudgetUsed}}</li>
<li>Remaining budget: {{.RemainingBudget}}</li>
</ul>
<p>&copy; {{.CurrentYear}} AdMarket</p>
</body>
</html>
`))

// Reporter runs the scheduled mail jobs: the daily pending-ad-request
// alert and the monthly sponsor activity report. Failures are logged and
// the run terminates; there are no retries.
type Reporter struct {
	postgres      *sqlx.DB
	adRequestRepo *repository.AdRequestRepository
	campaignRepo  *repository.CampaignRepository
	accountRepo   *repository.AccountRepository
	mail          mailer.Mailer
	logger        *zap.Logger
	frontendURL   string
	cron          *cron.Cron
}

// NewReporter creates a reporter delivering through mail.
func NewReporter(postgres *sqlx.DB, mail mailer.Mailer, logger *zap.Logger, frontendURL string) *Reporter {
	return &Reporter{
		postgres:      postgres,
		adRequestRepo: repository.NewAdRequestRepository(),
		campaignRepo:  repository.NewCampaignRepository(),
		accountRepo:   repository.NewAccountRepository(),
		mail:          mail,
		logger:        logger,
		frontendURL:   frontendURL,
	}
}

// Start registers the cron entries and begins scheduling.
func (r *Reporter) Start() error {
	r.cron = cron.New()
	if _, err := r.cron.AddFunc(pendingAlertSchedule, func() {
		r.runJob("pending_ad_request_alert", r.SendPendingAdRequestAlerts)
	}); err != nil {
		return fmt.Errorf("failed to schedule pending alert job: %w", err)
	}
	if _, err := r.cron.AddFunc(activityReportSchedule, func() {
		r.runJob("activity_report", r.SendActivityReports)
	}); err != nil {
		return fmt.Errorf("failed to schedule activity report job: %w", err)
	}
	r.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (r *Reporter) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

func (r *Reporter) runJob(kind string, job func(context.Context) error) {
	if err := job(context.Background()); err != nil {
		r.logger.Error("scheduled job failed", zap.String("kind", kind), zap.Error(err))
		metrics.RecordJobRun(kind, "failure")
		return
	}
	metrics.RecordJobRun(kind, "success")
}

// SendPendingAdRequestAlerts mails every influencer with a pending ad
// request a templated notice.
func (r *Reporter) SendPendingAdRequestAlerts(ctx context.Context) error {
	alerts, err := r.adRequestRepo.ListPendingWithInfluencers(r.postgres)
	if err != nil {
		return err
	}

	for _, alert := range alerts {
		var body bytes.Buffer
		err := pendingAdRequestTemplate.Execute(&body, map[string]any{
			"InfluencerName": alert.InfluencerName,
			"InviteLink":     fmt.Sprintf("%s/influencer/ad-requests/%d", r.frontendURL, alert.AdRequestID),
			"CurrentYear":    time.Now().Year(),
		})
		if err != nil {
			return fmt.Errorf("failed to render pending alert mail: %w", err)
		}
		if err := r.mail.Send(alert.InfluencerEmail, "Ad Request Pending", body.String()); err != nil {
			r.logger.Error("failed to send pending alert",
				zap.String("email", alert.InfluencerEmail),
				zap.Int64("ad_request_id", alert.AdRequestID),
				zap.Error(err))
		}
	}
	return nil
}

// SendActivityReports mails each sponsor their aggregated budget usage.
func (r *Reporter) SendActivityReports(ctx context.Context) error {
	sponsors, err := r.accountRepo.ListSponsors(r.postgres)
	if err != nil {
		return err
	}

	for _, sponsor := range sponsors {
		campaigns, err := r.campaignRepo.ListBySponsor(r.postgres, sponsor.ID)
		if err != nil {
			return err
		}
		budgetUsed, err := r.adRequestRepo.SumPaymentsBySponsor(r.postgres, sponsor.ID)
		if err != nil {
			return err
		}

		var body bytes.Buffer
		err = activityReportTemplate.Execute(&body, map[string]any{
			"SponsorName":     sponsor.Name,
			"CampaignCount":   len(campaigns),
			"TotalBudgetUsed": budgetUsed,
			"RemainingBudget": sponsor.MaxBudget - budgetUsed,
			"CurrentYear":     time.Now().Year(),
		})
		if err != nil {
			return fmt.Errorf("failed to render activity report mail: %w", err)
		}
		if err := r.mail.Send(sponsor.Email, "Activity Report", body.String()); err != nil {
			r.logger.Error("failed to send activity report",
				zap.String("email", sponsor.Email),
				zap.Int64("sponsor_id", sponsor.ID),
				zap.Error(err))
		}
	}
	return nil
}
