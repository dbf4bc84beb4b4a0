package jobs

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to      string
	subject string
	html    string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(to, subject, html string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, html: html})
	return nil
}

func newReporterMock(t *testing.T) (*Reporter, *fakeMailer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mail := &fakeMailer{}
	reporter := NewReporter(sqlx.NewDb(db, "sqlmock"), mail, zap.NewNop(), "http://localhost:3000")
	return reporter, mail, mock
}

func TestSendPendingAdRequestAlerts(t *testing.T) {
	reporter, mail, mock := newReporterMock(t)

	mock.ExpectQuery(`SELECT ar\.id AS ad_request_id`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"ad_request_id", "influencer_name", "influencer_email"}).
			AddRow(int64(21), "Maya", "maya@example.com").
			AddRow(int64(22), "Noor", "noor@example.com"))

	require.NoError(t, reporter.SendPendingAdRequestAlerts(context.Background()))
	require.Len(t, mail.sent, 2)
	require.Equal(t, "maya@example.com", mail.sent[0].to)
	require.Equal(t, "Ad Request Pending", mail.sent[0].subject)
	require.Contains(t, mail.sent[0].html, "http://localhost:3000/influencer/ad-requests/21")
	require.Contains(t, mail.sent[1].html, "http://localhost:3000/influencer/ad-requests/22")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSendActivityReports(t *testing.T) {
	reporter, mail, mock := newReporterMock(t)

	mock.ExpectQuery(`SELECT \* FROM sponsors ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "industry", "max_budget", "is_approved", "is_flagged"}).
			AddRow(int64(7), "Acme", "acme@example.com", "digest", "retail", int64(10000), true, false))
	mock.ExpectQuery(`SELECT \* FROM campaigns WHERE sponsor_id = \$1 ORDER BY id`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "start_date", "end_date", "budget", "goals", "is_private", "is_flagged", "sponsor_id"}))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ar\.payment_amount\), 0\)`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(2500)))

	require.NoError(t, reporter.SendActivityReports(context.Background()))
	require.Len(t, mail.sent, 1)
	require.Equal(t, "acme@example.com", mail.sent[0].to)
	require.Equal(t, "Activity Report", mail.sent[0].subject)
	require.Contains(t, mail.sent[0].html, "Total budget used: 2500")
	require.Contains(t, mail.sent[0].html, "Remaining budget: 7500")
	require.NoError(t, mock.ExpectationsWereMet())
}
