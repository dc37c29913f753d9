package ussd

import (
	"context"
	"strings"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// statusFlow lets the subscriber inspect active loans or repayment history.
// Both branches end the dialog with an informational message.
func (d *Dispatcher) statusFlow(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply {
	switch sess.Step {
	case 0:
		sess.Step = 1
		return con(d.menus.Render(MenuLoanStatus, tr))

	case 1:
		idx, ok := d.menus.Select(MenuLoanStatus, input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}
		if idx == 0 {
			return d.renderActiveLoans(ctx, tr, sess)
		}
		return d.renderPaymentHistory(ctx, tr, sess)
	}

	return end(tr.T("error.generic"))
}

func (d *Dispatcher) renderActiveLoans(ctx context.Context, tr *i18n.Translator, sess *Session) reply {
	cctx, cancel := d.serviceCtx(ctx)
	defer cancel()

	loans, err := d.svc.Loans.ListActive(cctx, sess.PhoneNumber)
	if err != nil {
		return d.serviceFailure(ctx, tr, sess, "loan.list_active", err)
	}
	if len(loans) == 0 {
		return end(tr.T("status.none"))
	}

	lines := []string{tr.T("status.active_header")}
	for _, loan := range loans {
		lines = append(lines, tr.T("status.line", i18n.M{
			"type":   tr.T("loan.type." + loan.Type),
			"amount": loan.Amount,
			"status": loan.Status,
		}))
	}
	return end(strings.Join(lines, "\n"))
}

func (d *Dispatcher) renderPaymentHistory(ctx context.Context, tr *i18n.Translator, sess *Session) reply {
	cctx, cancel := d.serviceCtx(ctx)
	defer cancel()

	payments, err := d.svc.Loans.PaymentHistory(cctx, sess.PhoneNumber)
	if err != nil {
		return d.serviceFailure(ctx, tr, sess, "loan.payment_history", err)
	}
	if len(payments) == 0 {
		return end(tr.T("status.history_none"))
	}

	// USSD screens are tiny; show the five most recent entries.
	if len(payments) > 5 {
		payments = payments[:5]
	}

	lines := []string{tr.T("status.history_header")}
	for _, p := range payments {
		lines = append(lines, tr.T("status.payment_line", i18n.M{
			"date":   p.PaidAt.Format("02/01"),
			"amount": p.Amount,
		}))
	}
	return end(strings.Join(lines, "\n"))
}
