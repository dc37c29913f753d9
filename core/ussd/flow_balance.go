package ussd

import (
	"context"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// balanceFlow is informational: selecting it answers immediately with a
// terminal balance message.
func (d *Dispatcher) balanceFlow(ctx context.Context, tr *i18n.Translator, sess *Session, _ string) reply {
	cctx, cancel := d.serviceCtx(ctx)
	defer cancel()

	balance, err := d.svc.Balances.GetBalance(cctx, sess.PhoneNumber)
	if err != nil {
		return d.serviceFailure(ctx, tr, sess, "balance.get", err)
	}

	return end(tr.T("balance.result", i18n.M{
		"available": balance.Available,
		"pending":   balance.Pending,
	}))
}
