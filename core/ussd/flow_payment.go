package ussd

import (
	"context"
	"strconv"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// paymentFlow is the repayment step machine:
//
//	step 0: entry, render payment method menu
//	step 1: method selected, ask for amount
//	step 2: amount entered, render confirmation
//	step 3: confirmation, process or cancel
func (d *Dispatcher) paymentFlow(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply {
	switch sess.Step {
	case 0:
		sess.Step = 1
		return con(d.menus.Render(MenuPaymentMethod, tr))

	case 1:
		idx, ok := d.menus.Select(MenuPaymentMethod, input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}
		sess.Set(keyPaymentMethod, paymentMethods[idx])
		sess.Step = 2
		return con(tr.T("payment.enter_amount", amountBounds(d.cfg.MinPaymentAmount, d.cfg.MaxPaymentAmount)))

	case 2:
		amount, err := parseAmount(input, d.cfg.MinPaymentAmount, d.cfg.MaxPaymentAmount)
		if err != nil {
			return end(tr.T("error.invalid_amount", amountBounds(d.cfg.MinPaymentAmount, d.cfg.MaxPaymentAmount)))
		}
		sess.Set(keyPaymentAmount, strconv.FormatInt(amount, 10))
		mintIdempotencyKey(sess)
		sess.Step = 3
		return con(tr.T("payment.confirm", i18n.M{
			"amount": sess.Get(keyPaymentAmount),
			"method": tr.T("payment.method." + sess.Get(keyPaymentMethod)),
		}))

	case 3:
		switch input {
		case inputConfirm:
			return d.processPayment(ctx, tr, sess)
		case inputCancel:
			return d.backToMain(tr, sess)
		default:
			return end(tr.T("error.invalid_selection"))
		}
	}

	return end(tr.T("error.generic"))
}

func (d *Dispatcher) processPayment(ctx context.Context, tr *i18n.Translator, sess *Session) reply {
	amount, err := strconv.ParseInt(sess.Get(keyPaymentAmount), 10, 64)
	if err != nil {
		return end(tr.T("error.generic"))
	}

	cctx, cancel := d.serviceCtx(ctx)
	defer cancel()

	receipt, err := d.svc.Payments.Process(cctx, PaymentRequest{
		PhoneNumber:    sess.PhoneNumber,
		Amount:         amount,
		Method:         sess.Get(keyPaymentMethod),
		IdempotencyKey: sess.Get(keyIdempotency),
	})
	if err != nil {
		return d.serviceFailure(ctx, tr, sess, "payment.process", err)
	}

	return end(tr.T("payment.submitted", i18n.M{
		"amount": sess.Get(keyPaymentAmount),
		"ref":    receipt.Reference,
	}))
}
