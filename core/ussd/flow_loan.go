package ussd

import (
	"context"
	"strconv"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// loanFlow is the loan application step machine:
//
//	step 0: entry, render loan type menu
//	step 1: loan type selected, render amount bands
//	step 2: band selected (or "other" chosen, go to free-form entry)
//	step 3: free-form amount entered
//	step 4: confirmation, submit or cancel
func (d *Dispatcher) loanFlow(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply {
	switch sess.Step {
	case 0:
		sess.Step = 1
		return con(d.menus.Render(MenuLoanType, tr))

	case 1:
		idx, ok := d.menus.Select(MenuLoanType, input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}
		sess.Set(keyLoanType, loanTypes[idx])
		sess.Step = 2
		return con(d.menus.Render(MenuLoanAmount, tr))

	case 2:
		idx, ok := d.menus.Select(MenuLoanAmount, input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}
		if idx == len(loanBands) {
			// Last option is free-form entry.
			sess.Step = 3
			return con(tr.T("loan.enter_amount", amountBounds(d.cfg.MinLoanAmount, d.cfg.MaxLoanAmount)))
		}
		sess.Set(keyLoanAmount, strconv.FormatInt(loanBands[idx], 10))
		return d.loanConfirmPrompt(tr, sess)

	case 3:
		amount, err := parseAmount(input, d.cfg.MinLoanAmount, d.cfg.MaxLoanAmount)
		if err != nil {
			return end(tr.T("error.invalid_amount", amountBounds(d.cfg.MinLoanAmount, d.cfg.MaxLoanAmount)))
		}
		sess.Set(keyLoanAmount, strconv.FormatInt(amount, 10))
		return d.loanConfirmPrompt(tr, sess)

	case 4:
		switch input {
		case inputConfirm:
			return d.submitLoan(ctx, tr, sess)
		case inputCancel:
			return d.backToMain(tr, sess)
		default:
			return end(tr.T("error.invalid_selection"))
		}
	}

	return end(tr.T("error.generic"))
}

func (d *Dispatcher) loanConfirmPrompt(tr *i18n.Translator, sess *Session) reply {
	mintIdempotencyKey(sess)
	sess.Step = 4
	return con(tr.T("loan.confirm", i18n.M{
		"type":   tr.T("loan.type." + sess.Get(keyLoanType)),
		"amount": sess.Get(keyLoanAmount),
	}))
}

func (d *Dispatcher) submitLoan(ctx context.Context, tr *i18n.Translator, sess *Session) reply {
	amount, err := strconv.ParseInt(sess.Get(keyLoanAmount), 10, 64)
	if err != nil {
		return end(tr.T("error.generic"))
	}

	cctx, cancel := d.serviceCtx(ctx)
	defer cancel()

	receipt, err := d.svc.Loans.Submit(cctx, LoanApplication{
		PhoneNumber:    sess.PhoneNumber,
		LoanType:       sess.Get(keyLoanType),
		Amount:         amount,
		IdempotencyKey: sess.Get(keyIdempotency),
	})
	if err != nil {
		return d.serviceFailure(ctx, tr, sess, "loan.submit", err)
	}

	return end(tr.T("loan.submitted", i18n.M{"ref": receipt.ApplicationID}))
}
