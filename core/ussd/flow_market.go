package ussd

import (
	"context"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// marketFlow shows the current price for one commodity.
func (d *Dispatcher) marketFlow(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply {
	switch sess.Step {
	case 0:
		sess.Step = 1
		return con(d.menus.Render(MenuCommodity, tr))

	case 1:
		idx, ok := d.menus.Select(MenuCommodity, input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}

		cctx, cancel := d.serviceCtx(ctx)
		defer cancel()

		price, err := d.svc.Market.GetPrice(cctx, commodities[idx])
		if err != nil {
			return d.serviceFailure(ctx, tr, sess, "market.get_price", err)
		}

		return end(tr.T("market.result", i18n.M{
			"commodity": tr.T("market.commodity." + price.Commodity),
			"price":     price.Price,
			"unit":      price.Unit,
			"change":    price.Change,
		}))
	}

	return end(tr.T("error.generic"))
}
