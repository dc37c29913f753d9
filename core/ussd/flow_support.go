package ussd

import (
	"context"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// supportFlow answers immediately with the support contact details.
func (d *Dispatcher) supportFlow(_ context.Context, tr *i18n.Translator, _ *Session, _ string) reply {
	return end(tr.T("support.info"))
}
