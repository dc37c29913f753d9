package ussd

import (
	"context"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// weatherFlow asks for a location and answers with current conditions.
func (d *Dispatcher) weatherFlow(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply {
	switch sess.Step {
	case 0:
		sess.Step = 1
		return con(tr.T("weather.enter_location"))

	case 1:
		location, ok := freeText(input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}

		cctx, cancel := d.serviceCtx(ctx)
		defer cancel()

		report, err := d.svc.Weather.GetWeather(cctx, location)
		if err != nil {
			return d.serviceFailure(ctx, tr, sess, "weather.get", err)
		}

		return end(tr.T("weather.result", i18n.M{
			"location":    location,
			"condition":   report.Condition,
			"temperature": report.Temperature,
			"humidity":    report.Humidity,
		}))
	}

	return end(tr.T("error.generic"))
}
