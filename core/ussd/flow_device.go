package ussd

import (
	"context"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// deviceFlow registers an IoT device against the subscriber's farm:
//
//	step 0: entry, render device type menu
//	step 1: type selected, ask for farm location
//	step 2: location entered, ask for serial number
//	step 3: serial entered, render confirmation
//	step 4: confirmation, register or cancel
func (d *Dispatcher) deviceFlow(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply {
	switch sess.Step {
	case 0:
		sess.Step = 1
		return con(d.menus.Render(MenuDeviceType, tr))

	case 1:
		idx, ok := d.menus.Select(MenuDeviceType, input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}
		sess.Set(keyDeviceType, deviceTypes[idx])
		sess.Step = 2
		return con(tr.T("device.enter_location"))

	case 2:
		location, ok := freeText(input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}
		sess.Set(keyDeviceLocation, location)
		sess.Step = 3
		return con(tr.T("device.enter_serial"))

	case 3:
		serial, ok := freeText(input)
		if !ok {
			return end(tr.T("error.invalid_selection"))
		}
		sess.Set(keyDeviceSerial, serial)
		mintIdempotencyKey(sess)
		sess.Step = 4
		return con(tr.T("device.confirm", i18n.M{
			"type":     tr.T("device.type." + sess.Get(keyDeviceType)),
			"location": sess.Get(keyDeviceLocation),
			"serial":   sess.Get(keyDeviceSerial),
		}))

	case 4:
		switch input {
		case inputConfirm:
			return d.registerDevice(ctx, tr, sess)
		case inputCancel:
			return d.backToMain(tr, sess)
		default:
			return end(tr.T("error.invalid_selection"))
		}
	}

	return end(tr.T("error.generic"))
}

func (d *Dispatcher) registerDevice(ctx context.Context, tr *i18n.Translator, sess *Session) reply {
	cctx, cancel := d.serviceCtx(ctx)
	defer cancel()

	receipt, err := d.svc.Devices.Register(cctx, DeviceRegistration{
		PhoneNumber:    sess.PhoneNumber,
		DeviceType:     sess.Get(keyDeviceType),
		Location:       sess.Get(keyDeviceLocation),
		SerialNumber:   sess.Get(keyDeviceSerial),
		IdempotencyKey: sess.Get(keyIdempotency),
	})
	if err != nil {
		return d.serviceFailure(ctx, tr, sess, "device.register", err)
	}

	return end(tr.T("device.registered", i18n.M{"id": receipt.DeviceID}))
}
