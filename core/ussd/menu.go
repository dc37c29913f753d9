package ussd

import (
	"strconv"
	"strings"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// MenuID names an enumerated menu in the registry.
type MenuID string

const (
	MenuMain          MenuID = "main"
	MenuLoanType      MenuID = "loan_type"
	MenuLoanAmount    MenuID = "loan_amount"
	MenuLoanStatus    MenuID = "loan_status"
	MenuPaymentMethod MenuID = "payment_method"
	MenuDeviceType    MenuID = "device_type"
	MenuCommodity     MenuID = "commodity"
)

// Enumerated option values. The slice order defines the numbering the
// subscriber sees; labels come from the catalog under "<flow>.<group>.<value>".
var (
	loanTypes      = []string{"crop_inputs", "equipment", "livestock", "emergency"}
	loanBands      = []int64{5000, 10000, 25000, 50000}
	paymentMethods = []string{"mpesa", "airtel_money", "bank_transfer"}
	deviceTypes    = []string{"soil_sensor", "weather_station", "irrigation_controller", "gps_tracker"}
	commodities    = []string{"maize", "beans", "coffee", "tea", "bananas"}
)

// Menu is one enumerated menu: a title, numbered options, and a trailing
// back or exit affordance.
type Menu struct {
	TitleKey   string
	OptionKeys []string

	// Root menus offer "0. Exit"; everything deeper offers "0. Back".
	Root bool
}

// Registry holds the per-language menu trees. Language handling is done by
// the catalog: a missing translation falls back to the default language, so
// rendering never fails.
type Registry struct {
	menus map[MenuID]Menu
}

// NewRegistry builds the registry for the platform's menu tree.
func NewRegistry() *Registry {
	return &Registry{menus: map[MenuID]Menu{
		MenuMain: {
			TitleKey: "menu.main.title",
			OptionKeys: []string{
				"menu.main.loan",
				"menu.main.status",
				"menu.main.payment",
				"menu.main.balance",
				"menu.main.device",
				"menu.main.market",
				"menu.main.weather",
				"menu.main.support",
			},
			Root: true,
		},
		MenuLoanType: {
			TitleKey:   "loan.type.title",
			OptionKeys: prefixedKeys("loan.type.", loanTypes),
		},
		MenuLoanAmount: {
			TitleKey:   "loan.amount.title",
			OptionKeys: append(bandKeys(loanBands), "loan.amount.custom"),
		},
		MenuLoanStatus: {
			TitleKey:   "status.title",
			OptionKeys: []string{"status.active", "status.history"},
		},
		MenuPaymentMethod: {
			TitleKey:   "payment.method.title",
			OptionKeys: prefixedKeys("payment.method.", paymentMethods),
		},
		MenuDeviceType: {
			TitleKey:   "device.type.title",
			OptionKeys: prefixedKeys("device.type.", deviceTypes),
		},
		MenuCommodity: {
			TitleKey:   "market.commodity.title",
			OptionKeys: prefixedKeys("market.commodity.", commodities),
		},
	}}
}

// Render produces the menu text for the translator's language: title,
// numbered options, and the back or exit affordance.
func (r *Registry) Render(id MenuID, tr *i18n.Translator) string {
	menu, ok := r.menus[id]
	if !ok {
		// Unknown menus indicate a wiring bug; render nothing rather than
		// leak an internal identifier to the handset.
		return ""
	}

	var b strings.Builder
	b.WriteString(tr.T(menu.TitleKey))
	for i, key := range menu.OptionKeys {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(tr.T(key))
	}
	b.WriteString("\n")
	if menu.Root {
		b.WriteString(tr.T("menu.exit"))
	} else {
		b.WriteString(tr.T("menu.back"))
	}
	return b.String()
}

// Options returns the number of numbered options in a menu, used to
// validate subscriber selections.
func (r *Registry) Options(id MenuID) int {
	return len(r.menus[id].OptionKeys)
}

// Select resolves a numeric input against a menu's option list, returning
// the zero-based index. The boolean is false for anything outside 1..N.
func (r *Registry) Select(id MenuID, input string) (int, bool) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > r.Options(id) {
		return 0, false
	}
	return n - 1, true
}

func prefixedKeys(prefix string, values []string) []string {
	keys := make([]string, len(values))
	for i, v := range values {
		keys[i] = prefix + v
	}
	return keys
}

func bandKeys(bands []int64) []string {
	keys := make([]string, len(bands))
	for i, b := range bands {
		keys[i] = "loan.amount.band." + strconv.FormatInt(b, 10)
	}
	return keys
}
