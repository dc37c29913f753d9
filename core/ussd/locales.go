package ussd

import "github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"

// supportedLanguages drives the language-selection prompt. Labels are shown
// in their own language since the subscriber has not chosen one yet.
var supportedLanguages = []struct {
	Code  string
	Label string
}{
	{"en", "English"},
	{"sw", "Kiswahili"},
	{"fr", "Français"},
}

// NewCatalog builds the translation catalog for all menu and prompt text.
// The default language is the fail-closed fallback for every lookup.
func NewCatalog(defaultLanguage string, opts ...i18n.Option) (*i18n.I18n, error) {
	base := []i18n.Option{
		i18n.WithDefaultLanguage(defaultLanguage),
		i18n.WithTranslations("en", localeEN),
		i18n.WithTranslations("sw", localeSW),
		i18n.WithTranslations("fr", localeFR),
	}
	return i18n.New(append(base, opts...)...)
}

var localeEN = map[string]string{
	"language.title": "Welcome to AgriCredit",

	"menu.back": "0. Back",
	"menu.exit": "0. Exit",

	"menu.main.title":   "AgriCredit",
	"menu.main.loan":    "Apply for Loan",
	"menu.main.status":  "Loan Status",
	"menu.main.payment": "Make Payment",
	"menu.main.balance": "Check Balance",
	"menu.main.device":  "Register Device",
	"menu.main.market":  "Market Prices",
	"menu.main.weather": "Weather Info",
	"menu.main.support": "Help & Support",

	"loan.type.title":            "Select Loan Type:",
	"loan.type.crop_inputs":      "Crop Inputs",
	"loan.type.equipment":        "Farm Equipment",
	"loan.type.livestock":        "Livestock",
	"loan.type.emergency":        "Emergency",
	"loan.amount.title":          "Select Amount:",
	"loan.amount.band.5000":      "KES 5,000",
	"loan.amount.band.10000":     "KES 10,000",
	"loan.amount.band.25000":     "KES 25,000",
	"loan.amount.band.50000":     "KES 50,000",
	"loan.amount.custom":         "Other amount",
	"loan.enter_amount":          "Enter amount in KES ({min}-{max}):",
	"loan.confirm":               "Confirm Loan Application:\nType: {type}\nAmount: KES {amount}\n1. Confirm\n2. Cancel",
	"loan.submitted":             "Your loan application has been received.\nRef: {ref}\nYou will get an SMS within 24 hours.",

	"status.title":          "Loan Status:",
	"status.active":         "Active Loans",
	"status.history":        "Payment History",
	"status.active_header":  "Your Active Loans:",
	"status.line":           "{type}: KES {amount} ({status})",
	"status.none":           "You have no active loans.",
	"status.history_header": "Recent Payments:",
	"status.payment_line":   "{date}: KES {amount}",
	"status.history_none":   "No payments found.",

	"payment.method.title":        "Select Payment Method:",
	"payment.method.mpesa":        "M-Pesa",
	"payment.method.airtel_money": "Airtel Money",
	"payment.method.bank_transfer": "Bank Transfer",
	"payment.enter_amount":        "Enter amount to pay in KES ({min}-{max}):",
	"payment.confirm":             "Pay KES {amount} via {method}?\n1. Confirm\n2. Cancel",
	"payment.submitted":           "Payment of KES {amount} initiated.\nRef: {ref}\nFollow the prompt on your phone.",

	"balance.result": "AgriCredit Balance:\nAvailable: KES {available}\nPending: KES {pending}",

	"device.type.title":                "Select Device Type:",
	"device.type.soil_sensor":          "Soil Sensor",
	"device.type.weather_station":      "Weather Station",
	"device.type.irrigation_controller": "Irrigation Controller",
	"device.type.gps_tracker":          "GPS Tracker",
	"device.enter_location":            "Enter your farm location:",
	"device.enter_serial":              "Enter the device serial number:",
	"device.confirm":                   "Register Device:\nType: {type}\nLocation: {location}\nSerial: {serial}\n1. Confirm\n2. Cancel",
	"device.registered":                "Device registered successfully.\nID: {id}",

	"market.commodity.title":   "Select Commodity:",
	"market.commodity.maize":   "Maize",
	"market.commodity.beans":   "Beans",
	"market.commodity.coffee":  "Coffee",
	"market.commodity.tea":     "Tea",
	"market.commodity.bananas": "Bananas",
	"market.result":            "{commodity}: KES {price} per {unit}\nChange: {change}",

	"weather.enter_location": "Enter your location:",
	"weather.result":         "Weather for {location}:\n{condition}, {temperature}C\nHumidity: {humidity}%",

	"support.info": "AgriCredit Support:\nCall 0800 720 553 (toll free)\nSMS HELP to 21455\nMon-Sat 8am-6pm",

	"goodbye": "Thank you for using AgriCredit.",

	"error.invalid_selection": "Invalid selection. Please dial again to restart.",
	"error.invalid_amount":    "Invalid amount. Enter a value between KES {min} and KES {max}.",
	"error.service":           "Service is temporarily unavailable. Please try again later.",
	"error.generic":           "Something went wrong. Please try again later.",
}

var localeSW = map[string]string{
	"language.title": "Karibu AgriCredit",

	"menu.back": "0. Rudi",
	"menu.exit": "0. Ondoka",

	"menu.main.title":   "AgriCredit",
	"menu.main.loan":    "Omba Mkopo",
	"menu.main.status":  "Hali ya Mkopo",
	"menu.main.payment": "Fanya Malipo",
	"menu.main.balance": "Angalia Salio",
	"menu.main.device":  "Sajili Kifaa",
	"menu.main.market":  "Bei za Soko",
	"menu.main.weather": "Hali ya Hewa",
	"menu.main.support": "Msaada",

	"loan.type.title":        "Chagua Aina ya Mkopo:",
	"loan.type.crop_inputs":  "Pembejeo za Kilimo",
	"loan.type.equipment":    "Vifaa vya Shamba",
	"loan.type.livestock":    "Mifugo",
	"loan.type.emergency":    "Dharura",
	"loan.amount.title":      "Chagua Kiasi:",
	"loan.amount.band.5000":  "KES 5,000",
	"loan.amount.band.10000": "KES 10,000",
	"loan.amount.band.25000": "KES 25,000",
	"loan.amount.band.50000": "KES 50,000",
	"loan.amount.custom":     "Kiasi kingine",
	"loan.enter_amount":      "Weka kiasi kwa KES ({min}-{max}):",
	"loan.confirm":           "Thibitisha Ombi la Mkopo:\nAina: {type}\nKiasi: KES {amount}\n1. Thibitisha\n2. Ghairi",
	"loan.submitted":         "Ombi lako la mkopo limepokelewa.\nKumbukumbu: {ref}\nUtapata SMS ndani ya saa 24.",

	"status.title":          "Hali ya Mkopo:",
	"status.active":         "Mikopo Hai",
	"status.history":        "Historia ya Malipo",
	"status.active_header":  "Mikopo Yako Hai:",
	"status.line":           "{type}: KES {amount} ({status})",
	"status.none":           "Huna mikopo hai.",
	"status.history_header": "Malipo ya Karibuni:",
	"status.payment_line":   "{date}: KES {amount}",
	"status.history_none":   "Hakuna malipo yaliyopatikana.",

	"payment.method.title":        "Chagua Njia ya Malipo:",
	"payment.method.mpesa":        "M-Pesa",
	"payment.method.airtel_money": "Airtel Money",
	"payment.method.bank_transfer": "Benki",
	"payment.enter_amount":        "Weka kiasi cha kulipa kwa KES ({min}-{max}):",
	"payment.confirm":             "Lipa KES {amount} kupitia {method}?\n1. Thibitisha\n2. Ghairi",
	"payment.submitted":           "Malipo ya KES {amount} yameanzishwa.\nKumbukumbu: {ref}\nFuata maelekezo kwenye simu yako.",

	"balance.result": "Salio la AgriCredit:\nInapatikana: KES {available}\nInasubiri: KES {pending}",

	"device.type.title":                "Chagua Aina ya Kifaa:",
	"device.type.soil_sensor":          "Kipima Udongo",
	"device.type.weather_station":      "Kituo cha Hali ya Hewa",
	"device.type.irrigation_controller": "Kidhibiti cha Umwagiliaji",
	"device.type.gps_tracker":          "Kifuatiliaji cha GPS",
	"device.enter_location":            "Weka eneo la shamba lako:",
	"device.enter_serial":              "Weka nambari ya kifaa:",
	"device.confirm":                   "Sajili Kifaa:\nAina: {type}\nEneo: {location}\nNambari: {serial}\n1. Thibitisha\n2. Ghairi",
	"device.registered":                "Kifaa kimesajiliwa.\nKitambulisho: {id}",

	"market.commodity.title":   "Chagua Bidhaa:",
	"market.commodity.maize":   "Mahindi",
	"market.commodity.beans":   "Maharagwe",
	"market.commodity.coffee":  "Kahawa",
	"market.commodity.tea":     "Chai",
	"market.commodity.bananas": "Ndizi",
	"market.result":            "{commodity}: KES {price} kwa {unit}\nBadiliko: {change}",

	"weather.enter_location": "Weka eneo lako:",
	"weather.result":         "Hali ya hewa {location}:\n{condition}, {temperature}C\nUnyevu: {humidity}%",

	"support.info": "Msaada wa AgriCredit:\nPiga 0800 720 553 (bila malipo)\nTuma HELP kwa 21455\nJumatatu-Jumamosi 8am-6pm",

	"goodbye": "Asante kwa kutumia AgriCredit.",

	"error.invalid_selection": "Chaguo si sahihi. Tafadhali piga tena kuanza upya.",
	"error.invalid_amount":    "Kiasi si sahihi. Weka kati ya KES {min} na KES {max}.",
	"error.service":           "Huduma haipatikani kwa sasa. Jaribu tena baadaye.",
	"error.generic":           "Hitilafu imetokea. Jaribu tena baadaye.",
}

var localeFR = map[string]string{
	"language.title": "Bienvenue chez AgriCredit",

	"menu.back": "0. Retour",
	"menu.exit": "0. Quitter",

	"menu.main.title":   "AgriCredit",
	"menu.main.loan":    "Demander un prêt",
	"menu.main.status":  "État du prêt",
	"menu.main.payment": "Effectuer un paiement",
	"menu.main.balance": "Consulter le solde",
	"menu.main.device":  "Enregistrer un appareil",
	"menu.main.market":  "Prix du marché",
	"menu.main.weather": "Météo",
	"menu.main.support": "Assistance",

	"loan.type.title":        "Choisir le type de prêt:",
	"loan.type.crop_inputs":  "Intrants agricoles",
	"loan.type.equipment":    "Équipement agricole",
	"loan.type.livestock":    "Bétail",
	"loan.type.emergency":    "Urgence",
	"loan.amount.title":      "Choisir le montant:",
	"loan.amount.band.5000":  "KES 5,000",
	"loan.amount.band.10000": "KES 10,000",
	"loan.amount.band.25000": "KES 25,000",
	"loan.amount.band.50000": "KES 50,000",
	"loan.amount.custom":     "Autre montant",
	"loan.enter_amount":      "Entrer le montant en KES ({min}-{max}):",
	"loan.confirm":           "Confirmer la demande de prêt:\nType: {type}\nMontant: KES {amount}\n1. Confirmer\n2. Annuler",
	"loan.submitted":         "Votre demande de prêt a été reçue.\nRéf: {ref}\nVous recevrez un SMS sous 24 heures.",

	"status.title":          "État du prêt:",
	"status.active":         "Prêts actifs",
	"status.history":        "Historique des paiements",
	"status.active_header":  "Vos prêts actifs:",
	"status.line":           "{type}: KES {amount} ({status})",
	"status.none":           "Vous n'avez aucun prêt actif.",
	"status.history_header": "Paiements récents:",
	"status.payment_line":   "{date}: KES {amount}",
	"status.history_none":   "Aucun paiement trouvé.",

	"payment.method.title":        "Choisir le mode de paiement:",
	"payment.method.mpesa":        "M-Pesa",
	"payment.method.airtel_money": "Airtel Money",
	"payment.method.bank_transfer": "Virement bancaire",
	"payment.enter_amount":        "Entrer le montant à payer en KES ({min}-{max}):",
	"payment.confirm":             "Payer KES {amount} via {method}?\n1. Confirmer\n2. Annuler",
	"payment.submitted":           "Paiement de KES {amount} initié.\nRéf: {ref}\nSuivez les instructions sur votre téléphone.",

	"balance.result": "Solde AgriCredit:\nDisponible: KES {available}\nEn attente: KES {pending}",

	"device.type.title":                "Choisir le type d'appareil:",
	"device.type.soil_sensor":          "Capteur de sol",
	"device.type.weather_station":      "Station météo",
	"device.type.irrigation_controller": "Contrôleur d'irrigation",
	"device.type.gps_tracker":          "Traceur GPS",
	"device.enter_location":            "Entrer l'emplacement de votre ferme:",
	"device.enter_serial":              "Entrer le numéro de série de l'appareil:",
	"device.confirm":                   "Enregistrer l'appareil:\nType: {type}\nLieu: {location}\nSérie: {serial}\n1. Confirmer\n2. Annuler",
	"device.registered":                "Appareil enregistré.\nID: {id}",

	"market.commodity.title":   "Choisir un produit:",
	"market.commodity.maize":   "Maïs",
	"market.commodity.beans":   "Haricots",
	"market.commodity.coffee":  "Café",
	"market.commodity.tea":     "Thé",
	"market.commodity.bananas": "Bananes",
	"market.result":            "{commodity}: KES {price} par {unit}\nVariation: {change}",

	"weather.enter_location": "Entrer votre localité:",
	"weather.result":         "Météo pour {location}:\n{condition}, {temperature}C\nHumidité: {humidity}%",

	"support.info": "Assistance AgriCredit:\nAppelez le 0800 720 553 (gratuit)\nSMS HELP au 21455\nLun-Sam 8h-18h",

	"goodbye": "Merci d'utiliser AgriCredit.",

	"error.invalid_selection": "Sélection invalide. Veuillez recomposer pour recommencer.",
	"error.invalid_amount":    "Montant invalide. Entrez une valeur entre KES {min} et KES {max}.",
	"error.service":           "Service temporairement indisponible. Réessayez plus tard.",
	"error.generic":           "Une erreur est survenue. Réessayez plus tard.",
}
