// Package i18n holds the French and English message catalogues used by
// templates, flash messages and violation codes.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Default is the language used when nothing better is known.
const Default = "fr"

var supported = []language.Tag{language.French, language.English}

var matcher = language.NewMatcher(supported)

// DetectLanguage picks fr or en from an Accept-Language header.
func DetectLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// T translates code into lang, falling back to French then to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[Default][code]; ok {
		return s
	}
	return code
}

var catalog = map[string]map[string]string{
	"fr": {
		// violations
		"required":            "Requis",
		"must_be_positive":    "Doit être supérieur à zéro",
		"out_of_range":        "Valeur hors limites",
		"invalid_email":       "Adresse email invalide",
		"invalid_choice":      "Choix invalide",
		"invalid":             "Valeur invalide",
		"invalid_number":      "Nombre invalide",
		"invalid_date":        "Date invalide",
		"not_found":           "Introuvable",
		"email_taken":         "Cet email est déjà utilisé",
		"invalid_credentials": "Email ou mot de passe incorrect",
		"password_too_short":  "Le mot de passe doit contenir au moins 8 caractères",

		// flash
		"flash.created": "Enregistrement créé",
		"flash.updated": "Enregistrement mis à jour",
		"flash.deleted": "Enregistrement supprimé",

		// navigation
		"nav.dashboard": "Tableau de bord",
		"nav.clients":   "Clients",
		"nav.articles":  "Articles",
		"nav.bookings":  "Bookings",
		"nav.factures":  "Factures",
		"nav.logout":    "Déconnexion",
		"nav.login":     "Connexion",
		"nav.signup":    "Inscription",

		// common
		"common.save":           "Enregistrer",
		"common.cancel":         "Annuler",
		"common.edit":           "Modifier",
		"common.delete":         "Supprimer",
		"common.view":           "Voir",
		"common.new":            "Nouveau",
		"common.search":         "Rechercher",
		"common.filter":         "Filtrer",
		"common.actions":        "Actions",
		"common.empty":          "Aucun enregistrement",
		"common.prev":           "Précédent",
		"common.next":           "Suivant",
		"common.page":           "Page",
		"common.total":          "Total",
		"common.date":           "Date",
		"common.all":            "Tous",
		"common.from":           "Du",
		"common.to":             "Au",
		"common.confirm_delete": "Supprimer cet enregistrement ?",

		// auth
		"auth.email":    "Email",
		"auth.password": "Mot de passe",
		"auth.name":     "Nom",
		"auth.login":    "Se connecter",
		"auth.signup":   "Créer un compte",

		// dashboard
		"dashboard.title":          "Tableau de bord",
		"dashboard.clients":        "Clients",
		"dashboard.articles":       "Articles",
		"dashboard.bookings":       "Bookings",
		"dashboard.factures":       "Factures",
		"dashboard.bookings_total": "Coût total des bookings",
		"dashboard.revenue":        "Chiffre d'affaires encaissé",
		"dashboard.outstanding":    "Montant à recouvrer",

		// clients
		"client.title":      "Clients",
		"client.nom":        "Nom",
		"client.email":      "Email",
		"client.telephone":  "Téléphone",
		"client.entreprise": "Entreprise",
		"client.adresse":    "Adresse",

		// articles
		"article.title":       "Articles",
		"article.nom":         "Nom",
		"article.description": "Description",
		"article.prix":        "Prix",
		"article.unite":       "Unité",

		// bookings
		"booking.title":            "Bookings",
		"booking.new":              "Nouveau booking",
		"booking.edit":             "Modifier le booking",
		"booking.numero":           "Numéro",
		"booking.type_contenaire":  "Type de conteneur",
		"booking.type_produit":     "Type de produit",
		"booking.nombre_tc":        "Nombre de TC",
		"booking.frais_transport":  "Frais de transport",
		"booking.faux_frais":       "Faux frais",
		"booking.faux_frais_tc":    "Faux frais par TC",
		"booking.manutention":      "Manutention",
		"booking.facture":          "Facture",
		"booking.dfu":              "DFU",
		"booking.honoraire":        "Honoraire",
		"booking.caution":          "Caution",
		"booking.transport":        "Transport",
		"booking.export":           "Exporter (XLSX)",
		"container.20pieds":        "20 pieds",
		"container.40pieds":        "40 pieds",
		"product.semi_fini":        "Semi-fini",
		"product.matiere_premiere": "Matière première",

		// invoices
		"facture.title":         "Factures",
		"facture.new":           "Nouvelle facture",
		"facture.edit":          "Modifier la facture",
		"facture.numero":        "Numéro",
		"facture.client":        "Client",
		"facture.from_client":   "Client existant",
		"facture.lines":         "Articles",
		"facture.add_line":      "Ajouter une ligne",
		"facture.from_article":  "Article du catalogue",
		"facture.description":   "Description",
		"facture.quantite":      "Quantité",
		"facture.prix_unitaire": "Prix unitaire",
		"facture.line_total":    "Total",
		"facture.tva":           "TVA (%)",
		"facture.remise":        "Remise (%)",
		"facture.statut":        "Statut",
		"facture.subtotal":      "Sous-total",
		"facture.tax":           "TVA",
		"facture.discount":      "Remise",
		"facture.grand_total":   "Total TTC",
		"facture.pdf":           "Télécharger le PDF",
		"facture.invoice":       "FACTURE",
		"facture.bill_to":       "Facturé à",
		"status.payée":          "Payée",
		"status.impayée":        "Impayée",
		"status.en_retard":      "En retard",

		// settings
		"nav.settings":      "Paramètres",
		"settings.title":    "Paramètres de l'entreprise",
		"settings.name":     "Raison sociale",
		"settings.activity": "Activité",
		"settings.address":  "Adresse",
		"settings.phone":    "Téléphone",
		"settings.email":    "Email",
		"settings.capital":  "Capital social",
		"settings.rccm":     "RCCM",
		"settings.tax_id":   "N° contribuable",
	},
	"en": {
		"required":            "Required",
		"must_be_positive":    "Must be greater than zero",
		"out_of_range":        "Out of range",
		"invalid_email":       "Invalid email address",
		"invalid_choice":      "Invalid choice",
		"invalid":             "Invalid value",
		"invalid_number":      "Invalid number",
		"invalid_date":        "Invalid date",
		"not_found":           "Not found",
		"email_taken":         "This email is already registered",
		"invalid_credentials": "Wrong email or password",
		"password_too_short":  "Password must be at least 8 characters",

		"flash.created": "Record created",
		"flash.updated": "Record updated",
		"flash.deleted": "Record deleted",

		"nav.dashboard": "Dashboard",
		"nav.clients":   "Clients",
		"nav.articles":  "Items",
		"nav.bookings":  "Bookings",
		"nav.factures":  "Invoices",
		"nav.logout":    "Log out",
		"nav.login":     "Log in",
		"nav.signup":    "Sign up",

		"common.save":           "Save",
		"common.cancel":         "Cancel",
		"common.edit":           "Edit",
		"common.delete":         "Delete",
		"common.view":           "View",
		"common.new":            "New",
		"common.search":         "Search",
		"common.filter":         "Filter",
		"common.actions":        "Actions",
		"common.empty":          "No records",
		"common.prev":           "Previous",
		"common.next":           "Next",
		"common.page":           "Page",
		"common.total":          "Total",
		"common.date":           "Date",
		"common.all":            "All",
		"common.from":           "From",
		"common.to":             "To",
		"common.confirm_delete": "Delete this record?",

		"auth.email":    "Email",
		"auth.password": "Password",
		"auth.name":     "Name",
		"auth.login":    "Log in",
		"auth.signup":   "Create account",

		"dashboard.title":          "Dashboard",
		"dashboard.clients":        "Clients",
		"dashboard.articles":       "Items",
		"dashboard.bookings":       "Bookings",
		"dashboard.factures":       "Invoices",
		"dashboard.bookings_total": "Total booking cost",
		"dashboard.revenue":        "Collected revenue",
		"dashboard.outstanding":    "Outstanding amount",

		"client.title":      "Clients",
		"client.nom":        "Name",
		"client.email":      "Email",
		"client.telephone":  "Phone",
		"client.entreprise": "Company",
		"client.adresse":    "Address",

		"article.title":       "Items",
		"article.nom":         "Name",
		"article.description": "Description",
		"article.prix":        "Price",
		"article.unite":       "Unit",

		"booking.title":            "Bookings",
		"booking.new":              "New booking",
		"booking.edit":             "Edit booking",
		"booking.numero":           "Number",
		"booking.type_contenaire":  "Container type",
		"booking.type_produit":     "Product type",
		"booking.nombre_tc":        "Container count",
		"booking.frais_transport":  "Transport fee",
		"booking.faux_frais":       "Incidental fee",
		"booking.faux_frais_tc":    "Incidental fee per container",
		"booking.manutention":      "Handling",
		"booking.facture":          "Invoice",
		"booking.dfu":              "DFU",
		"booking.honoraire":        "Fee",
		"booking.caution":          "Deposit",
		"booking.transport":        "Transport",
		"booking.export":           "Export (XLSX)",
		"container.20pieds":        "20 ft",
		"container.40pieds":        "40 ft",
		"product.semi_fini":        "Semi-finished",
		"product.matiere_premiere": "Raw material",

		"facture.title":         "Invoices",
		"facture.new":           "New invoice",
		"facture.edit":          "Edit invoice",
		"facture.numero":        "Number",
		"facture.client":        "Client",
		"facture.from_client":   "Existing client",
		"facture.lines":         "Lines",
		"facture.add_line":      "Add line",
		"facture.from_article":  "Catalogue item",
		"facture.description":   "Description",
		"facture.quantite":      "Quantity",
		"facture.prix_unitaire": "Unit price",
		"facture.line_total":    "Total",
		"facture.tva":           "VAT (%)",
		"facture.remise":        "Discount (%)",
		"facture.statut":        "Status",
		"facture.subtotal":      "Subtotal",
		"facture.tax":           "VAT",
		"facture.discount":      "Discount",
		"facture.grand_total":   "Grand total",
		"facture.pdf":           "Download PDF",
		"facture.invoice":       "INVOICE",
		"facture.bill_to":       "Bill to",
		"status.payée":          "Paid",
		"status.impayée":        "Unpaid",
		"status.en_retard":      "Overdue",

		// settings
		"nav.settings":      "Settings",
		"settings.title":    "Company settings",
		"settings.name":     "Company name",
		"settings.activity": "Activity",
		"settings.address":  "Address",
		"settings.phone":    "Phone",
		"settings.email":    "Email",
		"settings.capital":  "Share capital",
		"settings.rccm":     "Trade register (RCCM)",
		"settings.tax_id":   "Taxpayer number",
	},
}
