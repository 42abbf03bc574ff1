package tier

import "slices"

// narratives holds the descriptive bullet copy shown under the tier header.
// It is maintained by hand next to the catalog and may intentionally differ
// from the catalog numbers.
var narratives = map[string]map[string][]string{
	"bronze": {
		"en": {
			"Access to our support desk during business hours",
			"Email and portal based ticket submission",
			"Response within 8 business hours for Severity B",
			"Monthly service health summary",
		},
		"fr": {
			"Accès à notre centre de support aux heures ouvrées",
			"Ouverture de tickets par e-mail et via le portail",
			"Réponse sous 8 heures ouvrées pour la Sévérité B",
			"Synthèse mensuelle de l'état du service",
		},
		"de": {
			"Zugang zu unserem Support während der Geschäftszeiten",
			"Ticketerstellung per E-Mail und über das Portal",
			"Reaktion innerhalb von 8 Geschäftsstunden bei Schweregrad B",
			"Monatliche Zusammenfassung des Servicestatus",
		},
	},
	"silver": {
		"en": {
			"Extended business hours coverage",
			"Phone, email and portal ticket submission",
			"Response within 4 business hours for Severity B",
			"Named service delivery contact",
			"Quarterly service review",
		},
		"fr": {
			"Couverture étendue des heures ouvrées",
			"Ouverture de tickets par téléphone, e-mail et portail",
			"Réponse sous 4 heures ouvrées pour la Sévérité B",
			"Interlocuteur de service dédié",
			"Revue de service trimestrielle",
		},
		"de": {
			"Erweiterte Abdeckung der Geschäftszeiten",
			"Ticketerstellung per Telefon, E-Mail und Portal",
			"Reaktion innerhalb von 4 Geschäftsstunden bei Schweregrad B",
			"Benannter Ansprechpartner für die Servicebereitstellung",
			"Vierteljährliches Service-Review",
		},
	},
	"gold": {
		"en": {
			"24/7 critical situation support for Severity A incidents",
			"One hour response for Severity A",
			"Proactive monitoring recommendations",
			"Dedicated technical account manager",
			"Monthly service review",
		},
		"fr": {
			"Support des situations critiques 24h/24 et 7j/7 pour les incidents de Sévérité A",
			"Réponse sous une heure pour la Sévérité A",
			"Recommandations de supervision proactive",
			"Responsable technique de compte dédié",
			"Revue de service mensuelle",
		},
		"de": {
			"Unterstützung in kritischen Situationen rund um die Uhr bei Schweregrad A",
			"Reaktion innerhalb einer Stunde bei Schweregrad A",
			"Empfehlungen zur proaktiven Überwachung",
			"Dedizierter technischer Kundenbetreuer",
			"Monatliches Service-Review",
		},
	},
	"platinum": {
		"en": {
			"24/7 support for every severity level",
			"30 minute response for Severity A",
			"Dedicated engineering team familiar with your environment",
			"Unlimited support requests",
			"Architecture and security posture reviews",
			"Executive sponsor and weekly service review",
		},
		"fr": {
			"Support 24h/24 et 7j/7 pour tous les niveaux de sévérité",
			"Réponse sous 30 minutes pour la Sévérité A",
			"Équipe d'ingénieurs dédiée connaissant votre environnement",
			"Demandes de support illimitées",
			"Revues d'architecture et de posture de sécurité",
			"Sponsor exécutif et revue de service hebdomadaire",
		},
		"de": {
			"Support rund um die Uhr für alle Schweregrade",
			"Reaktion innerhalb von 30 Minuten bei Schweregrad A",
			"Dediziertes Engineering-Team, das Ihre Umgebung kennt",
			"Unbegrenzte Supportanfragen",
			"Architektur- und Sicherheitsbewertungen",
			"Executive Sponsor und wöchentliches Service-Review",
		},
	},
}

// Narrative returns the descriptive bullets for a tier in lang, falling back
// to English. Tiers without copy yield nil.
func Narrative(key, lang string) []string {
	byLang, ok := narratives[key]
	if !ok {
		return nil
	}
	if lines, ok := byLang[lang]; ok {
		return slices.Clone(lines)
	}
	return slices.Clone(byLang["en"])
}
