package intel

import "strings"

// About/Team/Leadership link keywords across the 11 supported
// languages. Short forms are matched exactly against the link text,
// longer phrases by substring.
var aboutExact = []string{
	"om",      // da/sv/no
	"about",   // en
	"team",    // en/de/da
	"über",    // de
	"sobre",   // es/pt
	"chi",     // it (chi siamo shortened nav label)
	"tietoa",  // fi
}

var aboutSubstrings = []string{
	"about us", "about-us", "our team", "our story", "who we are",
	"leadership", "management", "people",
	"om os", "om oss", "hvem er vi", "vores team", // da/no/sv
	"à propos", "qui sommes-nous", "notre équipe", "l'équipe", // fr
	"über uns", "unser team", "wir über uns", // de
	"sobre nosotros", "quiénes somos", "nuestro equipo", // es
	"chi siamo", "il nostro team", // it
	"over ons", "ons team", // nl
	"sobre nós", "quem somos", // pt
	"tietoa meistä", "meistä", // fi
	"о нас", // ru
}

// Founder-related keywords, multilingual, matched case-insensitively
// by substring.
var founderKeywords = []string{
	"founder", "co-founder", "cofounder", "founded by",
	"ceo", "chief executive", "owner", "managing director",
	"grundlægger", "medstifter", "stifter", "ejer", "direktør", // da
	"fondateur", "fondatrice", "cofondateur", "gérant", "pdg", // fr
	"gründer", "mitgründer", "inhaber", "geschäftsführer", // de
	"fundador", "fundadora", "propietario", "dueño", // es
	"fondatore", "proprietario", // it
	"grundare", "ägare", // sv
	"grunnlegger", "eier", // no
	"oprichter", "eigenaar", // nl
	"proprietário", "sócio fundador", // pt
	"perustaja", "omistaja", // fi
}

// matchesAboutKeyword reports whether link text looks like an
// About/Team navigation entry.
func matchesAboutKeyword(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	for _, kw := range aboutExact {
		if t == kw {
			return true
		}
	}
	for _, kw := range aboutSubstrings {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// matchesFounderKeyword reports whether text mentions founders,
// owners or leadership in any supported language.
func matchesFounderKeyword(text string) bool {
	t := strings.ToLower(text)
	for _, kw := range founderKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
