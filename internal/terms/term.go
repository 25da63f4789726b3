package terms

import "github.com/abhisek/lexicon/internal/rarity"

// TargetLanguage is the language every translation in the catalog is written in.
const TargetLanguage = "ru"

// Term is a musical-notation word or phrase paired with its translation.
// Terms are read-only; the catalog is the single source of truth.
type Term struct {
	Term        string
	Translation string
	Rarity      rarity.Tier
	Lang        string // ISO 639-1 code of the term itself, e.g. "it"
}

// LangDisplayName returns a readable name for the term's source language.
func (t Term) LangDisplayName() string {
	switch t.Lang {
	case "it":
		return "Italian"
	case "de":
		return "German"
	case "fr":
		return "French"
	default:
		return t.Lang
	}
}
