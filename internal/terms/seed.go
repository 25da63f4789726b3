package terms

import "github.com/abhisek/lexicon/internal/rarity"

var seedTerms = []Term{
	{Term: "Allegro", Translation: "Весело", Rarity: rarity.Common, Lang: "it"},
	{Term: "Piano", Translation: "Тихо", Rarity: rarity.Common, Lang: "it"},
	{Term: "Forte", Translation: "Громко", Rarity: rarity.Common, Lang: "it"},
	{Term: "Largo", Translation: "Широко", Rarity: rarity.Common, Lang: "it"},
	{Term: "Presto", Translation: "Быстро", Rarity: rarity.Rare, Lang: "it"},
	{Term: "Rubato", Translation: "Свободно", Rarity: rarity.Rare, Lang: "it"},
	{Term: "Sforzando", Translation: "Внезапно усиливая", Rarity: rarity.Rare, Lang: "it"},
	{Term: "Smorzando", Translation: "Угасая", Rarity: rarity.Legendary, Lang: "it"},
	{Term: "Incalzando", Translation: "Ускоряя и усиливая", Rarity: rarity.Legendary, Lang: "it"},
	{Term: "Bisbigliando", Translation: "Шепотом", Rarity: rarity.Mythical, Lang: "it"},
	{Term: "Klangfarbenmelodie", Translation: "Тембровая мелодия", Rarity: rarity.Mythical, Lang: "de"},
}

func init() {
	if err := validateTerms(seedTerms); err != nil {
		panic("terms: invalid seed catalog: " + err.Error())
	}
	c = buildCatalog(seedTerms)
}
