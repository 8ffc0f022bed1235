// Package viseme maps ARPAbet phonemes to mouth-shape categories.
package viseme

import "strings"

// Category identifies one viseme track.
type Category string

const (
	PP  Category = "pp"
	FF  Category = "ff"
	TH  Category = "th"
	DD  Category = "dd"
	KK  Category = "kk"
	CH  Category = "ch"
	SS  Category = "ss"
	NN  Category = "nn"
	RR  Category = "rr"
	AA  Category = "aa"
	E   Category = "e"
	I   Category = "i"
	O   Category = "o"
	U   Category = "u"
	Sil Category = "sil"
)

var table = map[string]Category{
	"P": PP, "B": PP, "M": PP,
	"F": FF, "V": FF,
	"TH": TH, "DH": TH,
	"D": DD, "T": DD,
	"K": KK, "G": KK,
	"CH": CH, "JH": CH,
	"S": SS, "Z": SS, "SH": SS, "ZH": SS,
	"N": NN, "NG": NN,
	"R":  RR,
	"AA": AA, "AE": AA, "AH": AA,
	"EH": E,
	"IH": I, "IY": I,
	"OW": O, "AO": O,
	"UW": U, "UH": U,
}

var order = []Category{PP, FF, TH, DD, KK, CH, SS, NN, RR, AA, E, I, O, U, Sil}

var vowels = map[string]struct{}{
	"AA": {}, "AE": {}, "AH": {}, "AO": {}, "AW": {}, "AY": {}, "EH": {}, "ER": {},
	"EY": {}, "IH": {}, "IY": {}, "OW": {}, "OY": {}, "UH": {}, "UW": {},
}

// Lookup returns the category for a phoneme. The symbol is uppercased but
// stress digits are kept, so "AE1" is not the same key as "AE". Anything not in
// the table resolves to Sil.
func Lookup(phoneme string) Category {
	if c, ok := table[strings.ToUpper(strings.TrimSpace(phoneme))]; ok {
		return c
	}
	return Sil
}

// Categories returns every category in export order, Sil last.
func Categories() []Category {
	return append([]Category(nil), order...)
}

// StripStress uppercases p and drops trailing stress digits ("ae1" -> "AE").
func StripStress(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	return strings.TrimRight(p, "0123456789")
}

// IsVowel reports whether p, with stress removed, is a vowel nucleus.
func IsVowel(p string) bool {
	_, ok := vowels[StripStress(p)]
	return ok
}
