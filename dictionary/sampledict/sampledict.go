// Package sampledict provides a small, fixed word list for tests and
// for running the submission service without wiring a production
// Wordle dictionary. It is not the real Wordle answer/allowed lists —
// spec.md §6.1 treats those as an out-of-scope external input supplied
// by the caller.
package sampledict

// Solutions is a small set of common five-letter words flagged as
// possible puzzle answers.
var Solutions = []string{
	"crate", "slate", "plate", "trace", "grate",
	"brace", "place", "space", "stare", "spare",
	"scare", "share", "shore", "store", "stone",
	"crane", "raise", "arise", "adieu", "audio",
}

// Allowed is a small set of additional valid guesses that are never
// themselves puzzle answers.
var Allowed = []string{
	"tepee", "venom", "clump", "perch", "tuner",
	"exits", "doozy", "yahoo", "preen", "hyper",
	"upper", "ulama", "offal", "xylyl", "fuzzy",
}
