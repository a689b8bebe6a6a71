// Package codes holds the static code tables for the license record pipeline:
// the jurisdiction-to-IIN mapping and the AAMVA D20 code sets for sex, eye,
// and hair color. Tables are built once at process start and injected into
// the validator and builder; they are never mutated afterwards, so concurrent
// reads need no locking.
package codes

import "sort"

// FallbackIIN is emitted when the builder is handed a jurisdiction the table
// does not know. Validation rejects unknown jurisdictions first, so this is
// defense in depth, not a supported path.
const FallbackIIN = "636053"

// HairUnknown is the placeholder hair color used when the input omits one.
const HairUnknown = "UNK"

// iinByJurisdiction maps two-letter jurisdiction codes to AAMVA issuer
// identification numbers. Covers all US states, DC, and territories.
var iinByJurisdiction = map[string]string{
	"AL": "636033", "AK": "636059", "AZ": "636026", "AR": "636021",
	"CA": "636014", "CO": "636020", "CT": "636006", "DE": "636011",
	"DC": "636043", "FL": "636010", "GA": "636055", "HI": "636047",
	"ID": "636050", "IL": "636035", "IN": "636037", "IA": "636018",
	"KS": "636022", "KY": "636046", "LA": "636007", "ME": "636041",
	"MD": "636003", "MA": "636002", "MI": "636032", "MN": "636038",
	"MS": "636051", "MO": "636030", "MT": "636008", "NE": "636054",
	"NV": "636049", "NH": "636039", "NJ": "636036", "NM": "636009",
	"NY": "636001", "NC": "636004", "ND": "636034", "OH": "636023",
	"OK": "636058", "OR": "636029", "PA": "636025", "RI": "636052",
	"SC": "636005", "SD": "636042", "TN": "636053", "TX": "636015",
	"UT": "636040", "VT": "636024", "VA": "636000", "WA": "636045",
	"WV": "636061", "WI": "636031", "WY": "636060",
	"AS": "604427", "GU": "636019", "MP": "604430", "PR": "604431",
	"VI": "636062",
}

var eyeColors = map[string]struct{}{
	"BLK": {}, "BLU": {}, "BRO": {}, "DIC": {}, "GRN": {},
	"GRY": {}, "HAZ": {}, "MAR": {}, "PNK": {},
}

var hairColors = map[string]struct{}{
	"BAL": {}, "BLK": {}, "BLN": {}, "BRO": {}, "GRY": {},
	"RED": {}, "SDY": {}, "WHI": {}, HairUnknown: {},
}

// sexCodes maps the accepted sex letters to their ANSI numeric codes.
var sexCodes = map[string]string{"M": "1", "F": "2", "X": "9"}

// Tables bundles the immutable lookups so they can be injected instead of
// referenced as package globals from the pipeline.
type Tables struct {
	iin  map[string]string
	eye  map[string]struct{}
	hair map[string]struct{}
	sex  map[string]string
}

// NewTables returns the process-wide code tables.
func NewTables() *Tables {
	return &Tables{iin: iinByJurisdiction, eye: eyeColors, hair: hairColors, sex: sexCodes}
}

// IIN returns the issuer identification number for a jurisdiction code.
func (t *Tables) IIN(jurisdiction string) (string, bool) {
	iin, ok := t.iin[jurisdiction]
	return iin, ok
}

// ValidJurisdiction reports whether the two-letter code is a known issuer.
func (t *Tables) ValidJurisdiction(code string) bool {
	_, ok := t.iin[code]
	return ok
}

// ValidEyeColor reports whether the code is an accepted eye color.
func (t *Tables) ValidEyeColor(code string) bool {
	_, ok := t.eye[code]
	return ok
}

// ValidHairColor reports whether the code is an accepted hair color.
func (t *Tables) ValidHairColor(code string) bool {
	_, ok := t.hair[code]
	return ok
}

// SexCode maps a sex letter (M, F, X) to its ANSI numeric code.
func (t *Tables) SexCode(sex string) (string, bool) {
	code, ok := t.sex[sex]
	return code, ok
}

// ValidSex reports whether the letter is an accepted sex code.
func (t *Tables) ValidSex(sex string) bool {
	_, ok := t.sex[sex]
	return ok
}

// Jurisdictions returns the supported jurisdiction codes, sorted.
func (t *Tables) Jurisdictions() []string {
	out := make([]string, 0, len(t.iin))
	for code := range t.iin {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// EyeColors returns the accepted eye color codes, sorted.
func (t *Tables) EyeColors() []string {
	return sortedKeys(t.eye)
}

// HairColors returns the accepted hair color codes, sorted.
func (t *Tables) HairColors() []string {
	return sortedKeys(t.hair)
}

// Sexes returns the accepted sex letters, sorted.
func (t *Tables) Sexes() []string {
	out := make([]string, 0, len(t.sex))
	for s := range t.sex {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
