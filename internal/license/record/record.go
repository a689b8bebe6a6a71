// Package record renders a normalized license record into the canonical
// AAMVA-shaped DL subfile text handed to the barcode encoder.
//
// The builder is a pure single-pass transform: it collects the present
// (tag, value) pairs in the fixed element order, derives the discriminator
// and audit field when the input did not supply them, and joins everything
// under the fixed header block.
package record

import (
	"fmt"
	"strings"
	"time"

	"licensegen/internal/license/codes"
	"licensegen/internal/license/models"
	dErrors "licensegen/pkg/domain-errors"
)

const (
	// maxRecordBytes bounds the assembled text so the symbol stays well
	// inside PDF417's practical capacity at the error-correction level used.
	maxRecordBytes = 1000

	countryCode = "USA"

	// headerSuffix is the fixed version/subfile block following the IIN,
	// reproduced byte-for-byte from the reference record layout.
	headerSuffix = "060002DL00410257ZT02980037DL"
)

// element is one tagged line of the DL subfile.
type element struct {
	tag   string
	value string
}

// Builder renders canonical record text. It holds only immutable tables and
// is safe for concurrent use.
type Builder struct {
	tables *codes.Tables
	maxLen int
}

// NewBuilder returns a Builder backed by the given code tables.
func NewBuilder(tables *codes.Tables) *Builder {
	return &Builder{tables: tables, maxLen: maxRecordBytes}
}

// Build renders rec into canonical record text. now feeds the discriminator
// derivation; with a fixed now and a fixed record the output is byte-stable.
func (b *Builder) Build(rec *models.NormalizedLicenseRecord, now time.Time) (string, error) {
	if rec == nil {
		return "", dErrors.New(dErrors.CodeInternal, "nil record")
	}

	iin, ok := b.tables.IIN(rec.Jurisdiction)
	if !ok {
		// Validation rejects unknown jurisdictions; keep a safe constant
		// rather than failing the build if one slips through.
		iin = codes.FallbackIIN
	}

	sexCode, ok := b.tables.SexCode(rec.Sex)
	if !ok {
		return "", dErrors.Newf(dErrors.CodeInternal, "unmapped sex code %q", rec.Sex)
	}

	discriminator := rec.Discriminator
	if discriminator == "" {
		discriminator = deriveDiscriminator(iin, rec.ID, now)
	}
	audit := rec.AuditField
	if audit == "" {
		audit = deriveAuditField(rec.ID, rec.ExpiryDate)
	}

	elements := []element{
		{"DAQ", rec.ID},
		{"DCS", rec.LastName},
		{"DAC", rec.FirstName},
	}
	if rec.MiddleName != "" {
		elements = append(elements, element{"DAD", rec.MiddleName})
	}
	elements = append(elements,
		element{"DBC", sexCode},
		element{"DBB", rec.BirthDate.Format("01022006")},
		element{"DBD", rec.IssueDate.Format("01022006")},
		element{"DBA", rec.ExpiryDate.Format("01022006")},
		element{"DCA", rec.Class},
		element{"DAU", fmt.Sprintf("%03d", rec.HeightInches)},
		element{"DAY", rec.EyeColor},
		element{"DAG", rec.Street},
		element{"DAI", rec.City},
		element{"DAJ", rec.Jurisdiction},
		element{"DAK", rec.PostalCode},
		element{"DCF", discriminator},
		element{"DCG", countryCode},
		element{"DCK", audit},
	)
	if rec.WeightLbs > 0 {
		elements = append(elements, element{"DAW", fmt.Sprintf("%03d", rec.WeightLbs)})
	}
	if rec.HairColor != "" {
		elements = append(elements, element{"DAZ", rec.HairColor})
	}
	if rec.Street2 != "" {
		elements = append(elements, element{"DAH", rec.Street2})
	}
	// Restrictions and endorsements appear twice, under both tag pairs the
	// reference layout emits.
	elements = append(elements,
		element{"DDB", rec.Restrictions},
		element{"DDA", rec.Endorsements},
		element{"DCD", rec.Restrictions},
		element{"DCE", rec.Endorsements},
	)
	if rec.Donor {
		elements = append(elements, element{"DDK", "1"})
	}
	if rec.Veteran {
		elements = append(elements, element{"DDL", "1"})
	}

	var sb strings.Builder
	sb.WriteString("@\n\n")
	sb.WriteString("ANSI ")
	sb.WriteString(iin)
	sb.WriteString(headerSuffix)
	for _, el := range elements {
		sb.WriteByte('\n')
		sb.WriteString(el.tag)
		sb.WriteString(el.value)
	}

	text := sb.String()
	if len(text) > b.maxLen {
		return "", dErrors.Newf(dErrors.CodeRecordTooLarge,
			"record is %d bytes, limit is %d", len(text), b.maxLen)
	}
	return text, nil
}

// deriveDiscriminator builds a 20-character document discriminator from the
// issuer IIN, the build date, and the low-order digits of the ID. Stable for
// a fixed date, unique enough across physical documents.
func deriveDiscriminator(iin, id string, now time.Time) string {
	d := iin + now.Format("20060102") + lowOrderDigits(id, 6)
	if len(d) > 20 {
		d = d[:20]
	}
	return d
}

// deriveAuditField builds the fixed-width 15-character audit/control token
// from the low-order digits of the ID and the expiry date, closed with a
// two-digit digit-sum check.
func deriveAuditField(id string, expiry time.Time) string {
	body := lowOrderDigits(id, 5) + expiry.Format("01022006")
	sum := 0
	for _, r := range body {
		sum += int(r - '0')
	}
	return body + fmt.Sprintf("%02d", sum%97)
}

// lowOrderDigits extracts the digits of s, keeps the last n, and left-pads
// with zeros when fewer are present.
func lowOrderDigits(s string, n int) string {
	var digits []byte
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) > n {
		digits = digits[len(digits)-n:]
	}
	for len(digits) < n {
		digits = append([]byte{'0'}, digits...)
	}
	return string(digits)
}
