// Package validate turns untrusted license input into a normalized record.
//
// Validation is all-or-nothing: the pipeline runs a fixed sequence of field
// steps and stops at the first failure, so no partially normalized record can
// ever leak out. The sequence is explicit so the one real ordering dependency
// (expiry is checked against the already-normalized issue date) is visible in
// the step list instead of hiding in declaration order.
package validate

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"licensegen/internal/license/codes"
	"licensegen/internal/license/models"
	dErrors "licensegen/pkg/domain-errors"
	"licensegen/pkg/requestcontext"
)

const (
	maxIDLength   = 20
	maxNameLength = 40
	maxAddrLength = 35
	minHeight     = 36
	maxHeight     = 96
	minWeight     = 50
	maxWeight     = 999
	minYear       = 1900
	maxYear       = 2100
)

var (
	nonAlnumRe   = regexp.MustCompile(`[^A-Z0-9]`)
	nonNameRe    = regexp.MustCompile(`[^A-Z \-.']`)
	nonAddrRe    = regexp.MustCompile(`[^A-Z0-9 #.,'\-]`)
	nonDigitRe   = regexp.MustCompile(`[^0-9]`)
	feetInchesRe = regexp.MustCompile(`^(\d)'\s*(\d{1,2})"?$`)
)

// Validator runs the field pipeline against the injected code tables. The
// clock comes from the request context so tests can pin it.
type Validator struct {
	tables *codes.Tables
}

// New returns a Validator backed by the given code tables.
func New(tables *codes.Tables) *Validator {
	return &Validator{tables: tables}
}

// step is one field check. Steps normalize into rec and return a
// field-attributed error on failure.
type step func(ctx context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error

// Validate runs the full pipeline. On success the returned record satisfies
// every field grammar and the cross-field date rules; on failure the record
// does not exist.
func (v *Validator) Validate(ctx context.Context, in *models.RawLicenseInput) (*models.NormalizedLicenseRecord, error) {
	if in == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	rec := &models.NormalizedLicenseRecord{}
	steps := []step{
		v.identificationNumber,
		v.lastName,
		v.firstName,
		v.middleName,
		v.sex,
		v.jurisdiction,
		v.street,
		v.secondAddressLine,
		v.city,
		v.postalCode,
		v.height,
		v.weight,
		v.eyeColor,
		v.hairColor,
		v.birthDate,
		v.issueDate,
		v.expiryDate, // depends on issueDate having run
		v.discriminator,
		v.auditField,
		v.class,
		v.restrictions,
		v.endorsements,
		v.flags,
	}
	for _, s := range steps {
		if err := s(ctx, in, rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (v *Validator) identificationNumber(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	id := nonAlnumRe.ReplaceAllString(strings.ToUpper(in.DLNumber), "")
	if id == "" {
		return dErrors.NewField("dl_number", "must contain at least one letter or digit")
	}
	if !govalidator.StringLength(id, "1", strconv.Itoa(maxIDLength)) {
		return dErrors.NewField("dl_number", "must be 20 characters or less")
	}
	rec.ID = id
	return nil
}

func (v *Validator) lastName(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	name, err := normalizeName("last_name", in.LastName, true)
	if err != nil {
		return err
	}
	rec.LastName = name
	return nil
}

func (v *Validator) firstName(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	name, err := normalizeName("first_name", in.FirstName, true)
	if err != nil {
		return err
	}
	rec.FirstName = name
	return nil
}

func (v *Validator) middleName(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	name, err := normalizeName("middle_name", in.MiddleName, false)
	if err != nil {
		return err
	}
	rec.MiddleName = name
	return nil
}

func (v *Validator) sex(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	sex := strings.ToUpper(strings.TrimSpace(in.Sex))
	if !v.tables.ValidSex(sex) {
		return dErrors.NewField("sex", "must be one of M, F, X")
	}
	rec.Sex = sex
	return nil
}

func (v *Validator) jurisdiction(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	code := strings.ToUpper(strings.TrimSpace(in.State))
	if !v.tables.ValidJurisdiction(code) {
		return dErrors.NewField("state", "is not a supported jurisdiction")
	}
	rec.Jurisdiction = code
	return nil
}

func (v *Validator) street(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	addr, err := normalizeAddress("address", in.Address, true)
	if err != nil {
		return err
	}
	rec.Street = addr
	return nil
}

func (v *Validator) secondAddressLine(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	addr, err := normalizeAddress("address_2nd_line", in.Address2, false)
	if err != nil {
		return err
	}
	rec.Street2 = addr
	return nil
}

func (v *Validator) city(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	city, err := normalizeAddress("city", in.City, true)
	if err != nil {
		return err
	}
	rec.City = city
	return nil
}

func (v *Validator) postalCode(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	zip := nonDigitRe.ReplaceAllString(in.ZipCode, "")
	if len(zip) != 5 {
		return dErrors.NewField("zip_code", "must be exactly 5 digits")
	}
	rec.PostalCode = zip
	return nil
}

func (v *Validator) height(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	inches, err := parseHeight(in.HeightInches)
	if err != nil {
		return err
	}
	if inches < minHeight || inches > maxHeight {
		return dErrors.NewField("height_inches", "must be between 36 and 96 inches")
	}
	rec.HeightInches = inches
	return nil
}

func (v *Validator) weight(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	w := strings.TrimSpace(in.WeightLbs)
	if w == "" {
		return nil
	}
	if !govalidator.IsNumeric(w) {
		return dErrors.NewField("weight_lbs", "must be a whole number of pounds")
	}
	lbs, err := strconv.Atoi(w)
	if err != nil || lbs < minWeight || lbs > maxWeight {
		return dErrors.NewField("weight_lbs", "must be between 50 and 999 pounds")
	}
	rec.WeightLbs = lbs
	return nil
}

func (v *Validator) eyeColor(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	eye := strings.ToUpper(strings.TrimSpace(in.EyeColor))
	if !v.tables.ValidEyeColor(eye) {
		return dErrors.NewField("eye_color", "is not a recognized eye color code")
	}
	rec.EyeColor = eye
	return nil
}

func (v *Validator) hairColor(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	hair := strings.ToUpper(strings.TrimSpace(in.HairColor))
	if hair == "" {
		rec.HairColor = codes.HairUnknown
		return nil
	}
	if !v.tables.ValidHairColor(hair) {
		return dErrors.NewField("hair_color", "is not a recognized hair color code")
	}
	rec.HairColor = hair
	return nil
}

func (v *Validator) birthDate(ctx context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	d, err := parseDate("birth_date", in.BirthDate)
	if err != nil {
		return err
	}
	if d.After(requestcontext.Now(ctx)) {
		return dErrors.NewField("birth_date", "cannot be in the future")
	}
	rec.BirthDate = d
	return nil
}

func (v *Validator) issueDate(ctx context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	d, err := parseDate("issue_date", in.IssueDate)
	if err != nil {
		return err
	}
	if d.After(requestcontext.Now(ctx)) {
		return dErrors.NewField("issue_date", "cannot be in the future")
	}
	rec.IssueDate = d
	return nil
}

// expiryDate must run after issueDate: the strictly-after check reads the
// normalized issue date off the record.
func (v *Validator) expiryDate(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	d, err := parseDate("expiry_date", in.ExpiryDate)
	if err != nil {
		return err
	}
	if !d.After(rec.IssueDate) {
		return dErrors.NewField("expiry_date", "must be after the issue date")
	}
	rec.ExpiryDate = d
	return nil
}

func (v *Validator) discriminator(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	icn := nonAlnumRe.ReplaceAllString(strings.ToUpper(in.ICN), "")
	if len(icn) > 25 {
		return dErrors.NewField("icn", "must be 25 characters or less")
	}
	rec.Discriminator = icn
	return nil
}

func (v *Validator) auditField(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	dd := nonAlnumRe.ReplaceAllString(strings.ToUpper(in.DD), "")
	if len(dd) > 25 {
		return dErrors.NewField("dd", "must be 25 characters or less")
	}
	rec.AuditField = dd
	return nil
}

func (v *Validator) class(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	class := nonAlnumRe.ReplaceAllString(strings.ToUpper(in.DLClass), "")
	if class == "" {
		class = "D"
	}
	if len(class) > 2 {
		return dErrors.NewField("dl_class", "must be 1 or 2 characters")
	}
	rec.Class = class
	return nil
}

func (v *Validator) restrictions(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	val, err := normalizeCodeList("restrictions", in.Restrictions)
	if err != nil {
		return err
	}
	rec.Restrictions = val
	return nil
}

func (v *Validator) endorsements(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	val, err := normalizeCodeList("endorsements", in.Endorsements)
	if err != nil {
		return err
	}
	rec.Endorsements = val
	return nil
}

func (v *Validator) flags(_ context.Context, in *models.RawLicenseInput, rec *models.NormalizedLicenseRecord) error {
	donor, err := parseFlag("donor", in.Donor, false)
	if err != nil {
		return err
	}
	realID, err := parseFlag("is_real_id", in.IsRealID, true)
	if err != nil {
		return err
	}
	veteran, err := parseFlag("is_veteran", in.IsVeteran, false)
	if err != nil {
		return err
	}
	rec.Donor = donor
	rec.RealID = realID
	rec.Veteran = veteran
	return nil
}

// normalizeName uppercases, strips everything but letters, spaces, hyphens,
// periods, and apostrophes, and truncates to the 40-character element limit.
func normalizeName(field, raw string, required bool) (string, error) {
	name := nonNameRe.ReplaceAllString(strings.ToUpper(raw), "")
	name = strings.TrimSpace(name)
	if name == "" {
		if required {
			return "", dErrors.NewField(field, "must contain at least one letter")
		}
		return "", nil
	}
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name, nil
}

func normalizeAddress(field, raw string, required bool) (string, error) {
	addr := nonAddrRe.ReplaceAllString(strings.ToUpper(raw), "")
	addr = strings.Join(strings.Fields(addr), " ")
	if addr == "" {
		if required {
			return "", dErrors.NewField(field, "is required")
		}
		return "", nil
	}
	if len(addr) > maxAddrLength {
		addr = addr[:maxAddrLength]
	}
	return addr, nil
}

func normalizeCodeList(field, raw string) (string, error) {
	val := strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
	if val == "" {
		return "NONE", nil
	}
	if len(val) > 12 {
		return "", dErrors.NewField(field, "must be 12 characters or less")
	}
	for _, r := range val {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != ' ' {
			return "", dErrors.NewField(field, "may only contain letters, digits, and spaces")
		}
	}
	return val, nil
}

// parseHeight accepts plain total inches ("72") or feet-and-inches notation
// (`5'10"`), returning total inches.
func parseHeight(raw string) (int, error) {
	h := strings.TrimSpace(raw)
	if h == "" {
		return 0, dErrors.NewField("height_inches", "is required")
	}
	if m := feetInchesRe.FindStringSubmatch(h); m != nil {
		feet, _ := strconv.Atoi(m[1])
		inches, _ := strconv.Atoi(m[2])
		if inches > 11 {
			return 0, dErrors.NewField("height_inches", "inches part of feet'inches\" must be 0-11")
		}
		return feet*12 + inches, nil
	}
	if !govalidator.IsNumeric(h) {
		return 0, dErrors.NewField("height_inches", "must be total inches or feet'inches\" notation")
	}
	inches, err := strconv.Atoi(h)
	if err != nil {
		return 0, dErrors.NewField("height_inches", "must be total inches or feet'inches\" notation")
	}
	return inches, nil
}

// parseDate strips separators and parses an MMDDYYYY date in UTC. The year
// must fall in [1900, 2100] and the month/day must denote a real calendar day.
func parseDate(field, raw string) (time.Time, error) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) != 8 {
		return time.Time{}, dErrors.NewField(field, "must be an 8-digit MMDDYYYY date")
	}
	month, _ := strconv.Atoi(digits[0:2])
	day, _ := strconv.Atoi(digits[2:4])
	year, _ := strconv.Atoi(digits[4:8])
	if month < 1 || month > 12 {
		return time.Time{}, dErrors.NewField(field, "month must be between 01 and 12")
	}
	if year < minYear || year > maxYear {
		return time.Time{}, dErrors.NewField(field, "year must be between 1900 and 2100")
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 becomes Mar 1); reject that.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, dErrors.NewField(field, "is not a real calendar date")
	}
	return d, nil
}

func parseFlag(field, raw string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return def, nil
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	default:
		return false, dErrors.NewField(field, "must be one of Y, N, Yes, No, true, false")
	}
}
