package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	isoDate        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	sequenceNumber = regexp.MustCompile(`^\d{3}$`)
)

// Validator checks built documents against Merchant Center and Search
// Console field requirements. It reports problems and never repairs them.
type Validator struct {
	settings Settings
	logger   *zap.Logger
	now      func() time.Time
}

// NewValidator creates a Validator. A nil logger disables batch logging.
func NewValidator(settings Settings, logger *zap.Logger, opts ...Option) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := applyOptions(opts)
	return &Validator{
		settings: settings,
		logger:   logger,
		now:      o.now,
	}
}

// SchemaIssues lists the errors of one invalid schema in a catalog report
type SchemaIssues struct {
	Index  int      `json:"index"`
	SKU    string   `json:"sku"`
	Name   string   `json:"name"`
	Errors []string `json:"errors"`
}

// CatalogReport is the outcome of validating a whole catalog snapshot
type CatalogReport struct {
	Total      int              `json:"total"`
	Valid      int              `json:"valid"`
	Issues     []SchemaIssues   `json:"issues"`
	Uniqueness UniquenessResult `json:"uniqueness"`
}

// ValidateProductSchema runs every check on p and collects one message per
// failing check. A nil schema is reported rather than dereferenced.
func (v *Validator) ValidateProductSchema(p *Product) ValidationResult {
	if p == nil {
		return result([]string{"Product schema is required"})
	}

	var errs []string
	add := func(msg string) {
		if msg != "" {
			errs = append(errs, msg)
		}
	}

	add(checkLength("Product name", p.Name, MinNameLength, MaxNameLength))
	add(checkLength("Product description", p.Description, MinDescriptionLength, MaxDescriptionLength))
	add(v.checkImages(p.Image))

	if p.Offers == nil {
		add("Offers are required")
	} else {
		add(v.checkPrice(p.Offers.Price))
		add(v.checkCurrency(p.Offers.PriceCurrency))
		if strings.TrimSpace(p.Offers.Availability) == "" {
			add("Availability is required")
		}
		add(v.checkPriceValidUntil(p.Offers.PriceValidUntil))
	}

	for _, msg := range v.checkSKU(p.SKU) {
		add(msg)
	}
	add(checkMPN(p.MPN))

	if p.Brand == nil || strings.TrimSpace(p.Brand.Name) == "" {
		add("Brand is required")
	}

	if p.AggregateRating != nil {
		add(v.checkRatingValue(p.AggregateRating.RatingValue))
		add(checkReviewCount(p.AggregateRating.ReviewCount))
	}

	if p.Offers == nil && len(p.Review) == 0 && p.AggregateRating == nil {
		add("Product must include at least one of offers, review, or aggregateRating")
	}

	return result(errs)
}

// ValidateReviewSchema checks a single Review document
func (v *Validator) ValidateReviewSchema(r *Review) ValidationResult {
	if r == nil {
		return result([]string{"Review schema is required"})
	}

	var errs []string
	if r.Author == nil || strings.TrimSpace(r.Author.Name) == "" {
		errs = append(errs, "Review author is required")
	}
	if r.ReviewRating == nil || strings.TrimSpace(r.ReviewRating.RatingValue) == "" {
		errs = append(errs, "Review rating is required")
	} else if msg := v.checkRatingValue(r.ReviewRating.RatingValue); msg != "" {
		errs = append(errs, "Review "+strings.ToLower(msg[:1])+msg[1:])
	}
	if strings.TrimSpace(r.ReviewBody) == "" {
		errs = append(errs, "Review body is required")
	}
	switch {
	case r.DatePublished == "":
		errs = append(errs, "Review datePublished is required")
	case !validDate(r.DatePublished):
		errs = append(errs, "Review datePublished must be in YYYY-MM-DD format")
	}

	return result(errs)
}

// ValidateMPNUniqueness reports every MPN used by more than one schema,
// once each, in the order they were first duplicated.
func ValidateMPNUniqueness(schemas []Product) UniquenessResult {
	seen := make(map[string]int, len(schemas))
	duplicates := []string{}

	for _, p := range schemas {
		if p.MPN == "" {
			continue
		}
		seen[p.MPN]++
		if seen[p.MPN] == 2 {
			duplicates = append(duplicates, p.MPN)
		}
	}

	return UniquenessResult{
		IsValid:    len(duplicates) == 0,
		Duplicates: duplicates,
	}
}

// ValidateCatalog validates every schema and the MPN uniqueness of the set
func (v *Validator) ValidateCatalog(schemas []Product) CatalogReport {
	report := CatalogReport{
		Total:  len(schemas),
		Issues: []SchemaIssues{},
	}

	for i := range schemas {
		res := v.ValidateProductSchema(&schemas[i])
		if res.IsValid {
			report.Valid++
			continue
		}
		report.Issues = append(report.Issues, SchemaIssues{
			Index:  i,
			SKU:    schemas[i].SKU,
			Name:   schemas[i].Name,
			Errors: res.Errors,
		})
	}

	report.Uniqueness = ValidateMPNUniqueness(schemas)
	return report
}

// BatchValidateProductSchemas validates a catalog snapshot and returns the
// number of valid schemas. With logErrors set, every error list and the
// uniqueness result are logged.
func (v *Validator) BatchValidateProductSchemas(schemas []Product, logErrors bool) int {
	report := v.ValidateCatalog(schemas)
	if logErrors {
		v.LogCatalogReport(report)
	}
	return report.Valid
}

// LogCatalogReport logs every issue of report and its uniqueness result
func (v *Validator) LogCatalogReport(report CatalogReport) {
	for _, issue := range report.Issues {
		v.logger.Warn("Product schema failed validation",
			zap.Int("index", issue.Index),
			zap.String("sku", issue.SKU),
			zap.String("name", issue.Name),
			zap.Strings("errors", issue.Errors),
		)
	}

	if report.Uniqueness.IsValid {
		v.logger.Info("MPN uniqueness check passed", zap.Int("schemas", report.Total))
	} else {
		v.logger.Warn("Duplicate MPNs found", zap.Strings("duplicates", report.Uniqueness.Duplicates))
	}

	v.logger.Info("Product schema validation finished",
		zap.Int("total", report.Total),
		zap.Int("valid", report.Valid),
	)
}

func (v *Validator) checkImages(images []string) string {
	for _, img := range images {
		if strings.TrimSpace(img) != "" {
			return ""
		}
	}
	return "Product image is required"
}

func (v *Validator) checkPrice(price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return "Price is required"
	}

	value, err := strconv.ParseFloat(price, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return "Price must be a valid number"
	}
	if value <= 0 {
		return "Price must be greater than zero"
	}
	if value > v.settings.MaxPrice {
		return fmt.Sprintf("Price seems unusually high (>£%s)", groupThousands(v.settings.MaxPrice))
	}
	return ""
}

func (v *Validator) checkCurrency(currency string) string {
	if currency != v.settings.Currency {
		return fmt.Sprintf("Currency must be %s", v.settings.Currency)
	}
	return ""
}

func (v *Validator) checkPriceValidUntil(date string) string {
	if date == "" {
		return "priceValidUntil is required"
	}
	if !validDate(date) {
		return "priceValidUntil must be in YYYY-MM-DD format"
	}
	// Both sides are YYYY-MM-DD, so string order is date order.
	if date < v.now().UTC().Format(DateLayout) {
		return "priceValidUntil must be a future date"
	}
	return ""
}

func (v *Validator) checkSKU(sku string) []string {
	if sku == "" {
		return []string{"SKU is required"}
	}

	var errs []string
	prefix := v.settings.SKUPrefix + "-"
	if !strings.HasPrefix(sku, prefix) {
		errs = append(errs, fmt.Sprintf("SKU must start with %s", prefix))
	}

	segments := strings.Split(sku, "-")
	if len(segments) < 3 {
		errs = append(errs, "SKU must have at least 3 segments separated by dashes")
	}
	if !sequenceNumber.MatchString(segments[len(segments)-1]) {
		errs = append(errs, "SKU must end with a 3-digit sequence number")
	}
	if len(sku) > MaxSKULength {
		errs = append(errs, fmt.Sprintf("SKU must not exceed %d characters", MaxSKULength))
	}
	return errs
}

func checkMPN(mpn string) string {
	if mpn == "" {
		return "MPN is required"
	}
	if n := utf8.RuneCountInString(mpn); n < MinMPNLength || n > MaxMPNLength {
		return fmt.Sprintf("MPN must be between %d and %d characters", MinMPNLength, MaxMPNLength)
	}
	return ""
}

func (v *Validator) checkRatingValue(value string) string {
	bounds := v.settings.Rating
	rating, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(rating) || rating < bounds.Worst || rating > bounds.Best {
		return fmt.Sprintf("Rating value must be between %s and %s", formatBound(bounds.Worst), formatBound(bounds.Best))
	}
	return ""
}

func checkReviewCount(value string) string {
	count, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || count < 0 {
		return "Review count must be a non-negative integer"
	}
	return ""
}

func checkLength(field, value string, lo, hi int) string {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		return field + " is required"
	case n < lo:
		return fmt.Sprintf("%s must be at least %d characters", field, lo)
	case n > hi:
		return fmt.Sprintf("%s must not exceed %d characters", field, hi)
	}
	return ""
}

func validDate(s string) bool {
	if !isoDate.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func result(errs []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// groupThousands formats a whole amount with comma separators
func groupThousands(v float64) string {
	digits := strconv.FormatFloat(math.Trunc(v), 'f', 0, 64)
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
