package schema

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// FallbackIdentifier replaces a name with no usable characters
	FallbackIdentifier = "PRODUCT"

	// MPN length bounds accepted by Merchant Center
	MinMPNLength = 3
	MaxMPNLength = 70

	// MaxSKULength is the longest SKU Merchant Center accepts
	MaxSKULength = 50

	// MaxSKUIndex is the largest index whose sequence number still fits
	// the three digit SKU suffix
	MaxSKUIndex = 998

	mpnHashLength = 8
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)
	dashRuns        = regexp.MustCompile(`-+`)
	slugInvalid     = regexp.MustCompile(`[^a-z0-9]+`)
)

// GenerateSKU builds an SKU with the default prefix, slug length and
// sequence width. It never fails: degenerate names map to PRODUCT and
// negative indexes to sequence 1.
func GenerateSKU(name string, index int) string {
	s := DefaultSettings()
	return generateSKU(s.SKUPrefix, s.MaxSlugLength, s.SequenceWidth, name, index)
}

// GenerateMPN builds a manufacturer part number from the product name and
// its resolved price using the default prefix.
func GenerateMPN(name string, price float64) string {
	return generateMPN(DefaultSettings().SKUPrefix, name, price)
}

func generateSKU(prefix string, maxSlug, width int, name string, index int) string {
	seq := index + 1
	if seq < 1 {
		seq = 1
	}

	return fmt.Sprintf("%s-%s-%0*d", prefix, skuSlug(name, maxSlug), width, seq)
}

// skuSlug uppercases the name, turns every run of non [A-Z0-9] characters
// into a single dash and caps it at maxLen.
func skuSlug(name string, maxLen int) string {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToUpper(name), "-")
	cleaned = strings.Trim(dashRuns.ReplaceAllString(cleaned, "-"), "-")

	if maxLen > 0 && len(cleaned) > maxLen {
		cleaned = strings.TrimRight(cleaned[:maxLen], "-")
	}

	if cleaned == "" {
		return FallbackIdentifier
	}

	return cleaned
}

func generateMPN(prefix, name string, price float64) string {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToUpper(name), "")
	if cleaned == "" {
		cleaned = FallbackIdentifier
	}

	priceStr := FormatPrice(price)
	budget := MaxMPNLength - len(prefix) - 1 - len(priceStr)

	// Over-long names keep a prefix of the name plus a hash of all of it,
	// so distinct names still give distinct MPNs.
	if len(cleaned) > budget {
		h := fnv.New32a()
		h.Write([]byte(cleaned))
		sum := fmt.Sprintf("%0*X", mpnHashLength, h.Sum32())

		keep := budget - mpnHashLength
		if keep < 0 {
			keep = 0
		}
		cleaned = cleaned[:keep] + sum
	}

	return prefix + cleaned + "-" + priceStr
}

// FormatPrice renders a price the way it appears in offers: no exponent,
// no trailing zeros.
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "0"
	}
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// Slugify turns a display name into a URL slug
func Slugify(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 100 {
		slug = strings.TrimRight(slug[:100], "-")
	}
	return slug
}
