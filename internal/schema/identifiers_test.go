package schema

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

var skuPattern = regexp.MustCompile(`^OC-[A-Z0-9-]+-\d{3}$`)

func TestGenerateSKU(t *testing.T) {
	tests := []struct {
		name  string
		input string
		index int
		want  string
	}{
		{"simple name", "Test Cake", 0, "OC-TEST-CAKE-001"},
		{"dash runs collapse", "Test---Cake", 0, "OC-TEST-CAKE-001"},
		{"truncated after sanitising", "Kyiv's Best Cake!", 0, "OC-KYIV-S-BEST-CAK-001"},
		{"sequence follows index", "Test Cake", 5, "OC-TEST-CAKE-006"},
		{"three digit sequence", "Test Cake", 99, "OC-TEST-CAKE-100"},
		{"last three digit sequence", "Test Cake", MaxSKUIndex, "OC-TEST-CAKE-999"},
		{"negative index clamps", "Test Cake", -7, "OC-TEST-CAKE-001"},
		{"empty name", "", 0, "OC-PRODUCT-001"},
		{"symbols only", "!!! ???", 2, "OC-PRODUCT-003"},
		{"cyrillic only", "Медовик", 0, "OC-PRODUCT-001"},
		{"lowercase", "honey cake", 0, "OC-HONEY-CAKE-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSKU(tt.input, tt.index))
		})
	}
}

// Feature: structured-data, Property 1: SKUs follow the OC-NAME-SEQ format
func TestProperty_SKUFormat(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sku matches pattern and carries index+1 as its sequence", prop.ForAll(
		func(name string, index int) bool {
			sku := GenerateSKU(name, index)
			if !skuPattern.MatchString(sku) {
				t.Logf("FAIL: %q does not match pattern", sku)
				return false
			}
			if !strings.HasSuffix(sku, fmt.Sprintf("-%03d", index+1)) {
				t.Logf("FAIL: %q has wrong sequence for index %d", sku, index)
				return false
			}
			return len(sku) <= MaxSKULength
		},
		gen.RegexMatch(`[A-Za-z0-9][A-Za-z0-9 '!&-]{0,40}`),
		gen.IntRange(0, MaxSKUIndex),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: structured-data, Property 2: Negative indexes clamp to sequence 001
func TestProperty_NegativeIndexClamps(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("negative index yields sequence 001", prop.ForAll(
		func(name string, index int) bool {
			return strings.HasSuffix(GenerateSKU(name, index), "-001")
		},
		gen.AlphaString(),
		gen.IntRange(-10000, -1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: structured-data, Property 3: Names without alphanumerics fall back to PRODUCT
func TestProperty_DegenerateNamesFallBack(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all-symbol names produce the PRODUCT body", prop.ForAll(
		func(name string, index int) bool {
			sku := GenerateSKU(name, index)
			return sku == fmt.Sprintf("OC-%s-%03d", FallbackIdentifier, index+1)
		},
		gen.RegexMatch(`[ !@#$%^&*()_+=.,;:'"?/-]{0,20}`),
		gen.IntRange(0, MaxSKUIndex),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: structured-data, Property 4: Different products get different MPNs
func TestProperty_MPNDistinguishesProducts(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("distinct cleaned name or price gives distinct MPN", prop.ForAll(
		func(nameA, nameB string, priceA, priceB float64) bool {
			same := mpnBody(nameA) == mpnBody(nameB) && FormatPrice(priceA) == FormatPrice(priceB)

			return (GenerateMPN(nameA, priceA) == GenerateMPN(nameB, priceB)) == same
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{1,20}`),
		gen.RegexMatch(`[A-Za-z0-9 ]{1,20}`),
		gen.OneConstOf(12.5, 25.0, 35.0, 40.0),
		gen.OneConstOf(12.5, 25.0, 35.0, 40.0),
	))

	properties.Property("mpn length stays within bounds", prop.ForAll(
		func(name string, price float64) bool {
			n := len(GenerateMPN(name, price))
			return n >= MinMPNLength && n <= MaxMPNLength
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{0,200}`),
		gen.Float64Range(0.01, 9999.99),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func mpnBody(name string) string {
	if cleaned := nonAlphanumeric.ReplaceAllString(strings.ToUpper(name), ""); cleaned != "" {
		return cleaned
	}
	return FallbackIdentifier
}

func TestGenerateMPN(t *testing.T) {
	assert.Equal(t, "OCTESTHONEYCAKE-35", GenerateMPN("Test Honey Cake", 35))
	assert.Equal(t, "OCTESTHONEYCAKE-35.5", GenerateMPN("Test Honey Cake", 35.5))
	assert.Equal(t, "OCPRODUCT-25", GenerateMPN("???", 25))

	long := strings.Repeat("Napoleon ", 20)
	a := GenerateMPN(long+"A", 30)
	b := GenerateMPN(long+"B", 30)
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), MaxMPNLength)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "kyiv-s-best-cake", Slugify("Kyiv's Best Cake!"))
	assert.Equal(t, "honey-cake", Slugify("  Honey   Cake  "))
	assert.Equal(t, "", Slugify("!!!"))
}
