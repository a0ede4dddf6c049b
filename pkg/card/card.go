// Package card validates payment card details entered on booking forms.
//
// Only the last four digits and the cardholder name are ever persisted.
package card

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	dErrors "hotelchain/pkg/domain-errors"
)

// Brand is a supported card network.
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
)

var brandPatterns = []struct {
	brand Brand
	re    *regexp.Regexp
}{
	{BrandVisa, regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3})?$`)},
	{BrandMastercard, regexp.MustCompile(`^5[1-5][0-9]{14}$`)},
	{BrandAmex, regexp.MustCompile(`^3[47][0-9]{13}$`)},
	{BrandDiscover, regexp.MustCompile(`^6(?:011|5[0-9]{2})[0-9]{12}$`)},
}

var (
	digitsOnly     = regexp.MustCompile(`^[0-9]+$`)
	holderPattern  = regexp.MustCompile(`^[a-zA-Z\s\-\.']+$`)
	expiryPattern  = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	maxExpiryAhead = 10
)

// Details is the card data submitted with a payment form.
type Details struct {
	Holder string
	Number string
	Expiry string // MM/YY
	CVC    string
}

// Normalize strips spaces and dashes from a card number.
func Normalize(number string) string {
	r := strings.NewReplacer(" ", "", "-", "")
	return r.Replace(number)
}

// Luhn reports whether number passes the mod-10 checksum. Non-digit input fails.
func Luhn(number string) bool {
	if number == "" || !digitsOnly.MatchString(number) {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Detect returns the brand for a normalized number, or "" if unsupported.
func Detect(number string) Brand {
	for _, p := range brandPatterns {
		if p.re.MatchString(number) {
			return p.brand
		}
	}
	return ""
}

// LastFour returns the final four digits of a normalized number.
func LastFour(number string) string {
	n := Normalize(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

// Validate checks every field and returns one error per failing field, all
// coded CodeValidation. An empty slice means the card is acceptable.
func Validate(d Details, now time.Time) []error {
	var errs []error
	fail := func(msg string) {
		errs = append(errs, dErrors.New(dErrors.CodeValidation, msg))
	}

	holder := strings.TrimSpace(d.Holder)
	if len(holder) < 2 || !holderPattern.MatchString(holder) {
		fail("cardholder name must be at least 2 letters")
	}

	number := Normalize(d.Number)
	brand := Detect(number)
	switch {
	case !digitsOnly.MatchString(number) || len(number) < 13 || len(number) > 19:
		fail("card number must be 13 to 19 digits")
	case !Luhn(number):
		fail("card number is invalid")
	case brand == "":
		fail("card type is not supported")
	}

	if err := validateExpiry(strings.TrimSpace(d.Expiry), now); err != nil {
		errs = append(errs, err)
	}

	cvc := strings.TrimSpace(d.CVC)
	want := 3
	if brand == BrandAmex {
		want = 4
	}
	if len(cvc) != want || !digitsOnly.MatchString(cvc) {
		fail("CVC must be " + strconv.Itoa(want) + " digits")
	}
	return errs
}

func validateExpiry(expiry string, now time.Time) error {
	m := expiryPattern.FindStringSubmatch(expiry)
	if m == nil {
		return dErrors.New(dErrors.CodeValidation, "expiry must be MM/YY")
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000

	current := now.Year()*12 + int(now.Month())
	expires := year*12 + month
	if expires < current {
		return dErrors.New(dErrors.CodeValidation, "card has expired")
	}
	if year > now.Year()+maxExpiryAhead {
		return dErrors.New(dErrors.CodeValidation, "expiry is too far in the future")
	}
	return nil
}
