package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CardSuite struct {
	suite.Suite
	now time.Time
}

func TestCardSuite(t *testing.T) {
	suite.Run(t, new(CardSuite))
}

func (s *CardSuite) SetupTest() {
	s.now = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
}

func (s *CardSuite) valid() Details {
	return Details{
		Holder: "Jane O'Neil",
		Number: "4111 1111 1111 1111",
		Expiry: "12/28",
		CVC:    "123",
	}
}

func (s *CardSuite) TestLuhn() {
	s.True(Luhn("4111111111111111"))
	s.True(Luhn("378282246310005"))
	s.False(Luhn("4111111111111112"))
	s.False(Luhn(""))
	s.False(Luhn("4111-1111"))
}

func (s *CardSuite) TestDetect() {
	s.Equal(BrandVisa, Detect("4111111111111111"))
	s.Equal(BrandVisa, Detect("4222222222222"))
	s.Equal(BrandMastercard, Detect("5555555555554444"))
	s.Equal(BrandAmex, Detect("378282246310005"))
	s.Equal(BrandDiscover, Detect("6011111111111117"))
	s.Equal(Brand(""), Detect("3530111333300000"))
}

func (s *CardSuite) TestValidate() {
	s.Run("accepts a valid visa with separators", func() {
		s.Empty(Validate(s.valid(), s.now))
	})

	s.Run("amex requires a four digit CVC", func() {
		d := s.valid()
		d.Number = "3782-822463-10005"
		s.Len(Validate(d, s.now), 1)

		d.CVC = "1234"
		s.Empty(Validate(d, s.now))
	})

	s.Run("rejects checksum failure", func() {
		d := s.valid()
		d.Number = "4111111111111112"
		errs := Validate(d, s.now)
		s.Require().Len(errs, 1)
		s.Contains(errs[0].Error(), "invalid")
	})

	s.Run("rejects unsupported brand that passes Luhn", func() {
		d := s.valid()
		d.Number = "3530111333300000"
		errs := Validate(d, s.now)
		s.Require().Len(errs, 1)
		s.Contains(errs[0].Error(), "not supported")
	})

	s.Run("rejects short holder and digits in holder", func() {
		d := s.valid()
		d.Holder = "J"
		s.Len(Validate(d, s.now), 1)
		d.Holder = "Jane 2nd"
		s.Len(Validate(d, s.now), 1)
	})

	s.Run("expiry boundaries", func() {
		d := s.valid()
		d.Expiry = "03/26"
		s.Empty(Validate(d, s.now), "current month is still valid")

		d.Expiry = "02/26"
		s.Len(Validate(d, s.now), 1)

		d.Expiry = "12/36"
		s.Empty(Validate(d, s.now))

		d.Expiry = "01/37"
		s.Len(Validate(d, s.now), 1)

		d.Expiry = "13/27"
		s.Len(Validate(d, s.now), 1)
	})

	s.Run("collects every failing field", func() {
		errs := Validate(Details{}, s.now)
		s.Len(errs, 4)
	})
}

func TestLastFour(t *testing.T) {
	require.Equal(t, "1111", LastFour("4111 1111 1111 1111"))
	assert.Equal(t, "12", LastFour("12"))
}
