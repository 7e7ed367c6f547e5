package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country code are read as Indian first.
var supportedRegions = []string{
	"IN",
	"US",
}

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsedNumber) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return phone
}
