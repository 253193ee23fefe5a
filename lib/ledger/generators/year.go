package generators

import (
	"regexp"
	"strconv"
	"time"

	"github.com/accounter/ledgerhub.go/lib/ledger"
)

const MinYear = 2000

var yearPattern = regexp.MustCompile(`\b\d{4}\b`)

// ExtractYear reads the reporting year a yearly charge refers to from its
// description. The year has to be unambiguous and between MinYear and the
// current year.
func ExtractYear(description string, now time.Time) (int, *ledger.CommonError) {
	matches := yearPattern.FindAllString(description, -1)
	if len(matches) == 0 {
		return 0, ledger.NewCommonError("charge description %q does not contain a 4-digit year", description)
	}
	for _, match := range matches[1:] {
		if match != matches[0] {
			return 0, ledger.NewCommonError("charge description %q is ambiguous, it contains several years", description)
		}
	}
	year, err := strconv.Atoi(matches[0])
	if err != nil {
		return 0, ledger.NewCommonError("invalid year %q in charge description", matches[0])
	}
	if year < MinYear || year > now.Year() {
		return 0, ledger.NewCommonError("invalid year %d in charge description, expected a year between %d and %d", year, MinYear, now.Year())
	}
	return year, nil
}
