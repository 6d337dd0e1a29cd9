// Package money formats whole-yuan amounts the way the route report
// needs them: "¥2,480" with thousands separators, grounded on the
// currency.Unit usage in the teacher's hotels package.
package money

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CNY is the only currency this engine prices routes in.
var CNY = currency.MustParseISO("CNY")

var printer = message.NewPrinter(language.SimplifiedChinese)

// FormatCNY renders a whole-yuan amount with a ¥ prefix and
// thousands separators, e.g. FormatCNY(2480) == "¥2,480".
func FormatCNY(amount int) string {
	return "¥" + printer.Sprintf("%d", amount)
}
