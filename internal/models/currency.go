package models

// Currency is a user-managed currency with a static exchange rate.
// Rate is the number of base-currency units equal to one unit of this currency;
// exactly one currency in a document has IsBase set.
type Currency struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
	IsBase bool    `json:"isBase"`
}

// FindBaseCurrency returns the base currency, falling back to the first currency
// when none is flagged. The boolean is false only for an empty list.
func FindBaseCurrency(currencies []Currency) (Currency, bool) {
	for _, c := range currencies {
		if c.IsBase {
			return c, true
		}
	}
	if len(currencies) > 0 {
		return currencies[0], true
	}
	return Currency{}, false
}
