package i18n

// PluralRule maps a count to a plural form.
type PluralRule func(n int) string

// Plural forms used as the last key segment, e.g. "inbox.unread.one".
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

// OneOther is the rule for English and most western European languages.
func OneOther(n int) string {
	if n == 1 || n == -1 {
		return PluralOne
	}
	return PluralOther
}

// ZeroOne treats zero as singular (French, Portuguese).
func ZeroOne(n int) string {
	if n == 0 || n == 1 || n == -1 {
		return PluralOne
	}
	return PluralOther
}

// EastSlavic covers Russian and Ukrainian.
func EastSlavic(n int) string {
	n = abs(n)
	switch {
	case n%10 == 1 && n%100 != 11:
		return PluralOne
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return PluralFew
	default:
		return PluralMany
	}
}

// Polish differs from EastSlavic only for 1 and numbers ending in 1.
func Polish(n int) string {
	n = abs(n)
	switch {
	case n == 1:
		return PluralOne
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return PluralFew
	default:
		return PluralMany
	}
}

// Invariant has a single form (Japanese, Chinese, Korean).
func Invariant(int) string {
	return PluralOther
}

// RuleFor returns the built-in rule for a language, OneOther when unknown.
func RuleFor(lang string) PluralRule {
	switch base(lang) {
	case "fr", "pt":
		return ZeroOne
	case "ru", "uk", "be":
		return EastSlavic
	case "pl":
		return Polish
	case "ja", "zh", "ko", "vi", "th", "id":
		return Invariant
	default:
		return OneOther
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
