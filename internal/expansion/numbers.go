package expansion

const maxSpelledNumber = 999_999

var (
	ones = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tens = []string{
		"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
	}
)

// NumberWords spells out n (0..999999) as separate English words:
// 25 → ["twenty", "five"], 1200 → ["one", "thousand", "two", "hundred"].
// Values outside the range return nil.
func NumberWords(n int) []string {
	if n < 0 || n > maxSpelledNumber {
		return nil
	}
	if n == 0 {
		return []string{"zero"}
	}
	var words []string
	if n >= 1000 {
		words = append(words, belowThousand(n/1000)...)
		words = append(words, "thousand")
		n %= 1000
	}
	if n > 0 {
		words = append(words, belowThousand(n)...)
	}
	return words
}

func belowThousand(n int) []string {
	var words []string
	if n >= 100 {
		words = append(words, ones[n/100], "hundred")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		words = append(words, ones[n])
	default:
		words = append(words, tens[n/10])
		if n%10 != 0 {
			words = append(words, ones[n%10])
		}
	}
	return words
}
