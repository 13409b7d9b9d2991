package validation

// IsValidTaxID accepts a CPF (11 digits) or CNPJ (14 digits), punctuation allowed
func IsValidTaxID(value string) bool {
	digits := DigitsOnly(value)
	switch len(digits) {
	case 11:
		return IsValidCPF(digits)
	case 14:
		return IsValidCNPJ(digits)
	default:
		return false
	}
}

// IsValidCPF validates the two check digits of an 11 digit CPF
func IsValidCPF(value string) bool {
	d := toDigits(DigitsOnly(value))
	if len(d) != 11 || allEqual(d) {
		return false
	}
	for pos := 9; pos <= 10; pos++ {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += d[i] * (pos + 1 - i)
		}
		check := sum * 10 % 11
		if check == 10 {
			check = 0
		}
		if check != d[pos] {
			return false
		}
	}
	return true
}

// IsValidCNPJ validates the two check digits of a 14 digit CNPJ
func IsValidCNPJ(value string) bool {
	d := toDigits(DigitsOnly(value))
	if len(d) != 14 || allEqual(d) {
		return false
	}
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	for pos := 12; pos <= 13; pos++ {
		sum := 0
		w := weights[13-pos:]
		for i := 0; i < pos; i++ {
			sum += d[i] * w[i]
		}
		check := sum % 11
		if check < 2 {
			check = 0
		} else {
			check = 11 - check
		}
		if check != d[pos] {
			return false
		}
	}
	return true
}

func toDigits(s string) []int {
	out := make([]int, len(s))
	for i, r := range s {
		out[i] = int(r - '0')
	}
	return out
}

func allEqual(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}
