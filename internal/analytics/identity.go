package analytics

import "strings"

// NormalizeName lowercases and collapses whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NormalizePhone keeps digits only.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, phone)
}

// IdentityKey stands in for a customer id: sales with equal keys belong to
// the same customer.
func IdentityKey(name, phone string) string {
	return NormalizeName(name) + ":" + NormalizePhone(phone)
}

// productKey groups line items across spelling variants of a product.
func productKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
