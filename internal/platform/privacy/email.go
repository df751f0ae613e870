package privacy

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RedactEmail keeps the first character of the local part and the full domain:
// "jane.doe@example.com" becomes "j***@example.com".
func RedactEmail(email string) string {
	local, domain, ok := splitEmail(email)
	if !ok {
		return "***"
	}
	if local == "" {
		return "***@" + domain
	}
	return local[:1] + "***@" + domain
}

// EmailDomain returns the registrable domain (eTLD+1) of the address, e.g.
// "mail.example.co.uk" yields "example.co.uk". Used as a low-cardinality
// log and metric attribute.
func EmailDomain(email string) string {
	_, domain, ok := splitEmail(email)
	if !ok || domain == "" {
		return "unknown"
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return "unknown"
	}
	return registrable
}

func splitEmail(email string) (local, domain string, ok bool) {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "", "", false
	}
	return email[:at], strings.ToLower(strings.TrimSuffix(email[at+1:], ".")), true
}
