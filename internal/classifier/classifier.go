package classifier

import (
	"regexp"

	"statement-engine/internal/domain"
)

// Patterns for the known payment rails. Order matters: rules are not
// mutually exclusive, the first match wins.
var rules = []struct {
	pattern *regexp.Regexp
	method  domain.PaymentMethod
}{
	{regexp.MustCompile(`UPI/\d+`), domain.UPIPayment},
	{regexp.MustCompile(`NEFT_IN:\S+`), domain.NEFTPayment},
	{regexp.MustCompile(`ATM WDR \d+`), domain.ATMWithdrawal},
	{regexp.MustCompile(`IMPS-IN/\d+`), domain.IMPSPayment},
}

// Classify maps a raw remark string to a payment method. Unrecognized
// remarks classify as OtherPayment; there is no error case.
func Classify(remark string) domain.PaymentMethod {
	for _, rule := range rules {
		if rule.pattern.MatchString(remark) {
			return rule.method
		}
	}
	return domain.OtherPayment
}
