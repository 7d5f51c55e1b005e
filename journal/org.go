package journal

import (
	"fmt"
	"strings"
)

// FormatTradeOrg renders one trade as an Org-mode heading with a property
// drawer and empty narrative sections for notes.
func FormatTradeOrg(t Trade) string {
	var b strings.Builder

	fmt.Fprintf(&b, "** Trade: %s %s %s (%s)\n", strings.ToUpper(string(t.Action)), t.Code, t.Name, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":DATE: %s %s\n", t.Date, t.Time)
	fmt.Fprintf(&b, ":CODE: %s\n", t.Code)
	fmt.Fprintf(&b, ":NAME: %s\n", t.Name)
	fmt.Fprintf(&b, ":ACTION: %s\n", t.Action)
	fmt.Fprintf(&b, ":SHARES: %d\n", t.Shares)
	fmt.Fprintf(&b, ":PRICE: %s\n", t.Price.StringFixed(3))
	fmt.Fprintf(&b, ":AMOUNT: %s\n", t.Amount.StringFixed(2))
	fmt.Fprintf(&b, ":COMMISSION: %s\n", t.Commission.StringFixed(2))
	fmt.Fprintf(&b, ":STAMP_DUTY: %s\n", t.StampDuty.StringFixed(2))
	if !t.Action.IsAcquisition() {
		fmt.Fprintf(&b, ":REALIZED_PL: %s\n", t.NetProfit.StringFixed(2))
	}
	fmt.Fprintf(&b, ":REASON: %s\n", t.Reason)
	b.WriteString(":END:\n\n")

	b.WriteString("*** Thesis\n\n")
	b.WriteString("*** Execution\n\n")
	b.WriteString("*** Review\n\n")
	return b.String()
}

// FormatTradesOrg renders trades under a single top-level heading.
func FormatTradesOrg(title string, trades []Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* %s\n\n", title)
	for _, t := range trades {
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
