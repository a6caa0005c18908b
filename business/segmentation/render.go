package segmentation

import (
	"fmt"
	"strconv"
	"strings"

	"customerSegmentation/domain"
)

const (
	noPricingLine = "No pricing recommendation available for this segment."
	closingLine   = "Analysis complete. Use this insight for campaign personalization or pricing strategy."
)

// RenderReport formats a prediction the way the customer form shows it.
// An absent price record is rendered as a notice, never as a zero price.
func RenderReport(in domain.CustomerInput, pred domain.Prediction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Predicted Segment: %s\n\n", pred.SegmentLabel)

	b.WriteString("Price Optimization\n")
	if rec := pred.Pricing; rec != nil {
		fmt.Fprintf(&b, "- Current Avg Price: $%.2f\n", rec.CurrentPrice)
		fmt.Fprintf(&b, "- Optimal Price: $%.2f\n", rec.OptimalPrice)
		fmt.Fprintf(&b, "- Recommended Change: %+.1f%%\n", rec.PriceChangePct)
		fmt.Fprintf(&b, "- Price Elasticity: %s\n", strconv.FormatFloat(rec.Elasticity, 'f', -1, 64))
	} else {
		b.WriteString("- " + noPricingLine + "\n")
	}

	b.WriteString("\nMarketing Strategy\n")
	category := in.PreferredCategory
	if category == "" {
		category = pred.PreferredCategory
	}
	fmt.Fprintf(&b, "- Top Category: %s\n", category)
	fmt.Fprintf(&b, "- Strategy: %s\n", pred.StrategyText)

	b.WriteString("\n---\n")
	b.WriteString(closingLine + "\n")
	return b.String()
}
