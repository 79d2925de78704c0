package recargo

// SumShiftTotals reduces any number of Totals field by field.
// The result does not depend on argument order.
func SumShiftTotals(totals ...Totals) Totals {
	var sum Totals
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum
}
