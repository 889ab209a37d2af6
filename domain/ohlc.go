package domain

// OHLC tracks the open, high, low, and close trade prices observed over
// the lifetime of a book. All four fields are unset until the first trade;
// they transition to set together on that first trade and open never
// changes again afterward.
type OHLC struct {
	Open, High, Low, Close     float64
	set                        bool
}

// Update folds the latest trade price into the running statistics.
func (o *OHLC) Update(price float64) {
	if !o.set {
		o.Open = price
		o.High = price
		o.Low = price
		o.set = true
	} else {
		if price > o.High {
			o.High = price
		}
		if price < o.Low {
			o.Low = price
		}
	}
	o.Close = price
}

// Values returns the four statistics as optional values: the boolean is
// false until the first trade has been recorded, in which case all four
// numbers are meaningless and must be reported as null at the wire
// boundary.
func (o *OHLC) Values() (open, high, low, close float64, ok bool) {
	return o.Open, o.High, o.Low, o.Close, o.set
}
