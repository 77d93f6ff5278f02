package differ

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithIgnoredFields sets fields to ignore during comparison.
// Valid names are "name", "href", "category" and "price".
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithPriceDeltas enables numeric deltas on price changes.
func WithPriceDeltas(enabled bool) Option {
	return func(d *differ) {
		d.priceDeltas = enabled
	}
}
