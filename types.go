package dynaprop

// UnknownPolicy controls how names outside the declared shape are handled
// when an instance is built from bulk values. Mutation through Set is
// always strict.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown names with an error.
	UnknownStrip                            // Drop unknown names.
	UnknownPassthrough                      // Keep unknown names in the store's extras.
)

// NumberMode dictates how numbers are interpreted.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number until the declared kind is known.
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys and NaN handling.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate input keys).
	AllowNaN       bool     // Allow NaN/±Inf in float-typed leaves.
}

// ParseOpt bundles parsing options. Later options win when several are
// passed.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	FailFast   bool
}

func mergeParseOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

// Policy bundles construction-time behavior toggles.
type Policy struct {
	OnUnknown  UnknownPolicy
	Strictness Strictness
}
