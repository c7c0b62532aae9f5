package metrics

// RequestRecord captures one successfully completed invocation routed through
// an interception proxy. Records are plain values: once constructed they are
// never mutated, and the registry keeps them for its whole lifetime.
//
// APIName identifies the call site as "<TargetType>::<Method>". It is unique
// per method signature, not per target instance, so two proxies around
// distinct instances of the same type aggregate under the same key.
type RequestRecord struct {
	APIName        string `json:"api_name"`
	StartTimestamp int64  `json:"start_timestamp"` // wall clock, ms since epoch; for log correlation only
	ResponseTimeMs int64  `json:"response_time_ms"`
}
