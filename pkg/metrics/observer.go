package metrics

// Observer receives every record a Registry accepts. Implementations may
// forward to Prometheus or any other telemetry backend. The registry only
// ever stores successful invocations, so observers never see failed calls.
//
// Observers run synchronously on the recording goroutine and should return
// quickly.
type Observer interface {
	ObserveRequest(rec RequestRecord)
}

// NopObserver is the default Observer; it does nothing.
type NopObserver struct{}

var _ Observer = NopObserver{}

func (NopObserver) ObserveRequest(RequestRecord) {}
