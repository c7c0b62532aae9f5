// Package proxy wraps arbitrary Go values behind a dynamic dispatch surface
// that times every method call and reports it to a metrics.Registry.
//
// Go reflection can invoke methods dynamically but cannot fabricate a new
// type that satisfies an arbitrary interface at runtime, so the proxy exposes
// a uniform entry point instead:
//
//	reg := metrics.NewRegistry()
//	factory := proxy.NewFactory(reg)
//	p, err := factory.Wrap(store)
//	out, err := p.Invoke("GetTask", ctx, id)
//
// Call sites that want their interface back write a thin typed facade whose
// methods forward through Invoke; that facade is exactly what build-time code
// generation would emit per interface.
//
// The proxy is a strict pass-through: arguments and results are never
// altered, errors returned by the target are handed back identical, and
// panics propagate with their original value. Timing data is recorded only
// for calls that complete without error.
package proxy

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"metrics-proxy/pkg/logging"
	"metrics-proxy/pkg/metrics"
)

// proxyCounter hands out process-unique proxy IDs for log correlation.
var proxyCounter int64

func nextProxyID() int64 {
	return atomic.AddInt64(&proxyCounter, 1)
}

// Factory builds interception proxies bound to one metrics registry. It
// performs no timing itself and never writes to the registry.
type Factory struct {
	registry *metrics.Registry
	logger   logging.Logger
}

// Option is a functional option for configuring a Factory.
type Option func(*Factory)

// WithLogger attaches a logger used at proxy creation time only; the
// invocation path never logs. Default is the no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory returns a factory whose proxies record into registry. A nil
// registry gets a private one, reachable through Registry().
func NewFactory(registry *metrics.Registry, opts ...Option) *Factory {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	f := &Factory{
		registry: registry,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Registry returns the registry this factory's proxies record into.
func (f *Factory) Registry() *metrics.Registry {
	return f.registry
}

// Wrap builds a proxy around target. The target's capability set is its
// exported method set, discovered here once; a nil target or a type without
// exported methods yields ErrUnsupportedTarget and leaves the registry
// untouched.
func (f *Factory) Wrap(target any) (*Proxy, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: target is nil", ErrUnsupportedTarget)
	}

	v := reflect.ValueOf(target)
	t := v.Type()
	if t.NumMethod() == 0 {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}

	methods := make(map[string]reflect.Value, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		methods[t.Method(i).Name] = v.Method(i)
	}

	p := &Proxy{
		id:      nextProxyID(),
		methods: methods,
		ic: &interceptor{
			typeName: targetTypeName(t),
			registry: f.registry,
		},
	}

	f.logger.Debug("created interception proxy",
		"proxy_id", p.id,
		"target", p.ic.typeName,
		"methods", len(methods),
	)
	return p, nil
}

// Proxy exposes a wrapped target through the uniform Invoke entry point.
// Proxies are immutable after creation and safe for concurrent use.
type Proxy struct {
	id      int64
	methods map[string]reflect.Value // receiver-bound, resolved at creation
	ic      *interceptor
}

// APIName returns the registry key used for the given method, whether or not
// the method exists on the target.
func (p *Proxy) APIName(method string) string {
	return p.ic.typeName + "::" + method
}

// Invoke calls the named method on the wrapped target with args passed
// through unchanged.
//
// If the method's final result is a declared error, that slot is split off:
// Invoke returns the remaining results and the error value exactly as the
// target produced it. Methods without an error result return all their
// results and a nil error. Arguments must be assignable to the parameter
// types; nothing is converted.
//
// Dispatch failures (ErrUnknownMethod, ErrArgumentCount, ErrArgumentType)
// are detected before the target is touched and never produce a record, and
// neither do invocations that end in a non-nil error or a panic.
func (p *Proxy) Invoke(method string, args ...any) ([]any, error) {
	m, ok := p.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, p.APIName(method))
	}

	in, err := buildArgs(m.Type(), args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.APIName(method), err)
	}

	results, callErr := p.ic.call(method, m, in)
	return valuesToAny(results), callErr
}

// interceptor is the per-proxy unit that times a call, forwards it, and
// reports successful completions. Its only state is fixed at construction.
type interceptor struct {
	typeName string
	registry *metrics.Registry
}

// call forwards one invocation. start is read once: its monotonic reading
// drives the duration, its wall-clock reading becomes the record timestamp.
// A panic in the target propagates before any record is written.
func (ic *interceptor) call(name string, method reflect.Value, in []reflect.Value) ([]reflect.Value, error) {
	start := time.Now()
	results := method.Call(in)
	elapsed := time.Since(start)

	results, callErr := splitError(method.Type(), results)
	if callErr != nil {
		return results, callErr
	}

	apiName := ic.typeName + "::" + name
	ic.registry.Record(apiName, metrics.RequestRecord{
		APIName:        apiName,
		StartTimestamp: start.UnixMilli(),
		ResponseTimeMs: elapsed.Milliseconds(),
	})
	return results, nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// splitError strips a trailing declared-error result off and returns it
// separately. Only a method whose last return type is exactly error takes
// part; a concrete error-ish last return stays in the result list.
func splitError(mt reflect.Type, results []reflect.Value) ([]reflect.Value, error) {
	n := mt.NumOut()
	if n == 0 || mt.Out(n-1) != errType {
		return results, nil
	}

	last := results[n-1]
	rest := results[:n-1]
	if last.IsNil() {
		return rest, nil
	}
	return rest, last.Interface().(error)
}

// buildArgs maps caller arguments onto the method's parameter types,
// honoring variadic arity. A nil argument becomes the zero value of a
// nilable parameter type.
func buildArgs(mt reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := mt.NumIn()
	if mt.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("%w: got %d, want at least %d", ErrArgumentCount, len(args), numIn-1)
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrArgumentCount, len(args), numIn)
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		if mt.IsVariadic() && i >= numIn-1 {
			paramType = mt.In(numIn - 1).Elem()
		} else {
			paramType = mt.In(i)
		}

		v, err := argValue(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

func argValue(arg any, paramType reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch paramType.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(paramType), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: nil for %s", ErrArgumentType, paramType)
		}
	}

	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(paramType) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrArgumentType, v.Type(), paramType)
	}
	return v, nil
}

func valuesToAny(results []reflect.Value) []any {
	if len(results) == 0 {
		return nil
	}
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = r.Interface()
	}
	return out
}

// targetTypeName yields the bare type name used in API keys, dereferencing
// pointers so *Store and Store aggregate under the same identity. Unnamed
// types fall back to their full type string.
func targetTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
