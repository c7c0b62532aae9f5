package proxy

import "errors"

var (
	// ErrUnsupportedTarget is returned by Factory.Wrap when the target is nil
	// or its type exposes no exported methods to intercept.
	ErrUnsupportedTarget = errors.New("target exposes no methods to proxy")

	// ErrUnknownMethod is returned by Proxy.Invoke for a method name that is
	// not part of the wrapped target's method set.
	ErrUnknownMethod = errors.New("no such method on proxied target")

	// ErrArgumentCount is returned by Proxy.Invoke when the number of
	// arguments does not match the method signature.
	ErrArgumentCount = errors.New("argument count does not match method signature")

	// ErrArgumentType is returned by Proxy.Invoke when an argument is not
	// assignable to the corresponding parameter type. No conversions are
	// attempted.
	ErrArgumentType = errors.New("argument type does not match method signature")
)
