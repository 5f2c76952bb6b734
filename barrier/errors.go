package barrier

import "errors"

// ErrAlreadyShutdown is returned by Spawn, Cancel, and Done when the
// barrier has already reached zero workers or been cancelled. Wait never
// returns it: a Wait call that observes either condition resolves
// normally instead, reporting WaitResult.Cancelled accordingly.
var ErrAlreadyShutdown = errors.New("barrier: already shutdown")
