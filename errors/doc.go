/*
Package errors provides semantic error types for kvbridge.

Every adapter operation reports failures through one of these types so callers can
tell a failed primary write from a failed index update:

	var (
	    ErrConnection   = errors.New("store connection failed")
	    ErrWrite        = errors.New("store write failed")
	    ErrIndexUpdate  = errors.New("index update failed")
	    ErrRead         = errors.New("store read failed")
	    ErrNotFound     = errors.New("entity not found")
	    ErrInvalidInput = errors.New("invalid input")
	)

Usage:

	id, err := adapter.Create(ctx, "User", record)
	if err != nil {
	    if errors.IsIndexUpdateError(err) {
	        // The record was stored under id; only index lookups are affected.
	        log.Printf("record %d stored without index: %v", id, err)
	    } else {
	        return err
	    }
	}

Connection, write, index update and read errors wrap the store client's error, so
errors.As and errors.Is also reach the underlying cause. No error is retried or rolled
back by the adapter.
*/
package errors
