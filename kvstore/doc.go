/*
Package kvstore defines the key-value command contract used by kvbridge.

The Store interface is the subset of Redis the adapter needs:

	type Store interface {
	    Incr(ctx context.Context, key string) (int64, error)
	    HSet(ctx context.Context, key string, fields map[string]string) error
	    HGetAll(ctx context.Context, key string) (map[string]string, error)
	    Exists(ctx context.Context, key string) (bool, error)
	    Del(ctx context.Context, key string) error
	    SMembers(ctx context.Context, key string) ([]string, error)
	    SInter(ctx context.Context, keys ...string) ([]string, error)
	    Keys(ctx context.Context, pattern string) ([]string, error)
	    Exec(ctx context.Context, cmds []Command) ([]Reply, error)
	    Close() error
	}

Exec runs a batch of SADD, DEL or HGETALL commands atomically, the way MULTI/EXEC does.

Implementations:
  - redis: go-redis client, the reference backend
  - ddb: DynamoDB single-table emulation of the same commands
  - memory: in-process store with fault injection for testing

Stores never retry; every error is returned to the caller as-is.
*/
package kvstore
