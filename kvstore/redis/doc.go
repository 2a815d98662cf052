/*
Package redis implements kvstore.Store with github.com/redis/go-redis/v9.

Every Store method maps to exactly one Redis command, and Exec maps to one MULTI/EXEC
transaction, so data written through kvbridge is readable by any other client that
uses the same key layout:

	id:<model>                      INCR counter
	<model>:<id>                    HSET record hash
	i:<model>:<property>:<value>    SADD index set of <model>:<id>

Connect pings the server and reports an unreachable server as errors.ConnectionError:

	store, err := redis.Connect(ctx, redis.Options{Host: "localhost", Port: 6379})

An existing client (including cluster and sentinel clients) can be wrapped with New.
*/
package redis
