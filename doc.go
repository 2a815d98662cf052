/*
Package kvbridge persists model records into a Redis-like key-value store.

Every model operation is translated into store commands on a fixed key layout:

	id:<model>                     counter allocating record ids
	<model>:<id>                   hash holding one record's fields
	i:<model>:<property>:<value>   set of <model>:<id> members, one per indexed value

Models are defined once at startup. Fields flagged as indexed get a set per value,
which All uses to answer equality queries with a set intersection instead of
enumerating the model's keys:

	store, _ := redis.Connect(ctx, redis.Options{Host: "localhost"})
	a := kvbridge.New(store)
	a.Define(model.Descriptor{
	    Name: "User",
	    Properties: []model.Property{{Name: "email", Index: true}},
	})

	id, err := a.Create(ctx, "User", model.Record{"email": "a@x.com"})
	users, err := a.All(ctx, "User", model.Query{
	    Where: model.FieldEquals{"email": model.Equals("a@x.com")},
	})

Index sets are only ever added to. UpdateAttributes and Destroy leave members
behind for previous values, so an index answer may name a record whose field has
since changed. A failed index batch after a successful record write is reported as
an IndexUpdateError and not rolled back.

Repository wraps the adapter for a struct type, mapping fields by json tag.

Backends live under kvstore: redis (go-redis), ddb (DynamoDB single-table) and
memory (tests).
*/
package kvbridge
