/*
Package model defines the data structures shared by the adapter, the registry and
the stores.

Key Types:

Descriptor:
A model name plus its ordered property definitions. Properties flagged Index get a
secondary index set per distinct value:

	users := model.Descriptor{
	    Name: "User",
	    Properties: []model.Property{
	        {Name: "email", Type: model.String, Index: true},
	        {Name: "age", Type: model.Number},
	        {Name: "joined", Type: model.Date},
	    },
	}

Record:
A flat field -> scalar map. Every stored record carries an int64 "id".

Filter:
The where clause of a query, chosen once when the query is built:

	// all users with a given email, answered from the index set
	q := model.Query{Where: model.FieldEquals{"email": model.Equals("a@x.com")}}

	// pattern match, evaluated against the stored text
	q = model.Query{Where: model.FieldEquals{"email": model.Matches(regexp.MustCompile(`@x\.com$`))}}

	// arbitrary predicate over decoded records
	q = model.Query{Where: model.Predicate(func(r model.Record) bool { return r["age"] == int64(30) })}
*/
package model
