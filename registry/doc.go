/*
Package registry holds the per-adapter index definitions and the property type codecs.

Index Registry:
Maps (model, property) to the declared type of every indexed property. It is built
from model descriptors and read on every write and query:

	reg := registry.NewIndexRegistry()
	reg.Register("User", []model.Property{
	    {Name: "email", Type: model.String, Index: true},
	})
	reg.RegisterForeignKey("Post", "userId") // always a Number index

	typ, ok := reg.Lookup("User", "email") // model.String, true

Type Registry:
Maps a property type to the codec that turns values into stored text and back.
String, Number, Boolean, Date (strfmt date-time) and JSON are registered by default;
custom types can be added during initialization:

	registry.RegisterType("Money", registry.Codec{
	    Encode: encodeMoney,
	    Decode: decodeMoney,
	})

Both registries are safe for concurrent reads. The index registry is owned by one
adapter; the type registry is process-wide and should be populated in init() functions.
*/
package registry
