/*
Package schema reads model definitions from an OpenAPI document.

Models are the object schemas under components.schemas. Property types map to
kvbridge property types, and two vendor extensions drive indexing:

	components:
	  schemas:
	    User:
	      type: object
	      properties:
	        email:
	          type: string
	          x-kv-index: true
	        age:
	          type: integer
	        joinedAt:
	          type: string
	          format: date-time
	    Comment:
	      type: object
	      x-kv-foreign-keys: [userId]
	      properties:
	        body:
	          type: string

string is String (Date with format date-time or date), integer and number are
Number, boolean is Boolean, object and array are JSON. Foreign keys are indexed as
Number whether or not they are listed as properties.
*/
package schema
